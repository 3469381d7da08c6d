package timeclock

import (
	"sort"
	"time"

	"github.com/fichajeapp/fichaje-backend/pkg/db/models"
)

// MonthlySummary aggregates worked hours for one calendar month.
type MonthlySummary struct {
	Month string  `json:"month"`
	Hours float64 `json:"hours"`
}

// MonthlyTotals buckets closed records by the month of their clock-in and sums
// the worked hours. Open records and non-positive durations are skipped. The
// result is ordered most recent month first.
func MonthlyTotals(recs []models.TimeRecord) []MonthlySummary {
	type bucket struct {
		anchor time.Time
		hours  float64
	}
	buckets := make(map[string]*bucket)

	for i := range recs {
		rec := &recs[i]
		d := rec.Duration()
		if d <= 0 {
			continue
		}
		in := rec.ClockIn.UTC()
		anchor := time.Date(in.Year(), in.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := anchor.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{anchor: anchor}
			buckets[key] = b
		}
		b.hours += d.Hours()
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].anchor.After(ordered[j].anchor)
	})

	out := make([]MonthlySummary, 0, len(ordered))
	for _, b := range ordered {
		out = append(out, MonthlySummary{
			Month: b.anchor.Format("January 2006"),
			Hours: b.hours,
		})
	}
	return out
}
