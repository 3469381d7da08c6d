package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	pkgerrors "github.com/fichajeapp/fichaje-backend/pkg/errors"
)

const (
	sheetName     = "Registros"
	openCellValue = "En curso"
	emptyNotes    = "-"
	timeLayout    = "02/01/2006 15:04"
)

var headerRow = []string{"Fecha de Entrada", "Fecha de Salida", "Duración", "Notas"}

// WriteRecords renders the records as a spreadsheet and streams it to w.
// Open records show "En curso" in place of clock-out and duration.
func WriteRecords(w io.Writer, recs []timeclock.RecordDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "drop default sheet")
	}

	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write header")
	}
	for i, rec := range recs {
		cell := fmt.Sprintf("A%d", i+2)
		row := recordRow(rec)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write row")
		}
	}

	if err := f.Write(w); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write workbook")
	}
	return nil
}

func recordRow(rec timeclock.RecordDTO) []any {
	clockOut := openCellValue
	duration := openCellValue
	if rec.ClockOut != nil {
		clockOut = rec.ClockOut.Format(timeLayout)
		duration = fmt.Sprintf("%.2f horas", rec.ClockOut.Sub(rec.ClockIn).Hours())
	}
	notes := emptyNotes
	if rec.Notes != nil && strings.TrimSpace(*rec.Notes) != "" {
		notes = *rec.Notes
	}
	return []any{
		rec.ClockIn.Format(timeLayout),
		clockOut,
		duration,
		notes,
	}
}

// FileName builds the download name for a user's export. An empty username
// falls back to a generic label.
func FileName(username string, at time.Time) string {
	name := strings.TrimSpace(username)
	if name == "" {
		name = "usuario"
	}
	return fmt.Sprintf("registros_%s_%s.xlsx", name, at.Format("2006-01-02"))
}
