package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
)

func TestWriteRecords(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)
	notes := "turno de mañana"
	recs := []timeclock.RecordDTO{
		{ClockIn: out.Add(time.Hour)}, // open record
		{ClockIn: in, ClockOut: &out, Notes: &notes},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, recs))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Registros"}, f.GetSheetList())

	rows, err := f.GetRows("Registros")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Fecha de Entrada", "Fecha de Salida", "Duración", "Notas"}, rows[0])

	assert.Equal(t, "En curso", rows[1][1])
	assert.Equal(t, "En curso", rows[1][2])
	assert.Equal(t, "-", rows[1][3])

	assert.Equal(t, "02/03/2026 09:00", rows[2][0])
	assert.Equal(t, "02/03/2026 17:30", rows[2][1])
	assert.Equal(t, "8.50 horas", rows[2][2])
	assert.Equal(t, "turno de mañana", rows[2][3])
}

func TestWriteRecordsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Registros")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "registros_mgarcia_2026-03-02.xlsx", FileName("mgarcia", at))
	assert.Equal(t, "registros_usuario_2026-03-02.xlsx", FileName("  ", at))
}
