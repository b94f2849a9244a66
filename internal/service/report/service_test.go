package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLedgerWorkbook(t *testing.T) {
	d := -0.333
	l := ledger.Ledger{
		RunID: "run-1",
		Rows: []ledger.Row{
			{EmployeeID: "37", DisplayName: "Alcalde, Eduardo Jorge", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ClockHours: 8, BookHours: 7.667, Discrepancy: &d},
			{EmployeeID: "67", Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), AbsenceHours: 8, AbsenceKind: absence.KindVacation, HasOddPunchCount: true},
		},
		Rollups: []ledger.Rollup{{EmployeeID: "37", DaysWorked: 1, TotalClockHours: 8}},
		Warnings: warning.List{
			{Code: warning.CodeMalformedRow, Artifact: "clock.txt", Line: 4, Message: "bad timestamp"},
		},
		Skipped: []ledger.SkippedArtifact{{Artifact: "2025-13.xlsx", Reason: "bad name"}},
	}

	data, err := NewReportService().LedgerWorkbook(l)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ledger", "Rollups", "Warnings", "Skipped"}, f.GetSheetList())

	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, []string{"37", "Alcalde, Eduardo Jorge", "2025-03-10", "8", "7.67", "0", "", "-0.33", "FALSE"}, rows[1])
	assert.Equal(t, "VACATION", rows[2][6])
	assert.Equal(t, "", rows[2][7])
	assert.Equal(t, "TRUE", rows[2][8])

	rows, err = f.GetRows("Warnings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"malformed_row", "clock.txt", "4", "bad timestamp"}, rows[1])

	rows, err = f.GetRows("Skipped")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-13.xlsx", "bad name"}, rows[1])
}

func TestLedgerWorkbook_Empty(t *testing.T) {
	data, err := NewReportService().LedgerWorkbook(ledger.Ledger{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rollups")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
