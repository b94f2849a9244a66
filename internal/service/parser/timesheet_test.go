package parser

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes one sheet per entry; cells are keyed by Excel
// reference, e.g. "C11" is 0-based row 10 (day 1), column 2.
func buildWorkbook(t *testing.T, sheets map[string]map[string]any, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for ref, v := range sheets[name] {
			require.NoError(t, f.SetCellValue(name, ref, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestTimesheetMonth(t *testing.T) {
	cases := []struct {
		name  string
		ok    bool
		year  int
		month time.Month
	}{
		{"2025-03.xlsx", true, 2025, time.March},
		{"uploads/2024-12.XLS", true, 2024, time.December},
		{"2025-13.xlsx", false, 0, 0},
		{"2025-00.xlsx", false, 0, 0},
		{"marzo-2025.xlsx", false, 0, 0},
		{"2025-3.xlsx", false, 0, 0},
		{"2025-03.csv", false, 0, 0},
	}
	for _, tc := range cases {
		year, month, ok := TimesheetMonth(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.year, year, tc.name)
		assert.Equal(t, tc.month, month, tc.name)
	}
}

func TestTimesheetParser_Parse(t *testing.T) {
	data := buildWorkbook(t, map[string]map[string]any{
		"01 - Alcalde Eduardo": {
			"A1": "Planilla de horarios",
			// day 1: 09:00, 13:30
			"C11": 9, "D11": 0, "E11": 13, "F11": 30,
			// day 2: bad minute, then a half-empty pair
			"C12": 8, "D12": "xx", "E12": 17,
			// day 31 does not exist in April
			"C41": 9, "D41": 0,
		},
		"Sin Alias": {
			"G15": 7, "H15": 45,
		},
	}, []string{"01 - Alcalde Eduardo", "Sin Alias"})

	p := NewTimesheetParser(newTestResolver(t))
	punches, warnings, err := p.Parse(punch.Artifact{Name: "2025-04.xlsx", Data: data})
	require.NoError(t, err)

	require.Len(t, punches, 3)
	assert.Equal(t, punch.Punch{EmployeeID: "37", Timestamp: at("2025-04-01 09:00:00"), Source: punch.SourceBook}, punches[0])
	assert.Equal(t, at("2025-04-01 13:30:00"), punches[1].Timestamp)
	assert.Equal(t, punch.Punch{EmployeeID: "SIN ALIAS", Timestamp: at("2025-04-05 07:45:00"), Source: punch.SourceBook}, punches[2])

	assert.Equal(t, 1, warnings.Count(warning.CodeUnresolvedIdentity))
	assert.Equal(t, 3, warnings.Count(warning.CodeMalformedRow))
}

func TestTimesheetParser_InvalidFilename(t *testing.T) {
	p := NewTimesheetParser(newTestResolver(t))
	_, _, err := p.Parse(punch.Artifact{Name: "2025-13.xlsx", Data: []byte("irrelevant")})

	var fileErr *punch.InvalidFilenameError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "2025-13.xlsx", fileErr.Artifact)
}

func TestTimesheetParser_NoPunches(t *testing.T) {
	data := buildWorkbook(t, map[string]map[string]any{
		"Alcalde Eduardo": {"A1": "Planilla"},
	}, []string{"Alcalde Eduardo"})

	p := NewTimesheetParser(newTestResolver(t))
	punches, _, err := p.Parse(punch.Artifact{Name: "2025-03.xlsx", Data: data})
	assert.Nil(t, punches)

	var noData *punch.NoDataError
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, "2025-03.xlsx", noData.Artifact)
}

func TestTimesheetParser_CorruptWorkbook(t *testing.T) {
	p := NewTimesheetParser(newTestResolver(t))
	_, _, err := p.Parse(punch.Artifact{Name: "2025-03.xlsx", Data: []byte("not a zip")})

	var parseErr *punch.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestClockPair(t *testing.T) {
	h, m, err := clockPair("8", "05")
	require.NoError(t, err)
	assert.Equal(t, 8, h)
	assert.Equal(t, 5, m)

	h, _, err = clockPair("17.0", "0")
	require.NoError(t, err)
	assert.Equal(t, 17, h)

	for _, pair := range [][2]string{{"24", "0"}, {"8", "60"}, {"8.5", "0"}, {"", "0"}, {"ocho", "0"}} {
		_, _, err := clockPair(pair[0], pair[1])
		assert.Error(t, err, "%v", pair)
	}
}
