package parser

import (
	"testing"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatFileParser_SplitColumns(t *testing.T) {
	data := "37\t2025-03-10\t09:00:00\t1\t0\t0\n" +
		"37\t2025-03-10\t17:00:00\t1\t0\t0\n" +
		"\n" +
		"99  2025-03-10  08:00:00  1  0  0\n" +
		"37\t2025-03-10\tbad\t1\t0\t0\n" +
		"37 2025-03-11 09:00:00 1 0\n"

	p := NewFlatFileParser(newTestResolver(t))
	punches, warnings, err := p.Parse(punch.Artifact{Name: "clock.txt", Data: []byte(data)})
	require.NoError(t, err)

	require.Len(t, punches, 3)
	assert.Equal(t, punch.Punch{EmployeeID: "37", Timestamp: at("2025-03-10 09:00:00"), Source: punch.SourceClock}, punches[0])
	assert.Equal(t, "99", punches[2].EmployeeID)

	assert.Equal(t, 1, warnings.Count(warning.CodeUnresolvedIdentity))
	assert.Equal(t, 2, warnings.Count(warning.CodeMalformedRow))
	for _, w := range warnings {
		if w.Code == warning.CodeMalformedRow {
			assert.Contains(t, []int{5, 6}, w.Line)
		}
	}
}

func TestFlatFileParser_CombinedColumns(t *testing.T) {
	data := "37 2025-03-10T09:00:00 1 0 0\n67 2025-03-10T09:15 1 0 0\n"

	p := NewFlatFileParser(newTestResolver(t))
	punches, warnings, err := p.Parse(punch.Artifact{Name: "clock.dat", Data: []byte(data)})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, punches, 2)
	assert.Equal(t, at("2025-03-10 09:15:00"), punches[1].Timestamp)
}

func TestFlatFileParser_CSV(t *testing.T) {
	data := "\xef\xbb\xbf37,2025-03-10 09:00:00,1,0,0\r\n37,10/03/2025 17:30,1,0,0\r\n"

	p := NewFlatFileParser(newTestResolver(t))
	punches, _, err := p.Parse(punch.Artifact{Name: "export.CSV", Data: []byte(data)})
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, at("2025-03-10 17:30:00"), punches[1].Timestamp)
}

func TestFlatFileParser_IrreconcilableColumns(t *testing.T) {
	p := NewFlatFileParser(newTestResolver(t))
	_, _, err := p.Parse(punch.Artifact{Name: "odd.txt", Data: []byte("37 2025-03-10 09:00:00\n")})

	var parseErr *punch.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "odd.txt", parseErr.Artifact)
}

func TestFlatFileParser_LeadingBanner(t *testing.T) {
	data := "CLOCK EXPORT v2\n" +
		"37 2025-03-10 09:00:00 1 0 0\n" +
		"37 2025-03-10 17:00:00 1 0 0\n"

	p := NewFlatFileParser(newTestResolver(t))
	punches, warnings, err := p.Parse(punch.Artifact{Name: "clock.txt", Data: []byte(data)})
	require.NoError(t, err)

	require.Len(t, punches, 2)
	assert.Equal(t, at("2025-03-10 17:00:00"), punches[1].Timestamp)
	require.Len(t, warnings, 1)
	assert.Equal(t, warning.CodeMalformedRow, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].Line)
}

func TestFlatFileParser_NoData(t *testing.T) {
	p := NewFlatFileParser(newTestResolver(t))

	_, _, err := p.Parse(punch.Artifact{Name: "empty.txt", Data: []byte("\n\n")})
	var noData *punch.NoDataError
	require.ErrorAs(t, err, &noData)

	_, warnings, err := p.Parse(punch.Artifact{Name: "bad.txt", Data: []byte("37 x y 1 0 0\n")})
	require.ErrorAs(t, err, &noData)
	assert.Equal(t, "bad.txt", noData.Artifact)
	assert.Len(t, warnings, 1)
}
