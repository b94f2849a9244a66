package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

const (
	combinedColumns = 5 // id, datetime, 3 device columns
	splitColumns    = 6 // id, date, time, 3 device columns
)

type record struct {
	line   int
	fields []string
}

// FlatFileParser reads the biometric clock export.
type FlatFileParser struct {
	resolver identity.Resolver
}

func NewFlatFileParser(resolver identity.Resolver) *FlatFileParser {
	return &FlatFileParser{resolver: resolver}
}

// Parse implements punch.Parser.
func (p *FlatFileParser) Parse(artifact punch.Artifact) ([]punch.Punch, warning.List, error) {
	var warnings warning.List

	records, err := splitRecords(artifact)
	if err != nil {
		return nil, nil, &punch.ParseError{Artifact: artifact.Name, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, nil, &punch.NoDataError{Artifact: artifact.Name}
	}

	width := recordWidth(records)
	if width == 0 {
		return nil, nil, &punch.ParseError{
			Artifact: artifact.Name,
			Reason:   fmt.Sprintf("no row has %d or %d columns", combinedColumns, splitColumns),
		}
	}

	ids := newIdentityCache(p.resolver, artifact.Name)
	punches := make([]punch.Punch, 0, len(records))

	for _, rec := range records {
		if len(rec.fields) != width {
			warnings.Add(warning.CodeMalformedRow, artifact.Name, rec.line, "expected %d columns, found %d", width, len(rec.fields))
			continue
		}

		raw := rec.fields[1]
		if width == splitColumns {
			raw = rec.fields[1] + " " + rec.fields[2]
		}
		ts, ok := parseTimestamp(raw)
		if !ok {
			warnings.Add(warning.CodeMalformedRow, artifact.Name, rec.line, "unparseable timestamp %q", raw)
			continue
		}

		employeeID := ids.resolve(rec.fields[0], rec.line, &warnings)
		pu, err := punch.New(employeeID, ts, punch.SourceClock)
		if err != nil {
			warnings.Add(warning.CodeMalformedRow, artifact.Name, rec.line, "%v", err)
			continue
		}
		punches = append(punches, pu)
	}

	if len(punches) == 0 {
		return nil, warnings, &punch.NoDataError{Artifact: artifact.Name}
	}

	return punches, warnings, nil
}

// recordWidth is the column count of the first record with a known layout,
// or 0 when there is none. Banner lines ahead of the data are tolerated.
func recordWidth(records []record) int {
	for _, rec := range records {
		if n := len(rec.fields); n == combinedColumns || n == splitColumns {
			return n
		}
	}
	return 0
}

// splitRecords returns the non-blank records with their 1-based line numbers.
// CSV artifacts are comma-separated, everything else splits on whitespace.
func splitRecords(artifact punch.Artifact) ([]record, error) {
	data := bytes.TrimPrefix(artifact.Data, []byte("\xef\xbb\xbf"))

	if strings.EqualFold(filepath.Ext(artifact.Name), ".csv") {
		return splitCSV(data)
	}

	var records []record
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		records = append(records, record{line: line, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func splitCSV(data []byte) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var records []record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		blank := true
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
			if fields[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		records = append(records, record{line: line, fields: fields})
	}
	return records, nil
}
