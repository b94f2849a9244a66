package parser

import (
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

// Column order of the clock report table.
const (
	colDate = iota
	colIDNumber
	colName
	colTime
	colStatus
	colVerification
	reportColumns
)

var reportHeader = [reportColumns]string{"Date", "ID Number", "Name", "Time", "Status", "Verification"}

// TableExtractor turns a paged document into tables: pages, rows, cells.
type TableExtractor interface {
	ExtractTables(data []byte) ([][][]string, error)
}

// TableReportParser reads the clock report exported as a paged table.
type TableReportParser struct {
	extractor TableExtractor
	resolver  identity.Resolver
}

func NewTableReportParser(extractor TableExtractor, resolver identity.Resolver) *TableReportParser {
	return &TableReportParser{
		extractor: extractor,
		resolver:  resolver,
	}
}

// Parse implements punch.Parser. Only the first page's header row is skipped.
func (p *TableReportParser) Parse(artifact punch.Artifact) ([]punch.Punch, warning.List, error) {
	var warnings warning.List

	pages, err := p.extractor.ExtractTables(artifact.Data)
	if err != nil {
		return nil, nil, &punch.ParseError{Artifact: artifact.Name, Reason: err.Error()}
	}

	ids := newIdentityCache(p.resolver, artifact.Name)
	var punches []punch.Punch
	headerSkipped := false
	line := 0

	for _, rows := range pages {
		for _, row := range rows {
			line++
			if !headerSkipped {
				headerSkipped = true
				continue
			}

			if len(row) <= colTime {
				warnings.Add(warning.CodeMalformedRow, artifact.Name, line, "expected %d cells, found %d", reportColumns, len(row))
				continue
			}

			raw := strings.TrimSpace(row[colDate]) + " " + strings.TrimSpace(row[colTime])
			ts, ok := parseTimestamp(raw)
			if !ok {
				warnings.Add(warning.CodeMalformedRow, artifact.Name, line, "unparseable timestamp %q", raw)
				continue
			}

			rawID := strings.TrimSpace(row[colIDNumber])
			if rawID == "" {
				warnings.Add(warning.CodeMalformedRow, artifact.Name, line, "missing ID number")
				continue
			}

			employeeID := p.resolveRow(ids, rawID, row[colName], line, &warnings)
			pu, err := punch.New(employeeID, ts, punch.SourceClock)
			if err != nil {
				warnings.Add(warning.CodeMalformedRow, artifact.Name, line, "%v", err)
				continue
			}
			punches = append(punches, pu)
		}
	}

	if len(punches) == 0 {
		return nil, warnings, &punch.NoDataError{Artifact: artifact.Name}
	}

	return punches, warnings, nil
}

// resolveRow tries the ID number first and the printed name second.
func (p *TableReportParser) resolveRow(ids *identityCache, rawID, name string, line int, warnings *warning.List) string {
	if id, ok := p.resolver.Resolve(rawID); ok {
		return id
	}
	if strings.TrimSpace(name) != "" {
		if id, ok := p.resolver.Resolve(name); ok {
			return id
		}
	}
	return ids.resolve(rawID, line, warnings)
}
