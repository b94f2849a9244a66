package parser

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Timesheet grid, 0-based: rows firstDayRow..firstDayRow+30 hold days 1..31,
// each row carries up to four (hour, minute) column pairs.
const (
	firstDayRow = 10
	lastDayRow  = 40
	maxXLSRows  = 100000
)

var punchColumnPairs = [][2]int{{2, 3}, {4, 5}, {6, 7}, {8, 9}}

var timesheetName = regexp.MustCompile(`^(\d{4})-(\d{2})\.(?i:xlsx|xlsm|xls)$`)

type sheet struct {
	name string
	rows [][]string
}

// TimesheetParser reads the hand-kept monthly workbook, one sheet per
// employee.
type TimesheetParser struct {
	resolver identity.Resolver
}

func NewTimesheetParser(resolver identity.Resolver) *TimesheetParser {
	return &TimesheetParser{resolver: resolver}
}

// TimesheetMonth extracts the year and month encoded in a timesheet name.
func TimesheetMonth(name string) (int, time.Month, bool) {
	m := timesheetName.FindStringSubmatch(filepath.Base(strings.TrimSpace(name)))
	if m == nil {
		return 0, 0, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// Parse implements punch.Parser.
func (p *TimesheetParser) Parse(artifact punch.Artifact) ([]punch.Punch, warning.List, error) {
	var warnings warning.List

	year, month, ok := TimesheetMonth(artifact.Name)
	if !ok {
		return nil, nil, &punch.InvalidFilenameError{Artifact: artifact.Name}
	}

	sheets, err := readWorkbook(artifact)
	if err != nil {
		return nil, nil, &punch.ParseError{Artifact: artifact.Name, Reason: err.Error()}
	}
	if len(sheets) == 0 {
		return nil, nil, &punch.NoDataError{Artifact: artifact.Name}
	}

	var punches []punch.Punch
	for _, sh := range sheets {
		location := artifact.Name + "#" + sh.name

		employeeID, ok := p.resolver.Resolve(sh.name)
		if !ok {
			warnings.Add(warning.CodeUnresolvedIdentity, location, 0, "sheet name %q has no alias; kept as %q", sh.name, employeeID)
		}
		if employeeID == "" {
			warnings.Add(warning.CodeMalformedRow, location, 0, "sheet name is blank")
			continue
		}

		for r := firstDayRow; r <= lastDayRow && r < len(sh.rows); r++ {
			day := r - firstDayRow + 1
			row := sh.rows[r]
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

			for _, pair := range punchColumnPairs {
				hourCell := cell(row, pair[0])
				minuteCell := cell(row, pair[1])
				if hourCell == "" && minuteCell == "" {
					continue
				}

				if date.Month() != month {
					warnings.Add(warning.CodeMalformedRow, location, r+1, "day %d does not exist in %d-%02d", day, year, month)
					break
				}

				hour, minute, err := clockPair(hourCell, minuteCell)
				if err != nil {
					warnings.Add(warning.CodeMalformedRow, location, r+1, "%v", err)
					continue
				}

				ts := date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
				pu, err := punch.New(employeeID, ts, punch.SourceBook)
				if err != nil {
					warnings.Add(warning.CodeMalformedRow, location, r+1, "%v", err)
					continue
				}
				punches = append(punches, pu)
			}
		}
	}

	if len(punches) == 0 {
		return nil, warnings, &punch.NoDataError{Artifact: artifact.Name}
	}

	return punches, warnings, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// clockPair validates an (hour, minute) pair of numeric cells.
func clockPair(hourCell, minuteCell string) (int, int, error) {
	hour, ok := wholeNumber(hourCell)
	if !ok || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour %q", hourCell)
	}
	minute, ok := wholeNumber(minuteCell)
	if !ok || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute %q", minuteCell)
	}
	return hour, minute, nil
}

func wholeNumber(s string) (int, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func readWorkbook(artifact punch.Artifact) ([]sheet, error) {
	if strings.EqualFold(filepath.Ext(artifact.Name), ".xls") {
		return readXLS(artifact.Data)
	}
	return readXLSX(artifact.Data)
}

func readXLSX(data []byte) ([]sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var sheets []sheet
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []sheet
	for i := 0; i < workbook.NumSheets(); i++ {
		ws := workbook.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow) && r < maxXLSRows; r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, sheet{name: ws.Name, rows: rows})
	}
	return sheets, nil
}
