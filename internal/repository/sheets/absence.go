package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Header labels of the leave sheets.
const (
	colEmployee = "Apellido, Nombres"
	colType     = "Tipo"
	colVacStart = "Fecha inicio"
	colVacEnd   = "Fecha fin"
	colNotes    = "Observaciones"
	colFromDate = "Desde fecha"
	colFromTime = "Desde hora"
	colToDate   = "Hasta fecha"
	colToTime   = "Hasta hora"
)

// AbsenceSource reads leave rows from the vacation and compensatory tabs of
// one spreadsheet through the Sheets values API.
type AbsenceSource struct {
	values            *sheets.SpreadsheetsValuesService
	spreadsheetID     string
	vacationRange     string
	compensatoryRange string
}

// NewAbsenceSource expects an authorized client, e.g. from
// oauth.NewServiceAccountClient. An empty endpoint selects the public API.
// Ranges are A1 notation such as "Vacaciones!A:G".
func NewAbsenceSource(ctx context.Context, client *http.Client, endpoint, spreadsheetID, vacationRange, compensatoryRange string) (*AbsenceSource, error) {
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &AbsenceSource{
		values:            svc.Spreadsheets.Values,
		spreadsheetID:     spreadsheetID,
		vacationRange:     vacationRange,
		compensatoryRange: compensatoryRange,
	}, nil
}

// FetchLeaveRecords implements absence.Source.
func (s *AbsenceSource) FetchLeaveRecords(ctx context.Context) ([]absence.LeaveRecord, error) {
	var records []absence.LeaveRecord

	if s.vacationRange != "" {
		values, err := s.fetchRange(ctx, s.vacationRange)
		if err != nil {
			return nil, err
		}
		recs, err := vacationRecords(sheetName(s.vacationRange), values)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	if s.compensatoryRange != "" {
		values, err := s.fetchRange(ctx, s.compensatoryRange)
		if err != nil {
			return nil, err
		}
		recs, err := compensatoryRecords(sheetName(s.compensatoryRange), values)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	return records, nil
}

func (s *AbsenceSource) fetchRange(ctx context.Context, a1 string) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, a1).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", a1, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				rows[i][j] = fmt.Sprint(v)
			}
		}
	}
	return rows, nil
}

// sheetName extracts the tab name from an A1 range.
func sheetName(a1 string) string {
	name, _, _ := strings.Cut(a1, "!")
	return strings.Trim(name, "'")
}

// header maps column labels to indexes, case-insensitively.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, label := range row {
		h[strings.ToLower(strings.TrimSpace(label))] = i
	}
	return h
}

func (h header) require(sheet string, labels ...string) error {
	var missing []string
	for _, l := range labels {
		if _, ok := h[strings.ToLower(l)]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("sheet %s is missing columns: %s", sheet, strings.Join(missing, ", "))
	}
	return nil
}

func (h header) get(row []string, label string) string {
	i, ok := h[strings.ToLower(label)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// vacationRecords reads "Fecha fin" as the day of return to work.
func vacationRecords(sheet string, values [][]string) ([]absence.LeaveRecord, error) {
	if len(values) == 0 {
		return nil, nil
	}
	h := newHeader(values[0])
	if err := h.require(sheet, colEmployee, colVacStart, colVacEnd); err != nil {
		return nil, err
	}

	var out []absence.LeaveRecord
	for i, row := range values[1:] {
		if blank(row) {
			continue
		}
		out = append(out, absence.LeaveRecord{
			EmployeeName: h.get(row, colEmployee),
			Kind:         absence.KindVacation,
			StartDate:    h.get(row, colVacStart),
			EndDate:      h.get(row, colVacEnd),
			Detail:       joinDetail(h.get(row, colType), h.get(row, colNotes)),
			Origin:       sheet,
			Row:          i + 2,
		})
	}
	return out, nil
}

func compensatoryRecords(sheet string, values [][]string) ([]absence.LeaveRecord, error) {
	if len(values) == 0 {
		return nil, nil
	}
	h := newHeader(values[0])
	if err := h.require(sheet, colEmployee, colFromDate, colToDate); err != nil {
		return nil, err
	}

	var out []absence.LeaveRecord
	for i, row := range values[1:] {
		if blank(row) {
			continue
		}
		out = append(out, absence.LeaveRecord{
			EmployeeName: h.get(row, colEmployee),
			Kind:         absence.KindCompensatory,
			StartDate:    h.get(row, colFromDate),
			EndDate:      h.get(row, colToDate),
			StartTime:    h.get(row, colFromTime),
			EndTime:      h.get(row, colToTime),
			Detail:       h.get(row, colType),
			Origin:       sheet,
			Row:          i + 2,
		})
	}
	return out, nil
}

func joinDetail(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " - ")
}

var _ absence.Source = (*AbsenceSource)(nil)
