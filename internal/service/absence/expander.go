package absence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

// dateLayouts covers ISO dates written by the leave forms and the day-first
// dates typed by hand into the spreadsheet.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02 15:04:05",
	"2/1/2006",
	"2-1-2006",
	"2006/01/02",
}

var timeLayouts = []string{"15:04", time.TimeOnly}

// Expander turns leave records into per-day absence entries.
type Expander struct {
	resolver identity.Resolver
}

func NewExpander(resolver identity.Resolver) *Expander {
	return &Expander{resolver: resolver}
}

// ExpandAll expands every record. Records that fail are excluded and reported
// as warnings; the rest are kept.
func (e *Expander) ExpandAll(records []absence.LeaveRecord) ([]absence.Entry, warning.List) {
	var entries []absence.Entry
	var warnings warning.List
	unresolved := make(map[string]bool)

	for _, rec := range records {
		employeeID, ok := e.resolver.Resolve(rec.EmployeeName)
		if employeeID == "" {
			warnings.Add(warning.CodeMalformedRow, rec.Origin, rec.Row, "employee name is blank")
			continue
		}
		if !ok && !unresolved[employeeID] {
			unresolved[employeeID] = true
			warnings.Add(warning.CodeUnresolvedIdentity, rec.Origin, rec.Row, "employee %q has no alias; kept as %q", rec.EmployeeName, employeeID)
		}

		expanded, w, err := Expand(employeeID, rec)
		warnings = append(warnings, w...)
		if err != nil {
			code := warning.CodeMalformedRow
			var rangeErr *absence.InvalidRangeError
			if errors.As(err, &rangeErr) {
				code = warning.CodeInvalidRange
			}
			warnings.Add(code, rec.Origin, rec.Row, "%v", err)
			continue
		}
		entries = append(entries, expanded...)
	}

	return entries, warnings
}

// Expand produces one entry per covered day for an already resolved
// employee. Vacation end dates are the day of return and are excluded, so a
// vacation ending on its start day yields no entries and a warning.
// Compensatory records with both times on one day yield a single entry with
// the real duration; otherwise every day of the inclusive range counts as a
// full day.
func Expand(employeeID string, rec absence.LeaveRecord) ([]absence.Entry, warning.List, error) {
	var warnings warning.List

	start, err := parseDate(rec.StartDate)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseDate(rec.EndDate)
	if err != nil {
		return nil, nil, err
	}
	if end.Before(start) {
		return nil, nil, &absence.InvalidRangeError{Artifact: rec.Origin, Row: rec.Row, Start: rec.StartDate, End: rec.EndDate}
	}

	switch rec.Kind {
	case absence.KindVacation:
		if start.Equal(end) {
			warnings.Add(warning.CodeInvalidRange, rec.Origin, rec.Row, "vacation returns on its start day %s; no days counted", rec.StartDate)
			return nil, warnings, nil
		}
		return expandDays(employeeID, rec, start, end, false), nil, nil

	case absence.KindCompensatory:
		if !rec.HasTimes() {
			if strings.TrimSpace(rec.StartTime) != "" || strings.TrimSpace(rec.EndTime) != "" {
				warnings.Add(warning.CodeMalformedRow, rec.Origin, rec.Row, "only one of start/end time given; counted as full days")
			}
			return expandDays(employeeID, rec, start, end, true), warnings, nil
		}

		if !start.Equal(end) {
			warnings.Add(warning.CodeMalformedRow, rec.Origin, rec.Row, "hourly compensatory spans several days; counted as full days")
			return expandDays(employeeID, rec, start, end, true), warnings, nil
		}

		from, err := parseClock(rec.StartTime)
		if err != nil {
			return nil, nil, err
		}
		to, err := parseClock(rec.EndTime)
		if err != nil {
			return nil, nil, err
		}
		if to.Before(from) {
			return nil, nil, &absence.InvalidRangeError{
				Artifact: rec.Origin,
				Row:      rec.Row,
				Start:    rec.StartDate + " " + rec.StartTime,
				End:      rec.EndDate + " " + rec.EndTime,
			}
		}
		return []absence.Entry{{
			EmployeeID:    employeeID,
			Date:          start,
			DurationHours: to.Sub(from).Hours(),
			Kind:          absence.KindCompensatory,
			Detail:        rec.Detail,
		}}, warnings, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", absence.ErrUnknownKind, rec.Kind)
}

func expandDays(employeeID string, rec absence.LeaveRecord, start, end time.Time, inclusive bool) []absence.Entry {
	var entries []absence.Entry
	for day := start; day.Before(end) || (inclusive && day.Equal(end)); day = day.AddDate(0, 0, 1) {
		entries = append(entries, absence.Entry{
			EmployeeID:    employeeID,
			Date:          day,
			DurationHours: absence.FullDayHours,
			Kind:          rec.Kind,
			Detail:        rec.Detail,
		})
	}
	return entries
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", absence.ErrBadDate, s)
}

func parseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", absence.ErrBadTime, s)
}
