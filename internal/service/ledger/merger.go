package ledger

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

type rowKey struct {
	employeeID string
	date       time.Time
}

// Merger joins day summaries and absence entries into ledger rows.
type Merger struct {
	resolver identity.Resolver
}

func NewMerger(resolver identity.Resolver) *Merger {
	return &Merger{resolver: resolver}
}

// Merge outer-joins CLOCK summaries, BOOK summaries and absence entries on
// employee and date. Noise days contribute no hours but still raise the
// odd-punch flag. Rows come back sorted by employee then date.
func (m *Merger) Merge(summaries []ledger.DaySummary, entries []absence.Entry) ([]ledger.Row, warning.List) {
	var warnings warning.List
	rows := make(map[rowKey]*ledger.Row)

	row := func(employeeID string, date time.Time) *ledger.Row {
		k := rowKey{employeeID: employeeID, date: punch.DayOf(date)}
		r, ok := rows[k]
		if !ok {
			r = &ledger.Row{EmployeeID: employeeID, Date: k.date}
			if m.resolver != nil {
				r.DisplayName, _ = m.resolver.DisplayName(employeeID)
			}
			rows[k] = r
		}
		return r
	}

	for _, s := range summaries {
		r := row(s.EmployeeID, s.Date)
		if s.Odd() {
			r.HasOddPunchCount = true
		}
		session, ok := s.Session()
		if !ok {
			continue
		}
		switch session.Source {
		case punch.SourceClock:
			r.ClockHours += session.DurationHours
		case punch.SourceBook:
			r.BookHours += session.DurationHours
		}
	}

	byDay := make(map[rowKey][]absence.Entry)
	var absenceKeys []rowKey
	for _, e := range entries {
		k := rowKey{employeeID: e.EmployeeID, date: punch.DayOf(e.Date)}
		if _, ok := byDay[k]; !ok {
			absenceKeys = append(absenceKeys, k)
		}
		byDay[k] = append(byDay[k], e)
	}

	for _, k := range absenceKeys {
		dayEntries := byDay[k]
		r := row(k.employeeID, k.date)

		hours, kind := combineAbsences(dayEntries)
		if len(dayEntries) > 1 {
			warnings.Add(warning.CodeOverlappingAbsence, "", 0, "employee %s %s: %d absence entries, %.2fh counted",
				k.employeeID, k.date.Format(time.DateOnly), len(dayEntries), hours)
		}
		r.AbsenceHours = hours
		r.AbsenceKind = kind
	}

	out := make([]ledger.Row, 0, len(rows))
	for _, r := range rows {
		if r.ClockHours > 0 && r.BookHours > 0 {
			d := r.BookHours - r.ClockHours
			r.Discrepancy = &d
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Date.Before(out[j].Date)
	})

	return out, warnings
}

// combineAbsences sums one day's entries capped at a full day. The kind is
// the one of the largest entry, vacation winning ties.
func combineAbsences(entries []absence.Entry) (float64, absence.Kind) {
	var total, largest float64
	var kind absence.Kind
	for _, e := range entries {
		total += e.DurationHours
		switch {
		case kind == "" || e.DurationHours > largest:
			largest, kind = e.DurationHours, e.Kind
		case e.DurationHours == largest && e.Kind == absence.KindVacation:
			kind = absence.KindVacation
		}
	}
	if total > absence.FullDayHours {
		total = absence.FullDayHours
	}
	return total, kind
}
