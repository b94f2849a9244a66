package reconcile

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
)

const monthLayout = "2006-01"

// filter narrows a run to one employee and/or one month. The employee is
// given as any alias and compared by canonical ID.
type filter struct {
	employeeID string
	month      string
}

func (s *ReconcileServiceImpl) newFilter(run Run) filter {
	f := filter{month: run.Month}
	if run.EmployeeID != "" {
		f.employeeID, _ = s.resolver.Resolve(run.EmployeeID)
	}
	return f
}

func (f filter) match(employeeID string, date time.Time) bool {
	if f.employeeID != "" && employeeID != f.employeeID {
		return false
	}
	if f.month != "" && date.Format(monthLayout) != f.month {
		return false
	}
	return true
}

func (f filter) punches(in []punch.Punch) []punch.Punch {
	if f.employeeID == "" && f.month == "" {
		return in
	}
	out := make([]punch.Punch, 0, len(in))
	for _, p := range in {
		if f.match(p.EmployeeID, p.Timestamp) {
			out = append(out, p)
		}
	}
	return out
}

func (f filter) entries(in []absence.Entry) []absence.Entry {
	if f.employeeID == "" && f.month == "" {
		return in
	}
	out := make([]absence.Entry, 0, len(in))
	for _, e := range in {
		if f.match(e.EmployeeID, e.Date) {
			out = append(out, e)
		}
	}
	return out
}
