package session

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

// DedupWindow is the minimum gap between two retained clock punches of one
// employee.
const DedupWindow = 60 * time.Second

// Deduplicate drops CLOCK punches closer than DedupWindow to the previous
// retained punch of the same employee. BOOK punches pass through untouched.
// The result is sorted by employee, then timestamp, then source.
func Deduplicate(punches []punch.Punch) ([]punch.Punch, warning.List) {
	var warnings warning.List

	sorted := make([]punch.Punch, len(punches))
	copy(sorted, punches)
	sortPunches(sorted)

	out := make([]punch.Punch, 0, len(sorted))
	lastRetained := make(map[string]time.Time)

	for _, p := range sorted {
		if p.Source != punch.SourceClock {
			out = append(out, p)
			continue
		}

		last, seen := lastRetained[p.EmployeeID]
		if seen && p.Timestamp.Sub(last) < DedupWindow {
			warnings.Add(warning.CodeDuplicatePunch, "", 0, "employee %s: punch at %s within %s of %s",
				p.EmployeeID, p.Timestamp.Format(time.DateTime), DedupWindow, last.Format(time.DateTime))
			continue
		}

		lastRetained[p.EmployeeID] = p.Timestamp
		out = append(out, p)
	}

	return out, warnings
}

func sortPunches(punches []punch.Punch) {
	sort.SliceStable(punches, func(i, j int) bool {
		a, b := punches[i], punches[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.Source < b.Source
	})
}
