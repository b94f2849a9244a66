package session

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

type dayKey struct {
	employeeID string
	date       time.Time
	source     punch.Source
}

// PairedHours sums (p[1]-p[0]) + (p[3]-p[2]) + ... over timestamps sorted
// ascending. A trailing unpaired punch contributes nothing.
func PairedHours(timestamps []time.Time) float64 {
	var total time.Duration
	for i := 0; i+1 < len(timestamps); i += 2 {
		total += timestamps[i+1].Sub(timestamps[i])
	}
	return total.Hours()
}

// Aggregate groups punches by employee, date and source and pairs each group
// in timestamp order. Every group yields a summary; groups at or below the
// noise threshold get a warning and no session. Punches are assumed to
// alternate strictly in/out.
func Aggregate(punches []punch.Punch) ([]ledger.DaySummary, warning.List) {
	var warnings warning.List

	groups := make(map[dayKey][]time.Time)
	var keys []dayKey
	for _, p := range punches {
		k := dayKey{employeeID: p.EmployeeID, date: p.Date(), source: p.Source}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], p.Timestamp)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.employeeID != b.employeeID {
			return a.employeeID < b.employeeID
		}
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.source < b.source
	})

	summaries := make([]ledger.DaySummary, 0, len(keys))
	for _, k := range keys {
		ts := groups[k]
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })

		summary := ledger.DaySummary{
			EmployeeID:    k.employeeID,
			Date:          k.date,
			Source:        k.source,
			PunchCount:    len(ts),
			DurationHours: PairedHours(ts),
			Start:         ts[0],
			End:           ts[len(ts)-1],
		}
		if _, ok := summary.Session(); !ok {
			warnings.Add(warning.CodeNoiseSession, "", 0, "employee %s %s %s: %.2fh from %d punches discarded",
				k.employeeID, k.source, k.date.Format(time.DateOnly), summary.DurationHours, summary.PunchCount)
		}
		summaries = append(summaries, summary)
	}

	return summaries, warnings
}

// Sessions keeps the summaries above the noise threshold.
func Sessions(summaries []ledger.DaySummary) []ledger.WorkSession {
	var out []ledger.WorkSession
	for _, s := range summaries {
		if ws, ok := s.Session(); ok {
			out = append(out, ws)
		}
	}
	return out
}
