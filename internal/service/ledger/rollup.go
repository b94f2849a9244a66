package ledger

import (
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
)

// Rollups summarizes rows per employee. Hours and discrepancy figures only
// count rows where both sources recorded work; absence and odd-punch
// counters count every row. Input rows must be sorted by employee.
func Rollups(rows []ledger.Row) []ledger.Rollup {
	var out []ledger.Rollup

	for i := 0; i < len(rows); {
		j := i
		for j < len(rows) && rows[j].EmployeeID == rows[i].EmployeeID {
			j++
		}
		out = append(out, rollup(rows[i:j]))
		i = j
	}

	return out
}

func rollup(rows []ledger.Row) ledger.Rollup {
	r := ledger.Rollup{
		EmployeeID:  rows[0].EmployeeID,
		DisplayName: rows[0].DisplayName,
	}

	for _, row := range rows {
		if row.AbsenceHours > 0 {
			r.AbsenceDays++
			r.AbsenceHours += row.AbsenceHours
		}
		if row.HasOddPunchCount {
			r.OddPunchDays++
		}
		if row.Discrepancy == nil {
			continue
		}

		if r.DaysWorked == 0 || row.ClockHours > r.MaxSessionHours {
			r.MaxSessionHours = row.ClockHours
		}
		if r.DaysWorked == 0 || row.ClockHours < r.MinSessionHours {
			r.MinSessionHours = row.ClockHours
		}
		r.DaysWorked++
		r.TotalClockHours += row.ClockHours
		r.TotalBookHours += row.BookHours
		r.CumulativeDiscrepancy += *row.Discrepancy
	}

	if r.DaysWorked > 0 {
		r.MeanSessionHours = r.TotalClockHours / float64(r.DaysWorked)
		r.MeanDiscrepancy = r.CumulativeDiscrepancy / float64(r.DaysWorked)
	}

	return r
}
