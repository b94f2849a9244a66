package ledger

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	identitySvc "github.com/cmlabs-hris/attendance-ledger-go/internal/service/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func summary(id, date string, source punch.Source, hours float64, count int) ledger.DaySummary {
	return ledger.DaySummary{
		EmployeeID:    id,
		Date:          day(date),
		Source:        source,
		PunchCount:    count,
		DurationHours: hours,
	}
}

func newTestMerger(t *testing.T) *Merger {
	t.Helper()
	r, err := identitySvc.NewResolver([]identity.Employee{
		{ID: "37", DisplayName: "Alcalde, Eduardo Jorge"},
		{ID: "67", DisplayName: "Arroyo, Ivana"},
	})
	require.NoError(t, err)
	return NewMerger(r)
}

func TestMerge_DiscrepancyOnlyWhenBothSourcesWorked(t *testing.T) {
	m := newTestMerger(t)

	rows, warnings := m.Merge([]ledger.DaySummary{
		summary("37", "2025-03-10", punch.SourceClock, 8.0, 2),
		summary("37", "2025-03-10", punch.SourceBook, 7.5, 2),
		summary("37", "2025-03-11", punch.SourceBook, 7.9, 2),
	}, nil)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].Discrepancy)
	assert.InDelta(t, -0.5, *rows[0].Discrepancy, 1e-9)
	assert.Equal(t, "Alcalde, Eduardo Jorge", rows[0].DisplayName)

	assert.Equal(t, 0.0, rows[1].ClockHours)
	assert.InDelta(t, 7.9, rows[1].BookHours, 1e-9)
	assert.Nil(t, rows[1].Discrepancy)
}

func TestMerge_NoiseDayKeepsOddFlag(t *testing.T) {
	m := newTestMerger(t)

	rows, _ := m.Merge([]ledger.DaySummary{
		summary("37", "2025-03-10", punch.SourceClock, 0, 1),
		summary("37", "2025-03-10", punch.SourceBook, 0.2, 2),
	}, nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].HasOddPunchCount)
	assert.Equal(t, 0.0, rows[0].ClockHours)
	assert.Equal(t, 0.0, rows[0].BookHours)
	assert.Nil(t, rows[0].Discrepancy)
}

func TestMerge_OuterJoinWithAbsences(t *testing.T) {
	m := newTestMerger(t)

	rows, _ := m.Merge([]ledger.DaySummary{
		summary("67", "2025-03-10", punch.SourceClock, 6, 2),
	}, []absence.Entry{
		{EmployeeID: "67", Date: day("2025-03-10"), DurationHours: 2, Kind: absence.KindCompensatory},
		{EmployeeID: "37", Date: day("2025-03-12"), DurationHours: 8, Kind: absence.KindVacation},
		{EmployeeID: "UNKNOWN", Date: day("2025-03-01"), DurationHours: 8, Kind: absence.KindVacation},
	})
	require.Len(t, rows, 3)

	assert.Equal(t, "37", rows[0].EmployeeID)
	assert.Equal(t, absence.KindVacation, rows[0].AbsenceKind)
	assert.Equal(t, 8.0, rows[0].AbsenceHours)

	assert.Equal(t, "67", rows[1].EmployeeID)
	assert.Equal(t, 6.0, rows[1].ClockHours)
	assert.Equal(t, 2.0, rows[1].AbsenceHours)
	assert.Equal(t, absence.KindCompensatory, rows[1].AbsenceKind)

	assert.Equal(t, "UNKNOWN", rows[2].EmployeeID)
	assert.Empty(t, rows[2].DisplayName)
}

func TestMerge_OverlappingAbsences(t *testing.T) {
	tests := []struct {
		name      string
		entries   []absence.Entry
		wantHours float64
		wantKind  absence.Kind
	}{
		{
			name: "summed below a full day",
			entries: []absence.Entry{
				{DurationHours: 2, Kind: absence.KindCompensatory},
				{DurationHours: 1.5, Kind: absence.KindCompensatory},
			},
			wantHours: 3.5,
			wantKind:  absence.KindCompensatory,
		},
		{
			name: "capped at a full day",
			entries: []absence.Entry{
				{DurationHours: 2, Kind: absence.KindCompensatory},
				{DurationHours: 8, Kind: absence.KindVacation},
			},
			wantHours: 8,
			wantKind:  absence.KindVacation,
		},
		{
			name: "tie goes to vacation",
			entries: []absence.Entry{
				{DurationHours: 8, Kind: absence.KindCompensatory},
				{DurationHours: 8, Kind: absence.KindVacation},
			},
			wantHours: 8,
			wantKind:  absence.KindVacation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMerger(t)
			for i := range tt.entries {
				tt.entries[i].EmployeeID = "37"
				tt.entries[i].Date = day("2025-03-10")
			}

			rows, warnings := m.Merge(nil, tt.entries)
			require.Len(t, rows, 1)
			assert.InDelta(t, tt.wantHours, rows[0].AbsenceHours, 1e-9)
			assert.Equal(t, tt.wantKind, rows[0].AbsenceKind)
			assert.Equal(t, 1, warnings.Count(warning.CodeOverlappingAbsence))
		})
	}
}

func TestMerge_RowsSortedByEmployeeThenDate(t *testing.T) {
	m := newTestMerger(t)

	rows, _ := m.Merge([]ledger.DaySummary{
		summary("67", "2025-03-11", punch.SourceClock, 8, 2),
		summary("37", "2025-03-12", punch.SourceClock, 8, 2),
		summary("67", "2025-03-10", punch.SourceClock, 8, 2),
		summary("37", "2025-03-01", punch.SourceClock, 8, 2),
	}, nil)
	require.Len(t, rows, 4)

	var got []string
	for _, r := range rows {
		got = append(got, r.EmployeeID+" "+r.Date.Format(time.DateOnly))
	}
	assert.Equal(t, []string{
		"37 2025-03-01",
		"37 2025-03-12",
		"67 2025-03-10",
		"67 2025-03-11",
	}, got)
}

func TestRollups(t *testing.T) {
	m := newTestMerger(t)

	rows, _ := m.Merge([]ledger.DaySummary{
		summary("37", "2025-03-10", punch.SourceClock, 8, 2),
		summary("37", "2025-03-10", punch.SourceBook, 8.5, 2),
		summary("37", "2025-03-11", punch.SourceClock, 6, 2),
		summary("37", "2025-03-11", punch.SourceBook, 5, 2),
		summary("37", "2025-03-12", punch.SourceClock, 9, 3),
		summary("67", "2025-03-10", punch.SourceBook, 7, 2),
	}, []absence.Entry{
		{EmployeeID: "37", Date: day("2025-03-13"), DurationHours: 8, Kind: absence.KindVacation},
		{EmployeeID: "67", Date: day("2025-03-11"), DurationHours: 2.5, Kind: absence.KindCompensatory},
	})

	rollups := Rollups(rows)
	require.Len(t, rollups, 2)

	r := rollups[0]
	assert.Equal(t, "37", r.EmployeeID)
	assert.Equal(t, "Alcalde, Eduardo Jorge", r.DisplayName)
	assert.Equal(t, 2, r.DaysWorked)
	assert.InDelta(t, 14, r.TotalClockHours, 1e-9)
	assert.InDelta(t, 13.5, r.TotalBookHours, 1e-9)
	assert.InDelta(t, 7, r.MeanSessionHours, 1e-9)
	assert.InDelta(t, 8, r.MaxSessionHours, 1e-9)
	assert.InDelta(t, 6, r.MinSessionHours, 1e-9)
	assert.InDelta(t, -0.25, r.MeanDiscrepancy, 1e-9)
	assert.InDelta(t, -0.5, r.CumulativeDiscrepancy, 1e-9)
	assert.Equal(t, 1, r.AbsenceDays)
	assert.InDelta(t, 8, r.AbsenceHours, 1e-9)
	assert.Equal(t, 1, r.OddPunchDays)

	r = rollups[1]
	assert.Equal(t, "67", r.EmployeeID)
	assert.Zero(t, r.DaysWorked)
	assert.Zero(t, r.MeanDiscrepancy)
	assert.Equal(t, 1, r.AbsenceDays)
	assert.InDelta(t, 2.5, r.AbsenceHours, 1e-9)
}

func TestRollups_Empty(t *testing.T) {
	assert.Empty(t, Rollups(nil))
}
