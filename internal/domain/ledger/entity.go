package ledger

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

// NoiseThresholdHours is the duration at or below which a session is noise.
const NoiseThresholdHours = 0.25

// DaySummary is the pairing result for one employee, date and source, kept
// even when its session is discarded so the odd-punch flag survives.
type DaySummary struct {
	EmployeeID    string
	Date          time.Time
	Source        punch.Source
	PunchCount    int
	DurationHours float64
	Start         time.Time
	End           time.Time
}

// Odd reports a trailing unpaired punch.
func (d DaySummary) Odd() bool {
	return d.PunchCount%2 == 1
}

// Session returns the work session, or false when the day is noise.
func (d DaySummary) Session() (WorkSession, bool) {
	if d.DurationHours <= NoiseThresholdHours {
		return WorkSession{}, false
	}
	return WorkSession{
		EmployeeID:    d.EmployeeID,
		Date:          d.Date,
		DurationHours: d.DurationHours,
		Start:         d.Start,
		End:           d.End,
		Source:        d.Source,
	}, true
}

// WorkSession aggregates one employee's punches for one date and source.
// Start and End are the day's extreme punches and are display-only.
type WorkSession struct {
	EmployeeID    string
	Date          time.Time
	DurationHours float64
	Start         time.Time
	End           time.Time
	Source        punch.Source
}

// Row is one employee-day of the unified ledger.
type Row struct {
	EmployeeID       string
	DisplayName      string
	Date             time.Time
	ClockHours       float64
	BookHours        float64
	AbsenceHours     float64
	AbsenceKind      absence.Kind
	Discrepancy      *float64
	HasOddPunchCount bool
}

// Rollup aggregates one employee's reconciled rows, meaning rows whose
// discrepancy is defined. The absence and odd-punch counters cover all rows.
type Rollup struct {
	EmployeeID            string
	DisplayName           string
	DaysWorked            int
	TotalClockHours       float64
	TotalBookHours        float64
	MeanSessionHours      float64
	MaxSessionHours       float64
	MinSessionHours       float64
	MeanDiscrepancy       float64
	CumulativeDiscrepancy float64

	AbsenceDays  int
	AbsenceHours float64
	OddPunchDays int
}

// SkippedArtifact records an artifact rejected as a whole.
type SkippedArtifact struct {
	Artifact string
	Reason   string
}

// Ledger is the output of one reconciliation run.
type Ledger struct {
	RunID    string
	Rows     []Row
	Rollups  []Rollup
	Warnings warning.List
	Skipped  []SkippedArtifact
}
