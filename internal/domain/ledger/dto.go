package ledger

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// ========================================
// RECONCILIATION DTOs
// ========================================

type ReconcileRequest struct {
	Artifacts []punch.Artifact `json:"-"`

	// Absences, when present, are used instead of the configured source
	Absences []absence.LeaveRecordRequest `json:"absences,omitempty"`

	// Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Month      *string `json:"month,omitempty"` // YYYY-MM
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Artifacts) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "artifacts",
			Message: "at least one clock, report or timesheet file is required",
		})
	}

	for _, a := range r.Artifacts {
		if len(a.Data) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "artifacts",
				Message: a.Name + " is empty",
			})
		}
	}

	if r.Month != nil {
		if _, ok := validator.IsValidMonth(*r.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be YYYY-MM",
			})
		}
	}

	if r.EmployeeID != nil && validator.IsEmpty(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be blank",
		})
	}

	for i := range r.Absences {
		if err := r.Absences[i].Validate(); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, e := range ve {
					e.Field = "absences[" + validator.Itoa(i) + "]." + e.Field
					errs = append(errs, e)
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RowResponse struct {
	EmployeeID       string   `json:"employee_id"`
	DisplayName      string   `json:"display_name,omitempty"`
	Date             string   `json:"date"`
	ClockHours       float64  `json:"clock_hours"`
	BookHours        float64  `json:"book_hours"`
	AbsenceHours     float64  `json:"absence_hours"`
	AbsenceKind      *string  `json:"absence_kind,omitempty"`
	Discrepancy      *float64 `json:"discrepancy"`
	HasOddPunchCount bool     `json:"has_odd_punch_count"`
}

type RollupResponse struct {
	EmployeeID            string  `json:"employee_id"`
	DisplayName           string  `json:"display_name,omitempty"`
	DaysWorked            int     `json:"days_worked"`
	TotalClockHours       float64 `json:"total_clock_hours"`
	TotalBookHours        float64 `json:"total_book_hours"`
	MeanSessionHours      float64 `json:"mean_session_hours"`
	MaxSessionHours       float64 `json:"max_session_hours"`
	MinSessionHours       float64 `json:"min_session_hours"`
	MeanDiscrepancy       float64 `json:"mean_discrepancy"`
	CumulativeDiscrepancy float64 `json:"cumulative_discrepancy"`
	AbsenceDays           int     `json:"absence_days"`
	AbsenceHours          float64 `json:"absence_hours"`
	OddPunchDays          int     `json:"odd_punch_days"`
}

type SkippedResponse struct {
	Artifact string `json:"artifact"`
	Reason   string `json:"reason"`
}

type LedgerResponse struct {
	RunID    string            `json:"run_id"`
	Rows     []RowResponse     `json:"rows"`
	Rollups  []RollupResponse  `json:"rollups"`
	Warnings []warning.Warning `json:"warnings"`
	Skipped  []SkippedResponse `json:"skipped"`
}

// ToResponse flattens a ledger for JSON output.
func (l Ledger) ToResponse() LedgerResponse {
	resp := LedgerResponse{
		RunID:    l.RunID,
		Rows:     make([]RowResponse, 0, len(l.Rows)),
		Rollups:  make([]RollupResponse, 0, len(l.Rollups)),
		Warnings: make([]warning.Warning, 0, len(l.Warnings)),
		Skipped:  make([]SkippedResponse, 0, len(l.Skipped)),
	}

	for _, r := range l.Rows {
		var kind *string
		if r.AbsenceKind != "" {
			k := string(r.AbsenceKind)
			kind = &k
		}
		resp.Rows = append(resp.Rows, RowResponse{
			EmployeeID:       r.EmployeeID,
			DisplayName:      r.DisplayName,
			Date:             r.Date.Format(time.DateOnly),
			ClockHours:       r.ClockHours,
			BookHours:        r.BookHours,
			AbsenceHours:     r.AbsenceHours,
			AbsenceKind:      kind,
			Discrepancy:      r.Discrepancy,
			HasOddPunchCount: r.HasOddPunchCount,
		})
	}

	for _, r := range l.Rollups {
		resp.Rollups = append(resp.Rollups, RollupResponse(r))
	}

	resp.Warnings = append(resp.Warnings, l.Warnings...)

	for _, s := range l.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedResponse(s))
	}

	return resp
}
