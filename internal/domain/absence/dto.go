package absence

import (
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/validator"
)

// LeaveRecordRequest is a leave row posted inline with a reconciliation run.
type LeaveRecordRequest struct {
	EmployeeName string `json:"employee_name"`
	Kind         string `json:"kind"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

func (r *LeaveRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	}

	if _, ok := ParseKind(r.Kind); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be VACATION or COMPENSATORY",
		})
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be YYYY-MM-DD",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be YYYY-MM-DD",
		})
	}

	// Times come in pairs or not at all
	if validator.IsEmpty(r.StartTime) != validator.IsEmpty(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "start_time and end_time must be given together",
		})
	}

	for _, t := range []struct{ field, value string }{
		{"start_time", r.StartTime},
		{"end_time", r.EndTime},
	} {
		if validator.IsEmpty(t.value) {
			continue
		}
		if _, ok := validator.IsValidClockTime(t.value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   t.field,
				Message: t.field + " must be HH:MM",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToRecord converts a validated request into a LeaveRecord.
func (r LeaveRecordRequest) ToRecord(origin string, row int) LeaveRecord {
	kind, _ := ParseKind(r.Kind)
	return LeaveRecord{
		EmployeeName: r.EmployeeName,
		Kind:         kind,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Detail:       r.Detail,
		Origin:       origin,
		Row:          row,
	}
}
