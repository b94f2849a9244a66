package absence

import (
	"strings"
	"time"
)

type Kind string

const (
	KindVacation     Kind = "VACATION"
	KindCompensatory Kind = "COMPENSATORY"
)

// FullDayHours is the hour-equivalent of one absent day.
const FullDayHours = 8.0

// ParseKind accepts the canonical names and the sheet names used by the
// leave spreadsheet.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VACATION", "VACACIONES", "LICENCIA":
		return KindVacation, true
	case "COMPENSATORY", "COMPENSADOS", "COMPENSATORIO":
		return KindCompensatory, true
	}
	return "", false
}

// LeaveRecord is one row of the absence source as fetched. Dates and times are
// kept as text until expansion. For vacations EndDate is the day of return to
// work.
type LeaveRecord struct {
	EmployeeName string
	Kind         Kind
	StartDate    string
	EndDate      string
	StartTime    string
	EndTime      string
	Detail       string

	// Origin and Row locate the record in its source for warnings.
	Origin string
	Row    int
}

// HasTimes reports whether both clock times are filled in.
func (r LeaveRecord) HasTimes() bool {
	return strings.TrimSpace(r.StartTime) != "" && strings.TrimSpace(r.EndTime) != ""
}

// Entry is one absent calendar day for one employee.
type Entry struct {
	EmployeeID    string    `json:"employee_id"`
	Date          time.Time `json:"date"`
	DurationHours float64   `json:"duration_hours"`
	Kind          Kind      `json:"kind"`
	Detail        string    `json:"detail,omitempty"`
}
