package punch

import (
	"errors"
	"strings"
	"time"
)

type Source string

const (
	SourceClock Source = "CLOCK"
	SourceBook  Source = "BOOK"
)

func (s Source) Valid() bool {
	return s == SourceClock || s == SourceBook
}

// Punch is a single clock-in/out event. Timestamp is naive local wall time
// carried in time.UTC; EmployeeID is already canonical.
type Punch struct {
	EmployeeID string
	Timestamp  time.Time
	Source     Source
}

var (
	errEmptyEmployee = errors.New("punch: employee id is required")
	errZeroTime      = errors.New("punch: timestamp is required")
	errBadSource     = errors.New("punch: unknown source")
)

// New validates and builds a Punch. The timestamp's wall clock is kept and its
// location dropped.
func New(employeeID string, ts time.Time, source Source) (Punch, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return Punch{}, errEmptyEmployee
	}
	if ts.IsZero() {
		return Punch{}, errZeroTime
	}
	if !source.Valid() {
		return Punch{}, errBadSource
	}
	return Punch{
		EmployeeID: employeeID,
		Timestamp:  Naive(ts),
		Source:     source,
	}, nil
}

// Date is the calendar day of the punch.
func (p Punch) Date() time.Time {
	return DayOf(p.Timestamp)
}

// Naive re-anchors t's wall clock in UTC.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// DayOf truncates t to midnight of its calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
