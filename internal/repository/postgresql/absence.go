package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
)

const leaveRecordsOrigin = "leave_records"

type absenceSourceImpl struct {
	db *database.DB
}

func NewAbsenceSource(db *database.DB) absence.Source {
	return &absenceSourceImpl{db: db}
}

// FetchLeaveRecords implements absence.Source. Unknown kinds are passed
// through upper-cased so the expander can report them per row.
func (s *absenceSourceImpl) FetchLeaveRecords(ctx context.Context) ([]absence.LeaveRecord, error) {
	q := GetQuerier(ctx, s.db)
	query := `
		SELECT id, employee_name, kind,
			   to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
			   COALESCE(to_char(start_time, 'HH24:MI'), ''), COALESCE(to_char(end_time, 'HH24:MI'), ''),
			   COALESCE(detail, '')
		FROM leave_records
		ORDER BY id
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave records: %w", err)
	}
	defer rows.Close()

	var records []absence.LeaveRecord
	for rows.Next() {
		var (
			id      int64
			rawKind string
			r       absence.LeaveRecord
		)
		if err := rows.Scan(&id, &r.EmployeeName, &rawKind, &r.StartDate, &r.EndDate, &r.StartTime, &r.EndTime, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}

		kind, ok := absence.ParseKind(rawKind)
		if !ok {
			kind = absence.Kind(strings.ToUpper(strings.TrimSpace(rawKind)))
		}
		r.Kind = kind
		r.Origin = leaveRecordsOrigin
		r.Row = int(id)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
