package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/database"
)

type identityRepositoryImpl struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) identity.Repository {
	return &identityRepositoryImpl{db: db}
}

// ListEmployees implements identity.Repository.
func (r *identityRepositoryImpl) ListEmployees(ctx context.Context) ([]identity.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT e.id, e.display_name,
			   COALESCE(array_agg(a.alias ORDER BY a.alias) FILTER (WHERE a.alias IS NOT NULL), '{}')
		FROM employees e
		LEFT JOIN employee_aliases a ON a.employee_id = e.id
		GROUP BY e.id, e.display_name
		ORDER BY e.id
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []identity.Employee
	for rows.Next() {
		var e identity.Employee
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.Aliases); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}
