package identity

import "context"

// Repository loads the alias table. It is read once at process start.
type Repository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
}
