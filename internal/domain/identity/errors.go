package identity

import "errors"

var (
	ErrEmptyEmployeeID  = errors.New("employee id is required")
	ErrDuplicateID      = errors.New("employee id is declared twice")
	ErrAliasConflict    = errors.New("alias maps to more than one employee")
	ErrUnknownSource    = errors.New("unknown identity source")
	ErrEmployeeNotFound = errors.New("employee not found")
)
