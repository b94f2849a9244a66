package identity

// Resolver maps raw identifiers to canonical employee IDs.
type Resolver interface {
	// Resolve returns the canonical ID and true, or the normalized input and
	// false when no alias matches.
	Resolve(raw string) (string, bool)

	// Normalize applies the alias-key cleaning rules without lookup.
	Normalize(raw string) string

	// DisplayName returns the employee's display name.
	DisplayName(id string) (string, bool)

	// Employees lists the table in canonical ID order.
	Employees() []Employee
}
