package identity

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"golang.org/x/text/unicode/norm"
)

// numericPrefix matches sheet-tab numbering such as "01 - " or "3.".
var numericPrefix = regexp.MustCompile(`^[0-9]+[\s.\-_)]*`)

// Normalize cleans a raw identifier into alias-key form: NFC, numeric prefix
// stripped when text follows it, whitespace collapsed, upper-cased.
func Normalize(raw string) string {
	s := strings.TrimSpace(norm.NFC.String(raw))
	if prefix := numericPrefix.FindString(s); prefix != "" && len(prefix) < len(s) {
		s = s[len(prefix):]
	}
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

type resolverImpl struct {
	aliases   map[string]string
	employees map[string]identity.Employee
	ordered   []identity.Employee
}

// NewResolver builds an immutable resolver. Each employee's ID and display
// name are registered as aliases alongside the declared ones.
func NewResolver(employees []identity.Employee) (identity.Resolver, error) {
	r := &resolverImpl{
		aliases:   make(map[string]string),
		employees: make(map[string]identity.Employee, len(employees)),
	}

	for _, emp := range employees {
		id := strings.TrimSpace(emp.ID)
		if id == "" {
			return nil, identity.ErrEmptyEmployeeID
		}
		if _, exists := r.employees[id]; exists {
			return nil, fmt.Errorf("%w: %s", identity.ErrDuplicateID, id)
		}
		emp.ID = id
		emp.Aliases = append([]string(nil), emp.Aliases...)
		r.employees[id] = emp
		r.ordered = append(r.ordered, emp)
	}

	for _, emp := range r.ordered {
		keys := append([]string{emp.ID, emp.DisplayName}, emp.Aliases...)
		for _, key := range keys {
			if err := r.register(key, emp.ID); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(r.ordered, func(i, j int) bool {
		return r.ordered[i].ID < r.ordered[j].ID
	})

	return r, nil
}

// NewResolverFromRepository loads the alias table once.
func NewResolverFromRepository(ctx context.Context, repo identity.Repository) (identity.Resolver, error) {
	employees, err := repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alias table: %w", err)
	}
	return NewResolver(employees)
}

func (r *resolverImpl) register(alias, id string) error {
	key := Normalize(alias)
	if key == "" {
		return nil
	}
	if existing, ok := r.aliases[key]; ok && existing != id {
		return fmt.Errorf("%w: %q -> %s, %s", identity.ErrAliasConflict, key, existing, id)
	}
	r.aliases[key] = id
	return nil
}

// Resolve implements identity.Resolver.
func (r *resolverImpl) Resolve(raw string) (string, bool) {
	key := Normalize(raw)
	if id, ok := r.aliases[key]; ok {
		return id, true
	}
	return key, false
}

// Normalize implements identity.Resolver.
func (r *resolverImpl) Normalize(raw string) string {
	return Normalize(raw)
}

// DisplayName implements identity.Resolver.
func (r *resolverImpl) DisplayName(id string) (string, bool) {
	emp, ok := r.employees[id]
	if !ok {
		return "", false
	}
	return emp.DisplayName, true
}

// Employees implements identity.Resolver.
func (r *resolverImpl) Employees() []identity.Employee {
	out := make([]identity.Employee, len(r.ordered))
	copy(out, r.ordered)
	return out
}
