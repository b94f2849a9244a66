package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliasYAML = `
employees:
  - id: 37
    display_name: "Alcalde, Eduardo Jorge"
    aliases:
      - Alcalde Eduardo
      - "01 - Alcalde Eduardo"
  - id: "67"
    display_name: Arroyo, Ivana
`

func TestAliasRepository_ListEmployees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(aliasYAML), 0o600))

	employees, err := NewAliasRepository(path).ListEmployees(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []identity.Employee{
		{ID: "37", DisplayName: "Alcalde, Eduardo Jorge", Aliases: []string{"Alcalde Eduardo", "01 - Alcalde Eduardo"}},
		{ID: "67", DisplayName: "Arroyo, Ivana"},
	}, employees)
}

func TestAliasRepository_MissingFile(t *testing.T) {
	_, err := NewAliasRepository(filepath.Join(t.TempDir(), "nope.yaml")).ListEmployees(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseAliases(t *testing.T) {
	employees, err := ParseAliases(nil)
	require.NoError(t, err)
	assert.Empty(t, employees)

	_, err = ParseAliases([]byte("employees:\n  - id: 1\n    name: typo\n"))
	assert.Error(t, err)

	_, err = ParseAliases([]byte("employees: ["))
	assert.Error(t, err)
}
