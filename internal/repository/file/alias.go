package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/identity"
	"gopkg.in/yaml.v3"
)

// aliasDocument is the on-disk layout of the alias table:
//
//	employees:
//	  - id: "37"
//	    display_name: "Alcalde, Eduardo Jorge"
//	    aliases: ["Alcalde Eduardo"]
type aliasDocument struct {
	Employees []identity.Employee `yaml:"employees"`
}

type aliasRepositoryImpl struct {
	path string
}

// NewAliasRepository reads the alias table from a YAML file on every call.
func NewAliasRepository(path string) identity.Repository {
	return &aliasRepositoryImpl{path: path}
}

// ListEmployees implements identity.Repository.
func (r *aliasRepositoryImpl) ListEmployees(ctx context.Context) ([]identity.Employee, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}
	return ParseAliases(data)
}

// ParseAliases decodes an alias table. Unknown keys are rejected so a typo
// does not silently drop aliases.
func ParseAliases(data []byte) ([]identity.Employee, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc aliasDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode alias file: %w", err)
	}

	return doc.Employees, nil
}
