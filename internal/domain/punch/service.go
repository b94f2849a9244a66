package punch

import (
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/warning"
)

type ArtifactKind string

const (
	KindFlatFile    ArtifactKind = "flat_file"
	KindTableReport ArtifactKind = "table_report"
	KindTimesheet   ArtifactKind = "timesheet"
)

// Artifact is one raw input file, already fetched.
type Artifact struct {
	Name string
	Kind ArtifactKind
	Data []byte
}

// KindFromName guesses the artifact kind from its extension.
func KindFromName(name string) (ArtifactKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".csv", ".dat":
		return KindFlatFile, nil
	case ".pdf":
		return KindTableReport, nil
	case ".xlsx", ".xlsm", ".xls":
		return KindTimesheet, nil
	}
	return "", ErrUnknownArtifactKind
}

// Parser turns one artifact into punches. Row-level problems are returned as
// warnings; a non-nil error means the whole artifact was rejected.
type Parser interface {
	Parse(artifact Artifact) ([]Punch, warning.List, error)
}
