package punch

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownArtifactKind = errors.New("unknown artifact kind")
	ErrEmptyArtifact       = errors.New("artifact is empty")
)

// ParseError means the artifact's column layout could not be reconciled.
type ParseError struct {
	Artifact string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Artifact, e.Reason)
}

// NoDataError means the artifact was readable but produced zero punches.
type NoDataError struct {
	Artifact string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("parse %s: no rows could be parsed", e.Artifact)
}

// InvalidFilenameError means a timesheet name does not encode YYYY-MM.
type InvalidFilenameError struct {
	Artifact string
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("timesheet %s: filename must be YYYY-MM.<ext>", e.Artifact)
}

// ArtifactOf extracts the artifact identifier carried by a parser error.
func ArtifactOf(err error) (string, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Artifact, true
	}
	var nd *NoDataError
	if errors.As(err, &nd) {
		return nd.Artifact, true
	}
	var fe *InvalidFilenameError
	if errors.As(err, &fe) {
		return fe.Artifact, true
	}
	return "", false
}
