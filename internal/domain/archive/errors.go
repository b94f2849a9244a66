package archive

import "errors"

var (
	ErrInvalidRunID     = errors.New("invalid run id")
	ErrRunNotFound      = errors.New("run not found")
	ErrArtifactNotFound = errors.New("archived artifact not found")
)
