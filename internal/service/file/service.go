package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/archive"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const runsPrefix = "runs"

type FileService interface {
	// ArchiveArtifact stores an uploaded artifact under runs/<runID>/
	ArchiveArtifact(ctx context.Context, runID string, artifact punch.Artifact) (string, error)

	// PruneRuns deletes archived artifacts last modified before cutoff
	PruneRuns(ctx context.Context, cutoff time.Time) (int, error)

	// ListRun returns the artifacts archived for one run, ordered by name
	ListRun(ctx context.Context, runID string) ([]storage.ObjectInfo, error)

	// OpenArtifact opens one archived artifact by its stored name
	OpenArtifact(ctx context.Context, runID, name string) (io.ReadCloser, error)

	// DeleteRun removes every artifact of a run
	DeleteRun(ctx context.Context, runID string) (int, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// ArchiveArtifact implements FileService. The original name is kept as a
// suffix so archived runs stay readable; a uuid prefix avoids collisions when
// two uploads share a name.
func (s *fileServiceImpl) ArchiveArtifact(ctx context.Context, runID string, artifact punch.Artifact) (string, error) {
	prefix, err := runPrefix(runID)
	if err != nil {
		return "", err
	}

	base := sanitizeName(artifact.Name)
	key := path.Join(prefix, fmt.Sprintf("%s-%s", uuid.New().String()[:8], base))

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(artifact.Data), key, ContentType(artifact.Name))
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", artifact.Name, err)
	}

	return uploadedPath, nil
}

// PruneRuns implements FileService.
func (s *fileServiceImpl) PruneRuns(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := s.storage.List(ctx, runsPrefix)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, o := range objects {
		if !o.ModTime.Before(cutoff) {
			continue
		}
		if err := s.storage.Delete(ctx, o.Path); err != nil {
			return pruned, fmt.Errorf("failed to prune %s: %w", o.Path, err)
		}
		pruned++
	}

	return pruned, nil
}

// ListRun implements FileService.
func (s *fileServiceImpl) ListRun(ctx context.Context, runID string) ([]storage.ObjectInfo, error) {
	prefix, err := runPrefix(runID)
	if err != nil {
		return nil, err
	}

	objects, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, archive.ErrRunNotFound
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Path < objects[j].Path })
	return objects, nil
}

// OpenArtifact implements FileService.
func (s *fileServiceImpl) OpenArtifact(ctx context.Context, runID, name string) (io.ReadCloser, error) {
	prefix, err := runPrefix(runID)
	if err != nil {
		return nil, err
	}
	if name == "" || sanitizeName(name) != name {
		return nil, archive.ErrArtifactNotFound
	}

	rc, err := s.storage.Download(ctx, path.Join(prefix, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, archive.ErrArtifactNotFound
	}
	return rc, err
}

// DeleteRun implements FileService.
func (s *fileServiceImpl) DeleteRun(ctx context.Context, runID string) (int, error) {
	objects, err := s.ListRun(ctx, runID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, o := range objects {
		if err := s.storage.Delete(ctx, o.Path); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", o.Path, err)
		}
		deleted++
	}
	return deleted, nil
}

// runPrefix is the storage prefix of one run. Run IDs are a single path
// segment.
func runPrefix(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", archive.ErrInvalidRunID, runID)
	}
	return path.Join(runsPrefix, runID), nil
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return "artifact"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
}

// ContentType guesses the MIME type of an artifact from its extension.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".csv":
		return "text/csv"
	case ".txt", ".dat":
		return "text/plain"
	}
	return "application/octet-stream"
}
