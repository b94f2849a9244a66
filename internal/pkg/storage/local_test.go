package storage

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("37 2025-03-10 09:00:00"), "runs/abc/clock.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "runs/abc/clock.txt", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "37 2025-03-10 09:00:00", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../outside.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	objects, err := s.List(ctx, "runs")
	require.NoError(t, err)
	assert.Empty(t, objects)

	for _, key := range []string{"runs/a/clock.txt", "runs/b/2025-03.xlsx", "other/x.txt"} {
		_, err := s.Upload(ctx, strings.NewReader("data"), key, "application/octet-stream")
		require.NoError(t, err)
	}

	objects, err = s.List(ctx, "runs")
	require.NoError(t, err)

	var paths []string
	for _, o := range objects {
		paths = append(paths, o.Path)
		assert.Equal(t, int64(4), o.Size)
	}
	assert.ElementsMatch(t, []string{"runs/a/clock.txt", "runs/b/2025-03.xlsx"}, paths)
}

func TestLocalStorage_DeleteRemovesEmptiedDirectories(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	for _, key := range []string{"runs/a/clock.txt", "runs/b/clock.txt"} {
		_, err := s.Upload(ctx, strings.NewReader("data"), key, "text/plain")
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(ctx, "runs/a/clock.txt"))
	assert.NoDirExists(t, filepath.Join(base, "runs", "a"))
	assert.DirExists(t, filepath.Join(base, "runs", "b"))

	require.NoError(t, s.Delete(ctx, "runs/b/clock.txt"))
	assert.NoDirExists(t, filepath.Join(base, "runs"))
	assert.DirExists(t, base)
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "runs/none/clock.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
