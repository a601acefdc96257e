package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/logger"
)

func newStore(t *testing.T) (*DiskUploadStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewDiskUploadStore(dir, logger.Discard())
	require.NoError(t, err)
	return store, dir
}

func TestSaveReadRemove(t *testing.T) {
	store, dir := newStore(t)
	ctx := context.Background()

	artifact, err := store.Save(ctx, "leaf.JPG", strings.NewReader("image-bytes"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(artifact.Path))
	assert.Equal(t, ".jpg", filepath.Ext(artifact.Path))
	assert.Equal(t, "leaf.JPG", artifact.OriginalName)
	assert.EqualValues(t, len("image-bytes"), artifact.Size)

	data, err := store.Read(ctx, artifact)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	require.NoError(t, store.Remove(ctx, artifact))
	_, err = os.Stat(artifact.Path)
	assert.True(t, os.IsNotExist(err))

	// second removal is a no-op
	assert.NoError(t, store.Remove(ctx, artifact))
}

func TestSaveUsesUniqueNames(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	a, err := store.Save(ctx, "leaf.png", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "leaf.png", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveFailureLeavesNothingBehind(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Save(context.Background(), "leaf.png", failingReader{})
	assert.EqualError(t, err, "connection reset")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, "leaf.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadMissingArtifact(t *testing.T) {
	store, dir := newStore(t)

	_, err := store.Read(context.Background(), &domain.UploadArtifact{Path: filepath.Join(dir, "gone.jpg")})
	assert.Error(t, err)
}

func TestSafeExt(t *testing.T) {
	tests := map[string]string{
		"leaf.jpg":         ".jpg",
		"LEAF.JPEG":        ".jpeg",
		"../../etc/passwd": "",
		"noext":            "",
		"weird.j$g":        "",
		"long.extension":   "",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeExt(in), in)
	}
}
