package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/logger"
)

// DiskUploadStore implements the UploadStorePort interface on the local filesystem
type DiskUploadStore struct {
	basePath string
	logger   logger.Logger
}

// NewDiskUploadStore creates the base directory if needed and returns a store rooted at it
func NewDiskUploadStore(basePath string, log logger.Logger) (*DiskUploadStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskUploadStore{
		basePath: basePath,
		logger:   log,
	}, nil
}

// Save writes data to a new uniquely named file under the base directory
func (s *DiskUploadStore) Save(ctx context.Context, originalName string, data io.Reader) (*domain.UploadArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	path := filepath.Join(s.basePath, id+safeExt(originalName))

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}

	size, err := io.Copy(file, data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// the caller never sees a half-written artifact
		os.Remove(path)
		return nil, err
	}

	return &domain.UploadArtifact{
		ID:           id,
		OriginalName: originalName,
		Path:         path,
		Size:         size,
		CreatedAt:    time.Now(),
	}, nil
}

// Read returns the whole artifact
func (s *DiskUploadStore) Read(ctx context.Context, artifact *domain.UploadArtifact) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(artifact.Path)
}

// Remove deletes the artifact. Removing an already deleted artifact is not an error.
func (s *DiskUploadStore) Remove(ctx context.Context, artifact *domain.UploadArtifact) error {
	err := os.Remove(artifact.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	s.logger.Debug("Removed upload", "id", artifact.ID)
	return nil
}

// safeExt keeps a short extension from the client's file name and nothing else
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
