package ports

import (
	"context"
	"io"

	"github.com/vibin/crop-advisor/internal/core/domain"
)

// UploadStorePort defines temporary storage for uploaded images
type UploadStorePort interface {
	// Save writes the upload to temporary storage
	Save(ctx context.Context, originalName string, data io.Reader) (*domain.UploadArtifact, error)

	// Read returns the full contents of the artifact
	Read(ctx context.Context, artifact *domain.UploadArtifact) ([]byte, error)

	// Remove deletes the artifact
	Remove(ctx context.Context, artifact *domain.UploadArtifact) error
}
