package ports

import (
	"context"

	"github.com/vibin/crop-advisor/internal/core/domain"
)

// ModelPort defines the interface for interacting with the generative model backend.
// Implementations must be safe for concurrent use.
type ModelPort interface {
	// GenerateContent sends the request parts to the model and returns its text reply
	GenerateContent(ctx context.Context, req domain.ModelRequest) (domain.ModelResponse, error)

	// GetModelInfo returns information about the configured model
	GetModelInfo(ctx context.Context) (map[string]interface{}, error)
}
