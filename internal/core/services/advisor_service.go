package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vibin/crop-advisor/config"
	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/core/ports"
	"github.com/vibin/crop-advisor/internal/logger"
)

// ErrMissingImage is returned when a plant check arrives without an image
var ErrMissingImage = errors.New("no image file uploaded")

// AdvisorService relays plant images and farmer questions to the model
type AdvisorService struct {
	model   ports.ModelPort
	uploads ports.UploadStorePort
	logger  logger.Logger
	config  *config.Config
}

// NewAdvisorService creates a new AdvisorService
func NewAdvisorService(model ports.ModelPort, uploads ports.UploadStorePort, config *config.Config, logger logger.Logger) *AdvisorService {
	return &AdvisorService{
		model:   model,
		uploads: uploads,
		logger:  logger,
		config:  config,
	}
}

// CheckPlant stores the uploaded image, asks the model for a diagnosis and
// returns its raw reply. The stored upload is removed on every return path.
func (s *AdvisorService) CheckPlant(ctx context.Context, originalName string, image io.Reader) (string, error) {
	if image == nil {
		return "", domain.InputError(ErrMissingImage)
	}

	artifact, err := s.uploads.Save(ctx, originalName, image)
	if err != nil {
		return "", domain.InputError(fmt.Errorf("store upload: %w", err))
	}
	defer s.release(artifact)

	s.logger.Debug("Stored upload", "id", artifact.ID, "size", artifact.Size)

	data, err := s.uploads.Read(ctx, artifact)
	if err != nil {
		return "", domain.InputError(fmt.Errorf("read upload: %w", err))
	}

	req := domain.NewPlantCheckRequest(s.config.Model.ImageMIMEType, data)
	return s.generate(ctx, req)
}

// Chat asks the model to answer a single farmer message. No history is kept.
func (s *AdvisorService) Chat(ctx context.Context, message string) (string, error) {
	return s.generate(ctx, domain.NewChatRequest(message))
}

// GetModelInfo returns information about the configured model
func (s *AdvisorService) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	return s.model.GetModelInfo(ctx)
}

func (s *AdvisorService) generate(ctx context.Context, req domain.ModelRequest) (string, error) {
	resp, err := s.model.GenerateContent(ctx, req)
	if err != nil {
		return "", domain.UpstreamError(err)
	}
	return resp.Text, nil
}

// release removes the artifact even when the request context is already done
func (s *AdvisorService) release(artifact *domain.UploadArtifact) {
	if err := s.uploads.Remove(context.Background(), artifact); err != nil {
		s.logger.Warn("Failed to remove upload", "id", artifact.ID, "path", artifact.Path, "error", err)
	}
}
