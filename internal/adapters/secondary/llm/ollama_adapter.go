package llm

import (
	"context"
	"errors"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/vibin/crop-advisor/config"
	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/logger"
)

// OllamaAdapter implements the ModelPort interface for a local Ollama server.
// The model must be multimodal (e.g. llava) to answer plant checks.
type OllamaAdapter struct {
	client *ollama.LLM
	config *config.ModelConfig
	logger logger.Logger
}

// NewOllamaAdapter creates a new OllamaAdapter
func NewOllamaAdapter(cfg *config.ModelConfig, log logger.Logger) (*OllamaAdapter, error) {
	log.Info("Initializing Ollama adapter", "endpoint", cfg.Ollama.Endpoint, "model", cfg.Ollama.Model)

	client, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Endpoint),
		ollama.WithModel(cfg.Ollama.Model),
	)
	if err != nil {
		log.Error("Failed to initialize Ollama client", "error", err)
		return nil, err
	}

	return &OllamaAdapter{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}

// GenerateContent sends the parts as one human message and returns the first choice
func (a *OllamaAdapter) GenerateContent(ctx context.Context, req domain.ModelRequest) (domain.ModelResponse, error) {
	if a.config.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.config.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	var opts []llms.CallOption
	if a.config.Ollama.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.config.Ollama.MaxTokens))
	}

	resp, err := a.client.GenerateContent(ctx, toMessageContent(req), opts...)
	if err != nil {
		a.logger.Error("Ollama generation failed", "model", a.config.Ollama.Model, "error", err)
		return domain.ModelResponse{}, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return domain.ModelResponse{}, errors.New("empty response from model")
	}

	return domain.ModelResponse{Text: resp.Choices[0].Content}, nil
}

// GetModelInfo returns information about the current model
func (a *OllamaAdapter) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{
		"name":          a.config.Ollama.Model,
		"provider":      "ollama",
		"endpoint":      a.config.Ollama.Endpoint,
		"maxTokens":     a.config.Ollama.MaxTokens,
		"imageMimeType": a.config.ImageMIMEType,
	}, nil
}

func toMessageContent(req domain.ModelRequest) []llms.MessageContent {
	parts := make([]llms.ContentPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsInline() {
			parts = append(parts, llms.BinaryPart(p.MIMEType, p.Data))
			continue
		}
		parts = append(parts, llms.TextPart(p.Text))
	}

	return []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: parts,
		},
	}
}
