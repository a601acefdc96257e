package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vibin/crop-advisor/config"
	"github.com/vibin/crop-advisor/internal/core/domain"
	"github.com/vibin/crop-advisor/internal/logger"
	"google.golang.org/genai"
)

// GeminiAdapter implements the ModelPort interface for the Gemini API
type GeminiAdapter struct {
	client *genai.Client
	config *config.ModelConfig
	logger logger.Logger
}

// NewGeminiAdapter creates the single Gemini client used by every request.
// When VerifyOnStart is set the key is checked against the API before returning.
func NewGeminiAdapter(ctx context.Context, cfg *config.ModelConfig, log logger.Logger) (*GeminiAdapter, error) {
	if cfg.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}

	log = log.WithFields(map[string]any{"provider": "gemini", "model": cfg.Name})
	log.Info("Initializing Gemini adapter")

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return nil, err
	}

	a := &GeminiAdapter{
		client: client,
		config: cfg,
		logger: log,
	}

	if cfg.VerifyOnStart {
		if _, err := client.Models.Get(ctx, cfg.Name, nil); err != nil {
			return nil, fmt.Errorf("verify model %q: %w", cfg.Name, err)
		}
	}

	return a, nil
}

// GenerateContent sends the parts as a single user turn and returns the reply text
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req domain.ModelRequest) (domain.ModelResponse, error) {
	if a.config.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.config.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	res, err := a.client.Models.GenerateContent(ctx, a.config.Name, toGenAIContents(req), nil)
	if err != nil {
		a.logger.Error("Gemini generation failed", "model", a.config.Name, "error", err)
		return domain.ModelResponse{}, err
	}
	if err := checkResponse(res); err != nil {
		a.logger.Warn("Gemini returned no usable reply", "model", a.config.Name, "error", err)
		return domain.ModelResponse{}, err
	}

	return domain.ModelResponse{Text: res.Text()}, nil
}

// checkResponse rejects replies that carry no text because the prompt or
// the candidate was blocked.
func checkResponse(res *genai.GenerateContentResponse) error {
	if res == nil {
		return errors.New("empty response from model")
	}
	if len(res.Candidates) == 0 {
		if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			return fmt.Errorf("prompt blocked by model: %s", res.PromptFeedback.BlockReason)
		}
		return errors.New("model returned no candidates")
	}

	first := res.Candidates[0]
	if res.Text() != "" {
		return nil
	}
	switch first.FinishReason {
	case "", genai.FinishReasonStop, genai.FinishReasonMaxTokens:
		return errors.New("model returned an empty reply")
	default:
		return fmt.Errorf("reply blocked by model: %s", first.FinishReason)
	}
}

// GetModelInfo returns information about the current model
func (a *GeminiAdapter) GetModelInfo(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{
		"name":          a.config.Name,
		"provider":      "gemini",
		"imageMimeType": a.config.ImageMIMEType,
	}, nil
}

func toGenAIContents(req domain.ModelRequest) []*genai.Content {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsInline() {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: p.MIMEType,
					Data:     p.Data,
				},
			})
			continue
		}
		parts = append(parts, &genai.Part{Text: p.Text})
	}

	return []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: parts,
		},
	}
}
