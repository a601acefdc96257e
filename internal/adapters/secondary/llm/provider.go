package llm

import (
	"context"
	"fmt"

	"github.com/vibin/crop-advisor/config"
	"github.com/vibin/crop-advisor/internal/core/ports"
	"github.com/vibin/crop-advisor/internal/logger"
)

// New builds the model adapter selected by cfg.Provider
func New(ctx context.Context, cfg *config.ModelConfig, log logger.Logger) (ports.ModelPort, error) {
	switch cfg.Provider {
	case "gemini", "":
		adapter, err := NewGeminiAdapter(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	case "ollama":
		adapter, err := NewOllamaAdapter(cfg, log)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
