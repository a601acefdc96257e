package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrMissingAPIKey is returned when the gemini provider is selected without a key
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")

// Config represents the application configuration
type Config struct {
	Server ServerConfig `json:"server"`
	Model  ModelConfig  `json:"model"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                   int    `json:"port"`
	UploadDir              string `json:"upload_dir"`
	MaxUploadBytes         int64  `json:"max_upload_bytes"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds"`
}

// ModelConfig holds configuration for the generative model backend
type ModelConfig struct {
	Provider       string       `json:"provider"` // "gemini" or "ollama"
	APIKey         string       `json:"-"`
	Name           string       `json:"name"`
	BaseURL        string       `json:"base_url,omitempty"`
	ImageMIMEType  string       `json:"image_mime_type"`
	TimeoutSeconds int          `json:"timeout_seconds"` // 0 disables the per-call timeout
	VerifyOnStart  bool         `json:"verify_on_start"`
	Ollama         OllamaConfig `json:"ollama"`
}

// OllamaConfig holds specific configuration for Ollama integration
type OllamaConfig struct {
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   5000,
			UploadDir:              "uploads",
			MaxUploadBytes:         10 << 20,
			ShutdownTimeoutSeconds: 10,
		},
		Model: ModelConfig{
			Provider:      "gemini",
			Name:          "gemini-1.5-flash",
			ImageMIMEType: "image/jpeg",
			Ollama: OllamaConfig{
				Endpoint:  "http://localhost:11434",
				Model:     "llava:7b",
				MaxTokens: 1024,
			},
		},
	}
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return config, nil
}

// ApplyEnv overrides configuration values with environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("MODEL_PROVIDER"); v != "" {
		c.Model.Provider = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv("OLLAMA_ENDPOINT"); v != "" {
		c.Model.Ollama.Endpoint = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		c.Server.UploadDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks that the configuration can serve requests
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "gemini":
		if c.Model.APIKey == "" {
			return ErrMissingAPIKey
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.UploadDir == "" {
		return errors.New("upload_dir must not be empty")
	}
	return nil
}
