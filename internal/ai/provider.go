// Package ai wraps the external embedding and generation model services
// behind small provider-agnostic interfaces.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrEmptyPrompt is returned when a generation prompt is empty
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// EmbeddingClient maps text to a fixed-length vector.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// GenerationClient maps a prompt to generated text.
type GenerationClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Client is a full model-service handle: embeddings plus generation.
type Client interface {
	EmbeddingClient
	GenerationClient
	// Dimensions returns the fixed embedding dimensionality this client produces.
	Dimensions() int
}

// Config selects and configures a provider.
type Config struct {
	Provider            string // "openai" or "gemini"
	OpenAIAPIKey        string
	GeminiAPIKey        string
	EmbeddingModel      string
	GenerationModel     string
	EmbeddingDimensions int
}

// NewClient constructs the configured provider's client.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		return NewOpenAIClientWithConfig(cfg), nil
	case "gemini", "":
		return NewGeminiClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
