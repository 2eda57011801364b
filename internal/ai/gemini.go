package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	// DefaultGeminiEmbeddingModel is the Gemini model used for generating embeddings
	DefaultGeminiEmbeddingModel = "text-embedding-004"
	// DefaultGeminiGenerationModel is the Gemini model used for chat generation
	DefaultGeminiGenerationModel = "gemini-2.0-flash"
	// DefaultGeminiEmbeddingDimensions is the dimension of text-embedding-004 vectors
	DefaultGeminiEmbeddingDimensions = 768

	// retrievalTaskType tells the embedding model the vectors are used for
	// similarity search against stored documents.
	retrievalTaskType = "RETRIEVAL_QUERY"
)

// GeminiClient wraps the Gemini API for embeddings and chat generation
type GeminiClient struct {
	apiKey          string
	embeddingModel  string
	generationModel string
	dimensions      int
}

// NewGeminiClient creates a Gemini client from the given configuration.
func NewGeminiClient(cfg Config) *GeminiClient {
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultGeminiEmbeddingModel
	}
	generationModel := cfg.GenerationModel
	if generationModel == "" {
		generationModel = DefaultGeminiGenerationModel
	}
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultGeminiEmbeddingDimensions
	}
	return &GeminiClient{
		apiKey:          strings.TrimSpace(cfg.GeminiAPIKey),
		embeddingModel:  embeddingModel,
		generationModel: generationModel,
		dimensions:      dimensions,
	}
}

// Dimensions returns the fixed embedding dimensionality.
func (c *GeminiClient) Dimensions() int {
	return c.dimensions
}

func (c *GeminiClient) newSDKClient(ctx context.Context) (*genai.Client, error) {
	if c.apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// GenerateEmbedding generates an embedding for the given text
func (c *GeminiClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	client, err := c.newSDKClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.EmbedContent(
		ctx,
		c.embeddingModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: text}}}},
		&genai.EmbedContentConfig{TaskType: retrievalTaskType},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, errors.New("no embedding values returned")
	}

	embedding := resp.Embeddings[0].Values
	if len(embedding) != c.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, c.dimensions, len(embedding))
	}

	return embedding, nil
}

// GenerateText generates a completion for the given prompt
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	client, err := c.newSDKClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(
		ctx,
		c.generationModel,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty generation response")
	}

	return text, nil
}
