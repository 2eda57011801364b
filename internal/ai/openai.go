package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultOpenAIEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultOpenAIGenerationModel is the OpenAI model used for chat generation
	DefaultOpenAIGenerationModel = openai.GPT4oMini
	// DefaultOpenAIEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultOpenAIEmbeddingDimensions = 1536
)

// openAIAPI defines the subset of the OpenAI SDK this client depends on
type openAIAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient wraps the OpenAI API for embeddings and chat generation
type OpenAIClient struct {
	api             openAIAPI
	embeddingModel  openai.EmbeddingModel
	generationModel string
	dimensions      int
}

// NewOpenAIClient creates an OpenAI client with default models.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(Config{OpenAIAPIKey: apiKey})
}

// NewOpenAIClientWithConfig creates an OpenAI client with explicit configuration.
func NewOpenAIClientWithConfig(cfg Config) *OpenAIClient {
	embeddingModel := openai.EmbeddingModel(cfg.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = DefaultOpenAIEmbeddingModel
	}
	generationModel := cfg.GenerationModel
	if generationModel == "" {
		generationModel = DefaultOpenAIGenerationModel
	}
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultOpenAIEmbeddingDimensions
	}
	return &OpenAIClient{
		api:             openai.NewClient(cfg.OpenAIAPIKey),
		embeddingModel:  embeddingModel,
		generationModel: generationModel,
		dimensions:      dimensions,
	}
}

// Dimensions returns the fixed embedding dimensionality.
func (c *OpenAIClient) Dimensions() int {
	return c.dimensions
}

// GenerateEmbedding generates an embedding for the given text
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, c.dimensions, len(embedding))
	}

	return embedding, nil
}

// GenerateText generates a completion for the given prompt
func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.generationModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
