package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func retrievalResult(id string, category domain.Category, score float32) *domain.RetrievalResult {
	return &domain.RetrievalResult{
		Entry: &domain.KnowledgeEntry{
			ID:        id,
			Content:   "content for " + id,
			Category:  category,
			Source:    domain.SourceStatic,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Score: score,
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	queryVec := []float32{0.1, 0.2, 0.3}
	expected := []*domain.RetrievalResult{
		retrievalResult("a", domain.CategoryEarthquake, 0.91),
		retrievalResult("b", domain.CategoryTsunami, 0.74),
		retrievalResult("c", domain.CategoryFirstAid, 0.60),
	}

	embedding.On("GenerateEmbedding", mock.Anything, "what do I do in an earthquake").Return(queryVec, nil)
	repo.On("SimilaritySearch", mock.Anything, queryVec, 45, 3).Return(expected, nil)

	results, err := retriever.Retrieve(context.Background(), "what do I do in an earthquake", 3)

	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestRetriever_Retrieve_CandidatePoolCap(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	embedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	// 10*15 = 150 exceeds the cap of 100.
	repo.On("SimilaritySearch", mock.Anything, mock.Anything, 100, 10).Return([]*domain.RetrievalResult{}, nil)

	_, err := retriever.Retrieve(context.Background(), "query", 10)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRetriever_Retrieve_EmptyQuery(t *testing.T) {
	retriever := NewRetriever(new(MockEmbeddingClient), new(MockSearchRepository), 15, 100)

	_, err := retriever.Retrieve(context.Background(), "", 3)

	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestRetriever_Retrieve_ZeroK(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	results, err := retriever.Retrieve(context.Background(), "query", 0)

	require.NoError(t, err)
	assert.Empty(t, results)
	embedding.AssertNotCalled(t, "GenerateEmbedding")
}

func TestRetriever_Retrieve_EmbeddingFailure(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	embedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err := retriever.Retrieve(context.Background(), "query", 3)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeServiceError, domainErr.Code)
	repo.AssertNotCalled(t, "SimilaritySearch")
}

func TestRetriever_Retrieve_SearchFailure(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	embedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	repo.On("SimilaritySearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := retriever.Retrieve(context.Background(), "query", 3)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeStoreError, domainErr.Code)
}

func TestRetriever_RetrieveGrounding_Degraded(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	embedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("api down"))

	results := retriever.RetrieveGrounding(context.Background(), "query", 3)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRetriever_RetrieveGrounding_PassesThrough(t *testing.T) {
	embedding := new(MockEmbeddingClient)
	repo := new(MockSearchRepository)
	retriever := NewRetriever(embedding, repo, 15, 100)

	expected := []*domain.RetrievalResult{retrievalResult("a", domain.CategoryFire, 0.8)}
	embedding.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	repo.On("SimilaritySearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(expected, nil)

	results := retriever.RetrieveGrounding(context.Background(), "query", 3)

	assert.Equal(t, expected, results)
}
