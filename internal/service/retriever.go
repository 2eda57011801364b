package service

import (
	"context"
	"log"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// SearchRepository defines the repository interface for similarity search
type SearchRepository interface {
	SimilaritySearch(ctx context.Context, queryVec []float32, candidatePool, limit int) ([]*domain.RetrievalResult, error)
}

// Retriever embeds a query and finds the most similar knowledge entries.
type Retriever struct {
	embedding     EmbeddingClient
	repo          SearchRepository
	overfetch     int
	maxCandidates int
}

// NewRetriever creates a new Retriever instance. overfetch scales the
// candidate pool scanned per requested result; maxCandidates caps it.
func NewRetriever(embedding EmbeddingClient, repo SearchRepository, overfetch, maxCandidates int) *Retriever {
	if overfetch <= 0 {
		overfetch = 15
	}
	if maxCandidates <= 0 {
		maxCandidates = 100
	}
	return &Retriever{
		embedding:     embedding,
		repo:          repo,
		overfetch:     overfetch,
		maxCandidates: maxCandidates,
	}
}

// Retrieve returns up to k entries most similar to query, scored
// descending. An embedding or store failure fails the call.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]*domain.RetrievalResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "Retriever.Retrieve", telemetry.SpanAttributes{
		Operation: "retrieve",
	})
	defer span.End()

	if query == "" {
		return nil, domain.ErrEmptyMessage
	}
	if k <= 0 {
		return []*domain.RetrievalResult{}, nil
	}

	queryVec, err := r.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewServiceError("failed to embed query", err)
	}

	pool := k * r.overfetch
	if pool > r.maxCandidates {
		pool = r.maxCandidates
	}

	results, err := r.repo.SimilaritySearch(ctx, queryVec, pool, k)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewStoreError("similarity search failed", err)
	}
	return results, nil
}

// RetrieveGrounding is the degraded-mode variant used by the chat flow:
// any failure yields an empty result set instead of an error, so the
// conversation can continue without knowledge base grounding.
func (r *Retriever) RetrieveGrounding(ctx context.Context, query string, k int) []*domain.RetrievalResult {
	results, err := r.Retrieve(ctx, query, k)
	if err != nil {
		log.Printf("retriever: degraded mode, continuing without context: %v", err)
		telemetry.CaptureError(ctx, err)
		return []*domain.RetrievalResult{}
	}
	return results
}
