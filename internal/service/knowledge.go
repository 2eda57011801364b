package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/pagination"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// KnowledgeRepositoryInterface defines the repository interface for knowledge persistence
type KnowledgeRepositoryInterface interface {
	Insert(ctx context.Context, k *domain.KnowledgeEntry) error
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*domain.KnowledgeEntry, error)
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*KnowledgePageResult, error)
	ListStaticCategories(ctx context.Context) ([]domain.Category, error)
}

type KnowledgePageResult struct {
	Items      []*domain.KnowledgeEntry
	NextCursor string
	HasMore    bool
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// KnowledgeService exposes read access to the knowledge store for the
// admin endpoints. Writes go through the Seeder so every insert shares
// the same bootstrap guard.
type KnowledgeService struct {
	repo KnowledgeRepositoryInterface
}

// NewKnowledgeService creates a new KnowledgeService instance
func NewKnowledgeService(repo KnowledgeRepositoryInterface) *KnowledgeService {
	return &KnowledgeService{repo: repo}
}

type ListKnowledgeInput struct {
	Cursor string
	Limit  int
}

type ListKnowledgeOutput struct {
	Items   []*domain.KnowledgeEntry
	Cursor  string
	HasMore bool
}

// GetByID retrieves a knowledge entry by ID
func (s *KnowledgeService) GetByID(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.GetByID", telemetry.SpanAttributes{
		KnowledgeID: id,
		Operation:   "get",
	})
	defer span.End()

	return s.repo.GetByID(ctx, id)
}

func (s *KnowledgeService) ListKnowledge(ctx context.Context, input ListKnowledgeInput) (*ListKnowledgeOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.ListKnowledge", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	cursor, _ := pagination.DecodeCursor(input.Cursor)
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.repo.ListWithCursor(ctx, cursor, limit)
	if err != nil {
		return nil, domain.NewStoreError("failed to list knowledge entries", err)
	}

	return &ListKnowledgeOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}
