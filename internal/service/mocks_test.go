package service

import (
	"context"
	"time"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/pagination"
	"github.com/stretchr/testify/mock"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockGenerationClient is a mock implementation of GenerationClient
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockKnowledgeRepository is a mock implementation of KnowledgeRepositoryInterface
type MockKnowledgeRepository struct {
	mock.Mock
}

func (m *MockKnowledgeRepository) Insert(ctx context.Context, k *domain.KnowledgeEntry) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKnowledgeRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockKnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeEntry), args.Error(1)
}

func (m *MockKnowledgeRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*KnowledgePageResult, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*KnowledgePageResult), args.Error(1)
}

func (m *MockKnowledgeRepository) ListStaticCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// MockSearchRepository is a mock implementation of SearchRepository
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) SimilaritySearch(ctx context.Context, queryVec []float32, candidatePool, limit int) ([]*domain.RetrievalResult, error) {
	args := m.Called(ctx, queryVec, candidatePool, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RetrievalResult), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepositoryInterface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *domain.ChatSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) GetLatestByUserID(ctx context.Context, userID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) AppendMessages(ctx context.Context, sessionID string, messages []domain.Message) error {
	args := m.Called(ctx, sessionID, messages)
	return args.Error(0)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepositoryInterface
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *domain.EmailSubscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) GetByEmail(ctx context.Context, email string) (*domain.EmailSubscription, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailSubscription), args.Error(1)
}

func (m *MockSubscriptionRepository) SetActive(ctx context.Context, email string, active bool, at time.Time) error {
	args := m.Called(ctx, email, active, at)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ListActive(ctx context.Context) ([]*domain.EmailSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EmailSubscription), args.Error(1)
}

// MockURLSigner is a mock implementation of DownloadURLSigner
type MockURLSigner struct {
	mock.Mock
}

func (m *MockURLSigner) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockUUIDGenerator returns a fixed sequence of UUIDs
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	return "default-uuid"
}

// passthroughLocker runs the critical section without any locking
type passthroughLocker struct {
	calls int
}

func (l *passthroughLocker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	l.calls++
	return fn(ctx)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
