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

func TestSessionService_CreateOrGetSession_Existing(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionServiceWithClock(repo, NewMockUUIDGenerator(), fixedClock(time.Now()))

	existing := domain.NewChatSession("session-1", "user-1", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	repo.On("GetLatestByUserID", mock.Anything, "user-1").Return(existing, nil)

	session, err := svc.CreateOrGetSession(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "session-1", session.ID)
	repo.AssertNotCalled(t, "Create")
}

func TestSessionService_CreateOrGetSession_CreatesWhenMissing(t *testing.T) {
	repo := new(MockSessionRepository)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionServiceWithClock(repo, NewMockUUIDGenerator("session-new"), fixedClock(now))

	repo.On("GetLatestByUserID", mock.Anything, "user-1").Return(nil, domain.ErrSessionNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.ChatSession) bool {
		return s.ID == "session-new" && s.UserID == "user-1" && s.CreatedAt.Equal(now)
	})).Return(nil)

	session, err := svc.CreateOrGetSession(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "session-new", session.ID)
	assert.NotNil(t, session.Messages)
	assert.Empty(t, session.Messages)
}

func TestSessionService_CreateOrGetSession_Stable(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionService(repo)

	existing := domain.NewChatSession("session-1", "user-1", time.Now())
	repo.On("GetLatestByUserID", mock.Anything, "user-1").Return(existing, nil)

	first, err := svc.CreateOrGetSession(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := svc.CreateOrGetSession(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestSessionService_CreateOrGetSession_EmptyUserID(t *testing.T) {
	svc := NewSessionService(new(MockSessionRepository))

	_, err := svc.CreateOrGetSession(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrEmptyUserID)
}

func TestSessionService_StartNewSession_AlwaysFresh(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionServiceWithClock(repo, NewMockUUIDGenerator("s1", "s2"), fixedClock(time.Now()))

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	first, err := svc.StartNewSession(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := svc.StartNewSession(context.Background(), "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	repo.AssertNotCalled(t, "GetLatestByUserID")
}

func TestSessionService_GetSession_NotFound(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionService(repo)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrSessionNotFound)

	_, err := svc.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_GetSession_StoreFailure(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionService(repo)

	repo.On("GetByID", mock.Anything, "session-1").Return(nil, errors.New("connection refused"))

	_, err := svc.GetSession(context.Background(), "session-1")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeStoreError, domainErr.Code)
}

func TestSessionService_AppendTurn(t *testing.T) {
	repo := new(MockSessionRepository)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionServiceWithClock(repo, NewMockUUIDGenerator(), fixedClock(now))

	repo.On("AppendMessages", mock.Anything, "session-1", mock.MatchedBy(func(msgs []domain.Message) bool {
		return len(msgs) == 2 &&
			msgs[0].Role == domain.RoleUser && msgs[0].Text == "question" &&
			msgs[1].Role == domain.RoleModel && msgs[1].Text == "answer"
	})).Return(nil)

	err := svc.AppendTurn(context.Background(), "session-1", "question", "answer")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSessionService_AppendTurn_SessionGone(t *testing.T) {
	repo := new(MockSessionRepository)
	svc := NewSessionService(repo)

	repo.On("AppendMessages", mock.Anything, "session-1", mock.Anything).Return(domain.ErrSessionNotFound)

	err := svc.AppendTurn(context.Background(), "session-1", "question", "answer")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
