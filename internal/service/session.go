package service

import (
	"context"
	"errors"
	"time"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// SessionRepositoryInterface defines the repository interface for chat session persistence
type SessionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.ChatSession) error
	GetByID(ctx context.Context, id string) (*domain.ChatSession, error)
	GetLatestByUserID(ctx context.Context, userID string) (*domain.ChatSession, error)
	AppendMessages(ctx context.Context, sessionID string, messages []domain.Message) error
}

// SessionService manages chat session lifecycle and transcripts.
type SessionService struct {
	repo    SessionRepositoryInterface
	uuidGen UUIDGenerator
	now     func() time.Time
}

// NewSessionService creates a new SessionService instance
func NewSessionService(repo SessionRepositoryInterface) *SessionService {
	return &SessionService{
		repo:    repo,
		uuidGen: &DefaultUUIDGenerator{},
		now:     time.Now,
	}
}

// NewSessionServiceWithClock creates a SessionService with custom UUID
// generation and clock (for testing).
func NewSessionServiceWithClock(repo SessionRepositoryInterface, uuidGen UUIDGenerator, now func() time.Time) *SessionService {
	return &SessionService{repo: repo, uuidGen: uuidGen, now: now}
}

// CreateOrGetSession returns the user's most recent session, creating
// one when none exists. Repeated calls without an intervening
// StartNewSession return the same session.
func (s *SessionService) CreateOrGetSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	ctx, span := telemetry.StartSpan(ctx, "SessionService.CreateOrGetSession", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "create_or_get",
	})
	defer span.End()

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	session, err := s.repo.GetLatestByUserID(ctx, userID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.NewStoreError("failed to look up session", err)
	}

	return s.createSession(ctx, userID)
}

// StartNewSession always creates a fresh session for the user. Prior
// sessions remain queryable by ID.
func (s *SessionService) StartNewSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	ctx, span := telemetry.StartSpan(ctx, "SessionService.StartNewSession", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "start_new",
	})
	defer span.End()

	if userID == "" {
		return nil, domain.ErrEmptyUserID
	}

	return s.createSession(ctx, userID)
}

// GetSession returns the session with its full transcript.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	ctx, span := telemetry.StartSpan(ctx, "SessionService.GetSession", telemetry.SpanAttributes{
		SessionID: sessionID,
		Operation: "get",
	})
	defer span.End()

	if sessionID == "" {
		return nil, domain.ErrEmptySessionID
	}

	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, domain.NewStoreError("failed to load session", err)
	}
	return session, nil
}

// AppendTurn appends the user and model messages of one completed chat
// turn to the transcript as a single unit.
func (s *SessionService) AppendTurn(ctx context.Context, sessionID string, userText, modelText string) error {
	now := s.now().UTC()
	messages := []domain.Message{
		domain.NewMessage(userText, domain.RoleUser, now),
		domain.NewMessage(modelText, domain.RoleModel, now),
	}
	for _, m := range messages {
		if err := domain.ValidateMessage(m); err != nil {
			return err
		}
	}

	if err := s.repo.AppendMessages(ctx, sessionID, messages); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		return domain.NewStoreError("failed to append messages", err)
	}
	return nil
}

func (s *SessionService) createSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	session := domain.NewChatSession(s.uuidGen.NewString(), userID, s.now().UTC())
	if err := domain.ValidateChatSession(session); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, domain.NewStoreError("failed to create session", err)
	}
	return session, nil
}
