package service

import (
	"context"
	"errors"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// GenerationClient defines the interface for text generation
type GenerationClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// RetrieverInterface defines the retrieval interface used by the chat flow
type RetrieverInterface interface {
	RetrieveGrounding(ctx context.Context, query string, k int) []*domain.RetrievalResult
}

// SessionServiceInterface defines the session operations the chat flow needs
type SessionServiceInterface interface {
	GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error)
	AppendTurn(ctx context.Context, sessionID string, userText, modelText string) error
}

// Entries retrieved per chat turn.
const chatRetrievalK = 3

// ChatService orchestrates one chat turn: retrieve grounding, assemble
// the prompt, generate a reply, and persist the turn.
type ChatService struct {
	retriever  RetrieverInterface
	generation GenerationClient
	sessions   SessionServiceInterface
}

// NewChatService creates a new ChatService instance
func NewChatService(retriever RetrieverInterface, generation GenerationClient, sessions SessionServiceInterface) *ChatService {
	return &ChatService{
		retriever:  retriever,
		generation: generation,
		sessions:   sessions,
	}
}

// ChatInput represents one user turn. History is caller-supplied
// conversation context used for prompting only; the stored transcript
// is not re-read.
type ChatInput struct {
	SessionID string
	UserID    string
	Message   string
	History   []domain.Message
}

// ChatResult carries the reply plus grounding metadata. SaveErr is set
// when the reply was generated but the transcript append failed; the
// reply is still usable.
type ChatResult struct {
	Reply   string
	Results []*domain.RetrievalResult
	SaveErr error
}

// Categories returns the category of each grounding result, in rank order.
func (r *ChatResult) Categories() []domain.Category {
	categories := make([]domain.Category, 0, len(r.Results))
	for _, res := range r.Results {
		categories = append(categories, res.Entry.Category)
	}
	return categories
}

// HandleMessage processes one chat turn. Retrieval runs in degraded
// mode, so a knowledge store outage produces an ungrounded reply rather
// than an error. A generation failure is fatal to the turn and leaves
// the transcript untouched.
func (s *ChatService) HandleMessage(ctx context.Context, input ChatInput) (*ChatResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.HandleMessage", telemetry.SpanAttributes{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Operation: "chat",
	})
	defer span.End()

	if input.SessionID == "" {
		return nil, domain.ErrEmptySessionID
	}
	if input.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}
	if input.Message == "" {
		return nil, domain.ErrEmptyMessage
	}

	if _, err := s.sessions.GetSession(ctx, input.SessionID); err != nil {
		return nil, err
	}

	results := s.retriever.RetrieveGrounding(ctx, input.Message, chatRetrievalK)
	prompt := AssemblePrompt(results, input.History, input.Message)

	reply, err := s.generation.GenerateText(ctx, prompt)
	if err != nil {
		span.SetError(err)
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.NewServiceError("failed to generate response", err)
	}

	result := &ChatResult{Reply: reply, Results: results}
	if err := s.sessions.AppendTurn(ctx, input.SessionID, input.Message, reply); err != nil {
		// The reply already exists; losing it over a transcript write
		// would be worse than a gap in history.
		telemetry.CaptureError(ctx, err)
		result.SaveErr = err
	}
	return result, nil
}
