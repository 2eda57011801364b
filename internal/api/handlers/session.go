package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/relief-labs/reliefai/internal/api"
	"github.com/relief-labs/reliefai/internal/domain"
)

type SessionService interface {
	CreateOrGetSession(ctx context.Context, userID string) (*domain.ChatSession, error)
	StartNewSession(ctx context.Context, userID string) (*domain.ChatSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error)
}

type SessionHandler struct {
	svc SessionService
}

func NewSessionHandler(svc SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type NewSessionRequest struct {
	UserID string `json:"userId"`
	Reset  bool   `json:"reset"`
}

type MessageResponse struct {
	Text      string `json:"text"`
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
}

type SessionResponse struct {
	SessionID string            `json:"sessionId"`
	UserID    string            `json:"userId"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt string            `json:"createdAt"`
}

func sessionToResponse(s *domain.ChatSession) *SessionResponse {
	messages := make([]MessageResponse, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, MessageResponse{
			Text:      m.Text,
			Role:      string(m.Role),
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return &SessionResponse{
		SessionID: s.ID,
		UserID:    s.UserID,
		Messages:  messages,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// New returns the user's current session, creating one when none
// exists. reset:true forces a fresh session.
func (h *SessionHandler) New(w http.ResponseWriter, r *http.Request) {
	var req NewSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		api.Error(w, http.StatusBadRequest, "userId is required")
		return
	}

	var (
		session *domain.ChatSession
		err     error
	)
	if req.Reset {
		session, err = h.svc.StartNewSession(r.Context(), req.UserID)
	} else {
		session, err = h.svc.CreateOrGetSession(r.Context(), req.UserID)
	}
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, sessionToResponse(session))
}

// Get returns a session with its full transcript.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		api.Error(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	session, err := h.svc.GetSession(r.Context(), sessionID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, sessionToResponse(session))
}
