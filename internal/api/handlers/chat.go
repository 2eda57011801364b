package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/relief-labs/reliefai/internal/api"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/service"
)

type ChatService interface {
	HandleMessage(ctx context.Context, input service.ChatInput) (*service.ChatResult, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatMessage struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

type ChatRequest struct {
	SessionID   string        `json:"sessionId"`
	UserID      string        `json:"userId"`
	Message     string        `json:"message"`
	ChatHistory []ChatMessage `json:"chatHistory"`
}

type ContextScore struct {
	Category string  `json:"category"`
	Score    float32 `json:"score"`
}

type ChatDebug struct {
	Query         string         `json:"query"`
	ContextScores []ContextScore `json:"context_scores"`
}

type ChatResponse struct {
	Response    string    `json:"response"`
	ContextUsed int       `json:"context_used"`
	Categories  []string  `json:"categories"`
	Debug       ChatDebug `json:"debug"`
	Warning     string    `json:"warning,omitempty"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SessionID == "" || req.UserID == "" || req.Message == "" {
		api.Error(w, http.StatusBadRequest, "missing session ID, user ID, or message")
		return
	}

	history := make([]domain.Message, 0, len(req.ChatHistory))
	for _, m := range req.ChatHistory {
		history = append(history, domain.Message{
			Text: m.Text,
			Role: domain.MessageRole(m.Role),
		})
	}

	result, err := h.svc.HandleMessage(r.Context(), service.ChatInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Message:   req.Message,
		History:   history,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := ChatResponse{
		Response:    result.Reply,
		ContextUsed: len(result.Results),
		Categories:  make([]string, 0, len(result.Results)),
		Debug: ChatDebug{
			Query:         req.Message,
			ContextScores: make([]ContextScore, 0, len(result.Results)),
		},
	}
	for _, res := range result.Results {
		resp.Categories = append(resp.Categories, string(res.Entry.Category))
		resp.Debug.ContextScores = append(resp.Debug.ContextScores, ContextScore{
			Category: string(res.Entry.Category),
			Score:    res.Score,
		})
	}
	if result.SaveErr != nil {
		resp.Warning = "reply was generated but could not be saved to session history"
	}

	api.Success(w, http.StatusOK, resp)
}
