package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/relief-labs/reliefai/internal/api"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/service"
)

type KnowledgeAdder interface {
	AddKnowledge(ctx context.Context, content string, category domain.Category, metadata map[string]string) (*domain.KnowledgeEntry, error)
}

type KnowledgeLister interface {
	ListKnowledge(ctx context.Context, input service.ListKnowledgeInput) (*service.ListKnowledgeOutput, error)
}

type KnowledgeHandler struct {
	adder  KnowledgeAdder
	lister KnowledgeLister
}

func NewKnowledgeHandler(adder KnowledgeAdder, lister KnowledgeLister) *KnowledgeHandler {
	return &KnowledgeHandler{adder: adder, lister: lister}
}

type AddKnowledgeRequest struct {
	Content  string            `json:"content"`
	Category string            `json:"category"`
	Metadata map[string]string `json:"metadata"`
}

type KnowledgeEntryResponse struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Category  string            `json:"category"`
	Source    string            `json:"source"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt string            `json:"created_at"`
}

func knowledgeToResponse(k *domain.KnowledgeEntry) *KnowledgeEntryResponse {
	return &KnowledgeEntryResponse{
		ID:        k.ID,
		Content:   k.Content,
		Category:  string(k.Category),
		Source:    string(k.Source),
		Metadata:  k.Metadata,
		CreatedAt: k.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type ListKnowledgeResponse struct {
	Items   []*KnowledgeEntryResponse `json:"items"`
	Cursor  string                    `json:"cursor,omitempty"`
	HasMore bool                      `json:"has_more"`
}

func (h *KnowledgeHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" || req.Category == "" {
		api.Error(w, http.StatusBadRequest, "content and category are required")
		return
	}

	entry, err := h.adder.AddKnowledge(r.Context(), req.Content, domain.Category(req.Category), req.Metadata)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, knowledgeToResponse(entry))
}

func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	out, err := h.lister.ListKnowledge(r.Context(), service.ListKnowledgeInput{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := ListKnowledgeResponse{
		Items:   make([]*KnowledgeEntryResponse, 0, len(out.Items)),
		Cursor:  out.Cursor,
		HasMore: out.HasMore,
	}
	for _, item := range out.Items {
		resp.Items = append(resp.Items, knowledgeToResponse(item))
	}

	api.Success(w, http.StatusOK, resp)
}
