package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/relief-labs/reliefai/internal/api"
	"github.com/relief-labs/reliefai/internal/service"
)

type DownloadService interface {
	List() []service.DownloadResource
	SignURL(ctx context.Context, category, filename string) (string, error)
}

type DownloadHandler struct {
	svc DownloadService
}

func NewDownloadHandler(svc DownloadService) *DownloadHandler {
	return &DownloadHandler{svc: svc}
}

type DownloadResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Filename    string `json:"filename"`
	Type        string `json:"type"`
	Size        string `json:"size"`
	DownloadURL string `json:"downloadUrl"`
}

type ListDownloadsResponse struct {
	Downloads []DownloadResponse `json:"downloads"`
}

type SignedURLResponse struct {
	URL string `json:"url"`
}

func (h *DownloadHandler) List(w http.ResponseWriter, r *http.Request) {
	resources := h.svc.List()

	resp := ListDownloadsResponse{Downloads: make([]DownloadResponse, 0, len(resources))}
	for _, res := range resources {
		resp.Downloads = append(resp.Downloads, DownloadResponse{
			ID:          res.ID,
			Title:       res.Title,
			Description: res.Description,
			Category:    res.Category,
			Filename:    res.Filename,
			Type:        res.Type,
			Size:        res.Size,
			DownloadURL: fmt.Sprintf("/api/download/%s/%s", res.Category, res.Filename),
		})
	}

	api.Success(w, http.StatusOK, resp)
}

// Download redirects to a time-limited URL for the requested resource.
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	filename := chi.URLParam(r, "filename")
	if category == "" || filename == "" {
		api.Error(w, http.StatusBadRequest, "category and filename are required")
		return
	}

	url, err := h.svc.SignURL(r.Context(), category, filename)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
