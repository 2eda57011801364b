package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDownloadService struct {
	mock.Mock
}

func (m *MockDownloadService) List() []service.DownloadResource {
	args := m.Called()
	return args.Get(0).([]service.DownloadResource)
}

func (m *MockDownloadService) SignURL(ctx context.Context, category, filename string) (string, error) {
	args := m.Called(ctx, category, filename)
	return args.String(0), args.Error(1)
}

func TestDownloadHandler_List(t *testing.T) {
	mockSvc := new(MockDownloadService)
	handler := NewDownloadHandler(mockSvc)

	mockSvc.On("List").Return(service.DownloadCatalog())

	req := httptest.NewRequest(http.MethodGet, "/api/downloads", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data ListDownloadsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Downloads, 4)
	assert.Equal(t, "/api/download/pdfs/emergency-preparedness-guide.pdf", envelope.Data.Downloads[0].DownloadURL)
}

func TestDownloadHandler_Download(t *testing.T) {
	mockSvc := new(MockDownloadService)
	handler := NewDownloadHandler(mockSvc)

	mockSvc.On("SignURL", mock.Anything, "pdfs", "emergency-preparedness-guide.pdf").
		Return("https://storage.example.com/signed", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/download/pdfs/emergency-preparedness-guide.pdf", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("category", "pdfs")
	rctx.URLParams.Add("filename", "emergency-preparedness-guide.pdf")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Download(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://storage.example.com/signed", w.Header().Get("Location"))
}

func TestDownloadHandler_Download_NotFound(t *testing.T) {
	mockSvc := new(MockDownloadService)
	handler := NewDownloadHandler(mockSvc)

	mockSvc.On("SignURL", mock.Anything, "pdfs", "missing.pdf").Return("", domain.ErrDownloadNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/download/pdfs/missing.pdf", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("category", "pdfs")
	rctx.URLParams.Add("filename", "missing.pdf")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Download(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
