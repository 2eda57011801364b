package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateOrGetSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionService) StartNewSession(ctx context.Context, userID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func TestSessionHandler_New(t *testing.T) {
	mockSvc := new(MockSessionService)
	handler := NewSessionHandler(mockSvc)

	session := domain.NewChatSession("session-1", "user-1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	mockSvc.On("CreateOrGetSession", mock.Anything, "user-1").Return(session, nil)

	body := `{"userId": "user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/new", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	handler.New(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "session-1", envelope.Data.SessionID)
	assert.Equal(t, "user-1", envelope.Data.UserID)
	assert.NotNil(t, envelope.Data.Messages)
	mockSvc.AssertNotCalled(t, "StartNewSession")
}

func TestSessionHandler_New_Reset(t *testing.T) {
	mockSvc := new(MockSessionService)
	handler := NewSessionHandler(mockSvc)

	session := domain.NewChatSession("session-2", "user-1", time.Now())
	mockSvc.On("StartNewSession", mock.Anything, "user-1").Return(session, nil)

	body := `{"userId": "user-1", "reset": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/new", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	handler.New(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertNotCalled(t, "CreateOrGetSession")
}

func TestSessionHandler_New_MissingUserID(t *testing.T) {
	handler := NewSessionHandler(new(MockSessionService))

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/new", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	handler.New(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_Get(t *testing.T) {
	mockSvc := new(MockSessionService)
	handler := NewSessionHandler(mockSvc)

	session := domain.NewChatSession("session-1", "user-1", time.Now())
	session.Messages = []domain.Message{
		domain.NewMessage("hello", domain.RoleUser, time.Now()),
		domain.NewMessage("hi there", domain.RoleModel, time.Now()),
	}
	mockSvc.On("GetSession", mock.Anything, "session-1").Return(session, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/session-1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionId", "session-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data SessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Messages, 2)
	assert.Equal(t, "user", envelope.Data.Messages[0].Role)
	assert.Equal(t, "model", envelope.Data.Messages[1].Role)
}

func TestSessionHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockSessionService)
	handler := NewSessionHandler(mockSvc)

	mockSvc.On("GetSession", mock.Anything, "ghost").Return(nil, domain.ErrSessionNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/ghost", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionId", "ghost")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
