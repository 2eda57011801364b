package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/relief-labs/reliefai/internal/api"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/service"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, email, location string) (*service.SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]*domain.EmailSubscription, error)
}

type SubscriptionHandler struct {
	svc SubscriptionService
}

func NewSubscriptionHandler(svc SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

type SubscribeRequest struct {
	Email    string `json:"email"`
	Location string `json:"location"`
}

type UnsubscribeRequest struct {
	Email string `json:"email"`
}

type SubscribeResponse struct {
	Message string `json:"message"`
}

type SubscriptionResponse struct {
	Email        string                  `json:"email"`
	Location     string                  `json:"location,omitempty"`
	Preferences  SubscriptionPreferences `json:"preferences"`
	SubscribedAt string                  `json:"subscribedAt"`
}

type SubscriptionPreferences struct {
	EmergencyAlerts  bool `json:"emergencyAlerts"`
	WeatherUpdates   bool `json:"weatherUpdates"`
	PreparednessTips bool `json:"preparednessTips"`
}

type ListSubscriptionsResponse struct {
	Count         int                     `json:"count"`
	Subscriptions []*SubscriptionResponse `json:"subscriptions"`
}

func subscriptionToResponse(s *domain.EmailSubscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		Email:    s.Email,
		Location: s.Location,
		Preferences: SubscriptionPreferences{
			EmergencyAlerts:  s.Preferences.EmergencyAlerts,
			WeatherUpdates:   s.Preferences.WeatherUpdates,
			PreparednessTips: s.Preferences.PreparednessTips,
		},
		SubscribedAt: s.SubscribedAt.UTC().Format(time.RFC3339),
	}
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		api.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	result, err := h.svc.Subscribe(r.Context(), req.Email, req.Location)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if result.Reactivated {
		api.Success(w, http.StatusOK, SubscribeResponse{
			Message: "Welcome back! Your subscription has been reactivated.",
		})
		return
	}
	api.Success(w, http.StatusCreated, SubscribeResponse{
		Message: "Successfully subscribed to emergency alerts!",
	})
}

func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		api.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.svc.Unsubscribe(r.Context(), req.Email); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, SubscribeResponse{
		Message: "Successfully unsubscribed from emergency alerts",
	})
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListActive(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := ListSubscriptionsResponse{
		Count:         len(subs),
		Subscriptions: make([]*SubscriptionResponse, 0, len(subs)),
	}
	for _, s := range subs {
		resp.Subscriptions = append(resp.Subscriptions, subscriptionToResponse(s))
	}

	api.Success(w, http.StatusOK, resp)
}
