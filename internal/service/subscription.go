package service

import (
	"context"
	"errors"
	"time"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// SubscriptionRepositoryInterface defines the repository interface for email subscriptions
type SubscriptionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.EmailSubscription) error
	GetByEmail(ctx context.Context, email string) (*domain.EmailSubscription, error)
	SetActive(ctx context.Context, email string, active bool, at time.Time) error
	ListActive(ctx context.Context) ([]*domain.EmailSubscription, error)
}

// SubscriptionService manages emergency-alert email subscriptions.
type SubscriptionService struct {
	repo    SubscriptionRepositoryInterface
	uuidGen UUIDGenerator
	now     func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(repo SubscriptionRepositoryInterface) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		uuidGen: &DefaultUUIDGenerator{},
		now:     time.Now,
	}
}

// NewSubscriptionServiceWithClock creates a SubscriptionService with
// custom UUID generation and clock (for testing).
func NewSubscriptionServiceWithClock(repo SubscriptionRepositoryInterface, uuidGen UUIDGenerator, now func() time.Time) *SubscriptionService {
	return &SubscriptionService{repo: repo, uuidGen: uuidGen, now: now}
}

// SubscribeResult distinguishes a brand-new subscription from a
// reactivated one, so the handler can word its response accordingly.
type SubscribeResult struct {
	Subscription *domain.EmailSubscription
	Reactivated  bool
}

// Subscribe registers email for emergency alerts. An inactive prior
// subscription is reactivated with a renewed subscription date; an
// active one is rejected as AlreadyExists.
func (s *SubscriptionService) Subscribe(ctx context.Context, email, location string) (*SubscribeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "SubscriptionService.Subscribe", telemetry.SpanAttributes{
		Operation: "subscribe",
	})
	defer span.End()

	if email == "" {
		return nil, domain.ErrMissingRequiredField
	}
	normalized := domain.NormalizeEmail(email)

	existing, err := s.repo.GetByEmail(ctx, normalized)
	if err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, domain.NewStoreError("failed to look up subscription", err)
	}

	now := s.now().UTC()
	if existing != nil {
		if existing.Active {
			return nil, domain.ErrAlreadySubscribed
		}
		if err := s.repo.SetActive(ctx, normalized, true, now); err != nil {
			return nil, domain.NewStoreError("failed to reactivate subscription", err)
		}
		existing.Active = true
		existing.SubscribedAt = now
		return &SubscribeResult{Subscription: existing, Reactivated: true}, nil
	}

	sub := domain.NewEmailSubscription(s.uuidGen.NewString(), email, location, now)
	if err := domain.ValidateEmailSubscription(sub); err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			return nil, err
		}
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid subscription", err)
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, domain.NewStoreError("failed to create subscription", err)
	}
	return &SubscribeResult{Subscription: sub}, nil
}

// Unsubscribe deactivates the subscription for email. The record is
// kept so a later Subscribe reactivates it.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, email string) error {
	ctx, span := telemetry.StartSpan(ctx, "SubscriptionService.Unsubscribe", telemetry.SpanAttributes{
		Operation: "unsubscribe",
	})
	defer span.End()

	if email == "" {
		return domain.ErrMissingRequiredField
	}
	normalized := domain.NormalizeEmail(email)

	if _, err := s.repo.GetByEmail(ctx, normalized); err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return err
		}
		return domain.NewStoreError("failed to look up subscription", err)
	}

	if err := s.repo.SetActive(ctx, normalized, false, s.now().UTC()); err != nil {
		return domain.NewStoreError("failed to deactivate subscription", err)
	}
	return nil
}

// ListActive returns every active subscription, most recent first.
func (s *SubscriptionService) ListActive(ctx context.Context) ([]*domain.EmailSubscription, error) {
	ctx, span := telemetry.StartSpan(ctx, "SubscriptionService.ListActive", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	subs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, domain.NewStoreError("failed to list subscriptions", err)
	}
	return subs, nil
}
