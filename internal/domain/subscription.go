package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// SubscriptionPreferences selects which alert streams a subscriber receives.
type SubscriptionPreferences struct {
	EmergencyAlerts  bool
	WeatherUpdates   bool
	PreparednessTips bool
}

// DefaultSubscriptionPreferences enables every alert stream.
func DefaultSubscriptionPreferences() SubscriptionPreferences {
	return SubscriptionPreferences{
		EmergencyAlerts:  true,
		WeatherUpdates:   true,
		PreparednessTips: true,
	}
}

// EmailSubscription represents an emergency-alert email subscription.
// Unsubscribing deactivates rather than deletes, so a returning address
// is reactivated in place.
type EmailSubscription struct {
	ID           string
	Email        string
	Location     string
	Active       bool
	Preferences  SubscriptionPreferences
	SubscribedAt time.Time
}

// NewEmailSubscription creates an active subscription with default preferences.
func NewEmailSubscription(id, email, location string, subscribedAt time.Time) *EmailSubscription {
	return &EmailSubscription{
		ID:           id,
		Email:        NormalizeEmail(email),
		Location:     strings.TrimSpace(location),
		Active:       true,
		Preferences:  DefaultSubscriptionPreferences(),
		SubscribedAt: subscribedAt,
	}
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmailSubscription validates an EmailSubscription instance
func ValidateEmailSubscription(s *EmailSubscription) error {
	if s == nil {
		return fmt.Errorf("subscription cannot be nil")
	}

	if s.ID == "" {
		return fmt.Errorf("subscription ID is required")
	}

	if !emailPattern.MatchString(s.Email) {
		return ErrInvalidEmail
	}

	return nil
}
