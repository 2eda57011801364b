package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relief-labs/reliefai/internal/domain"
)

// SubscriptionRepository persists emergency-alert email subscriptions.
type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.EmailSubscription) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO email_subscriptions
		 (id, email, location, active, emergency_alerts, weather_updates, preparedness_tips, subscribed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Email, s.Location, s.Active,
		s.Preferences.EmergencyAlerts, s.Preferences.WeatherUpdates, s.Preferences.PreparednessTips,
		s.SubscribedAt,
	)
	return err
}

func (r *SubscriptionRepository) GetByEmail(ctx context.Context, email string) (*domain.EmailSubscription, error) {
	var s domain.EmailSubscription
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, location, active, emergency_alerts, weather_updates, preparedness_tips, subscribed_at
		 FROM email_subscriptions WHERE email = $1`,
		domain.NormalizeEmail(email),
	).Scan(&s.ID, &s.Email, &s.Location, &s.Active,
		&s.Preferences.EmergencyAlerts, &s.Preferences.WeatherUpdates, &s.Preferences.PreparednessTips,
		&s.SubscribedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetActive flips a subscription's active flag; reactivation also renews
// the subscription date.
func (r *SubscriptionRepository) SetActive(ctx context.Context, email string, active bool, at time.Time) error {
	email = domain.NormalizeEmail(email)

	var res pgconn.CommandTag
	var err error
	if active {
		res, err = r.pool.Exec(ctx,
			`UPDATE email_subscriptions SET active = true, subscribed_at = $2 WHERE email = $1`,
			email, at)
	} else {
		res, err = r.pool.Exec(ctx,
			`UPDATE email_subscriptions SET active = false WHERE email = $1`,
			email)
	}
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]*domain.EmailSubscription, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, location, active, emergency_alerts, weather_updates, preparedness_tips, subscribed_at
		 FROM email_subscriptions
		 WHERE active = true
		 ORDER BY subscribed_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.EmailSubscription
	for rows.Next() {
		var s domain.EmailSubscription
		if err := rows.Scan(&s.ID, &s.Email, &s.Location, &s.Active,
			&s.Preferences.EmergencyAlerts, &s.Preferences.WeatherUpdates, &s.Preferences.PreparednessTips,
			&s.SubscribedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}
