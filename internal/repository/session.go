package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relief-labs/reliefai/internal/domain"
)

// SessionRepository persists chat sessions and their transcripts.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.ChatSession) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id, user_id, created_at) VALUES ($1, $2, $3)`,
		s.ID, s.UserID, s.CreatedAt,
	)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM chat_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	s.Messages, err = r.loadMessages(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetLatestByUserID returns the most recently created session for a user.
func (r *SessionRepository) GetLatestByUserID(ctx context.Context, userID string) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM chat_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		userID,
	).Scan(&s.ID, &s.UserID, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	s.Messages, err = r.loadMessages(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AppendMessages appends messages to a session transcript as one atomic
// unit. The session row is locked for the duration of the transaction, so
// concurrent appends to the same session serialize instead of interleaving.
func (r *SessionRepository) AppendMessages(ctx context.Context, sessionID string, messages []domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lockedID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM chat_sessions WHERE id = $1 FOR UPDATE`,
		sessionID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSessionNotFound
		}
		return err
	}

	for _, m := range messages {
		if _, err := tx.Exec(ctx,
			`INSERT INTO chat_messages (session_id, role, body, created_at) VALUES ($1, $2, $3, $4)`,
			sessionID, m.Role, m.Text, m.Timestamp,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// CountMessages returns the transcript length for a session.
func (r *SessionRepository) CountMessages(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE session_id = $1`,
		sessionID,
	).Scan(&count)
	return count, err
}

func (r *SessionRepository) loadMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role, body, created_at FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
