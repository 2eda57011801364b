package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdvisoryLock serializes cross-process sections on a Postgres
// session-level advisory lock.
type AdvisoryLock struct {
	pool *pgxpool.Pool
}

func NewAdvisoryLock(pool *pgxpool.Pool) *AdvisoryLock {
	return &AdvisoryLock{pool: pool}
}

// WithLock runs fn while holding the advisory lock identified by key.
// The lock lives on a dedicated connection so fn is free to use the
// shared pool for its own queries.
func (l *AdvisoryLock) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, key); err != nil {
		return err
	}
	defer func() {
		// Unlock must run even when ctx is already canceled.
		_, _ = conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, key)
	}()

	return fn(ctx)
}
