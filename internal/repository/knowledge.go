package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/pagination"
	"github.com/relief-labs/reliefai/internal/service"
)

// KnowledgeRepository persists knowledge entries and runs vector
// similarity search over their embeddings.
type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

func (r *KnowledgeRepository) Insert(ctx context.Context, k *domain.KnowledgeEntry) error {
	metadata, err := marshalMetadata(k.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO knowledge_entries (id, content, embedding, category, source, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		k.ID, k.Content, pgvector.NewVector(k.Embedding), k.Category, k.Source, metadata, k.CreatedAt,
	)
	return err
}

func (r *KnowledgeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_entries`).Scan(&count)
	return count, err
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	var k domain.KnowledgeEntry
	var embedding pgvector.Vector
	var metadata []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, content, embedding, category, source, metadata, created_at
		 FROM knowledge_entries WHERE id = $1`,
		id,
	).Scan(&k.ID, &k.Content, &embedding, &k.Category, &k.Source, &metadata, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeNotFound
		}
		return nil, err
	}
	k.Embedding = embedding.Slice()
	if k.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return nil, err
	}
	return &k, nil
}

// SimilaritySearch returns the entries most similar to queryVec, scored by
// cosine similarity, descending. The candidate pool is scanned by vector
// distance first; ties on score resolve by insertion order.
func (r *KnowledgeRepository) SimilaritySearch(ctx context.Context, queryVec []float32, candidatePool, limit int) ([]*domain.RetrievalResult, error) {
	if limit <= 0 {
		limit = 3
	}
	if candidatePool < limit {
		candidatePool = limit
	}

	vec := pgvector.NewVector(queryVec)

	rows, err := r.db.Query(ctx,
		`WITH candidates AS (
			SELECT id, content, category, source, metadata, created_at,
			       1 - (embedding <=> $1) AS score
			FROM knowledge_entries
			ORDER BY embedding <=> $1
			LIMIT $2
		)
		SELECT id, content, category, source, metadata, created_at, score
		FROM candidates
		ORDER BY score DESC, created_at ASC, id ASC
		LIMIT $3`,
		vec, candidatePool, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.RetrievalResult, 0, limit)
	for rows.Next() {
		var entry domain.KnowledgeEntry
		var metadata []byte
		var score float32
		if err := rows.Scan(&entry.ID, &entry.Content, &entry.Category, &entry.Source, &metadata, &entry.CreatedAt, &score); err != nil {
			return nil, err
		}
		if entry.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, err
		}
		results = append(results, &domain.RetrievalResult{Entry: &entry, Score: score})
	}
	return results, rows.Err()
}

// ListWithCursor pages through entries newest first for the admin listing.
func (r *KnowledgeRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.KnowledgePageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, content, category, source, metadata, created_at
			 FROM knowledge_entries
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, content, category, source, metadata, created_at
			 FROM knowledge_entries
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.KnowledgeEntry
	for rows.Next() {
		var k domain.KnowledgeEntry
		var metadata []byte
		if err := rows.Scan(&k.ID, &k.Content, &k.Category, &k.Source, &metadata, &k.CreatedAt); err != nil {
			return nil, err
		}
		if k.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, err
		}
		items = append(items, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.CreatedAt)
	}

	return &service.KnowledgePageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// ListStaticCategories returns the categories of static entries currently
// in the store, used to detect under-seeding.
func (r *KnowledgeRepository) ListStaticCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT category FROM knowledge_entries WHERE source = $1`,
		domain.SourceStatic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
