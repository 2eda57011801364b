package service

import (
	"context"
	"log"
	"time"

	"github.com/relief-labs/reliefai/internal/corpus"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// SeedLockKey guards knowledge store writes during bootstrap. Every
// writer takes it so dynamic adds cannot race the first-boot count check.
const SeedLockKey int64 = 824460901

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SeedLocker serializes knowledge store writes across processes.
type SeedLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) error
}

// Seeder bootstraps the knowledge store from the curated corpus and
// handles dynamic knowledge additions. Both paths run under the same
// advisory lock so a dynamic add cannot race the first-boot count check.
type Seeder struct {
	embedding  EmbeddingClient
	repo       KnowledgeRepositoryInterface
	locker     SeedLocker
	dimensions int
	delay      time.Duration
	uuidGen    UUIDGenerator
	now        func() time.Time
}

// NewSeeder creates a new Seeder instance. dimensions is the store's
// embedding dimensionality; delay is the pause between corpus items
// during seeding.
func NewSeeder(embedding EmbeddingClient, repo KnowledgeRepositoryInterface, locker SeedLocker, dimensions int, delay time.Duration) *Seeder {
	return &Seeder{
		embedding:  embedding,
		repo:       repo,
		locker:     locker,
		dimensions: dimensions,
		delay:      delay,
		uuidGen:    &DefaultUUIDGenerator{},
		now:        time.Now,
	}
}

// NewSeederWithClock creates a Seeder with custom UUID generation and
// clock (for testing).
func NewSeederWithClock(embedding EmbeddingClient, repo KnowledgeRepositoryInterface, locker SeedLocker, dimensions int, delay time.Duration, uuidGen UUIDGenerator, now func() time.Time) *Seeder {
	return &Seeder{
		embedding:  embedding,
		repo:       repo,
		locker:     locker,
		dimensions: dimensions,
		delay:      delay,
		uuidGen:    uuidGen,
		now:        now,
	}
}

// SeedResult reports the outcome of one seeding attempt.
type SeedResult struct {
	Seeded  int
	Skipped int
	Failed  int
}

// EnsureSeeded seeds the knowledge store from items when the store is
// empty. A non-empty store short-circuits, so restarts are no-ops. Items
// that fail to embed or insert are logged and skipped; seeding only
// fails outright when the store itself is unreachable.
func (s *Seeder) EnsureSeeded(ctx context.Context, items []corpus.Item) (*SeedResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "Seeder.EnsureSeeded", telemetry.SpanAttributes{
		Operation: "seed",
	})
	defer span.End()

	if err := corpus.Validate(items); err != nil {
		return nil, err
	}

	result := &SeedResult{}
	err := s.locker.WithLock(ctx, SeedLockKey, func(ctx context.Context) error {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return domain.NewStoreError("failed to count knowledge entries", err)
		}
		if count > 0 {
			log.Printf("seeder: knowledge base already has %d entries, skipping seed", count)
			result.Skipped = len(items)
			return nil
		}

		log.Printf("seeder: seeding knowledge base with %d entries", len(items))
		for i, item := range items {
			if err := s.seedItem(ctx, item); err != nil {
				log.Printf("seeder: skipping %q entry: %v", item.Category, err)
				result.Failed++
			} else {
				result.Seeded++
			}

			if s.delay > 0 && i < len(items)-1 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		log.Printf("seeder: done (%d seeded, %d failed)", result.Seeded, result.Failed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Seeder) seedItem(ctx context.Context, item corpus.Item) error {
	embedding, err := s.embedding.GenerateEmbedding(ctx, item.Content)
	if err != nil {
		return domain.NewServiceError("failed to generate embedding", err)
	}

	entry := domain.NewKnowledgeEntry(
		s.uuidGen.NewString(),
		item.Content,
		embedding,
		item.Category,
		domain.SourceStatic,
		item.Metadata,
		s.now().UTC(),
	)
	if err := domain.ValidateKnowledgeEntry(entry, s.dimensions); err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return domain.NewStoreError("failed to insert knowledge entry", err)
	}
	return nil
}

// SeedMissing re-attempts corpus items whose category is absent from
// the store, repairing partial seeding after per-item failures. The
// curated corpus carries one item per category, so category presence
// identifies the item.
func (s *Seeder) SeedMissing(ctx context.Context, items []corpus.Item) (*SeedResult, error) {
	if err := corpus.Validate(items); err != nil {
		return nil, err
	}

	result := &SeedResult{}
	err := s.locker.WithLock(ctx, SeedLockKey, func(ctx context.Context) error {
		present, err := s.repo.ListStaticCategories(ctx)
		if err != nil {
			return domain.NewStoreError("failed to list seeded categories", err)
		}
		seen := make(map[domain.Category]bool, len(present))
		for _, c := range present {
			seen[c] = true
		}

		for _, item := range items {
			if seen[item.Category] {
				result.Skipped++
				continue
			}
			if err := s.seedItem(ctx, item); err != nil {
				log.Printf("seeder: backfill of %q entry failed: %v", item.Category, err)
				result.Failed++
				continue
			}
			result.Seeded++

			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddKnowledge embeds content synchronously and inserts it as a dynamic
// entry. Unlike seeding, every failure is surfaced to the caller.
func (s *Seeder) AddKnowledge(ctx context.Context, content string, category domain.Category, metadata map[string]string) (*domain.KnowledgeEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "Seeder.AddKnowledge", telemetry.SpanAttributes{
		Operation: "add",
	})
	defer span.End()

	if content == "" || category == "" {
		return nil, domain.ErrMissingRequiredField
	}

	embedding, err := s.embedding.GenerateEmbedding(ctx, content)
	if err != nil {
		return nil, domain.NewServiceError("failed to generate embedding", err)
	}

	entry := domain.NewKnowledgeEntry(
		s.uuidGen.NewString(),
		content,
		embedding,
		category,
		domain.SourceDynamic,
		metadata,
		s.now().UTC(),
	)
	if err := domain.ValidateKnowledgeEntry(entry, s.dimensions); err != nil {
		return nil, err
	}

	err = s.locker.WithLock(ctx, SeedLockKey, func(ctx context.Context) error {
		return s.repo.Insert(ctx, entry)
	})
	if err != nil {
		return nil, domain.NewStoreError("failed to insert knowledge entry", err)
	}
	return entry, nil
}
