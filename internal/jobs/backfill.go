package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/relief-labs/reliefai/internal/corpus"
	"github.com/relief-labs/reliefai/internal/service"
)

// BackfillSeeder defines the interface for repairing partial seeding
type BackfillSeeder interface {
	SeedMissing(ctx context.Context, items []corpus.Item) (*service.SeedResult, error)
}

// SeedBackfill re-attempts corpus entries that failed to embed during
// startup seeding. Startup seeding skips failed items, so the store can
// come up under-seeded; this processor closes the gap over time.
type SeedBackfill struct {
	seeder BackfillSeeder
	items  []corpus.Item
}

// NewSeedBackfill creates a new SeedBackfill instance
func NewSeedBackfill(seeder BackfillSeeder) *SeedBackfill {
	return &SeedBackfill{
		seeder: seeder,
		items:  corpus.Static(),
	}
}

// ProcessJobs implements the JobProcessor interface
func (b *SeedBackfill) ProcessJobs(ctx context.Context) error {
	result, err := b.seeder.SeedMissing(ctx, b.items)
	if err != nil {
		return fmt.Errorf("seed backfill failed: %w", err)
	}

	if result.Seeded > 0 || result.Failed > 0 {
		log.Printf("Seed backfill: %d recovered, %d still failing", result.Seeded, result.Failed)
	}
	return nil
}
