package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/relief-labs/reliefai/internal/ai"
	"github.com/relief-labs/reliefai/internal/config"
	"github.com/relief-labs/reliefai/internal/corpus"
	"github.com/relief-labs/reliefai/internal/database"
	"github.com/relief-labs/reliefai/internal/repository"
	"github.com/relief-labs/reliefai/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the knowledge base",
		Long:  "Embeds the static preparedness corpus and inserts it into the knowledge base. Safe to run repeatedly.",
		RunE:  runSeed,
	}

	cmd.Flags().Bool("missing-only", false, "Only seed categories absent from the store")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasModelProvider() {
		return fmt.Errorf("model provider not configured: set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	pool, err := getDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	seeder, err := newSeeder(cfg, pool)
	if err != nil {
		return err
	}

	missingOnly, _ := cmd.Flags().GetBool("missing-only")

	var result *service.SeedResult
	if missingOnly {
		result, err = seeder.SeedMissing(ctx, corpus.Static())
	} else {
		result, err = seeder.EnsureSeeded(ctx, corpus.Static())
	}
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Printf("Seeded: %d, skipped: %d, failed: %d\n", result.Seeded, result.Skipped, result.Failed)
	return nil
}

func newSeeder(cfg *config.Config, pool *pgxpool.Pool) (*service.Seeder, error) {
	aiClient, err := ai.NewClient(ai.Config{
		Provider:            cfg.AIProvider,
		OpenAIAPIKey:        cfg.OpenAIAPIKey,
		GeminiAPIKey:        cfg.GeminiAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		GenerationModel:     cfg.GenerationModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	locker := repository.NewAdvisoryLock(pool)
	return service.NewSeeder(aiClient, knowledgeRepo, locker, aiClient.Dimensions(), cfg.SeedDelay), nil
}

func getDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := database.NewPoolFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}
