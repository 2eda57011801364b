package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/relief-labs/reliefai/internal/ai"
	"github.com/relief-labs/reliefai/internal/api/handlers"
	"github.com/relief-labs/reliefai/internal/config"
	"github.com/relief-labs/reliefai/internal/corpus"
	"github.com/relief-labs/reliefai/internal/database"
	"github.com/relief-labs/reliefai/internal/jobs"
	"github.com/relief-labs/reliefai/internal/repository"
	"github.com/relief-labs/reliefai/internal/server"
	"github.com/relief-labs/reliefai/internal/service"
	"github.com/relief-labs/reliefai/internal/storage"
	"github.com/relief-labs/reliefai/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the relief API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-seed", false, "Skip corpus seeding on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	if !cfg.HasModelProvider() {
		return fmt.Errorf("model provider not configured: set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	pool, err := database.NewPoolFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	aiClient, err := ai.NewClient(ai.Config{
		Provider:            cfg.AIProvider,
		OpenAIAPIKey:        cfg.OpenAIAPIKey,
		GeminiAPIKey:        cfg.GeminiAPIKey,
		EmbeddingModel:      cfg.EmbeddingModel,
		GenerationModel:     cfg.GenerationModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	locker := repository.NewAdvisoryLock(pool)

	seeder := service.NewSeeder(aiClient, knowledgeRepo, locker, aiClient.Dimensions(), cfg.SeedDelay)

	noSeed, _ := cmd.Flags().GetBool("no-seed")
	if !noSeed {
		result, err := seeder.EnsureSeeded(ctx, corpus.Static())
		if err != nil {
			// The backfill worker retries missing entries, so a failed
			// seeding run does not block startup.
			log.Printf("startup seeding failed (continuing): %v", err)
		} else {
			log.Printf("seeding: %d seeded, %d skipped, %d failed", result.Seeded, result.Skipped, result.Failed)
		}
	}

	var backfillWorker *jobs.Worker
	if cfg.SeedBackfillEnabled {
		backfillWorker = jobs.NewWorker(jobs.NewSeedBackfill(seeder), cfg.SeedBackfillEvery)
		go backfillWorker.Start(ctx)
		log.Println("seed backfill worker started")
	}

	var signer service.DownloadURLSigner
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		signer = s3Client
	}

	retriever := service.NewRetriever(aiClient, knowledgeRepo, cfg.RetrievalOverfetch, cfg.RetrievalMaxCandidates)
	sessionSvc := service.NewSessionService(sessionRepo)
	chatSvc := service.NewChatService(retriever, aiClient, sessionSvc)
	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo)
	downloadSvc := service.NewDownloadService(signer)

	routerCfg := server.RouterConfig{
		ChatHandler:         handlers.NewChatHandler(chatSvc),
		SessionHandler:      handlers.NewSessionHandler(sessionSvc),
		KnowledgeHandler:    handlers.NewKnowledgeHandler(seeder, knowledgeSvc),
		SubscriptionHandler: handlers.NewSubscriptionHandler(subscriptionSvc),
		DownloadHandler:     handlers.NewDownloadHandler(downloadSvc),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if backfillWorker != nil {
		backfillWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
