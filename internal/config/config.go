package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Model provider selection; gemini matches the deployed knowledge base
	AIProvider          string `envconfig:"AI_PROVIDER" default:"gemini"`
	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey        string `envconfig:"GEMINI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	GenerationModel     string `envconfig:"GENERATION_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS"`

	// Seeding: fixed inter-item delay keeps within embedding quota
	SeedDelay           time.Duration `envconfig:"SEED_DELAY" default:"500ms"`
	SeedBackfillEnabled bool          `envconfig:"SEED_BACKFILL_ENABLED" default:"true"`
	SeedBackfillEvery   time.Duration `envconfig:"SEED_BACKFILL_EVERY" default:"5m"`

	// Retrieval: candidate pool = overfetch factor x k, capped
	RetrievalOverfetch     int `envconfig:"RETRIEVAL_OVERFETCH" default:"15"`
	RetrievalMaxCandidates int `envconfig:"RETRIEVAL_MAX_CANDIDATES" default:"100"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"relief-downloads"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("RELIEF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasModelProvider() bool {
	switch c.AIProvider {
	case "openai":
		return c.OpenAIAPIKey != ""
	default:
		return c.GeminiAPIKey != ""
	}
}
