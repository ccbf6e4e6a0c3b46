package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	GinMode  string `envconfig:"GIN_MODE" default:"release"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// StoreBackend is "postgres" or "memory"; memory keeps everything in process.
	StoreBackend      string        `envconfig:"STORE_MODE" default:"postgres"`
	MemorySeedFile    string        `envconfig:"MEMORY_SEED_FILE"`
	PostgresURL       string        `envconfig:"POSTGRES_URL"`
	DBMaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBMaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	AutoMigrate       bool          `envconfig:"AUTO_MIGRATE" default:"false"`

	SupabaseURL            string        `envconfig:"SUPABASE_URL" required:"true"`
	SupabaseServiceRoleKey string        `envconfig:"SUPABASE_SERVICE_ROLE_KEY" required:"true"`
	StorageBucket          string        `envconfig:"STORAGE_BUCKET" default:"songs"`
	SignedURLTTL           time.Duration `envconfig:"SIGNED_URL_TTL" default:"300s"`
	StorageTimeout         time.Duration `envconfig:"STORAGE_TIMEOUT" default:"10s"`

	StripeWebhookSecret      string        `envconfig:"STRIPE_WEBHOOK_SECRET"`
	StripeSignatureTolerance time.Duration `envconfig:"STRIPE_SIGNATURE_TOLERANCE" default:"5m"`
	WebhookMaxBodyBytes      int64         `envconfig:"WEBHOOK_MAX_BODY_BYTES" default:"65536"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads an optional .env file and then decodes the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreMode() {
	case StoreModePostgres:
		if strings.TrimSpace(c.PostgresURL) == "" {
			return errors.New("POSTGRES_URL is required when STORE_MODE=postgres")
		}
	case StoreModeMemory:
	default:
		return fmt.Errorf("STORE_MODE must be %q or %q, got %q", StoreModePostgres, StoreModeMemory, c.StoreBackend)
	}
	if !strings.HasPrefix(c.SupabaseURL, "http://") && !strings.HasPrefix(c.SupabaseURL, "https://") {
		return fmt.Errorf("SUPABASE_URL must be an http(s) url, got %q", c.SupabaseURL)
	}
	if strings.TrimSpace(c.SupabaseServiceRoleKey) == "" {
		return errors.New("SUPABASE_SERVICE_ROLE_KEY must not be empty")
	}
	if strings.TrimSpace(c.StorageBucket) == "" {
		return errors.New("STORAGE_BUCKET must not be empty")
	}
	if c.SignedURLTTL < time.Second {
		return errors.New("SIGNED_URL_TTL must be at least 1s")
	}
	if c.WebhookMaxBodyBytes <= 0 {
		return errors.New("WEBHOOK_MAX_BODY_BYTES must be positive")
	}
	return nil
}

const (
	StoreModeMemory   = "memory"
	StoreModePostgres = "postgres"
)

func (c Config) StoreMode() string {
	return strings.ToLower(strings.TrimSpace(c.StoreBackend))
}
