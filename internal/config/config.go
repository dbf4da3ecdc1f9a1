package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	ListenAddr   string
	LogMode      string

	// JWTSecret signs API tokens. Required.
	JWTSecret string

	// GeminiAPIKey enables remote plan and chat generation. Optional: when
	// empty the app runs in fallback-only mode.
	GeminiAPIKey string

	// TelegramBotToken enables reminder delivery. Optional.
	TelegramBotToken string

	SweepInterval     time.Duration
	GenerationTimeout time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/calorion.db"
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	sweepInterval, err := durationFromEnv("SWEEP_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}

	generationTimeout, err := durationFromEnv("GENERATION_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabasePath:      dbPath,
		ListenAddr:        listenAddr,
		LogMode:           os.Getenv("LOG_MODE"),
		JWTSecret:         jwtSecret,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		SweepInterval:     sweepInterval,
		GenerationTimeout: generationTimeout,
	}, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, raw)
	}
	return d, nil
}
