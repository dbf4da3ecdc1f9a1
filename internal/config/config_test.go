package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("DATABASE_PATH", "/tmp/calorion-test.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.JWTSecret != "test-secret" {
			t.Errorf("Expected JWTSecret to be 'test-secret', got '%s'", cfg.JWTSecret)
		}
		if cfg.DatabasePath != "/tmp/calorion-test.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/calorion-test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("DATABASE_PATH", "")
		t.Setenv("LISTEN_ADDR", "")
		t.Setenv("SWEEP_INTERVAL", "")
		t.Setenv("GENERATION_TIMEOUT", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/calorion.db" {
			t.Errorf("Expected default DatabasePath, got '%s'", cfg.DatabasePath)
		}
		if cfg.ListenAddr != ":8080" {
			t.Errorf("Expected default ListenAddr ':8080', got '%s'", cfg.ListenAddr)
		}
		if cfg.SweepInterval != 6*time.Hour {
			t.Errorf("Expected default SweepInterval 6h, got %v", cfg.SweepInterval)
		}
		if cfg.GenerationTimeout != 15*time.Second {
			t.Errorf("Expected default GenerationTimeout 15s, got %v", cfg.GenerationTimeout)
		}
	})

	t.Run("MissingJWTSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing JWT_SECRET, got nil")
		}
		expectedError := "JWT_SECRET environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGeminiKeyIsAllowed", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("GEMINI_API_KEY", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "" {
			t.Errorf("Expected empty GeminiAPIKey, got '%s'", cfg.GeminiAPIKey)
		}
	})

	t.Run("InvalidSweepInterval", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SWEEP_INTERVAL", "often")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid SWEEP_INTERVAL, got nil")
		}
	})
}
