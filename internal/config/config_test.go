package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv resets every key the loader reads so tests do not leak into each other.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "LLM_PROVIDER", "GATEWAY_URL", "GATEWAY_API_KEY", "GATEWAY_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "DATABASE_PATH", "SNAPSHOT_BACKEND", "SNAPSHOT_DIR",
		"GENERATOR_URL", "PORT", "METRICS_PORT", "LOG_LEVEL", "LOG_FORMAT",
		"DEFAULT_DAYS_TO_PLAN", "HTTP_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GATEWAY_API_KEY", "gateway_key")
		t.Setenv("PORT", "3000")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GatewayAPIKey != "gateway_key" {
			t.Errorf("Expected GatewayAPIKey to be 'gateway_key', got '%s'", cfg.GatewayAPIKey)
		}
		if cfg.Port != "3000" {
			t.Errorf("Expected Port to be '3000', got '%s'", cfg.Port)
		}
		if cfg.GatewayModel != "google/gemini-2.5-flash" {
			t.Errorf("Expected default model, got '%s'", cfg.GatewayModel)
		}
		if cfg.DefaultDaysToPlan != 7 {
			t.Errorf("Expected DefaultDaysToPlan to be 7, got %d", cfg.DefaultDaysToPlan)
		}
	})

	t.Run("MissingGatewayAPIKey", func(t *testing.T) {
		clearEnv(t)

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GATEWAY_API_KEY, got nil")
		}
		expectedError := "GATEWAY_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "gemini")
		t.Setenv("GATEWAY_API_KEY", "gateway_key")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "openai")
		t.Setenv("GATEWAY_API_KEY", "gateway_key")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown provider, got nil")
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GATEWAY_API_KEY", "gateway_key")
		t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid timeout, got nil")
		}
	})

	t.Run("YAMLFileWithEnvOverride", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "provider: gemini\ngemini_api_key: file_key\nport: \"7000\"\nhttp_timeout: 5s\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("PORT", "7001")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Provider != ProviderGemini {
			t.Errorf("Expected provider 'gemini', got '%s'", cfg.Provider)
		}
		if cfg.GeminiAPIKey != "file_key" {
			t.Errorf("Expected GeminiAPIKey from file, got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.Port != "7001" {
			t.Errorf("Expected env to override file port, got '%s'", cfg.Port)
		}
		if cfg.HTTPTimeout != 5*time.Second {
			t.Errorf("Expected HTTPTimeout 5s, got %v", cfg.HTTPTimeout)
		}
	})
}

func TestNewClientFromEnv(t *testing.T) {
	t.Run("RemoteGeneratorNeedsNoKey", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GENERATOR_URL", "http://localhost:8080/functions/v1")

		cfg, err := NewClientFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeneratorURL != "http://localhost:8080/functions/v1" {
			t.Errorf("Unexpected GeneratorURL '%s'", cfg.GeneratorURL)
		}
	})

	t.Run("LocalGeneratorNeedsKey", func(t *testing.T) {
		clearEnv(t)

		if _, err := NewClientFromEnv(); err == nil {
			t.Fatal("Expected an error for missing provider key, got nil")
		}
	})
}

func TestConfigureLogger(t *testing.T) {
	cfg := defaults()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	if err := cfg.ConfigureLogger(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cfg.LogLevel = "loud"
	if err := cfg.ConfigureLogger(); err == nil {
		t.Error("Expected an error for invalid level, got nil")
	}
}
