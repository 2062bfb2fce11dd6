package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"

	SnapshotSQLite = "sqlite"
	SnapshotFile   = "file"
)

// Config holds the configuration for the application.
type Config struct {
	// LLM provider
	Provider      string `yaml:"provider"`
	GatewayURL    string `yaml:"gateway_url"`
	GatewayAPIKey string `yaml:"gateway_api_key"`
	GatewayModel  string `yaml:"gateway_model"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`

	// Local state
	DatabasePath    string `yaml:"database_path"`
	SnapshotBackend string `yaml:"snapshot_backend"`
	SnapshotDir     string `yaml:"snapshot_dir"`

	// GeneratorURL points the CLI at a running generator server. When empty
	// the generators run in-process.
	GeneratorURL      string `yaml:"generator_url"`
	DefaultDaysToPlan int    `yaml:"default_days_to_plan"`

	// Server
	Port        string        `yaml:"port"`
	MetricsPort string        `yaml:"metrics_port"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaults() *Config {
	return &Config{
		Provider:          ProviderGateway,
		GatewayURL:        "https://ai.gateway.lovable.dev/v1/chat/completions",
		GatewayModel:      "google/gemini-2.5-flash",
		GeminiModel:       "gemini-2.5-flash",
		DatabasePath:      "data/nutri.db",
		SnapshotBackend:   SnapshotSQLite,
		SnapshotDir:       "data/snapshots",
		DefaultDaysToPlan: 7,
		Port:              "8080",
		MetricsPort:       "9090",
		HTTPTimeout:       60 * time.Second,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// NewFromEnv creates the generator server configuration. The API key of the
// selected provider is required.
func NewFromEnv() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.requireProviderKey(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewClientFromEnv creates the CLI configuration. Provider keys are only
// required when no remote generator is configured.
func NewClientFromEnv() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.GeneratorURL == "" {
		if err := cfg.requireProviderKey(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	overrideString(&cfg.Provider, "LLM_PROVIDER")
	overrideString(&cfg.GatewayURL, "GATEWAY_URL")
	overrideString(&cfg.GatewayAPIKey, "GATEWAY_API_KEY")
	overrideString(&cfg.GatewayModel, "GATEWAY_MODEL")
	overrideString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&cfg.GeminiModel, "GEMINI_MODEL")
	overrideString(&cfg.DatabasePath, "DATABASE_PATH")
	overrideString(&cfg.SnapshotBackend, "SNAPSHOT_BACKEND")
	overrideString(&cfg.SnapshotDir, "SNAPSHOT_DIR")
	overrideString(&cfg.GeneratorURL, "GENERATOR_URL")
	overrideString(&cfg.Port, "PORT")
	overrideString(&cfg.MetricsPort, "METRICS_PORT")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("DEFAULT_DAYS_TO_PLAN"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("DEFAULT_DAYS_TO_PLAN must be a positive integer, got %q", v)
		}
		cfg.DefaultDaysToPlan = days
	}

	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}

	switch cfg.Provider {
	case ProviderGateway, ProviderGemini:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.Provider)
	}

	switch cfg.SnapshotBackend {
	case SnapshotSQLite, SnapshotFile:
	default:
		return nil, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) requireProviderKey() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		if c.GatewayAPIKey == "" {
			return fmt.Errorf("GATEWAY_API_KEY environment variable not set")
		}
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
