// Package config loads the gateway configuration from environment variables,
// optionally seeded from a .env file. Missing credentials for the selected
// LLM provider or either data provider are a startup-time fatal error, never
// a per-request one.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the gateway service.
type Config struct {
	// Server configuration
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"` // whole-request bound

	// LLM configuration
	LLMProvider     string `envconfig:"LLM_PROVIDER" default:"openai"` // openai or anthropic
	LLMModel        string `envconfig:"LLM_MODEL" default:""`          // provider default when empty
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	// Data provider credentials
	OpenWeatherAPIKey string `envconfig:"OPEN_WEATHER_API_KEY"`
	FMPAPIKey         string `envconfig:"FMP_API_KEY"`

	// Per-provider outbound call bound; no retries are attempted on failure.
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"15s"`

	// Session memory (off by default: each request is then fully stateless)
	SessionMemoryEnabled bool          `envconfig:"SESSION_MEMORY_ENABLED" default:"false"`
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`  // debug, info, warn, error
	LogFormat      string `envconfig:"LOG_FORMAT" default:"json"` // json or text
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from environment variables. It first attempts to
// load a .env file if one exists, then validates credentials.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables without
// touching a .env file (useful for containerized deployments and tests).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (expected openai or anthropic)", c.LLMProvider)
	}

	if c.OpenWeatherAPIKey == "" {
		return fmt.Errorf("OPEN_WEATHER_API_KEY is required")
	}
	if c.FMPAPIKey == "" {
		return fmt.Errorf("FMP_API_KEY is required")
	}

	return nil
}
