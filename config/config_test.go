package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPEN_WEATHER_API_KEY", "ow-test")
	t.Setenv("FMP_API_KEY", "fmp-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Empty(t, cfg.LLMModel)
	assert.Equal(t, 15*time.Second, cfg.ProviderTimeout)
	assert.False(t, cfg.SessionMemoryEnabled)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("SESSION_MEMORY_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.True(t, cfg.SessionMemoryEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadMissingOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPEN_WEATHER_API_KEY", "ow-test")
	t.Setenv("FMP_API_KEY", "fmp-test")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadAnthropicProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "ant-test")
	t.Setenv("OPEN_WEATHER_API_KEY", "ow-test")
	t.Setenv("FMP_API_KEY", "fmp-test")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
}

func TestLoadAnthropicProviderMissingKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPEN_WEATHER_API_KEY", "ow-test")
	t.Setenv("FMP_API_KEY", "fmp-test")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestLoadUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_PROVIDER")
}

func TestLoadMissingDataProviderKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPEN_WEATHER_API_KEY", "")
	t.Setenv("FMP_API_KEY", "fmp-test")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPEN_WEATHER_API_KEY")

	t.Setenv("OPEN_WEATHER_API_KEY", "ow-test")
	t.Setenv("FMP_API_KEY", "")

	_, err = LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FMP_API_KEY")
}
