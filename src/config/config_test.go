package config

import (
	"os"
	"path/filepath"
	"testing"

	"stock-digest/src/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setSecrets provides the required environment for a valid config.
func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_USER", "sender@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("NEWS_API_KEY", "finnhub-key")
}

// missingPath points NewConfig at a directory with no config file and no .env.
func missingPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

// -----------------------------------------------------------------------------

func TestNewConfigDefaults(t *testing.T) {
	setSecrets(t)

	cfg, err := NewConfig(missingPath(t))
	require.NoError(t, err)

	assert.Equal(t, "stock-digest", cfg.Name)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "0 8 * * *", cfg.Schedule)
	assert.Equal(t, []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN"}, cfg.DefaultSymbols)
	assert.Equal(t, 7, cfg.News.WindowDays)
	assert.Equal(t, 5, cfg.News.PerSymbolLimit)
	assert.Equal(t, 20, cfg.News.TotalLimit)
}

func TestNewConfigMissingSecrets(t *testing.T) {
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")
	t.Setenv("NEWS_API_KEY", "")

	_, err := NewConfig(missingPath(t))
	require.Error(t, err)

	var cfgErr *helpers.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "EMAIL_USER")
	assert.Contains(t, err.Error(), "EMAIL_PASS")
	assert.Contains(t, err.Error(), "NEWS_API_KEY")
}

func TestNewConfigEmailToDefaultsToUser(t *testing.T) {
	setSecrets(t)
	t.Setenv("EMAIL_TO", "")

	cfg, err := NewConfig(missingPath(t))
	require.NoError(t, err)
	assert.Equal(t, "sender@example.com", cfg.Email.To)
}

func TestNewConfigEnvOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("EMAIL_TO", "team@example.com")
	t.Setenv("CRON_SCHEDULE", "0 9 * * 1-5")
	t.Setenv("PORT", "8080")
	t.Setenv("STOCK_SYMBOLS", "nvda, amd")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := NewConfig(missingPath(t))
	require.NoError(t, err)

	assert.Equal(t, "team@example.com", cfg.Email.To)
	assert.Equal(t, "0 9 * * 1-5", cfg.Schedule)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"NVDA", "AMD"}, cfg.DefaultSymbols)
	assert.Equal(t, "redis://localhost:6379", cfg.Storage.RedisURL)
}

func TestNewConfigYAMLFile(t *testing.T) {
	setSecrets(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "name: digest-test\nport: 4000\nschedule: \"30 6 * * *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "digest-test", cfg.Name)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "30 6 * * *", cfg.Schedule)
}

func TestNewConfigRejectsBadSchedule(t *testing.T) {
	setSecrets(t)
	t.Setenv("CRON_SCHEDULE", "0 8 * *")

	_, err := NewConfig(missingPath(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron expression")
}

// -----------------------------------------------------------------------------

func TestParseSymbolList(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, ParseSymbolList("aapl, msft"))
	assert.Equal(t, []string{"AAPL"}, ParseSymbolList(",AAPL,,"))
	assert.Nil(t, ParseSymbolList(""))
	assert.Nil(t, ParseSymbolList(" , , "))
}

func TestHasEmailConfigAndNewsAPI(t *testing.T) {
	setSecrets(t)

	cfg, err := NewConfig(missingPath(t))
	require.NoError(t, err)
	assert.True(t, cfg.HasEmailConfig())
	assert.True(t, cfg.HasNewsAPI())

	cfg.Email.Pass = ""
	assert.False(t, cfg.HasEmailConfig())
	cfg.News.APIKey = ""
	assert.False(t, cfg.HasNewsAPI())
}
