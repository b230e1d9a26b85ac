package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"stock-digest/src/helpers"
	"stock-digest/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig builds the configuration in three layers: built-in defaults, an
// optional YAML file, then .env / process environment overrides for the
// deploy-time settings and secrets.
func NewConfig(configPath string) (*Config, error) {
	modelConfig := defaults()

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &modelConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func defaults() models.MConfig {
	return models.MConfig{
		Name:                "stock-digest",
		Host:                "0.0.0.0",
		Port:                3000,
		LogLevel:            "INFO",
		Schedule:            "0 8 * * *",
		DefaultSymbols:      []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN"},
		LiveIntervalSeconds: 30,
		Storage: models.MStorageConfig{
			EnvPath: ".env",
		},
		Network: models.MNetworkConfig{
			RequestTimeout:     15,
			MaxRetries:         2,
			ConcurrentRequests: 4,
			UserAgent:          "stock-digest/1.0",
		},
		Email: models.MEmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		News: models.MNewsConfig{
			WindowDays:     7,
			PerSymbolLimit: 5,
			TotalLimit:     20,
		},
	}
}

// -----------------------------------------------------------------------------

// applyEnv overlays .env and process environment variables. Environment wins
// over the YAML file for everything it names.
func (c *Config) applyEnv() {
	// Best effort; the .env file is optional.
	_ = godotenv.Load(c.Storage.EnvPath)

	setString(&c.Email.User, "EMAIL_USER")
	setString(&c.Email.Pass, "EMAIL_PASS")
	setString(&c.Email.To, "EMAIL_TO")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setInt(&c.Email.SMTPPort, "SMTP_PORT")
	if v, ok := os.LookupEnv("SMTP_SECURE"); ok {
		c.Email.SMTPSecure = v == "true"
	}

	setString(&c.News.APIKey, "NEWS_API_KEY")
	setString(&c.Schedule, "CRON_SCHEDULE")
	setInt(&c.Port, "PORT")

	if v, ok := os.LookupEnv("REDIS_URL"); ok && v != "" {
		c.Storage.RedisURL = v
	} else if v, ok := os.LookupEnv("REDIS_PRIVATE_URL"); ok && v != "" {
		c.Storage.RedisURL = v
	}

	if v, ok := os.LookupEnv("STOCK_SYMBOLS"); ok {
		if parsed := ParseSymbolList(v); len(parsed) > 0 {
			c.DefaultSymbols = parsed
		}
	}
}

// -----------------------------------------------------------------------------

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// -----------------------------------------------------------------------------

// ParseSymbolList splits a comma-separated symbol string, dropping empties.
func ParseSymbolList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation. Missing required secrets
// are a ConfigurationError: the process must not start serving without them.
func (c *Config) Validate() error {
	if c.Name == "" {
		return helpers.NewConfigurationError("application name cannot be empty")
	}
	if c.Host == "" {
		return helpers.NewConfigurationError("server host cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return helpers.NewConfigurationError("invalid server port number: %d", c.Port)
	}

	var missing []string
	if c.Email.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Email.Pass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.News.APIKey == "" {
		missing = append(missing, "NEWS_API_KEY")
	}
	if len(missing) > 0 {
		return helpers.NewConfigurationError("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.Email.To == "" {
		c.Email.To = c.Email.User
	}

	if c.Network.RequestTimeout <= 0 {
		return helpers.NewConfigurationError("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return helpers.NewConfigurationError("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return helpers.NewConfigurationError("concurrent requests must be greater than 0")
	}

	if len(strings.Fields(c.Schedule)) != 5 {
		return helpers.NewConfigurationError("schedule must be a 5-field cron expression, got %q", c.Schedule)
	}

	if c.News.WindowDays <= 0 || c.News.PerSymbolLimit <= 0 || c.News.TotalLimit <= 0 {
		return helpers.NewConfigurationError("news window and article limits must be greater than 0")
	}
	if c.LiveIntervalSeconds <= 0 {
		return helpers.NewConfigurationError("live interval must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// HasEmailConfig reports whether SMTP credentials are present.
func (c *Config) HasEmailConfig() bool {
	return c.Email.User != "" && c.Email.Pass != ""
}

// HasNewsAPI reports whether a news API key is present.
func (c *Config) HasNewsAPI() bool {
	return c.News.APIKey != ""
}
