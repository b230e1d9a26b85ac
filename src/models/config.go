package models

// MConfig Structure
type MConfig struct {
	Name                string         `yaml:"name"`
	Host                string         `yaml:"host"`
	Port                int            `yaml:"port"`
	LogLevel            string         `yaml:"log_level"`
	LogFile             string         `yaml:"log_file"`
	Schedule            string         `yaml:"schedule"`
	DefaultSymbols      []string       `yaml:"default_symbols"`
	LiveIntervalSeconds int            `yaml:"live_interval_seconds"`
	Storage             MStorageConfig `yaml:"storage"`
	Network             MNetworkConfig `yaml:"network"`
	Email               MEmailConfig   `yaml:"email"`
	News                MNewsConfig    `yaml:"news"`
}

type MStorageConfig struct {
	RedisURL      string `yaml:"redis_url"`
	EnvPath       string `yaml:"env_path"`
	HistoryDBPath string `yaml:"history_db_path"`
}

type MNetworkConfig struct {
	RequestTimeout     int    `yaml:"timeout"`
	MaxRetries         int    `yaml:"retries"`
	ConcurrentRequests int    `yaml:"concurrent_requests"`
	UserAgent          string `yaml:"user_agent"`
}

type MEmailConfig struct {
	SMTPHost   string `yaml:"smtp_host"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPSecure bool   `yaml:"smtp_secure"`
	User       string `yaml:"user"`
	Pass       string `yaml:"pass"`
	To         string `yaml:"to"`
}

type MNewsConfig struct {
	APIKey         string `yaml:"api_key"`
	WindowDays     int    `yaml:"window_days"`
	PerSymbolLimit int    `yaml:"per_symbol_limit"`
	TotalLimit     int    `yaml:"total_limit"`
}
