package config

import "time"

// Config holds runtime settings for the HireHub CLI.
//
// RequestTimeout bounds every backend call. NotificationPollInterval of 0
// disables background refresh; RequestsPerSecond of 0 disables throttling.
type Config struct {
	APIBaseURL               string
	RequestTimeout           time.Duration
	StorePath                string
	NotificationPollInterval time.Duration
	RequestsPerSecond        float64
	LogLevel                 string
	LogFile                  string
}

const (
	DefaultAPIBaseURL     = "http://localhost:5000/api"
	DefaultRequestTimeout = 10 * time.Second
	DefaultStorePath      = "hirehub.db"
	DefaultLogLevel       = "info"
)

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = DefaultRequestTimeout
	c.StorePath = DefaultStorePath
	c.NotificationPollInterval = 0
	c.RequestsPerSecond = 0
	c.LogLevel = DefaultLogLevel
	c.LogFile = ""
}

// LoadConfig builds a Config from defaults, then the environment (with
// .env.local), then the config file, then command-line flags. Later sources
// win. Unreadable or malformed sources cause a panic.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
