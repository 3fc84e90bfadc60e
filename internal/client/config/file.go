package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/hirehub/internal/flagx"
	"github.com/dmitrijs2005/hirehub/internal/timex"
	"github.com/goccy/go-yaml"
)

// FileConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
type FileConfig struct {
	APIBaseURL               string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout           timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StorePath                string         `json:"store_path" yaml:"store_path"`
	NotificationPollInterval timex.Duration `json:"notification_poll_interval" yaml:"notification_poll_interval"`
	RequestsPerSecond        float64        `json:"requests_per_second" yaml:"requests_per_second"`
	LogLevel                 string         `json:"log_level" yaml:"log_level"`
	LogFile                  string         `json:"log_file" yaml:"log_file"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. Fields missing
// from the file keep their current value.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StorePath != "" {
		cfg.StorePath = fc.StorePath
	}
	if fc.NotificationPollInterval.Duration > 0 {
		cfg.NotificationPollInterval = fc.NotificationPollInterval.Duration
	}
	if fc.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = fc.RequestsPerSecond
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
}
