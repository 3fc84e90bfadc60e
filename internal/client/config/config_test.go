package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

// isolate runs the test in an empty directory with controlled os.Args and
// no HIREHUB_API_URL in the environment.
func isolate(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	orig := os.Args
	os.Args = append([]string{"hirehub"}, args...)
	t.Cleanup(func() { os.Args = orig })

	t.Setenv(EnvAPIBaseURL, "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

// ---- tests ----

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:5000/api", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "hirehub.db", c.StorePath)
	assert.Zero(t, c.NotificationPollInterval)
	assert.Zero(t, c.RequestsPerSecond)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.LogFile)
}

func TestLoadConfig_NoSourcesGivesDefaults(t *testing.T) {
	isolate(t)

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	if diff := cmp.Diff(defaults(), *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvLocalFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, EnvFile, "HIREHUB_API_URL=http://staging.local/api\n")

	assert.Equal(t, "http://staging.local/api", LoadConfig().APIBaseURL)
}

func TestLoadConfig_EnvironmentBeatsEnvLocal(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, EnvFile, "HIREHUB_API_URL=http://from-file/api\n")
	t.Setenv(EnvAPIBaseURL, "http://from-env/api")

	assert.Equal(t, "http://from-env/api", LoadConfig().APIBaseURL)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "cli.json", `{
  "api_base_url": "http://json.local/api",
  "request_timeout": "3s",
  "notification_poll_interval": 30000000000,
  "requests_per_second": 2.5,
  "log_file": "cli.log"
}`)
	os.Args = append(os.Args, "-c", p)

	want := defaults()
	want.APIBaseURL = "http://json.local/api"
	want.RequestTimeout = 3 * time.Second
	want.NotificationPollInterval = 30 * time.Second
	want.RequestsPerSecond = 2.5
	want.LogFile = "cli.log"

	if diff := cmp.Diff(want, *LoadConfig()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "cli.yaml", `
api_base_url: http://yaml.local/api
store_path: /tmp/session.db
notification_poll_interval: 1m
log_level: debug
`)
	os.Args = append(os.Args, "-config="+p)

	cfg := LoadConfig()

	assert.Equal(t, "http://yaml.local/api", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/session.db", cfg.StorePath)
	assert.Equal(t, time.Minute, cfg.NotificationPollInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
}

func TestLoadConfig_FileBeatsEnvironment(t *testing.T) {
	dir := isolate(t)
	t.Setenv(EnvAPIBaseURL, "http://from-env/api")
	p := writeFile(t, dir, "cli.json", `{"api_base_url": "http://from-file/api"}`)
	os.Args = append(os.Args, "-c", p)

	assert.Equal(t, "http://from-file/api", LoadConfig().APIBaseURL)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, dir, "cli.yml", "api_base_url: http://from-file/api\nlog_level: warn\n")
	os.Args = append(os.Args,
		"-c", p,
		"-a", "http://from-flag/api",
		"-t", "1500ms",
		"-d", "other.db",
		"-i", "15s",
		"-r", "4",
		"-l", "debug",
		"-unknown", "ignored",
	)

	want := Config{
		APIBaseURL:               "http://from-flag/api",
		RequestTimeout:           1500 * time.Millisecond,
		StorePath:                "other.db",
		NotificationPollInterval: 15 * time.Second,
		RequestsPerSecond:        4,
		LogLevel:                 "debug",
	}
	if diff := cmp.Diff(want, *LoadConfig()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_BadSourcesPanic(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		isolate(t, "-c", "does-not-exist.json")
		assert.Panics(t, func() { LoadConfig() })
	})
	t.Run("malformed json", func(t *testing.T) {
		dir := isolate(t)
		p := writeFile(t, dir, "cli.json", `{"request_timeout": "soon"}`)
		os.Args = append(os.Args, "-c", p)
		assert.Panics(t, func() { LoadConfig() })
	})
	t.Run("malformed yaml", func(t *testing.T) {
		dir := isolate(t)
		p := writeFile(t, dir, "cli.yaml", "api_base_url: [unclosed\n")
		os.Args = append(os.Args, "-c", p)
		assert.Panics(t, func() { LoadConfig() })
	})
	t.Run("bad flag value", func(t *testing.T) {
		isolate(t, "-t", "forever")
		assert.Panics(t, func() { LoadConfig() })
	})
}
