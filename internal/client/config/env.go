package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvFile       = ".env.local"
	EnvAPIBaseURL = "HIREHUB_API_URL"
)

// parseEnv applies HIREHUB_API_URL. The value comes from the process
// environment, or from .env.local in the working directory when the
// environment does not set it.
func parseEnv(cfg *Config) {
	local, err := godotenv.Read(EnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
		return
	}
	if v := local[EnvAPIBaseURL]; v != "" {
		cfg.APIBaseURL = v
	}
}
