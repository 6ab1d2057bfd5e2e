package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvAddr        = "GOPANEL_ADDR"
	EnvWorkers     = "GOPANEL_WORKERS"
	EnvDatabaseURL = "GOPANEL_DATABASE_URL"
	EnvTokenKey    = "GOPANEL_TOKEN_KEY"
	EnvRate        = "GOPANEL_RATE"
	EnvBurst       = "GOPANEL_BURST"
)

// Config is the runtime configuration shared by the CLI and the server
type Config struct {
	Addr        string
	Workers     int     // assembly workers, 0 assembles serially
	DatabaseURL string  // empty disables persistence
	TokenKey    []byte  // empty disables bearer auth
	Rate        float64 // requests per second per client
	Burst       int
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:  ":8080",
		Rate:  5,
		Burst: 10,
	}
}

// Load reads the optional .env files and then the environment. Values
// already present in the environment win over the files.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a configuration from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	cfg.DatabaseURL = getenv(EnvDatabaseURL)
	if v := getenv(EnvTokenKey); v != "" {
		cfg.TokenKey = []byte(v)
	}

	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s must be a non-negative integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v := getenv(EnvRate); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive number, got %q", EnvRate, v)
		}
		cfg.Rate = r
	}
	if v := getenv(EnvBurst); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil || b <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", EnvBurst, v)
		}
		cfg.Burst = b
	}
	return cfg, nil
}
