package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devEnv = "dev"

type Config struct {
	// Env selects the runtime mode. "dev" loads .env and enables debug logging.
	Env      string `env:"ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL"`
	API      APIConfig
	Session  SessionConfig
}

type APIConfig struct {
	BaseURL string `env:"MYTHERION_API_URL" envDefault:"http://localhost:8080/api"`
}

// SessionConfig holds optional credentials used by one-shot CLI commands.
type SessionConfig struct {
	Email    string `env:"MYTHERION_EMAIL"`
	Password string `env:"MYTHERION_PASSWORD"`
}

func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == devEnv {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("MYTHERION_API_URL must not be empty")
	}
	return cfg, nil
}

// Development reports whether the process runs in development mode.
func (c Config) Development() bool {
	return c.Env == devEnv
}

// HasCredentials reports whether both session credentials are set.
func (c Config) HasCredentials() bool {
	return c.Session.Email != "" && c.Session.Password != ""
}
