package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Database names the storage backend.
type Database struct {
	Dialect string `yaml:"dialect"` // sqlite3 | postgres
	DSN     string `yaml:"dsn"`
}

// Config holds everything the server needs at startup. Values come from the
// YAML file, with environment variables taking precedence.
type Config struct {
	HTTPAddr        string   `yaml:"http_addr"`
	PublicBaseURL   string   `yaml:"public_base_url"`
	Database        Database `yaml:"database"`
	RedisAddr       string   `yaml:"redis_addr"`
	JWTSecret       string   `yaml:"jwt_secret"`
	TokenTTLMinutes int      `yaml:"token_ttl_minutes"`
}

// Default returns a configuration that runs standalone on sqlite.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		PublicBaseURL:   "http://localhost:8080",
		Database:        Database{Dialect: "sqlite3", DSN: "maitred.db"},
		JWTSecret:       "change-me",
		TokenTTLMinutes: 12 * 60,
	}
}

// Load reads the YAML file at path (missing file is fine) and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.PublicBaseURL = getenv("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.Database.Dialect = getenv("DATABASE_DIALECT", cfg.Database.Dialect)
	cfg.Database.DSN = getenv("DATABASE_DSN", cfg.Database.DSN)
	cfg.RedisAddr = getenv("REDIS_ADDR", cfg.RedisAddr)
	cfg.JWTSecret = getenv("JWT_SECRET", cfg.JWTSecret)
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TokenTTLMinutes = n
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// TokenTTL returns the session/token lifetime as a duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
