// Package config reads runtime settings from the environment. A .env file in
// the working directory is loaded first; variables already set win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port            string
	StoreBackend    string
	DB              DBConfig
	LogLevel        string
	LogFormat       string
	GinMode         string
	CORSOrigins     []string
	TopicDuration   time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Driver is the database/sql driver name: "pgx" or "postgres" (lib/pq).
	Driver          string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds a keyword/value connection string understood by both pgx and
// lib/pq.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Load reads the optional env files (".env" when none are given) and then
// the process environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var errs []error
	cfg := Config{
		Port:         env("PORT", "8080"),
		StoreBackend: strings.ToLower(env("STORE_BACKEND", BackendPostgres)),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     env("DB_NAME", "voting"),
			SSLMode:  env("DB_SSLMODE", "disable"),
			Driver:   strings.ToLower(env("DB_DRIVER", "pgx")),
		},
		LogLevel:    env("LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(env("LOG_FORMAT", "text")),
		GinMode:     env("GIN_MODE", "release"),
		CORSOrigins: splitList(env("CORS_ORIGINS", "*")),
	}
	cfg.DB.MaxIdleConns = intEnv("DB_MAX_IDLE_CONNS", 10, &errs)
	cfg.DB.MaxOpenConns = intEnv("DB_MAX_OPEN_CONNS", 100, &errs)
	cfg.DB.ConnMaxLifetime = durationEnv("DB_CONN_MAX_LIFETIME", time.Hour, &errs)
	cfg.TopicDuration = durationEnv("TOPIC_DURATION", 48*time.Hour, &errs)
	cfg.ShutdownTimeout = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second, &errs)

	switch cfg.StoreBackend {
	case BackendPostgres, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend))
	}
	switch cfg.DB.Driver {
	case "pgx", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unknown driver %q", cfg.DB.Driver))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", cfg.LogFormat))
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid non-negative integer %q", key, raw))
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
