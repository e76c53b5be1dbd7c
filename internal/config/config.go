// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Database struct {
	Driver      string
	URL         string
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

type Config struct {
	Env      string
	Port     string
	LogLevel string

	Database Database

	SessionSecret string
	CookieName    string
	CookieSecure  bool
}

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// LoadDotEnv reads .env files into the process environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: load .env: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Env:      getenv("APP_ENV", "development"),
		Port:     getenv("PORT", "4000"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		Database: Database{
			Driver: getenv("DB_DRIVER", DriverPostgres),
			URL:    os.Getenv("DATABASE_URL"),
		},
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieName:    getenv("SESSION_COOKIE", "session"),
	}

	var err error
	if cfg.Database.MaxOpen, err = getint("DB_MAX_OPEN", 25); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxIdle, err = getint("DB_MAX_IDLE", 25); err != nil {
		return Config{}, err
	}
	lifetime, err := getint("DB_MAX_LIFETIME", 300) // seconds
	if err != nil {
		return Config{}, err
	}
	cfg.Database.MaxLifetime = time.Duration(lifetime) * time.Second

	if cfg.CookieSecure, err = getbool("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	return nil
}

func (c Config) Production() bool { return c.Env == "production" }

func (c Config) Addr() string { return ":" + c.Port }

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getbool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
