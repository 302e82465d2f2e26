// Package config centralises configuration parsing for the calorie tracker.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
)

// Config captures runtime configuration values.
type Config struct {
	Addr   string
	WebDir string

	StoreBackend  string
	DataDir       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string

	LogLevel   string
	LogFormat  string
	EnergyUnit string

	OwnerPasswordHash string
	SessionTTL        time.Duration
	OIDC              OIDCConfig
}

// OIDCConfig holds the optional single sign-on settings.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Subject      string // only this email/subject may log in; empty accepts any
}

// Enabled reports whether enough settings are present to run SSO.
func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != "" && c.RedirectURL != ""
}

// LoadDotEnv loads variables from path when it exists. Variables already set
// in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads environment variables into Config, applying defaults for local use.
func Load() Config {
	return Config{
		Addr:              getEnv("ADDR", ":8080"),
		WebDir:            getEnv("WEB_DIR", "web"),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
		DataDir:           getEnv("DATA_DIR", "data"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getIntEnv("REDIS_DB", 0),
		SQLitePath:        getEnv("SQLITE_PATH", "data/calories.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		EnergyUnit:        getEnv("ENERGY_UNIT", "kcal"),
		OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),
		SessionTTL:        getDurationEnv("SESSION_TTL", 24*time.Hour),
		OIDC: OIDCConfig{
			Issuer:       getEnv("OIDC_ISSUER", ""),
			ClientID:     getEnv("OIDC_CLIENT_ID", ""),
			ClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),
			Subject:      getEnv("OIDC_SUBJECT", ""),
		},
	}
}

// Validate checks combinations Load cannot default away.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendFile, BackendRedis, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.EnergyUnit != "kcal" && c.EnergyUnit != "kJ" {
		return fmt.Errorf("ENERGY_UNIT must be \"kcal\" or \"kJ\", got %q", c.EnergyUnit)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
