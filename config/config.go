package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Session backends understood by LoadConfig.
const (
	SessionFile   = "file"
	SessionRedis  = "redis"
	SessionSQLite = "sqlite"
)

// Config holds all configuration for the client
type Config struct {
	// Backend configuration
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Session cache configuration
	SessionBackend string
	SessionPath    string
	SessionKey     string
	SQLitePath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Behaviour switches
	ValidateSession   bool
	RollbackOnFailure bool
	DedupeToggles     bool

	// Logging configuration
	LogLevel string
	LogFile  string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaults(env)

	switch env {
	case CI, Test:
		loadEnvConfig(cfg)
		// CI provides the redis password as a plain variable.
		cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	case Development, Production:
		loadEnvConfig(cfg)
		if secret := readSecret("redis_password"); secret != "" {
			cfg.RedisPassword = secret
		} else {
			cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults(env Environment) *Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	dir := filepath.Join(cacheDir, "recipe-finder")

	cfg := &Config{
		APIBaseURL:        "http://localhost:8000",
		HTTPTimeout:       10 * time.Second,
		SessionBackend:    SessionFile,
		SessionPath:       filepath.Join(dir, "session.yaml"),
		SessionKey:        "recipe-finder:session",
		SQLitePath:        filepath.Join(dir, "session.db"),
		RedisHost:         "localhost",
		RedisPort:         "6379",
		RollbackOnFailure: true,
		DedupeToggles:     true,
		LogLevel:          "info",
		LogFile:           filepath.Join(dir, "recipe-finder.log"),
	}
	if env == Development {
		cfg.LogLevel = "debug"
	}
	return cfg
}

// loadEnvConfig overlays environment variables on top of the defaults
func loadEnvConfig(cfg *Config) {
	cfg.APIBaseURL = strings.TrimRight(getEnv("API_BASE_URL", cfg.APIBaseURL), "/")
	cfg.HTTPTimeout = getDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)

	cfg.SessionBackend = strings.ToLower(getEnv("SESSION_BACKEND", cfg.SessionBackend))
	cfg.SessionPath = getEnv("SESSION_PATH", cfg.SessionPath)
	cfg.SessionKey = getEnv("SESSION_KEY", cfg.SessionKey)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisDB = getInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.ValidateSession = getBool("VALIDATE_SESSION", cfg.ValidateSession)
	cfg.RollbackOnFailure = getBool("ROLLBACK_ON_FAILURE", cfg.RollbackOnFailure)
	cfg.DedupeToggles = getBool("DEDUPE_TOGGLES", cfg.DedupeToggles)

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
