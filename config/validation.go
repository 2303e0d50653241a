package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredEnvVars lists variables that must be set explicitly per environment
var requiredEnvVars = map[Environment][]string{
	Development: {},
	Test:        {},
	CI:          {"API_BASE_URL"},
	Production:  {"API_BASE_URL"},
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []error

	for _, envVar := range requiredEnvVars[GetEnvironment()] {
		if os.Getenv(envVar) == "" {
			errs = append(errs, ValidationError{Field: envVar, Message: "required environment variable is not set"})
		}
	}

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{Field: "API_BASE_URL", Message: fmt.Sprintf("invalid backend url %q", cfg.APIBaseURL)})
	}
	if cfg.HTTPTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "HTTP_TIMEOUT", Message: "must be positive"})
	}

	switch cfg.SessionBackend {
	case SessionFile:
		if strings.TrimSpace(cfg.SessionPath) == "" {
			errs = append(errs, ValidationError{Field: "SESSION_PATH", Message: "required for the file session backend"})
		}
	case SessionSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "required for the sqlite session backend"})
		}
	case SessionRedis:
		if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
			errs = append(errs, ValidationError{Field: "REDIS_URL", Message: "set REDIS_URL or REDIS_HOST and REDIS_PORT"})
		}
	default:
		errs = append(errs, ValidationError{Field: "SESSION_BACKEND", Message: fmt.Sprintf("unknown backend %q", cfg.SessionBackend)})
	}

	if !logLevels[cfg.LogLevel] {
		errs = append(errs, ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}

	return errors.Join(errs...)
}
