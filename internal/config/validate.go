package config

import (
	"errors"
	"fmt"
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

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port", "must be between 1 and 65535"})
	}
	for name, key := range cfg.Server.APIKeys {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, ValidationError{"server.apiKeys." + name, "must not be empty"})
		}
	}

	switch cfg.LLM.Provider {
	case "openai", "gemini":
	default:
		errs = append(errs, ValidationError{"llm.provider", "must be 'openai' or 'gemini'"})
	}
	if cfg.LLM.APIKey == "" {
		errs = append(errs, ValidationError{"llm.apiKey", "required"})
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{"llm.temperature", "must be between 0 and 2"})
	}
	if cfg.LLM.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{"llm.timeoutSeconds", "must not be negative"})
	}

	switch cfg.Storage.Driver {
	case "sqlite":
		if cfg.Storage.SQLite.Path == "" {
			errs = append(errs, ValidationError{"storage.sqlite.path", "required"})
		}
	case "mysql", "postgres":
		if cfg.Database.Host == "" {
			errs = append(errs, ValidationError{"database.host", "required for " + cfg.Storage.Driver})
		}
		if cfg.Database.Name == "" {
			errs = append(errs, ValidationError{"database.name", "required for " + cfg.Storage.Driver})
		}
	default:
		errs = append(errs, ValidationError{"storage.driver", "must be 'sqlite', 'mysql' or 'postgres'"})
	}

	// minio is optional
	if cfg.Minio.Enabled {
		if cfg.Minio.Endpoint == "" {
			errs = append(errs, ValidationError{"minio.endpoint", "required when minio is enabled"})
		}
		if cfg.Minio.BucketName == "" {
			errs = append(errs, ValidationError{"minio.bucketName", "required when minio is enabled"})
		}
	}

	if cfg.Analysis.HistoryLimit < 1 {
		errs = append(errs, ValidationError{"analysis.historyLimit", "must be positive"})
	}
	if cfg.Analysis.MaxUploadBytes < 1 {
		errs = append(errs, ValidationError{"analysis.maxUploadBytes", "must be positive"})
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"log.level", "must be debug, info, warn or error"})
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{"log.format", "must be 'text' or 'json'"})
	}

	return errs
}

// Check joins the validation errors into one, nil when the config is usable.
func Check(cfg *Config) error {
	return errors.Join(Validate(cfg)...)
}
