package config

import (
	"fmt"
	"net/url"
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

// storageRequirements lists the fields each saved-recipe backend needs
var storageRequirements = map[string]func(cfg *Config) []ValidationError{
	StorageMemory: func(cfg *Config) []ValidationError { return nil },
	StorageFile: func(cfg *Config) []ValidationError {
		return required(map[string]string{"STORAGE_PATH": cfg.StoragePath})
	},
	StorageRedis: func(cfg *Config) []ValidationError {
		if cfg.RedisURL != "" {
			return nil
		}
		return required(map[string]string{"REDIS_HOST": cfg.RedisHost, "REDIS_PORT": cfg.RedisPort})
	},
	StorageSQLite: func(cfg *Config) []ValidationError {
		return required(map[string]string{"DB_PATH": cfg.DBPath})
	},
	StoragePostgres: func(cfg *Config) []ValidationError {
		return required(map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		})
	},
	StorageS3: func(cfg *Config) []ValidationError {
		return required(map[string]string{"S3_BUCKET_NAME": cfg.S3BucketName})
	},
}

func required(fields map[string]string) []ValidationError {
	var errs []ValidationError
	for field, value := range fields {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}
	return errs
}

// ValidateConfig checks if the configuration is usable for the selected storage backend
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, ValidationError{Field: "SERVER_PORT", Message: "is required"}.Error())
	}

	if cfg.ProxyURL == "" {
		errors = append(errors, ValidationError{Field: "PROXY_URL", Message: "is required"}.Error())
	} else if u, err := url.Parse(cfg.ProxyURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{Field: "PROXY_URL", Message: "must be an absolute URL"}.Error())
	}

	if cfg.ProxyTimeout < 0 {
		errors = append(errors, ValidationError{Field: "PROXY_TIMEOUT", Message: "must not be negative"}.Error())
	}

	if cfg.StorageKey == "" {
		errors = append(errors, ValidationError{Field: "STORAGE_KEY", Message: "is required"}.Error())
	}

	check, ok := storageRequirements[cfg.StorageBackend]
	if !ok {
		errors = append(errors, ValidationError{
			Field:   "STORAGE_BACKEND",
			Message: fmt.Sprintf("unknown backend %q", cfg.StorageBackend),
		}.Error())
	} else {
		for _, e := range check(cfg) {
			errors = append(errors, e.Error())
		}
	}

	if cfg.GenerateRateLimit < 0 {
		errors = append(errors, ValidationError{Field: "GENERATE_RATE_LIMIT", Message: "must not be negative"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
