package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

// ParseEnvironment maps an ENV value to an Environment, defaulting to development.
func ParseEnvironment(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// DefaultStorageBackend picks the saved-recipe medium used when STORAGE_BACKEND is unset.
// Tests and CI keep everything in memory; real runs persist to a local file.
func (e Environment) DefaultStorageBackend() string {
	switch e {
	case Test, CI:
		return StorageMemory
	default:
		return StorageFile
	}
}

// DefaultLogFormat returns console output for development and JSON elsewhere.
func (e Environment) DefaultLogFormat() string {
	if e == Development {
		return "console"
	}
	return "json"
}
