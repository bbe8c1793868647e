package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends for the saved-recipe slot.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageS3       = "s3"
)

// DefaultStorageKey is the name of the slot holding saved recipes.
const DefaultStorageKey = "gemini-saved-recipes"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Generation proxy
	ProxyURL     string
	ProxyTimeout time.Duration

	// Saved-recipe slot
	StorageBackend string
	StorageKey     string
	StoragePath    string
	StorageWatch   bool

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// S3 configuration
	S3BucketName string
	AWSRegion    string

	// Logging
	LogLevel  string
	LogFormat string

	// Requests per minute per client for recipe generation, 0 disables the limiter
	GenerateRateLimit int
}

// LoadConfig reads configuration from the environment, an optional config file and
// Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v, env)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v, env)

	// Sensitive values come from Docker secrets outside CI
	if env != CI {
		if secret := readSecret("db_password"); secret != "" {
			cfg.DBPassword = secret
		}
		if secret := readSecret("redis_password"); secret != "" {
			cfg.RedisPassword = secret
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("allowed_origins", "http://localhost:5173")

	v.SetDefault("proxy_url", "http://localhost:3000/api/gemini-proxy")
	v.SetDefault("proxy_timeout", "0s")

	v.SetDefault("storage_backend", env.DefaultStorageBackend())
	v.SetDefault("storage_key", DefaultStorageKey)
	v.SetDefault("storage_path", filepath.Join("data", "saved-recipes.json"))
	v.SetDefault("storage_watch", false)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "recipe_genius")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_path", filepath.Join("data", "recipe-genius.db"))

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)

	v.SetDefault("s3_bucket_name", "recipe-genius-saved-recipes")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", env.DefaultLogFormat())

	v.SetDefault("generate_rate_limit", 0)
}

func fromViper(v *viper.Viper, env Environment) *Config {
	return &Config{
		Environment:       env,
		ServerPort:        v.GetString("server_port"),
		ServerHost:        v.GetString("server_host"),
		AllowedOrigins:    splitList(v.GetString("allowed_origins")),
		ProxyURL:          v.GetString("proxy_url"),
		ProxyTimeout:      v.GetDuration("proxy_timeout"),
		StorageBackend:    strings.ToLower(v.GetString("storage_backend")),
		StorageKey:        v.GetString("storage_key"),
		StoragePath:       v.GetString("storage_path"),
		StorageWatch:      v.GetBool("storage_watch"),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBSSLMode:         v.GetString("db_ssl_mode"),
		DBPath:            v.GetString("db_path"),
		RedisHost:         v.GetString("redis_host"),
		RedisPort:         v.GetString("redis_port"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		RedisURL:          v.GetString("redis_url"),
		S3BucketName:      v.GetString("s3_bucket_name"),
		AWSRegion:         v.GetString("aws_region"),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		GenerateRateLimit: v.GetInt("generate_rate_limit"),
	}
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
