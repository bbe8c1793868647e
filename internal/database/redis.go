package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// Use Redis URL if provided (for production deployments)
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.OrNop(l).Info("connected to Redis", zap.String("addr", opts.Addr))
	return client, nil
}

// RedisSlot stores the slot as a single Redis string key without expiry.
type RedisSlot struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisSlot creates a slot stored under key
func NewRedisSlot(client *redis.Client, key string, l *zap.Logger) *RedisSlot {
	return &RedisSlot{client: client, key: key, logger: logger.OrNop(l)}
}

// Client returns the connection the slot uses
func (r *RedisSlot) Client() *redis.Client {
	return r.client
}

// HealthCheck pings Redis
func (r *RedisSlot) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSlot) Load(ctx context.Context) ([]model.Recipe, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved recipes from Redis: %w", err)
	}
	return decodeSlot(r.logger, r.key, data), nil
}

func (r *RedisSlot) Save(ctx context.Context, recipes []model.Recipe) error {
	data, err := encodeSlot(recipes)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save recipes to Redis: %w", err)
	}
	return nil
}

func (r *RedisSlot) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete saved recipes from Redis: %w", err)
	}
	return nil
}
