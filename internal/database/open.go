package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
)

// OpenStore builds the saved-recipe store selected by cfg.StorageBackend.
// The returned close function releases the underlying connection and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.StorageMemory:
		return NewMemorySlot(cfg.StorageKey, l), noop, nil

	case config.StorageFile:
		return NewFileSlot(cfg.StoragePath, l), noop, nil

	case config.StorageRedis:
		client, err := NewRedisClient(cfg, l)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisSlot(client, cfg.StorageKey, l), client.Close, nil

	case config.StorageSQLite, config.StoragePostgres:
		db, err := OpenGorm(cfg, l)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("failed to get sql handle: %w", err)
		}
		if err := RunMigrations(db, l); err != nil {
			_ = sqlDB.Close()
			return nil, noop, err
		}
		return NewSQLSlot(db, cfg.StorageKey, l), sqlDB.Close, nil

	case config.StorageS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to configure S3: %w", err)
		}
		return NewS3Slot(s3cfg.Client, s3cfg.BucketName, cfg.StorageKey, l), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
