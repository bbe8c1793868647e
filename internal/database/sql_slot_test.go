package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/internal/testdb"
)

func TestSQLSlotHealthCheck(t *testing.T) {
	cfg := &config.Config{
		StorageBackend: config.StorageSQLite,
		DBPath:         filepath.Join(t.TempDir(), "health.db"),
	}
	db, err := OpenGorm(cfg, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	var store Store = NewSQLSlot(db, config.DefaultStorageKey, nil)
	checker, ok := store.(HealthChecker)
	require.True(t, ok)
	assert.NoError(t, checker.HealthCheck(context.Background()))

	require.NoError(t, sqlDB.Close())
	assert.Error(t, checker.HealthCheck(context.Background()))
}

func TestSQLSlotSQLite(t *testing.T) {
	cfg := &config.Config{
		StorageBackend: config.StorageSQLite,
		StorageKey:     config.DefaultStorageKey,
		DBPath:         filepath.Join(t.TempDir(), "slots.db"),
	}

	db, err := OpenGorm(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, nil))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	slot := NewSQLSlot(db, cfg.StorageKey, nil)
	runStoreContract(t, slot, func(raw string) {
		require.NoError(t, slot.SetRaw(context.Background(), raw))
	})

	t.Run("slots with different keys are independent", func(t *testing.T) {
		ctx := context.Background()
		other := NewSQLSlot(db, "other-slot", nil)
		require.NoError(t, slot.Save(ctx, sampleRecipes()))
		require.NoError(t, other.Save(ctx, []model.Recipe{{RecipeName: "Rice Bowl"}}))

		recipes, err := slot.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 2)

		require.NoError(t, other.Clear(ctx))
		recipes, err = slot.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 2)
	})
}

func TestSQLSlotPostgres(t *testing.T) {
	cfg := testdb.SetupPostgres(t)

	store, closeFn, err := OpenStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	slot, ok := store.(*SQLSlot)
	require.True(t, ok)
	runStoreContract(t, slot, func(raw string) {
		require.NoError(t, slot.SetRaw(context.Background(), raw))
	})
}

func TestOpenGormRejectsNonSQLBackend(t *testing.T) {
	_, err := OpenGorm(&config.Config{StorageBackend: config.StorageRedis}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a SQL backend")
}
