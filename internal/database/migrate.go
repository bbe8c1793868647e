package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// RunMigrations creates or updates the tables backing the SQL slot store
func RunMigrations(db *gorm.DB, l *zap.Logger) error {
	if err := db.AutoMigrate(&model.StorageSlot{}); err != nil {
		return fmt.Errorf("failed to migrate storage slots: %w", err)
	}
	logger.OrNop(l).Info("applied migrations", zap.String("dialect", db.Dialector.Name()))
	return nil
}
