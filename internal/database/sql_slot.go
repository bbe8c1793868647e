package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// SQLSlot stores the slot as one row of the storage_slots table.
type SQLSlot struct {
	db     *gorm.DB
	key    string
	logger *zap.Logger
}

// NewSQLSlot creates a slot stored in the row identified by key
func NewSQLSlot(db *gorm.DB, key string, l *zap.Logger) *SQLSlot {
	return &SQLSlot{db: db, key: key, logger: logger.OrNop(l)}
}

// HealthCheck checks if the database is accessible
func (s *SQLSlot) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLSlot) Load(ctx context.Context) ([]model.Recipe, error) {
	var slot model.StorageSlot
	err := s.db.WithContext(ctx).First(&slot, "slot_key = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved recipes: %w", err)
	}
	return decodeSlot(s.logger, s.key, []byte(slot.Value)), nil
}

func (s *SQLSlot) Save(ctx context.Context, recipes []model.Recipe) error {
	data, err := encodeSlot(recipes)
	if err != nil {
		return err
	}
	return s.put(ctx, string(data))
}

// SetRaw stores value verbatim, bypassing encoding.
func (s *SQLSlot) SetRaw(ctx context.Context, value string) error {
	return s.put(ctx, value)
}

func (s *SQLSlot) put(ctx context.Context, value string) error {
	slot := model.StorageSlot{Key: s.key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}
	return nil
}

func (s *SQLSlot) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&model.StorageSlot{}, "slot_key = ?", s.key).Error; err != nil {
		return fmt.Errorf("failed to clear saved recipes: %w", err)
	}
	return nil
}
