package database

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// MemorySlot keeps the serialized slot in process memory.
type MemorySlot struct {
	mu     sync.Mutex
	key    string
	raw    []byte
	logger *zap.Logger
}

// NewMemorySlot creates an empty in-memory slot
func NewMemorySlot(key string, l *zap.Logger) *MemorySlot {
	return &MemorySlot{key: key, logger: logger.OrNop(l)}
}

// SetRaw replaces the stored bytes verbatim, bypassing encoding.
func (m *MemorySlot) SetRaw(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = append([]byte(nil), raw...)
}

// Raw returns a copy of the stored bytes, nil when the slot is absent.
func (m *MemorySlot) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return nil
	}
	return append([]byte(nil), m.raw...)
}

func (m *MemorySlot) Load(ctx context.Context) ([]model.Recipe, error) {
	return decodeSlot(m.logger, m.key, m.Raw()), nil
}

func (m *MemorySlot) Save(ctx context.Context, recipes []model.Recipe) error {
	data, err := encodeSlot(recipes)
	if err != nil {
		return err
	}
	m.SetRaw(data)
	return nil
}

func (m *MemorySlot) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = nil
	return nil
}
