package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// FileSlot stores the slot as a JSON file on disk.
type FileSlot struct {
	path   string
	logger *zap.Logger
}

// NewFileSlot creates a slot backed by the file at path
func NewFileSlot(path string, l *zap.Logger) *FileSlot {
	return &FileSlot{path: path, logger: logger.OrNop(l)}
}

// Path returns the backing file path
func (f *FileSlot) Path() string {
	return f.path
}

func (f *FileSlot) Load(ctx context.Context) ([]model.Recipe, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved recipes file: %w", err)
	}
	return decodeSlot(f.logger, f.path, data), nil
}

// Save writes to a temporary file and renames it over the slot so readers never see a partial write.
func (f *FileSlot) Save(ctx context.Context, recipes []model.Recipe) error {
	data, err := encodeSlot(recipes)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write saved recipes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace saved recipes file: %w", err)
	}
	return nil
}

func (f *FileSlot) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove saved recipes file: %w", err)
	}
	return nil
}

// Watch calls onChange whenever the slot file is created, written, removed or replaced.
// The watch stops when ctx is done.
func (f *FileSlot) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: Save replaces the file by rename, which drops a direct file watch.
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(f.path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					f.logger.Debug("saved recipes file changed",
						zap.String("path", event.Name),
						zap.String("op", event.Op.String()),
					)
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("file watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
