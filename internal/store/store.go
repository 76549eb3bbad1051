// Package store persists small per-visitor values (watchlists, playback
// progress) under namespaced keys.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"streamhub/config"
	"streamhub/internal/database"
)

// Store is a namespaced key-value store.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Keys(ctx context.Context, namespace string) ([]string, error)
}

var (
	_ Store = (*database.KVRepository)(nil)
	_ Store = (*FileStore)(nil)
)

// Handle is an opened store together with its release function.
type Handle struct {
	Store
	close func() error
}

// Close releases the underlying resources.
func (h *Handle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// Open selects the backend configured in settings.
func Open(settings config.StorageSettings, logger *zap.Logger) (*Handle, error) {
	switch settings.Driver {
	case config.StorageSQLite, "":
		db, err := database.NewDB(database.Config{DatabasePath: settings.Path, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &Handle{Store: db.KV, close: db.Close}, nil
	case config.StorageFile:
		root := settings.Path
		if ext := filepath.Ext(root); ext != "" {
			root = root[:len(root)-len(ext)]
		}
		return &Handle{Store: NewFileStore(afero.NewOsFs(), root)}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", settings.Driver)
	}
}

// GetJSON decodes the value under key into dst. It reports false when the key is missing.
func GetJSON(ctx context.Context, s Store, namespace, key string, dst any) (bool, error) {
	data, ok, err := s.Get(ctx, namespace, key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes value and stores it under key.
func PutJSON(ctx context.Context, s Store, namespace, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, namespace, key, data)
}
