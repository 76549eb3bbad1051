package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Manager loads and saves Settings from a YAML file. JSON files are accepted too.
type Manager struct {
	fs   afero.Fs
	path string
	mu   sync.RWMutex
}

// NewManager returns a manager for the settings file at path on the OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs is NewManager on an arbitrary filesystem.
func NewManagerWithFs(fsys afero.Fs, path string) *Manager {
	return &Manager{fs: fsys, path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file. A missing file yields DefaultSettings.
func (m *Manager) Load() (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", m.path, err)
	}
	settings = settings.withDefaults()
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), fmt.Errorf("validate settings: %w", err)
	}
	return settings, nil
}

// Save writes settings to disk, replacing the previous file atomically.
func (m *Manager) Save(settings Settings) error {
	settings = settings.withDefaults()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.path); dir != "" && dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	tmp := m.path + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := m.fs.Rename(tmp, m.path); err != nil {
		_ = m.fs.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// EnvLookup matches os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// ApplyEnv overrides settings from STREAMHUB_* environment variables.
// Unparsable numeric or duration values are reported and leave the field untouched.
func ApplyEnv(settings Settings, lookup EnvLookup) (Settings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("STREAMHUB_ADDR", &settings.Server.Addr)
	dur("STREAMHUB_SESSION_TTL", &settings.Server.SessionTTL)
	str("STREAMHUB_TMDB_BASE_URL", &settings.Catalog.BaseURL)
	str("STREAMHUB_TMDB_API_KEY", &settings.Catalog.APIKey)
	str("STREAMHUB_IMAGE_BASE_URL", &settings.Catalog.ImageBaseURL)
	str("STREAMHUB_LANGUAGE", &settings.Catalog.Language)
	dur("STREAMHUB_CATALOG_TIMEOUT", &settings.Catalog.Timeout)
	boolean("STREAMHUB_PROXY_IMAGES", &settings.Catalog.ProxyImages)
	str("STREAMHUB_PLAYER_HOST", &settings.Player.Host)
	str("STREAMHUB_PLAYER_COLOR", &settings.Player.Color)
	str("STREAMHUB_SPORT_STREAM_URL", &settings.Player.SportStreamURL)

	var driver string
	str("STREAMHUB_STORAGE_DRIVER", &driver)
	if driver != "" {
		settings.Storage.Driver = StorageDriver(strings.ToLower(driver))
	}
	str("STREAMHUB_STORAGE_PATH", &settings.Storage.Path)
	str("STREAMHUB_LOG_LEVEL", &settings.Log.Level)
	str("STREAMHUB_LOG_FILE", &settings.Log.File)
	str("STREAMHUB_ACCESS_LOG_FILE", &settings.Log.AccessFile)

	return settings.withDefaults(), errors.Join(errs...)
}
