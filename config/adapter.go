package config

import (
	"sync"
)

// ConfigGetter is a function that returns the current configuration
type ConfigGetter func() Settings

// ConfigAdapter layers environment overrides on top of the settings file and
// hands components a getter, so a bad file never stops the portal from serving.
type ConfigAdapter struct {
	manager *Manager
	lookup  EnvLookup

	mu      sync.RWMutex
	lastErr error
}

// NewConfigAdapter creates a new config adapter. A nil lookup reads the process environment.
func NewConfigAdapter(manager *Manager, lookup EnvLookup) *ConfigAdapter {
	return &ConfigAdapter{
		manager: manager,
		lookup:  lookup,
	}
}

// GetConfig returns the current settings. Load or override failures fall back to
// defaults (still overridden from the environment) and are kept for LastError.
func (ca *ConfigAdapter) GetConfig() Settings {
	settings, err := ca.manager.Load()
	settings, envErr := ApplyEnv(settings, ca.lookup)
	if err == nil {
		err = envErr
	}

	ca.mu.Lock()
	ca.lastErr = err
	ca.mu.Unlock()

	return settings
}

// LastError returns the error recorded by the most recent GetConfig call.
func (ca *ConfigAdapter) LastError() error {
	ca.mu.RLock()
	defer ca.mu.RUnlock()
	return ca.lastErr
}

// GetConfigGetter returns a ConfigGetter function
func (ca *ConfigAdapter) GetConfigGetter() ConfigGetter {
	return ca.GetConfig
}
