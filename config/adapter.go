package config

import (
	"sync"
	"time"
)

// CoreConfig is the subset of the settings the movie core runs with.
type CoreConfig struct {
	MaxConcurrentCalls           int
	Language                     string
	Country                      string
	RemoveFromWatchlistOnWatched bool
	Debug                        bool
	SoonThreshold                time.Duration
	HighlyRatedPercent           int
	RetryAttempts                uint
	RetryDelay                   time.Duration
}

// ConfigGetter is a function that returns the current configuration
type ConfigGetter func() *CoreConfig

// ConfigAdapter derives CoreConfig from the persisted settings.
type ConfigAdapter struct {
	manager *Manager
	mu      sync.RWMutex
}

// NewConfigAdapter creates a new config adapter
func NewConfigAdapter(manager *Manager) *ConfigAdapter {
	return &ConfigAdapter{
		manager: manager,
	}
}

// GetConfig returns the current core configuration
func (ca *ConfigAdapter) GetConfig() *CoreConfig {
	ca.mu.RLock()
	defer ca.mu.RUnlock()

	settings, err := ca.manager.Load()
	if err != nil {
		// Return defaults on error
		settings = DefaultSettings()
	}
	settings.ApplyEnv()
	return FromSettings(settings)
}

// GetConfigGetter returns a ConfigGetter function
func (ca *ConfigAdapter) GetConfigGetter() ConfigGetter {
	return ca.GetConfig
}

// FromSettings converts settings that are already loaded.
func FromSettings(settings Settings) *CoreConfig {
	settings.fillDefaults()
	return &CoreConfig{
		MaxConcurrentCalls:           settings.Core.MaxConcurrentCalls,
		Language:                     settings.Core.Language,
		Country:                      settings.Core.Country,
		RemoveFromWatchlistOnWatched: settings.Core.RemoveFromWatchlistOnWatched,
		Debug:                        settings.Logging.Debug,
		SoonThreshold:                time.Duration(settings.Filters.SoonThresholdDays) * 24 * time.Hour,
		HighlyRatedPercent:           settings.Filters.HighlyRatedPercent,
		RetryAttempts:                uint(settings.Core.RetryAttempts),
		RetryDelay:                   time.Duration(settings.Core.RetryDelayMillis) * time.Millisecond,
	}
}
