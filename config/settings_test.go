package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewManager(fs, "/etc/cinetrack/settings.json"), fs
}

func TestManager_LoadMissingFileReturnsDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	settings, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestManager_SaveThenLoad(t *testing.T) {
	m, fs := newTestManager(t)

	settings := DefaultSettings()
	settings.TMDB.APIKey = "tmdb-key"
	settings.Trakt.AccessToken = "token"
	settings.Trakt.Username = "sam"
	settings.Core.RemoveFromWatchlistOnWatched = true
	require.NoError(t, m.Save(settings))

	exists, err := afero.Exists(fs, m.Path()+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestManager_LoadFillsZeroValues(t *testing.T) {
	m, fs := newTestManager(t)
	require.NoError(t, afero.WriteFile(fs, m.Path(), []byte(`{"core":{"maxConcurrentCalls":0,"country":"DE"}}`), 0o600))

	settings, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, settings.Core.MaxConcurrentCalls)
	assert.Equal(t, "DE", settings.Core.Country)
	assert.Equal(t, "en", settings.Core.Language)
}

func TestManager_LoadRejectsGarbage(t *testing.T) {
	m, fs := newTestManager(t)
	require.NoError(t, afero.WriteFile(fs, m.Path(), []byte(`{not json`), 0o600))

	_, err := m.Load()
	assert.Error(t, err)
}

func TestManager_Update(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Update(func(s *Settings) {
		s.Trakt.Username = "sam"
		s.Trakt.AccessToken = "token"
	})
	require.NoError(t, err)

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "sam", loaded.Trakt.Username)
	assert.Equal(t, "token", loaded.Trakt.AccessToken)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CINETRACK_TMDB_API_KEY", "from-env")
	t.Setenv("CINETRACK_MAX_CONCURRENT_CALLS", "8")
	t.Setenv("CINETRACK_DEBUG", "true")
	t.Setenv("CINETRACK_COUNTRY", "  ")

	settings := DefaultSettings()
	settings.ApplyEnv()

	assert.Equal(t, "from-env", settings.TMDB.APIKey)
	assert.Equal(t, 8, settings.Core.MaxConcurrentCalls)
	assert.True(t, settings.Logging.Debug)
	assert.Equal(t, "US", settings.Core.Country)
}

func TestConfigAdapter_DefaultsOnBrokenFile(t *testing.T) {
	m, fs := newTestManager(t)
	require.NoError(t, afero.WriteFile(fs, m.Path(), []byte(`[]`), 0o600))

	cfg := NewConfigAdapter(m).GetConfigGetter()()
	assert.Equal(t, 4, cfg.MaxConcurrentCalls)
	assert.Equal(t, 30*24*time.Hour, cfg.SoonThreshold)
	assert.Equal(t, 70, cfg.HighlyRatedPercent)
	assert.Equal(t, uint(3), cfg.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
}
