package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Settings is everything cinetrack persists between runs.
type Settings struct {
	TMDB     TMDBSettings     `json:"tmdb"`
	Trakt    TraktSettings    `json:"trakt"`
	Core     CoreSettings     `json:"core"`
	Filters  FilterSettings   `json:"filters"`
	Database DatabaseSettings `json:"database"`
	Logging  LoggingSettings  `json:"logging"`
	Server   ServerSettings   `json:"server"`
}

type TMDBSettings struct {
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl,omitempty"`
	Language string `json:"language"`
	Region   string `json:"region"`
}

// TraktSettings holds the API application credentials and, once logged in, the user's token.
type TraktSettings struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	BaseURL      string `json:"baseUrl,omitempty"`
	Username     string `json:"username,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`

	// TokenCreatedAt (unix seconds) and TokenExpiresIn (seconds) come from the token response.
	TokenCreatedAt int64 `json:"tokenCreatedAt,omitempty"`
	TokenExpiresIn int   `json:"tokenExpiresIn,omitempty"`
}

// TokenExpiresAt returns when the access token expires, or the zero time when unknown.
func (t TraktSettings) TokenExpiresAt() time.Time {
	if t.TokenCreatedAt == 0 || t.TokenExpiresIn <= 0 {
		return time.Time{}
	}
	return time.Unix(t.TokenCreatedAt, 0).Add(time.Duration(t.TokenExpiresIn) * time.Second)
}

type CoreSettings struct {
	MaxConcurrentCalls           int    `json:"maxConcurrentCalls"`
	Language                     string `json:"language"`
	Country                      string `json:"country"`
	RemoveFromWatchlistOnWatched bool   `json:"removeFromWatchlistOnWatched"`
	RetryAttempts                int    `json:"retryAttempts"`
	RetryDelayMillis             int    `json:"retryDelayMillis"`
}

type FilterSettings struct {
	SoonThresholdDays  int `json:"soonThresholdDays"`
	HighlyRatedPercent int `json:"highlyRatedPercent"`
}

type DatabaseSettings struct {
	Path string `json:"path"`
}

type LoggingSettings struct {
	Debug      bool   `json:"debug"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays"`
}

type ServerSettings struct {
	// DebugAddr enables the debug HTTP surface when set, e.g. "127.0.0.1:7171".
	DebugAddr string `json:"debugAddr,omitempty"`
}

// DefaultSettings returns the settings used for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		TMDB: TMDBSettings{
			Language: "en-US",
			Region:   "US",
		},
		Core: CoreSettings{
			MaxConcurrentCalls: 4,
			Language:           "en",
			Country:            "US",
			RetryAttempts:      3,
			RetryDelayMillis:   500,
		},
		Filters: FilterSettings{
			SoonThresholdDays:  30,
			HighlyRatedPercent: 70,
		},
		Database: DatabaseSettings{
			Path: filepath.Join("cache", "cinetrack.db"),
		},
		Logging: LoggingSettings{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// fillDefaults replaces zero values a hand-edited file may leave behind.
func (s *Settings) fillDefaults() {
	def := DefaultSettings()
	if s.TMDB.Language == "" {
		s.TMDB.Language = def.TMDB.Language
	}
	if s.TMDB.Region == "" {
		s.TMDB.Region = def.TMDB.Region
	}
	if s.Core.MaxConcurrentCalls <= 0 {
		s.Core.MaxConcurrentCalls = def.Core.MaxConcurrentCalls
	}
	if s.Core.Language == "" {
		s.Core.Language = def.Core.Language
	}
	if s.Core.Country == "" {
		s.Core.Country = def.Core.Country
	}
	if s.Core.RetryAttempts <= 0 {
		s.Core.RetryAttempts = def.Core.RetryAttempts
	}
	if s.Core.RetryDelayMillis <= 0 {
		s.Core.RetryDelayMillis = def.Core.RetryDelayMillis
	}
	if s.Filters.SoonThresholdDays <= 0 {
		s.Filters.SoonThresholdDays = def.Filters.SoonThresholdDays
	}
	if s.Filters.HighlyRatedPercent <= 0 {
		s.Filters.HighlyRatedPercent = def.Filters.HighlyRatedPercent
	}
	if s.Database.Path == "" {
		s.Database.Path = def.Database.Path
	}
	if s.Logging.MaxSizeMB <= 0 {
		s.Logging.MaxSizeMB = def.Logging.MaxSizeMB
	}
	if s.Logging.MaxBackups <= 0 {
		s.Logging.MaxBackups = def.Logging.MaxBackups
	}
	if s.Logging.MaxAgeDays <= 0 {
		s.Logging.MaxAgeDays = def.Logging.MaxAgeDays
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// ApplyEnv overlays the CINETRACK_* environment variables on s.
func (s *Settings) ApplyEnv() {
	s.TMDB.APIKey = getEnv("CINETRACK_TMDB_API_KEY", s.TMDB.APIKey)
	s.TMDB.BaseURL = getEnv("CINETRACK_TMDB_BASE_URL", s.TMDB.BaseURL)
	s.TMDB.Language = getEnv("CINETRACK_TMDB_LANGUAGE", s.TMDB.Language)
	s.TMDB.Region = getEnv("CINETRACK_TMDB_REGION", s.TMDB.Region)
	s.Trakt.ClientID = getEnv("CINETRACK_TRAKT_CLIENT_ID", s.Trakt.ClientID)
	s.Trakt.ClientSecret = getEnv("CINETRACK_TRAKT_CLIENT_SECRET", s.Trakt.ClientSecret)
	s.Trakt.BaseURL = getEnv("CINETRACK_TRAKT_BASE_URL", s.Trakt.BaseURL)
	s.Core.MaxConcurrentCalls = getEnvInt("CINETRACK_MAX_CONCURRENT_CALLS", s.Core.MaxConcurrentCalls)
	s.Core.Language = getEnv("CINETRACK_LANGUAGE", s.Core.Language)
	s.Core.Country = getEnv("CINETRACK_COUNTRY", s.Core.Country)
	s.Database.Path = getEnv("CINETRACK_DB_PATH", s.Database.Path)
	s.Logging.Debug = getEnvBool("CINETRACK_DEBUG", s.Logging.Debug)
	s.Logging.File = getEnv("CINETRACK_LOG_FILE", s.Logging.File)
	s.Server.DebugAddr = getEnv("CINETRACK_DEBUG_ADDR", s.Server.DebugAddr)
}

// Manager loads and saves Settings as a JSON file.
type Manager struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewManager(fs afero.Fs, path string) *Manager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Manager{fs: fs, path: path}
}

func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file. A missing file yields DefaultSettings.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := afero.ReadFile(m.fs, m.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", m.path, err)
	}
	settings.fillDefaults()
	return settings, nil
}

// Save writes s through a temp file so a crash never leaves a truncated file behind.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.path); dir != "" && dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := m.fs.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Update loads, applies fn and saves in one step.
func (m *Manager) Update(fn func(*Settings)) (Settings, error) {
	settings, err := m.Load()
	if err != nil {
		return Settings{}, err
	}
	fn(&settings)
	if err := m.Save(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
