package app

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinetrack/config"
	"cinetrack/internal/controller"
	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/utils/filter"
)

type popularUi struct {
	mu    sync.Mutex
	items []filter.ListItem
}

func (u *popularUi) QueryType() controller.QueryType                   { return controller.QueryPopular }
func (u *popularUi) RequestParameter() string                          { return "" }
func (u *popularUi) IsModal() bool                                     { return false }
func (u *popularUi) View() controller.View                             { return controller.MovieListView{Sink: u} }
func (u *popularUi) ShowError(*remote.CallError)                       {}
func (u *popularUi) ShowLoadingProgress(bool)                          {}
func (u *popularUi) ShowSecondaryLoadingProgress(bool)                 {}
func (u *popularUi) SetColorScheme(*models.ColorScheme)                {}
func (u *popularUi) SetFiltersVisible(bool)                            {}
func (u *popularUi) ShowActiveFilters([]filter.MovieFilter)            {}
func (u *popularUi) AllowBatchOperations(...controller.MovieOperation) {}
func (u *popularUi) DisableBatchOperations()                           {}

func (u *popularUi) SetItems(items []filter.ListItem) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items = items
}

func (u *popularUi) titles() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	var titles []string
	for _, item := range u.items {
		titles = append(titles, item.Movie.Title)
	}
	return titles
}

func newTMDBServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/configuration", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images":{"secure_base_url":"https://image.tmdb.org/t/p/","poster_sizes":["w342"],"backdrop_sizes":["w780"],"profile_sizes":["w185"]}}`)
	})
	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"page":1,"total_pages":3,"results":[{"id":348,"title":"Alien","release_date":"1979-05-25"},{"id":949,"title":"Heat","release_date":"1995-12-15"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testSettings(t *testing.T, tmdbURL string) config.Settings {
	t.Helper()
	settings := config.DefaultSettings()
	settings.TMDB.APIKey = "test"
	settings.TMDB.BaseURL = tmdbURL
	settings.Database.Path = filepath.Join(t.TempDir(), "cinetrack.db")
	settings.Core.RetryAttempts = 1
	return settings
}

func TestApp_PopularScreenEndToEnd(t *testing.T) {
	srv := newTMDBServer(t)
	core, err := New(testSettings(t, srv.URL), nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, core.Close()) })

	core.Start()
	ui := &popularUi{}
	var actions *controller.Actions
	core.Do(func() { actions = core.Controller.Attach(ui) })
	require.NotNil(t, actions)
	require.True(t, core.WaitIdle(5*time.Second))

	var page *models.MoviePage
	var loggedIn bool
	core.Do(func() {
		page = core.Store.Popular()
		loggedIn = core.Store.IsLoggedIn()
	})
	require.NotNil(t, page)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, loggedIn)
	assert.Equal(t, []string{"Alien", "Heat"}, ui.titles())
}

func TestApp_StartRestoresSavedLogin(t *testing.T) {
	srv := newTMDBServer(t)
	settings := testSettings(t, srv.URL)
	settings.Trakt.Username = "sam"
	settings.Trakt.AccessToken = "token"
	settings.Trakt.ClientID = "id"
	settings.Trakt.BaseURL = srv.URL

	core, err := New(settings, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, core.Close()) })
	core.Start()

	var username string
	core.Do(func() { username = core.Store.Username() })
	assert.Equal(t, "sam", username)

	core.Logout()
	core.Do(func() { username = core.Store.Username() })
	assert.Empty(t, username)
}

func TestApp_ReadsCoreConfigThroughAdapter(t *testing.T) {
	srv := newTMDBServer(t)
	settings := testSettings(t, srv.URL)
	settings.Core.MaxConcurrentCalls = 2
	settings.Core.RemoveFromWatchlistOnWatched = true
	settings.Filters.SoonThresholdDays = 7

	manager := config.NewManager(afero.NewMemMapFs(), "cinetrack.json")
	require.NoError(t, manager.Save(settings))

	core, err := New(settings, config.NewConfigAdapter(manager).GetConfigGetter())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, core.Close()) })

	require.NotNil(t, core.Config)
	assert.Equal(t, 2, core.Config.MaxConcurrentCalls)
	assert.True(t, core.Config.RemoveFromWatchlistOnWatched)
	assert.Equal(t, 7*24*time.Hour, core.Config.SoonThreshold)
	assert.Equal(t, uint(1), core.Config.RetryAttempts)
}
