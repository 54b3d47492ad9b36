// Package app wires the movie core together: the looper everything state-related runs on, the
// executor, the shared store, the remote clients, the local database and the controller.
package app

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/text/language"

	"cinetrack/config"
	"cinetrack/internal/controller"
	"cinetrack/internal/database"
	"cinetrack/internal/eventbus"
	"cinetrack/internal/executor"
	"cinetrack/internal/state"
	"cinetrack/internal/tasks"
	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/services/tmdb"
	"cinetrack/services/trakt"
	"cinetrack/utils/filter"
)

type App struct {
	Looper     *executor.Looper
	Executor   *executor.Executor
	Bus        *eventbus.Bus
	Store      *state.Store
	TMDB       *tmdb.Client
	Trakt      *trakt.Client
	DB         *database.DB
	Local      *database.AsyncStore
	Controller *controller.Controller

	// Config is the core configuration the app was built with.
	Config *config.CoreConfig

	settings config.Settings
}

// New builds the app from settings. getConfig supplies the core configuration; when nil it is
// derived from settings. Nothing runs until Start.
func New(settings config.Settings, getConfig config.ConfigGetter) (*App, error) {
	if getConfig == nil {
		getConfig = func() *config.CoreConfig { return config.FromSettings(settings) }
	}
	cfg := getConfig()

	db, err := database.NewDB(database.Config{DatabasePath: settings.Database.Path})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	retry := remote.WithRetry(cfg.RetryAttempts, cfg.RetryDelay)
	tmdbClient := tmdb.NewClient(tmdb.Options{
		APIKey:   settings.TMDB.APIKey,
		Language: settings.TMDB.Language,
		Region:   settings.TMDB.Region,
		BaseURL:  settings.TMDB.BaseURL,
		HTTP:     []remote.Option{retry},
	})
	traktClient := trakt.NewClient(settings.Trakt.ClientID, settings.Trakt.ClientSecret, retry)
	if settings.Trakt.BaseURL != "" {
		traktClient.WithBaseURL(settings.Trakt.BaseURL)
	}
	if !tmdbClient.HasCredentials() {
		log.Printf("[app] no TMDB api key configured; TMDB calls will fail")
	}
	if !traktClient.HasCredentials() {
		log.Printf("[app] no Trakt client credentials configured; Trakt calls will fail")
	}

	looper := executor.NewLooper()
	exec := executor.New(looper, cfg.MaxConcurrentCalls)
	exec.SetDebug(cfg.Debug)

	bus := eventbus.New()
	store := state.New(bus)
	local := database.NewAsyncStore(db.Movies, exec)

	deps := &tasks.Deps{
		Store:   store,
		TMDB:    tmdbClient,
		Trakt:   traktClient,
		Local:   local,
		Country: cfg.Country,
	}

	tag, err := language.Parse(cfg.Language)
	if err != nil {
		log.Printf("[app] unknown language %q, using English: %v", cfg.Language, err)
		tag = language.English
	}

	ctrl := controller.New(bus, exec, deps, local, controller.Options{
		Debug:                        cfg.Debug,
		RemoveFromWatchlistOnWatched: cfg.RemoveFromWatchlistOnWatched,
		Language:                     tag,
		Rules: filter.Rules{
			Now:                store.Now,
			SoonThreshold:      cfg.SoonThreshold,
			HighlyRatedPercent: cfg.HighlyRatedPercent,
		},
	})

	return &App{
		Looper:     looper,
		Executor:   exec,
		Bus:        bus,
		Store:      store,
		TMDB:       tmdbClient,
		Trakt:      traktClient,
		DB:         db,
		Local:      local,
		Controller: ctrl,
		Config:     cfg,
		settings:   settings,
	}, nil
}

// Start runs the looper and initializes the controller, restoring a saved login first so the
// user's lists can be preloaded from the local store.
func (a *App) Start() {
	a.Looper.Start()
	a.Looper.Do(func() {
		if token := a.settings.Trakt.AccessToken; token != "" {
			a.Store.SetAccount(&models.Account{Username: a.settings.Trakt.Username, AccessToken: token})
		}
		a.Controller.Init()
	})
}

// Do runs fn on the looper and waits for it. Use it for anything that touches the store or
// the controller from another goroutine.
func (a *App) Do(fn func()) bool {
	return a.Looper.Do(fn)
}

// Logout drops the account. The controller clears everything cached for the user, including
// the local store.
func (a *App) Logout() {
	a.Do(func() {
		a.Store.SetAccount(nil)
	})
}

// WaitIdle waits until no task is pending, or until timeout.
func (a *App) WaitIdle(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		a.Executor.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close stops the controller and releases everything New opened.
func (a *App) Close() error {
	a.Looper.Do(a.Controller.Suspend)
	a.Executor.Close()
	a.Looper.Stop()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close local store: %w", err)
	}
	return nil
}
