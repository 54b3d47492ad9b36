// Package controller drives attached screens from the shared movie state: it decides what to
// fetch when a screen attaches, recomputes view state when the store changes and turns user
// interactions into tasks. Every exported method must be called on the coordination looper.
package controller

import (
	"fmt"
	"log"
	"slices"

	"golang.org/x/text/language"

	"cinetrack/internal/eventbus"
	"cinetrack/internal/executor"
	"cinetrack/internal/state"
	"cinetrack/internal/tasks"
	"cinetrack/models"
	"cinetrack/utils/filter"
)

//go:generate mockgen -source=controller.go -destination=mocks/local_store.go -package=mocks

// LocalStore is the async local store the user's lists are preloaded from. Callbacks run once,
// on the looper.
type LocalStore interface {
	GetLibrary(callback func([]*models.Movie))
	GetWatchlist(callback func([]*models.Movie))
	DeleteAll()
}

// Options tune the controller.
type Options struct {
	// Debug turns broken preconditions into panics and logs every population.
	Debug bool
	// RemoveFromWatchlistOnWatched also takes a movie off the watchlist when it is marked seen.
	RemoveFromWatchlistOnWatched bool
	Language                     language.Tag
	Rules                        filter.Rules
}

type attachment struct {
	id int
	ui Ui
}

// Controller is the movie controller.
type Controller struct {
	bus     *eventbus.Bus
	store   *state.Store
	exec    *executor.Executor
	deps    *tasks.Deps
	local   LocalStore
	strings *Strings
	opts    Options

	display Display
	uis     []attachment
	nextID  int
	subs    []*eventbus.Subscription
	inited  bool

	populatedLibraryFromDB   bool
	populatedWatchlistFromDB bool
}

// New creates a controller. local may be nil, in which case the user's lists are only ever
// loaded remotely.
func New(bus *eventbus.Bus, exec *executor.Executor, deps *tasks.Deps, local LocalStore, opts Options) *Controller {
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	if opts.Rules.Now == nil {
		opts.Rules.Now = deps.Store.Now
	}
	return &Controller{
		bus:     bus,
		store:   deps.Store,
		exec:    exec,
		deps:    deps,
		local:   local,
		strings: NewStrings(opts.Language),
		opts:    opts,
	}
}

// ensure checks a precondition. A violation panics in debug mode; otherwise it is logged and
// the caller is expected to no-op.
func (c *Controller) ensure(ok bool, format string, args ...any) bool {
	if ok {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if c.opts.Debug {
		panic("controller: " + msg)
	}
	log.Printf("[controller] invalid state: %s", msg)
	return false
}

// Init subscribes to the bus, starts the local preload and the ambient fetches, and brings
// every UI attached so far up to date. Calling it again is a no-op.
func (c *Controller) Init() {
	if c.inited {
		return
	}
	c.inited = true
	c.subscribe()
	c.populateStateFromDB()

	if c.store.Configuration() == nil {
		c.exec.ExecuteUnique(tasks.NewFetchConfiguration(c.deps, 0))
	}
	if c.store.IsLoggedIn() {
		c.fetchWatchingMovie()
		c.fetchUserProfile()
	}

	for _, a := range slices.Clone(c.uis) {
		c.onUiAttached(a)
		c.updateDisplayTitle(a.ui)
		c.populateUi(a.ui)
	}
}

// Suspend unsubscribes from the bus. Attached UIs stay registered but receive nothing until
// the next Init.
func (c *Controller) Suspend() {
	if !c.inited {
		return
	}
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
	c.inited = false
}

// IsInited reports whether the controller is subscribed to the bus.
func (c *Controller) IsInited() bool {
	return c.inited
}

// AttachDisplay sets the navigation collaborator.
func (c *Controller) AttachDisplay(display Display) {
	c.display = display
}

// DetachDisplay clears the navigation collaborator if it is display.
func (c *Controller) DetachDisplay(display Display) {
	if c.display == display {
		c.display = nil
	}
}

// Attach registers ui under a fresh calling id and returns its actions. When the controller is
// initialised the needed fetches are dispatched and whatever is cached is pushed right away.
func (c *Controller) Attach(ui Ui) *Actions {
	if !c.ensure(ui != nil, "attaching a nil ui") {
		return nil
	}
	if a, ok := c.attachmentOf(ui); ok {
		log.Printf("[controller] ui %d already attached", a.id)
		return &Actions{c: c, id: a.id, ui: ui}
	}

	c.nextID++
	a := attachment{id: c.nextID, ui: ui}
	c.uis = append(c.uis, a)
	if c.opts.Debug {
		log.Printf("[controller] attached ui %d: %s %q", a.id, ui.QueryType(), ui.RequestParameter())
	}

	if c.inited {
		c.onUiAttached(a)
		c.updateDisplayTitle(ui)
		c.populateUi(ui)
	}
	return &Actions{c: c, id: a.id, ui: ui}
}

// Detach unregisters ui. Results of tasks it started still reach the store but are no longer
// pushed to it.
func (c *Controller) Detach(ui Ui) {
	idx := slices.IndexFunc(c.uis, func(a attachment) bool { return a.ui == ui })
	if idx < 0 {
		return
	}
	if c.opts.Debug {
		log.Printf("[controller] detached ui %d", c.uis[idx].id)
	}
	c.uis = slices.Delete(c.uis, idx, idx+1)
}

func (c *Controller) attachmentOf(ui Ui) (attachment, bool) {
	for _, a := range c.uis {
		if a.ui == ui {
			return a, true
		}
	}
	return attachment{}, false
}

// findUi resolves a calling id to the UI still attached under it.
func (c *Controller) findUi(callingID int) Ui {
	if callingID == 0 {
		return nil
	}
	for _, a := range c.uis {
		if a.id == callingID {
			return a.ui
		}
	}
	return nil
}

func (c *Controller) idForQuery(queryType QueryType) int {
	for _, a := range c.uis {
		if a.ui.QueryType() == queryType {
			return a.id
		}
	}
	return 0
}

// UiInfo describes an attached UI for the debug endpoints.
type UiInfo struct {
	ID        int    `json:"id"`
	Query     string `json:"query"`
	Parameter string `json:"parameter,omitempty"`
	View      string `json:"view"`
}

// Attached lists the attached UIs in attach order.
func (c *Controller) Attached() []UiInfo {
	infos := make([]UiInfo, 0, len(c.uis))
	for _, a := range c.uis {
		infos = append(infos, UiInfo{
			ID:        a.id,
			Query:     a.ui.QueryType().String(),
			Parameter: a.ui.RequestParameter(),
			View:      viewName(a.ui.View()),
		})
	}
	return infos
}

// Strings returns the string resolver the controller titles screens with.
func (c *Controller) Strings() *Strings {
	return c.strings
}

func (c *Controller) subscribe() {
	b := c.bus
	c.subs = append(c.subs,
		eventbus.On(b, func(state.LibraryChanged) { c.populateQueries(QueryLibrary) }),
		eventbus.On(b, func(state.WatchlistChanged) { c.populateQueries(QueryWatchlist) }),
		eventbus.On(b, func(state.TrendingChanged) { c.populateQueries(QueryTrending) }),
		eventbus.On(b, func(state.PopularChanged) { c.populateQueries(QueryPopular) }),
		eventbus.On(b, func(state.InTheatresChanged) { c.populateQueries(QueryNowPlaying) }),
		eventbus.On(b, func(state.UpcomingChanged) { c.populateQueries(QueryUpcoming) }),
		eventbus.On(b, func(state.RecommendedChanged) { c.populateQueries(QueryRecommended) }),
		eventbus.On(b, func(state.SearchResultChanged) {
			c.populateQueries(QuerySearch, QuerySearchMovies, QuerySearchPeople)
		}),
		eventbus.On(b, func(state.ConfigurationChanged) { c.populateUis() }),
		eventbus.On(b, c.onAccountChanged),
		eventbus.On(b, func(state.UserProfileChanged) { c.populateViews(isCheckinView) }),
		eventbus.On(b, c.onWatchingMovieChanged),
		eventbus.On(b, c.onMovieFlagsChanged),
		eventbus.On(b, func(ev state.MovieInformationUpdated) {
			c.populateForMovie(ev.CallingID, ev.Movie)
			c.checkDetailMovieResult(ev.CallingID, ev.Movie)
		}),
		eventbus.On(b, func(ev state.MovieReleasesUpdated) { c.populateForMovie(ev.CallingID, ev.Movie) }),
		eventbus.On(b, func(ev state.MovieRelatedItemsUpdated) { c.populateForMovie(ev.CallingID, ev.Movie) }),
		eventbus.On(b, func(ev state.MovieVideosUpdated) { c.populateForMovie(ev.CallingID, ev.Movie) }),
		eventbus.On(b, func(ev state.MovieImagesUpdated) { c.populateForMovie(ev.CallingID, ev.Movie) }),
		eventbus.On(b, func(ev state.MovieCastItemsUpdated) { c.populateForMovie(ev.CallingID, ev.Movie) }),
		eventbus.On(b, func(ev state.MovieUserRatingChanged) {
			c.populateQueries(QueryMovieDetail)
			c.populateForMovie(ev.CallingID, ev.Movie)
		}),
		eventbus.On(b, func(ev state.PersonChanged) { c.populateForPerson(ev.CallingID, ev.Person) }),
		eventbus.On(b, c.onError),
		eventbus.On(b, c.onLoadingProgress),
	)
}

func (c *Controller) onAccountChanged(ev state.AccountChanged) {
	c.store.ClearUserData()
	if c.local != nil {
		c.local.DeleteAll()
	}

	if c.store.IsLoggedIn() {
		log.Printf("[controller] account changed to %s", c.store.Username())
		c.prefetchLibraryIfNeeded()
		c.prefetchWatchlistIfNeeded()
		c.fetchWatchingMovie()
		c.fetchUserProfile()
	} else {
		log.Printf("[controller] logged out")
	}

	// Public listings were cleared along with the user's flags; refetch what is on screen.
	for _, a := range slices.Clone(c.uis) {
		c.fetchForUi(a)
	}
	c.populateUis()
}

func (c *Controller) onWatchingMovieChanged(state.WatchingMovieUpdated) {
	if watching := c.store.WatchingMovie(); watching != nil && watching.Movie != nil {
		c.fetchDetailMovieIfNeeded(0, watching.Movie, false)
	}
	c.populateQueries(QueryMovieDetail)
	c.populateViews(isCancelCheckinView)
}

func (c *Controller) onMovieFlagsChanged(ev state.MovieFlagsUpdated) {
	ui := c.findUi(ev.CallingID)
	if ui == nil {
		c.populateUis()
		return
	}
	if ui.QueryType() == QueryRecommended {
		c.fetchRecommended(ev.CallingID)
	}
	c.populateUi(ui)
}

func (c *Controller) onError(ev state.ErrorEvent) {
	ui := c.findUi(ev.CallingID)
	if ui != nil && ev.Err != nil {
		ui.ShowError(ev.Err)
	}
}

func (c *Controller) onLoadingProgress(ev state.LoadingProgress) {
	ui := c.findUi(ev.CallingID)
	if ui == nil {
		return
	}
	if ev.Secondary {
		ui.ShowSecondaryLoadingProgress(ev.Show)
	} else {
		ui.ShowLoadingProgress(ev.Show)
	}
}

// populateStateFromDB preloads the user's lists from the local store. Remote fetches of those
// lists are held back until the preload has completed.
func (c *Controller) populateStateFromDB() {
	if c.local == nil {
		c.populatedLibraryFromDB = true
		c.populatedWatchlistFromDB = true
		return
	}

	// A preload that completes after an account change belongs to the previous account.
	token := c.store.AccessToken()

	if len(c.store.Library()) == 0 {
		c.local.GetLibrary(func(movies []*models.Movie) {
			if c.store.Library() == nil && movies != nil && c.store.AccessToken() == token {
				c.store.SetLibrary(c.canonicalWithUserState(movies))
			}
			c.populatedLibraryFromDB = true
			c.prefetchLibraryIfNeeded()
		})
	} else {
		c.populatedLibraryFromDB = true
	}

	if len(c.store.Watchlist()) == 0 {
		c.local.GetWatchlist(func(movies []*models.Movie) {
			if c.store.Watchlist() == nil && movies != nil && c.store.AccessToken() == token {
				c.store.SetWatchlist(c.canonicalWithUserState(movies))
			}
			c.populatedWatchlistFromDB = true
			c.prefetchWatchlistIfNeeded()
		})
	} else {
		c.populatedWatchlistFromDB = true
	}
}

// canonicalWithUserState upserts stored movies keeping the flags they were stored with.
func (c *Controller) canonicalWithUserState(movies []*models.Movie) []*models.Movie {
	result := make([]*models.Movie, 0, len(movies))
	for _, m := range movies {
		if m == nil || !m.HasIdentity() {
			continue
		}
		result = append(result, c.store.PutMovieWithUserState(m))
	}
	return result
}

func (c *Controller) prefetchLibraryIfNeeded() {
	c.fetchLibraryIfNeeded(c.idForQuery(QueryLibrary))
}

func (c *Controller) prefetchWatchlistIfNeeded() {
	c.fetchWatchlistIfNeeded(c.idForQuery(QueryWatchlist))
}
