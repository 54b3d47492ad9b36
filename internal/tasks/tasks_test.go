package tasks

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinetrack/internal/eventbus"
	"cinetrack/internal/executor"
	"cinetrack/internal/state"
	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/services/tmdb"
	"cinetrack/services/trakt"
)

type fakeTMDB struct {
	TMDBClient
	movie   *tmdb.Movie
	popular map[int]*tmdb.MoviesPage
	credits *tmdb.Credits
	err     error
}

func (f *fakeTMDB) Movie(ctx context.Context, id int) (*tmdb.Movie, error) {
	return f.movie, f.err
}

func (f *fakeTMDB) PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error) {
	return f.popular[page], f.err
}

func (f *fakeTMDB) MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error) {
	return f.credits, f.err
}

type fakeTrakt struct {
	TraktClient
	movie       *trakt.Movie
	trending    []trakt.TrendingItem
	collection  []trakt.CollectionItem
	watched     []trakt.WatchedItem
	ratings     []trakt.RatingItem
	watchlist   []trakt.WatchlistItem
	synced      []trakt.SyncMovie
	rated       []trakt.SyncMovie
	invalidated bool
	err         error

	checkin        *trakt.CheckinResponse
	checkinRequest *trakt.CheckinRequest
	cancelled      bool

	// gate, when set, holds AddToHistory until it is closed.
	gate chan struct{}
}

func (f *fakeTrakt) GetMovie(ctx context.Context, token, id string) (*trakt.Movie, error) {
	return f.movie, f.err
}

func (f *fakeTrakt) GetTrendingMovies(ctx context.Context) ([]trakt.TrendingItem, error) {
	return f.trending, f.err
}

func (f *fakeTrakt) InvalidateTrending() { f.invalidated = true }

func (f *fakeTrakt) GetCollection(ctx context.Context, token string) ([]trakt.CollectionItem, error) {
	return f.collection, f.err
}

func (f *fakeTrakt) GetWatched(ctx context.Context, token string) ([]trakt.WatchedItem, error) {
	return f.watched, f.err
}

func (f *fakeTrakt) GetRatings(ctx context.Context, token string) ([]trakt.RatingItem, error) {
	return f.ratings, f.err
}

func (f *fakeTrakt) GetWatchlist(ctx context.Context, token string) ([]trakt.WatchlistItem, error) {
	return f.watchlist, f.err
}

func (f *fakeTrakt) AddToHistory(ctx context.Context, token string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.synced = movies
	return &trakt.SyncResponse{}, f.err
}

func (f *fakeTrakt) AddRatings(ctx context.Context, token string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error) {
	f.rated = movies
	return &trakt.SyncResponse{}, f.err
}

func (f *fakeTrakt) Checkin(ctx context.Context, token string, req trakt.CheckinRequest) (*trakt.CheckinResponse, error) {
	f.checkinRequest = &req
	return f.checkin, f.err
}

func (f *fakeTrakt) CancelCheckin(ctx context.Context, token string) error {
	f.cancelled = true
	return f.err
}

type fakeLocal struct {
	library   []*models.Movie
	watchlist []*models.Movie
}

func (f *fakeLocal) SaveLibrary(movies []*models.Movie)   { f.library = movies }
func (f *fakeLocal) SaveWatchlist(movies []*models.Movie) { f.watchlist = movies }

type harness struct {
	deps  *Deps
	exec  *executor.Executor
	bus   *eventbus.Bus
	tmdb  *fakeTMDB
	trakt *fakeTrakt
	local *fakeLocal
}

func setupHarness(t *testing.T) *harness {
	t.Helper()
	bus := eventbus.New()
	store := state.New(bus)
	looper := executor.NewLooper()
	looper.Start()
	exec := executor.New(looper, 2)
	t.Cleanup(func() {
		exec.Close()
		looper.Stop()
	})
	h := &harness{
		bus:   bus,
		exec:  exec,
		tmdb:  &fakeTMDB{},
		trakt: &fakeTrakt{},
		local: &fakeLocal{},
	}
	h.deps = &Deps{Store: store, TMDB: h.tmdb, Trakt: h.trakt, Local: h.local, Country: "US"}
	return h
}

func (h *harness) run(build func() executor.Task) {
	h.exec.Looper().Do(func() { h.exec.Execute(build()) })
	h.exec.Wait()
}

func (h *harness) onLooper(fn func()) {
	h.exec.Looper().Do(fn)
}

func TestDetailFetch_FreshnessPerSource(t *testing.T) {
	h := setupHarness(t)
	h.tmdb.movie = &tmdb.Movie{
		MovieSummary: tmdb.MovieSummary{ID: 348, Title: "Alien", VoteAverage: 8.1},
		IMDBID:       "tt0078748",
		Runtime:      117,
	}
	h.trakt.movie = &trakt.Movie{Title: "Alien", Year: 1979, IDs: trakt.IDs{IMDB: "tt0078748", TMDB: 348}, Rating: 8.5}

	var movie *models.Movie
	h.onLooper(func() { movie = h.deps.Store.PutMovie(&models.Movie{TmdbID: 348}) })
	require.True(t, movie.NeedFullFetchFrom(models.SourceTMDB))
	require.True(t, movie.NeedFullFetchFrom(models.SourceTrakt))

	h.run(func() executor.Task { return NewFetchTmdbMovie(h.deps, 1, 348) })
	assert.False(t, movie.NeedFullFetchFrom(models.SourceTMDB))
	assert.True(t, movie.NeedFullFetchFrom(models.SourceTrakt), "tmdb detail must not satisfy trakt")
	assert.Equal(t, "tt0078748", movie.TraktID)
	assert.Equal(t, 81, movie.TmdbRatingPercent)

	h.run(func() executor.Task { return NewFetchTraktMovie(h.deps, 1, "tt0078748") })
	assert.False(t, movie.NeedFullFetchFrom(models.SourceTrakt))
	assert.True(t, movie.IsLoadedFromTrakt())
	assert.Equal(t, 85, movie.TraktRatingPercent)
	assert.Equal(t, 1, h.deps.Store.MovieCount())
}

func TestTaskLifecycleEvents(t *testing.T) {
	h := setupHarness(t)
	h.trakt.err = remote.Classify(models.SourceTrakt, &remote.StatusError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"})

	var progress []bool
	var errs []state.ErrorEvent
	eventbus.On(h.bus, func(ev state.LoadingProgress) { progress = append(progress, ev.Show) })
	eventbus.On(h.bus, func(ev state.ErrorEvent) { errs = append(errs, ev) })

	h.run(func() executor.Task { return NewFetchTrending(h.deps, 7, false) })

	assert.Equal(t, []bool{true, false}, progress)
	require.Len(t, errs, 1)
	assert.Equal(t, 7, errs[0].CallingID)
	assert.Equal(t, models.SourceTrakt, errs[0].Err.Source)
	assert.Equal(t, remote.CauseUnauthorized, errs[0].Err.Cause)
	assert.Nil(t, h.deps.Store.Trending())
}

func TestFetchTrending_EmptyResultIsLoaded(t *testing.T) {
	h := setupHarness(t)
	h.trakt.trending = nil

	h.run(func() executor.Task { return NewFetchTrending(h.deps, 0, true) })

	assert.True(t, h.trakt.invalidated)
	assert.NotNil(t, h.deps.Store.Trending())
	assert.Empty(t, h.deps.Store.Trending())
}

func TestFetchListingPage_Appends(t *testing.T) {
	h := setupHarness(t)
	h.tmdb.popular = map[int]*tmdb.MoviesPage{
		1: {Page: 1, TotalPages: 3, Results: []tmdb.MovieSummary{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}},
		2: {Page: 2, TotalPages: 3, Results: []tmdb.MovieSummary{{ID: 2, Title: "Two"}, {ID: 3, Title: "Three"}}},
	}

	h.run(func() executor.Task { return NewFetchListingPage(h.deps, 1, ListingPopular, 1) })
	h.run(func() executor.Task { return NewFetchListingPage(h.deps, 1, ListingPopular, 2) })

	popular := h.deps.Store.Popular()
	require.NotNil(t, popular)
	assert.Equal(t, 2, popular.Page)
	assert.Equal(t, 3, popular.TotalPages)
	assert.Len(t, popular.Items, 3)
	assert.True(t, popular.CanFetchNextPage())
}

func TestFetchTmdbCredits_SharesPeople(t *testing.T) {
	h := setupHarness(t)
	h.tmdb.credits = &tmdb.Credits{
		Cast: []tmdb.CastMember{{ID: 10, Name: "Tom Skerritt", Order: 1}, {ID: 7, Name: "Sigourney Weaver", Order: 0}},
		Crew: []tmdb.CrewMember{{ID: 20, Name: "Ridley Scott", Job: "Director", Department: "Directing"}},
	}
	var updated []*models.Movie
	eventbus.On(h.bus, func(ev state.MovieCastItemsUpdated) { updated = append(updated, ev.Movie) })

	h.run(func() executor.Task { return NewFetchTmdbCredits(h.deps, 3, 348) })

	movie := h.deps.Store.MovieByTmdbID(348)
	require.NotNil(t, movie)
	require.Len(t, movie.Cast, 2)
	assert.Equal(t, "Sigourney Weaver", movie.Cast[0].Person.Name)
	assert.Same(t, h.deps.Store.Person(7), movie.Cast[0].Person)
	assert.Equal(t, "Director", movie.Crew[0].Job)
	assert.Equal(t, []*models.Movie{movie}, updated)
}

func TestFetchLibrary_RebuildsFlags(t *testing.T) {
	h := setupHarness(t)
	h.onLooper(func() { h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"}) })

	var dropped *models.Movie
	h.onLooper(func() {
		dropped = h.deps.Store.PutMovie(&models.Movie{TraktID: "tt9", Title: "Gone", Watched: true})
		h.deps.Store.SetLibrary([]*models.Movie{dropped})
	})

	h.trakt.collection = []trakt.CollectionItem{{Movie: trakt.Movie{Title: "Zodiac", IDs: trakt.IDs{IMDB: "tt1"}}}}
	h.trakt.watched = []trakt.WatchedItem{
		{Movie: trakt.Movie{Title: "Zodiac", IDs: trakt.IDs{IMDB: "tt1"}}},
		{Movie: trakt.Movie{Title: "Alien", IDs: trakt.IDs{IMDB: "tt2"}}},
	}
	h.trakt.ratings = []trakt.RatingItem{{Rating: 9, Movie: trakt.Movie{Title: "Alien", IDs: trakt.IDs{IMDB: "tt2"}}}}

	h.run(func() executor.Task { return NewFetchLibrary(h.deps, 0) })

	library := h.deps.Store.Library()
	require.Len(t, library, 2)
	assert.Equal(t, "Alien", library[0].Title)
	assert.Equal(t, "Zodiac", library[1].Title)
	assert.True(t, library[1].InCollection)
	assert.True(t, library[1].Watched)
	assert.False(t, library[0].InCollection)
	assert.Equal(t, 9, library[0].UserRating)
	assert.False(t, dropped.Watched)
	assert.Equal(t, library, h.local.library)
}

func TestUserTask_DropsResultAfterAccountChange(t *testing.T) {
	h := setupHarness(t)
	h.onLooper(func() { h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"}) })
	h.trakt.watchlist = []trakt.WatchlistItem{{Movie: &trakt.Movie{Title: "Zodiac", IDs: trakt.IDs{IMDB: "tt1"}}}}

	h.onLooper(func() {
		h.exec.Execute(NewFetchWatchlist(h.deps, 0))
		h.deps.Store.SetAccount(nil)
	})
	h.exec.Wait()

	assert.Nil(t, h.deps.Store.Watchlist())
	assert.Nil(t, h.local.watchlist)
}

func TestChangeFlags_MarkSeenReconciles(t *testing.T) {
	h := setupHarness(t)
	var movie *models.Movie
	h.onLooper(func() {
		h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"})
		movie = h.deps.Store.PutMovie(&models.Movie{TmdbID: 348, TraktID: "tt0078748", Title: "Alien"})
		h.deps.Store.SetLibrary([]*models.Movie{})
	})
	var flagged []state.MovieFlagsUpdated
	eventbus.On(h.bus, func(ev state.MovieFlagsUpdated) { flagged = append(flagged, ev) })

	h.run(func() executor.Task { return NewChangeFlags(h.deps, 4, MarkSeen, []*models.Movie{movie}) })

	require.Len(t, h.trakt.synced, 1)
	assert.Equal(t, "tt0078748", h.trakt.synced[0].IDs.IMDB)
	assert.Equal(t, 348, h.trakt.synced[0].IDs.TMDB)
	assert.NotNil(t, h.trakt.synced[0].WatchedAt)

	assert.True(t, movie.Watched)
	assert.Equal(t, []*models.Movie{movie}, h.deps.Store.Library())
	require.Len(t, flagged, 1)
	assert.Equal(t, 4, flagged[0].CallingID)
}

func TestChangeFlags_FailureLeavesFlags(t *testing.T) {
	h := setupHarness(t)
	h.trakt.err = remote.Classify(models.SourceTrakt, context.DeadlineExceeded)
	var movie *models.Movie
	h.onLooper(func() {
		h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"})
		movie = h.deps.Store.PutMovie(&models.Movie{TraktID: "tt1", Title: "Zodiac"})
	})
	var errs []state.ErrorEvent
	eventbus.On(h.bus, func(ev state.ErrorEvent) { errs = append(errs, ev) })

	h.run(func() executor.Task { return NewChangeFlags(h.deps, 2, MarkSeen, []*models.Movie{movie}) })

	assert.False(t, movie.Watched)
	require.Len(t, errs, 1)
	assert.Equal(t, remote.CauseNetwork, errs[0].Err.Cause)
}

func TestChangeFlags_BodyBuiltBeforeMovieIsMerged(t *testing.T) {
	h := setupHarness(t)
	h.trakt.gate = make(chan struct{})
	var movie *models.Movie
	h.onLooper(func() {
		h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"})
		movie = h.deps.Store.PutMovie(&models.Movie{TmdbID: 348, Title: "Alien"})
		h.exec.Execute(NewChangeFlags(h.deps, 1, MarkSeen, []*models.Movie{movie}))
	})

	// The call is in flight while the looper learns the Trakt id of the same movie.
	merged := make(chan *models.Movie, 1)
	go h.onLooper(func() {
		merged <- h.deps.Store.PutMovie(&models.Movie{TmdbID: 348, TraktID: "tt0078748"})
	})
	canonical := <-merged
	close(h.trakt.gate)
	h.exec.Wait()

	require.Len(t, h.trakt.synced, 1)
	assert.Equal(t, 348, h.trakt.synced[0].IDs.TMDB)
	assert.Empty(t, h.trakt.synced[0].IDs.IMDB)
	assert.Equal(t, "tt0078748", canonical.TraktID)
	assert.True(t, canonical.Watched)
}

func TestSubmitRating_StoresRating(t *testing.T) {
	h := setupHarness(t)
	var movie *models.Movie
	h.onLooper(func() {
		h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"})
		movie = h.deps.Store.PutMovie(&models.Movie{TraktID: "tt0078748", Title: "Alien"})
	})
	var changed []state.MovieUserRatingChanged
	eventbus.On(h.bus, func(ev state.MovieUserRatingChanged) { changed = append(changed, ev) })

	h.run(func() executor.Task { return NewSubmitRating(h.deps, 5, movie, 8) })

	require.Len(t, h.trakt.rated, 1)
	assert.Equal(t, 8, h.trakt.rated[0].Rating)
	assert.Equal(t, "tt0078748", h.trakt.rated[0].IDs.IMDB)
	assert.Equal(t, 8, movie.UserRating)
	require.Len(t, changed, 1)
	assert.Equal(t, 5, changed[0].CallingID)
	assert.Same(t, movie, changed[0].Movie)
}

func TestCheckin_SetsWatchingMovie(t *testing.T) {
	h := setupHarness(t)
	started := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)
	h.trakt.checkin = &trakt.CheckinResponse{WatchedAt: started}
	var movie *models.Movie
	h.onLooper(func() {
		h.deps.Store.SetAccount(&models.Account{Username: "sam", AccessToken: "token"})
		movie = h.deps.Store.PutMovie(&models.Movie{TraktID: "tt0078748", Title: "Alien", Runtime: 117})
	})
	options := models.CheckinOptions{Message: "Watching Alien", ShareMastodon: true}

	h.run(func() executor.Task { return NewCheckin(h.deps, 6, movie, options) })

	require.NotNil(t, h.trakt.checkinRequest)
	assert.Equal(t, "tt0078748", h.trakt.checkinRequest.Movie.IDs.IMDB)
	assert.Equal(t, "Watching Alien", h.trakt.checkinRequest.Message)
	assert.True(t, h.trakt.checkinRequest.Sharing.Mastodon)

	watching := h.deps.Store.WatchingMovie()
	require.NotNil(t, watching)
	assert.Same(t, movie, watching.Movie)
	assert.Equal(t, models.WatchingCheckin, watching.Type)
	assert.Equal(t, started.Add(117*time.Minute), watching.ExpiresAt)

	h.run(func() executor.Task { return NewCancelCheckin(h.deps, 6) })
	assert.True(t, h.trakt.cancelled)
	assert.Nil(t, h.deps.Store.WatchingMovie())
}

func TestMappers_TraktRatingPercent(t *testing.T) {
	m := movieFromTrakt(trakt.Movie{
		Title:    "Alien",
		IDs:      trakt.IDs{Slug: "alien-1979", TMDB: 348},
		Rating:   7.25,
		Released: trakt.Date{Time: time.Date(1979, 5, 25, 0, 0, 0, 0, time.UTC)},
	})
	assert.Equal(t, "alien-1979", m.TraktID)
	assert.Equal(t, 348, m.TmdbID)
	assert.Equal(t, 73, m.TraktRatingPercent)
	assert.Equal(t, 1979, m.ReleasedAt.Year())
}
