package tasks

import (
	"context"
	"log"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"cinetrack/internal/state"
	"cinetrack/models"
	"cinetrack/services/trakt"
)

// userTask is a Trakt call made on behalf of the logged-in account. Its result is dropped when
// the account changed while the call ran.
type userTask struct {
	base
	token    string
	username string
}

func newUserTask(deps *Deps, callingID int, key string) userTask {
	return userTask{
		base:     newBase(deps, callingID, models.SourceTrakt, key),
		token:    deps.Store.AccessToken(),
		username: deps.Store.Username(),
	}
}

func (t *userTask) stale() bool {
	if t.store().AccessToken() != t.token {
		log.Printf("[tasks] %s: account changed, dropping result", t.key)
		return true
	}
	return false
}

// resolve returns the current canonical instance of m. m may have been merged into another
// instance while the call ran.
func (t *userTask) resolve(m *models.Movie) *models.Movie {
	return t.store().PutMovie(&models.Movie{TmdbID: m.TmdbID, TraktID: m.TraktID})
}

// FetchTrending loads the movies trending on Trakt.
type FetchTrending struct {
	base
	refresh bool
	result  []trakt.TrendingItem
}

// NewFetchTrending builds the trending task; refresh bypasses the client's response cache.
func NewFetchTrending(deps *Deps, callingID int, refresh bool) *FetchTrending {
	return &FetchTrending{base: newBase(deps, callingID, models.SourceTrakt, "trending"), refresh: refresh}
}

func (t *FetchTrending) Call(ctx context.Context) (err error) {
	if t.refresh {
		t.deps.Trakt.InvalidateTrending()
	}
	t.result, err = t.deps.Trakt.GetTrendingMovies(ctx)
	return err
}

func (t *FetchTrending) OnSuccess() {
	movies := make([]*models.Movie, 0, len(t.result))
	for _, item := range t.result {
		movies = append(movies, movieFromTrakt(item.Movie))
	}
	t.store().SetTrending(movies)
}

// FetchLibrary loads the collection, the watch history and the ratings and rebuilds the
// library from them. Flags of movies that dropped out of the library are cleared.
type FetchLibrary struct {
	userTask
	collection []trakt.CollectionItem
	watched    []trakt.WatchedItem
	ratings    []trakt.RatingItem
}

func NewFetchLibrary(deps *Deps, callingID int) *FetchLibrary {
	return &FetchLibrary{userTask: newUserTask(deps, callingID, "library")}
}

func (t *FetchLibrary) Call(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		t.collection, err = t.deps.Trakt.GetCollection(ctx, t.token)
		return err
	})
	g.Go(func() (err error) {
		t.watched, err = t.deps.Trakt.GetWatched(ctx, t.token)
		return err
	})
	g.Go(func() (err error) {
		t.ratings, err = t.deps.Trakt.GetRatings(ctx, t.token)
		return err
	})
	return g.Wait()
}

func (t *FetchLibrary) OnSuccess() {
	if t.stale() {
		return
	}
	s := t.store()
	previous := s.Library()

	var library []*models.Movie
	collected := make(map[*models.Movie]bool)
	watched := make(map[*models.Movie]bool)
	for _, item := range t.collection {
		m := s.PutMovie(movieFromTrakt(item.Movie))
		if !collected[m] && !watched[m] {
			library = append(library, m)
		}
		collected[m] = true
	}
	for _, item := range t.watched {
		m := s.PutMovie(movieFromTrakt(item.Movie))
		if !collected[m] && !watched[m] {
			library = append(library, m)
		}
		watched[m] = true
	}
	for _, list := range [][]*models.Movie{previous, library} {
		for _, m := range list {
			m.InCollection = collected[m]
			m.Watched = watched[m]
		}
	}
	for _, item := range t.ratings {
		s.PutMovie(movieFromTrakt(item.Movie)).UserRating = item.Rating
	}
	if library == nil {
		library = []*models.Movie{}
	}

	s.SetLibrary(library)
	if t.deps.Local != nil {
		t.deps.Local.SaveLibrary(s.Library())
	}
}

// FetchWatchlist loads the user's watchlist.
type FetchWatchlist struct {
	userTask
	result []trakt.WatchlistItem
}

func NewFetchWatchlist(deps *Deps, callingID int) *FetchWatchlist {
	return &FetchWatchlist{userTask: newUserTask(deps, callingID, "watchlist")}
}

func (t *FetchWatchlist) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.GetWatchlist(ctx, t.token)
	return err
}

func (t *FetchWatchlist) OnSuccess() {
	if t.stale() {
		return
	}
	s := t.store()
	previous := s.Watchlist()

	watchlist := make([]*models.Movie, 0, len(t.result))
	listed := make(map[*models.Movie]struct{}, len(t.result))
	for _, item := range t.result {
		if item.Movie == nil {
			continue
		}
		m := s.PutMovie(movieFromTrakt(*item.Movie))
		m.InWatchlist = true
		listed[m] = struct{}{}
		watchlist = append(watchlist, m)
	}
	for _, m := range previous {
		if _, ok := listed[m]; !ok {
			m.InWatchlist = false
		}
	}

	s.SetWatchlist(watchlist)
	if t.deps.Local != nil {
		t.deps.Local.SaveWatchlist(s.Watchlist())
	}
}

// FetchTraktMovie loads the full Trakt detail of a movie.
type FetchTraktMovie struct {
	userTask
	traktID string
	result  *trakt.Movie
}

func NewFetchTraktMovie(deps *Deps, callingID int, traktID string) *FetchTraktMovie {
	return &FetchTraktMovie{userTask: newUserTask(deps, callingID, "movie:"+traktID), traktID: traktID}
}

func (t *FetchTraktMovie) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.GetMovie(ctx, t.token, t.traktID)
	return err
}

func (t *FetchTraktMovie) OnSuccess() {
	partial := movieFromTrakt(*t.result)
	if partial.TraktID == "" {
		partial.TraktID = t.traktID
	}
	partial.MarkFullFetched(models.SourceTrakt)
	movie := t.store().PutMovie(partial)
	t.store().Publish(state.MovieInformationUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchTraktRelated loads the movies Trakt considers related.
type FetchTraktRelated struct {
	userTask
	traktID string
	result  []trakt.Movie
}

func NewFetchTraktRelated(deps *Deps, callingID int, traktID string) *FetchTraktRelated {
	t := &FetchTraktRelated{userTask: newUserTask(deps, callingID, "related:"+traktID), traktID: traktID}
	t.secondary = true
	return t
}

func (t *FetchTraktRelated) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.GetRelatedMovies(ctx, t.token, t.traktID)
	return err
}

func (t *FetchTraktRelated) OnSuccess() {
	related := t.store().PutMovies(moviesFromTrakt(t.result))
	movie := t.store().PutMovie(&models.Movie{TraktID: t.traktID})
	movie.Related = related
	t.store().Publish(state.MovieRelatedItemsUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchRecommendations loads the user's personal recommendations.
type FetchRecommendations struct {
	userTask
	result []trakt.Movie
}

func NewFetchRecommendations(deps *Deps, callingID int) *FetchRecommendations {
	return &FetchRecommendations{userTask: newUserTask(deps, callingID, "recommendations")}
}

func (t *FetchRecommendations) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.GetRecommendedMovies(ctx, t.token)
	return err
}

func (t *FetchRecommendations) OnSuccess() {
	if t.stale() {
		return
	}
	t.store().SetRecommended(moviesFromTrakt(t.result))
}

// FetchWatching loads what the user is watching right now.
type FetchWatching struct {
	userTask
	result *trakt.Watching
}

func NewFetchWatching(deps *Deps, callingID int) *FetchWatching {
	return &FetchWatching{userTask: newUserTask(deps, callingID, "watching")}
}

func (t *FetchWatching) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.GetWatching(ctx, t.token, t.username)
	return err
}

func (t *FetchWatching) OnSuccess() {
	if t.stale() {
		return
	}
	if t.result == nil || t.result.Movie == nil {
		if t.store().WatchingMovie() != nil {
			t.store().SetWatchingMovie(nil)
		}
		return
	}
	watchingType := models.WatchingScrobble
	if t.result.Action == string(models.WatchingCheckin) {
		watchingType = models.WatchingCheckin
	}
	t.store().SetWatchingMovie(&models.WatchingMovie{
		Movie:     movieFromTrakt(*t.result.Movie),
		Type:      watchingType,
		StartedAt: t.result.StartedAt,
		ExpiresAt: t.result.ExpiresAt,
	})
}

// FetchUserProfile loads the user's settings into a profile.
type FetchUserProfile struct {
	userTask
	result *trakt.Settings
}

func NewFetchUserProfile(deps *Deps, callingID int) *FetchUserProfile {
	return &FetchUserProfile{userTask: newUserTask(deps, callingID, "profile")}
}

func (t *FetchUserProfile) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.GetSettings(ctx, t.token)
	return err
}

func (t *FetchUserProfile) OnSuccess() {
	if t.stale() {
		return
	}
	t.store().SetUserProfile(userProfile(t.result, t.store().Now()))
}

// FlagAction is one of the batch membership changes a user can make.
type FlagAction int

const (
	MarkSeen FlagAction = iota
	MarkUnseen
	AddToCollection
	RemoveFromCollection
	AddToWatchlist
	RemoveFromWatchlist
)

func (a FlagAction) String() string {
	switch a {
	case MarkSeen:
		return "mark_seen"
	case MarkUnseen:
		return "mark_unseen"
	case AddToCollection:
		return "collection_add"
	case RemoveFromCollection:
		return "collection_remove"
	case AddToWatchlist:
		return "watchlist_add"
	case RemoveFromWatchlist:
		return "watchlist_remove"
	}
	return "unknown"
}

func (a FlagAction) apply(m *models.Movie) {
	switch a {
	case MarkSeen:
		m.Watched = true
	case MarkUnseen:
		m.Watched = false
	case AddToCollection:
		m.InCollection = true
	case RemoveFromCollection:
		m.InCollection = false
	case AddToWatchlist:
		m.InWatchlist = true
	case RemoveFromWatchlist:
		m.InWatchlist = false
	}
}

// ChangeFlags sends one sync call for a batch of movies and, once Trakt confirmed it, flips the
// flag on every movie of the batch and reconciles library and watchlist membership. The batch
// succeeds or fails as a whole.
type ChangeFlags struct {
	userTask
	action FlagAction
	movies []*models.Movie
	body   []trakt.SyncMovie
	result *trakt.SyncResponse
}

// NewChangeFlags runs on the looper. The request body is built here; Call only sends it.
func NewChangeFlags(deps *Deps, callingID int, action FlagAction, movies []*models.Movie) *ChangeFlags {
	key := action.String()
	for _, m := range movies {
		key += ":" + m.Key()
	}
	return &ChangeFlags{
		userTask: newUserTask(deps, callingID, key),
		action:   action,
		movies:   movies,
		body:     syncMovies(movies),
	}
}

func (t *ChangeFlags) Call(ctx context.Context) (err error) {
	body := slices.Clone(t.body)
	if t.action == MarkSeen {
		now := time.Now().UTC()
		for i := range body {
			body[i].WatchedAt = &now
		}
	}
	switch t.action {
	case MarkSeen:
		t.result, err = t.deps.Trakt.AddToHistory(ctx, t.token, body)
	case MarkUnseen:
		t.result, err = t.deps.Trakt.RemoveFromHistory(ctx, t.token, body)
	case AddToCollection:
		t.result, err = t.deps.Trakt.AddToCollection(ctx, t.token, body)
	case RemoveFromCollection:
		t.result, err = t.deps.Trakt.RemoveFromCollection(ctx, t.token, body)
	case AddToWatchlist:
		t.result, err = t.deps.Trakt.AddToWatchlist(ctx, t.token, body)
	case RemoveFromWatchlist:
		t.result, err = t.deps.Trakt.RemoveFromWatchlist(ctx, t.token, body)
	}
	return err
}

func (t *ChangeFlags) OnSuccess() {
	if t.stale() {
		return
	}
	if t.result != nil && len(t.result.NotFound.Movies) > 0 {
		log.Printf("[tasks] %s: %d movies not found on trakt", t.action, len(t.result.NotFound.Movies))
	}
	changed := make([]*models.Movie, 0, len(t.movies))
	for _, m := range t.movies {
		movie := t.resolve(m)
		t.action.apply(movie)
		t.store().ReconcileMembership(movie)
		changed = append(changed, movie)
	}
	t.store().Publish(state.MovieFlagsUpdated{CallingID: t.callingID, Movies: changed})
}

// SubmitRating rates a movie; a rating of 0 removes the rating.
type SubmitRating struct {
	userTask
	movie  *models.Movie
	body   []trakt.SyncMovie
	rating int
}

func NewSubmitRating(deps *Deps, callingID int, movie *models.Movie, rating int) *SubmitRating {
	body := syncMovies([]*models.Movie{movie})
	for i := range body {
		body[i].Rating = rating
	}
	return &SubmitRating{
		userTask: newUserTask(deps, callingID, "rating:"+movie.Key()),
		movie:    movie,
		body:     body,
		rating:   rating,
	}
}

func (t *SubmitRating) Call(ctx context.Context) error {
	_, err := t.deps.Trakt.AddRatings(ctx, t.token, t.body)
	return err
}

func (t *SubmitRating) OnSuccess() {
	if t.stale() {
		return
	}
	movie := t.resolve(t.movie)
	movie.UserRating = t.rating
	t.store().Publish(state.MovieUserRatingChanged{CallingID: t.callingID, Movie: movie})
}

// Checkin checks the user into a movie.
type Checkin struct {
	userTask
	movie   *models.Movie
	request trakt.CheckinRequest
	result  *trakt.CheckinResponse
}

func NewCheckin(deps *Deps, callingID int, movie *models.Movie, options models.CheckinOptions) *Checkin {
	req := trakt.CheckinRequest{
		Sharing: trakt.Sharing{
			Twitter:  options.ShareTwitter,
			Mastodon: options.ShareMastodon,
			Tumblr:   options.ShareTumblr,
		},
		Message: options.Message,
	}
	if body := syncMovies([]*models.Movie{movie}); len(body) > 0 {
		req.Movie = body[0]
	}
	return &Checkin{userTask: newUserTask(deps, callingID, "checkin:"+movie.Key()), movie: movie, request: req}
}

func (t *Checkin) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.Trakt.Checkin(ctx, t.token, t.request)
	return err
}

func (t *Checkin) OnSuccess() {
	if t.stale() {
		return
	}
	movie := t.resolve(t.movie)
	started := t.result.WatchedAt
	if started.IsZero() {
		started = t.store().Now()
	}
	runtime := time.Duration(movie.Runtime) * time.Minute
	t.store().SetWatchingMovie(&models.WatchingMovie{
		Movie:     movie,
		Type:      models.WatchingCheckin,
		StartedAt: started,
		ExpiresAt: started.Add(runtime),
	})
}

// CancelCheckin removes the active check-in.
type CancelCheckin struct {
	userTask
}

func NewCancelCheckin(deps *Deps, callingID int) *CancelCheckin {
	return &CancelCheckin{userTask: newUserTask(deps, callingID, "checkin:cancel")}
}

func (t *CancelCheckin) Call(ctx context.Context) error {
	return t.deps.Trakt.CancelCheckin(ctx, t.token)
}

func (t *CancelCheckin) OnSuccess() {
	if t.stale() {
		return
	}
	t.store().SetWatchingMovie(nil)
}
