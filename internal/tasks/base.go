// Package tasks holds one executor.Task per remote operation. A task's Call only talks to the
// remote client and keeps the raw response; mapping into the store happens in OnSuccess, on the
// looper.
package tasks

import (
	"context"

	"cinetrack/internal/state"
	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/services/tmdb"
	"cinetrack/services/trakt"
)

// TMDBClient is the subset of the TMDB client the tasks use.
type TMDBClient interface {
	Configuration(ctx context.Context) (*tmdb.Configuration, error)
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	NowPlayingMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	UpcomingMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	SimilarMovies(ctx context.Context, id, page int) (*tmdb.MoviesPage, error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviesPage, error)
	SearchPeople(ctx context.Context, query string, page int) (*tmdb.PeoplePage, error)
	Movie(ctx context.Context, id int) (*tmdb.Movie, error)
	MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	MovieImages(ctx context.Context, id int) (*tmdb.Images, error)
	MovieVideos(ctx context.Context, id int) (*tmdb.Videos, error)
	MovieReleaseDates(ctx context.Context, id int) (*tmdb.ReleaseDates, error)
	Person(ctx context.Context, id int) (*tmdb.Person, error)
	PersonMovieCredits(ctx context.Context, id int) (*tmdb.PersonCredits, error)
}

// TraktClient is the subset of the Trakt client the tasks use.
type TraktClient interface {
	GetSettings(ctx context.Context, accessToken string) (*trakt.Settings, error)
	GetTrendingMovies(ctx context.Context) ([]trakt.TrendingItem, error)
	InvalidateTrending()
	GetMovie(ctx context.Context, accessToken, id string) (*trakt.Movie, error)
	GetRelatedMovies(ctx context.Context, accessToken, id string) ([]trakt.Movie, error)
	GetRecommendedMovies(ctx context.Context, accessToken string) ([]trakt.Movie, error)
	GetCollection(ctx context.Context, accessToken string) ([]trakt.CollectionItem, error)
	GetWatched(ctx context.Context, accessToken string) ([]trakt.WatchedItem, error)
	GetRatings(ctx context.Context, accessToken string) ([]trakt.RatingItem, error)
	GetWatchlist(ctx context.Context, accessToken string) ([]trakt.WatchlistItem, error)
	GetWatching(ctx context.Context, accessToken, username string) (*trakt.Watching, error)
	AddToHistory(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	RemoveFromHistory(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	AddToCollection(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	RemoveFromCollection(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	AddToWatchlist(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	RemoveFromWatchlist(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	AddRatings(ctx context.Context, accessToken string, movies []trakt.SyncMovie) (*trakt.SyncResponse, error)
	Checkin(ctx context.Context, accessToken string, req trakt.CheckinRequest) (*trakt.CheckinResponse, error)
	CancelCheckin(ctx context.Context, accessToken string) error
}

// LocalStore persists the user's lists so the next start has something to show before the
// remote lists arrive.
type LocalStore interface {
	SaveLibrary(movies []*models.Movie)
	SaveWatchlist(movies []*models.Movie)
}

// Deps are the collaborators every task is built with.
type Deps struct {
	Store *state.Store
	TMDB  TMDBClient
	Trakt TraktClient
	Local LocalStore // optional
	// Country selects which release date the release task applies, e.g. "US".
	Country string
}

// base carries the lifecycle every task shares: a loading event around the call and a
// classified error event on failure.
type base struct {
	deps      *Deps
	callingID int
	source    models.Source
	key       string
	secondary bool
}

func newBase(deps *Deps, callingID int, source models.Source, key string) base {
	return base{deps: deps, callingID: callingID, source: source, key: source.String() + ":" + key}
}

func (b *base) CallingID() int { return b.callingID }
func (b *base) Key() string    { return b.key }

func (b *base) store() *state.Store { return b.deps.Store }

func (b *base) PreCall() {
	b.store().Publish(state.LoadingProgress{CallingID: b.callingID, Show: true, Secondary: b.secondary})
}

func (b *base) OnError(err error) {
	b.store().Publish(state.ErrorEvent{CallingID: b.callingID, Err: remote.Classify(b.source, err)})
}

func (b *base) OnFinished() {
	b.store().Publish(state.LoadingProgress{CallingID: b.callingID, Show: false, Secondary: b.secondary})
}
