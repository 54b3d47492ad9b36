package state

import (
	"cinetrack/internal/eventbus"
	"cinetrack/models"
	"cinetrack/services/remote"
)

const (
	TopicLibraryChanged          eventbus.Topic = "library_changed"
	TopicWatchlistChanged        eventbus.Topic = "watchlist_changed"
	TopicTrendingChanged         eventbus.Topic = "trending_changed"
	TopicPopularChanged          eventbus.Topic = "popular_changed"
	TopicInTheatresChanged       eventbus.Topic = "in_theatres_changed"
	TopicUpcomingChanged         eventbus.Topic = "upcoming_changed"
	TopicRecommendedChanged      eventbus.Topic = "recommended_changed"
	TopicSearchResultChanged     eventbus.Topic = "search_result_changed"
	TopicConfigurationChanged    eventbus.Topic = "configuration_changed"
	TopicWatchingMovieUpdated    eventbus.Topic = "watching_movie_updated"
	TopicAccountChanged          eventbus.Topic = "account_changed"
	TopicUserProfileChanged      eventbus.Topic = "user_profile_changed"
	TopicMovieInformationUpdated eventbus.Topic = "movie_information_updated"
	TopicMovieReleasesUpdated    eventbus.Topic = "movie_releases_updated"
	TopicMovieRelatedUpdated     eventbus.Topic = "movie_related_updated"
	TopicMovieVideosUpdated      eventbus.Topic = "movie_videos_updated"
	TopicMovieImagesUpdated      eventbus.Topic = "movie_images_updated"
	TopicMovieCastUpdated        eventbus.Topic = "movie_cast_updated"
	TopicMovieUserRatingChanged  eventbus.Topic = "movie_user_rating_changed"
	TopicPersonChanged           eventbus.Topic = "person_changed"
	TopicMovieFlagsUpdated       eventbus.Topic = "movie_flags_updated"
	TopicLoadingProgress         eventbus.Topic = "loading_progress"
	TopicError                   eventbus.Topic = "error"
)

type LibraryChanged struct{}

func (LibraryChanged) Topic() eventbus.Topic { return TopicLibraryChanged }

type WatchlistChanged struct{}

func (WatchlistChanged) Topic() eventbus.Topic { return TopicWatchlistChanged }

type TrendingChanged struct{}

func (TrendingChanged) Topic() eventbus.Topic { return TopicTrendingChanged }

type PopularChanged struct{}

func (PopularChanged) Topic() eventbus.Topic { return TopicPopularChanged }

type InTheatresChanged struct{}

func (InTheatresChanged) Topic() eventbus.Topic { return TopicInTheatresChanged }

type UpcomingChanged struct{}

func (UpcomingChanged) Topic() eventbus.Topic { return TopicUpcomingChanged }

type RecommendedChanged struct{}

func (RecommendedChanged) Topic() eventbus.Topic { return TopicRecommendedChanged }

type SearchResultChanged struct{}

func (SearchResultChanged) Topic() eventbus.Topic { return TopicSearchResultChanged }

type ConfigurationChanged struct{}

func (ConfigurationChanged) Topic() eventbus.Topic { return TopicConfigurationChanged }

type WatchingMovieUpdated struct{}

func (WatchingMovieUpdated) Topic() eventbus.Topic { return TopicWatchingMovieUpdated }

// AccountChanged carries the new account, nil on logout.
type AccountChanged struct {
	Account *models.Account
}

func (AccountChanged) Topic() eventbus.Topic { return TopicAccountChanged }

type UserProfileChanged struct{}

func (UserProfileChanged) Topic() eventbus.Topic { return TopicUserProfileChanged }

// The movie events below are published by tasks for the calling id that triggered them.

type MovieInformationUpdated struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieInformationUpdated) Topic() eventbus.Topic { return TopicMovieInformationUpdated }

type MovieReleasesUpdated struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieReleasesUpdated) Topic() eventbus.Topic { return TopicMovieReleasesUpdated }

type MovieRelatedItemsUpdated struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieRelatedItemsUpdated) Topic() eventbus.Topic { return TopicMovieRelatedUpdated }

type MovieVideosUpdated struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieVideosUpdated) Topic() eventbus.Topic { return TopicMovieVideosUpdated }

type MovieImagesUpdated struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieImagesUpdated) Topic() eventbus.Topic { return TopicMovieImagesUpdated }

type MovieCastItemsUpdated struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieCastItemsUpdated) Topic() eventbus.Topic { return TopicMovieCastUpdated }

type MovieUserRatingChanged struct {
	CallingID int
	Movie     *models.Movie
}

func (MovieUserRatingChanged) Topic() eventbus.Topic { return TopicMovieUserRatingChanged }

type PersonChanged struct {
	CallingID int
	Person    *models.Person
}

func (PersonChanged) Topic() eventbus.Topic { return TopicPersonChanged }

// MovieFlagsUpdated reports that the seen, collection or watchlist flags of movies changed.
type MovieFlagsUpdated struct {
	CallingID int
	Movies    []*models.Movie
}

func (MovieFlagsUpdated) Topic() eventbus.Topic { return TopicMovieFlagsUpdated }

// LoadingProgress is published when a task starts (Show) and finishes (!Show).
type LoadingProgress struct {
	CallingID int
	Show      bool
	Secondary bool
}

func (LoadingProgress) Topic() eventbus.Topic { return TopicLoadingProgress }

// ErrorEvent carries a classified task failure to the UI that triggered the task.
type ErrorEvent struct {
	CallingID int
	Err       *remote.CallError
}

func (ErrorEvent) Topic() eventbus.Topic { return TopicError }
