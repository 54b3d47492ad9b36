package controller

import (
	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/utils/filter"
)

// Ui is an attached screen. Implementations are compared by identity, so they must be
// comparable; pointers are the usual choice.
type Ui interface {
	QueryType() QueryType
	// RequestParameter is the movie or person id the screen is about, if any.
	RequestParameter() string
	// IsModal screens leave the display chrome alone.
	IsModal() bool
	// View returns what the screen can display. It must return the same kind of view for the
	// lifetime of the attachment.
	View() View

	ShowError(err *remote.CallError)
	ShowLoadingProgress(visible bool)
	ShowSecondaryLoadingProgress(visible bool)
	SetColorScheme(scheme *models.ColorScheme)
}

// View is the closed set of screen kinds. Each variant carries a sink with exactly the setters
// that kind of screen supports.
type View interface {
	view()
}

// MovieListSink receives a list of movies, possibly split into sections.
type MovieListSink interface {
	// SetItems pushes the list; nil means the list has not been loaded yet.
	SetItems(items []filter.ListItem)
	SetFiltersVisible(visible bool)
	ShowActiveFilters(active []filter.MovieFilter)
	AllowBatchOperations(operations ...MovieOperation)
	DisableBatchOperations()
}

type MovieCreditListSink interface {
	SetItems(credits []*models.MovieCredit)
}

type PersonCreditListSink interface {
	SetItems(credits []*models.PersonCredit)
}

type PersonListSink interface {
	SetItems(people []*models.Person)
}

// DetailButtons says which Trakt actions a detail screen may offer.
type DetailButtons struct {
	Watched       bool
	Collection    bool
	Watchlist     bool
	Checkin       bool
	CancelCheckin bool
}

type MovieDetailSink interface {
	SetMovie(movie *models.Movie)
	SetButtonsEnabled(buttons DetailButtons)
	SetRateCircleEnabled(enabled bool)
}

type MovieRateSink interface {
	SetMovie(movie *models.Movie)
	SetMarkWatchedVisible(visible bool)
}

type DiscoverSink interface {
	SetTabs(tabs ...DiscoverTab)
}

type CheckinSink interface {
	SetMovie(movie *models.Movie)
	SetShareText(text string)
	ShowTwitterShare(show bool)
	ShowMastodonShare(show bool)
	ShowTumblrShare(show bool)
}

type CancelCheckinSink interface {
	SetMovie(movie *models.Movie)
}

type PersonSink interface {
	SetPerson(person *models.Person)
}

type MainSearchSink interface {
	SetSearchResult(result *models.SearchResult)
}

type MovieImagesSink interface {
	SetItems(images []models.BackdropImage)
}

type (
	MovieListView        struct{ Sink MovieListSink }
	MovieCreditListView  struct{ Sink MovieCreditListSink }
	PersonCreditListView struct{ Sink PersonCreditListSink }
	PersonListView       struct{ Sink PersonListSink }
	MovieDetailView      struct{ Sink MovieDetailSink }
	MovieRateView        struct{ Sink MovieRateSink }
	DiscoverView         struct{ Sink DiscoverSink }
	CheckinView          struct{ Sink CheckinSink }
	CancelCheckinView    struct{ Sink CancelCheckinSink }
	PersonView           struct{ Sink PersonSink }
	MainSearchView       struct{ Sink MainSearchSink }
	MovieImagesView      struct{ Sink MovieImagesSink }
)

func (MovieListView) view()        {}
func (MovieCreditListView) view()  {}
func (PersonCreditListView) view() {}
func (PersonListView) view()       {}
func (MovieDetailView) view()      {}
func (MovieRateView) view()        {}
func (DiscoverView) view()         {}
func (CheckinView) view()          {}
func (CancelCheckinView) view()    {}
func (PersonView) view()           {}
func (MainSearchView) view()       {}
func (MovieImagesView) view()      {}

// viewName is used in debug output.
func viewName(v View) string {
	switch v.(type) {
	case MovieListView:
		return "movie_list"
	case MovieCreditListView:
		return "movie_credits"
	case PersonCreditListView:
		return "person_credits"
	case PersonListView:
		return "person_list"
	case MovieDetailView:
		return "movie_detail"
	case MovieRateView:
		return "movie_rate"
	case DiscoverView:
		return "discover"
	case CheckinView:
		return "checkin"
	case CancelCheckinView:
		return "cancel_checkin"
	case PersonView:
		return "person"
	case MainSearchView:
		return "search"
	case MovieImagesView:
		return "movie_images"
	}
	return "unknown"
}
