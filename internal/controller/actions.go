package controller

import (
	"strconv"

	"cinetrack/internal/tasks"
	"cinetrack/models"
	"cinetrack/utils/filter"
)

// Actions are the interactions an attached Ui can request. They are bound to the calling id
// the Ui was attached under and, like the rest of the controller, must run on the looper.
type Actions struct {
	c  *Controller
	id int
	ui Ui
}

// CallingID is the id tasks started through these actions report back with.
func (a *Actions) CallingID() int {
	return a.id
}

func (a *Actions) AddFilter(f filter.MovieFilter) {
	if a.c.store.Filters().Add(f) {
		a.c.populateUi(a.ui)
	}
}

func (a *Actions) RemoveFilter(f filter.MovieFilter) {
	if a.c.store.Filters().Remove(f) {
		a.c.populateUi(a.ui)
	}
}

func (a *Actions) ClearFilters() {
	if a.c.store.Filters().Clear() {
		a.c.populateUi(a.ui)
	}
}

// Refresh refetches what the Ui shows, bypassing the caches.
func (a *Actions) Refresh() {
	c := a.c
	switch a.ui.QueryType() {
	case QueryTrending:
		c.fetchTrending(a.id)
	case QueryLibrary:
		c.fetchLibrary(a.id, true)
	case QueryWatchlist:
		c.fetchWatchlist(a.id, true)
	case QueryMovieDetail:
		c.fetchDetailMovie(a.id, a.ui.RequestParameter())
	case QueryPopular:
		c.refreshListing(a.id, tasks.ListingPopular)
	case QueryNowPlaying:
		c.refreshListing(a.id, tasks.ListingNowPlaying)
	case QueryUpcoming:
		c.refreshListing(a.id, tasks.ListingUpcoming)
	case QueryRecommended:
		c.fetchRecommended(a.id)
	}
}

// movieID is the request parameter that resolves back to movie.
func movieID(movie *models.Movie) string {
	if movie.TraktID != "" {
		return movie.TraktID
	}
	if movie.TmdbID != 0 {
		return strconv.Itoa(movie.TmdbID)
	}
	return ""
}

func (a *Actions) checkMovie(movie *models.Movie) bool {
	return a.c.ensure(movie != nil && movie.HasIdentity(), "movie without an id")
}

func (a *Actions) ShowMovieDetail(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowMovieDetail(movieID(movie))
	}
}

// ShowCreditMovieDetail opens the movie of a filmography entry.
func (a *Actions) ShowCreditMovieDetail(credit *models.PersonCredit) {
	if !a.c.ensure(credit != nil && credit.MovieTmdbID != 0, "credit without a movie id") {
		return
	}
	if a.c.display != nil {
		a.c.display.ShowMovieDetail(strconv.Itoa(credit.MovieTmdbID))
	}
}

func (a *Actions) ToggleSeen(movie *models.Movie) {
	if !a.checkMovie(movie) {
		return
	}
	action := tasks.MarkSeen
	if movie.Watched {
		action = tasks.MarkUnseen
	}
	a.c.changeFlags(a.id, action, []*models.Movie{movie})
}

func (a *Actions) ToggleInWatchlist(movie *models.Movie) {
	if !a.checkMovie(movie) {
		return
	}
	action := tasks.AddToWatchlist
	if movie.InWatchlist {
		action = tasks.RemoveFromWatchlist
	}
	a.c.changeFlags(a.id, action, []*models.Movie{movie})
}

func (a *Actions) ToggleInCollection(movie *models.Movie) {
	if !a.checkMovie(movie) {
		return
	}
	action := tasks.AddToCollection
	if movie.InCollection {
		action = tasks.RemoveFromCollection
	}
	a.c.changeFlags(a.id, action, []*models.Movie{movie})
}

// differing keeps the movies whose flag is not already want.
func differing(movies []*models.Movie, want bool, flag func(*models.Movie) bool) []*models.Movie {
	var result []*models.Movie
	for _, m := range movies {
		if m != nil && m.HasIdentity() && flag(m) != want {
			result = append(result, m)
		}
	}
	return result
}

// SetMoviesSeen marks movies seen or unseen in one batch. Movies already in that state are
// left out.
func (a *Actions) SetMoviesSeen(movies []*models.Movie, seen bool) {
	action := tasks.MarkUnseen
	if seen {
		action = tasks.MarkSeen
	}
	a.c.changeFlags(a.id, action, differing(movies, seen, func(m *models.Movie) bool { return m.Watched }))
}

func (a *Actions) SetMoviesInWatchlist(movies []*models.Movie, inWatchlist bool) {
	action := tasks.RemoveFromWatchlist
	if inWatchlist {
		action = tasks.AddToWatchlist
	}
	a.c.changeFlags(a.id, action, differing(movies, inWatchlist, func(m *models.Movie) bool { return m.InWatchlist }))
}

func (a *Actions) SetMoviesInCollection(movies []*models.Movie, inCollection bool) {
	action := tasks.RemoveFromCollection
	if inCollection {
		action = tasks.AddToCollection
	}
	a.c.changeFlags(a.id, action, differing(movies, inCollection, func(m *models.Movie) bool { return m.InCollection }))
}

// Search replaces the current search result with a search for query.
func (a *Actions) Search(query string) {
	if queryType := a.ui.QueryType(); queryType.isSearch() {
		a.c.search(a.id, queryType, query)
	}
}

func (a *Actions) ClearSearch() {
	a.c.store.SetSearchResult(nil)
}

func (a *Actions) ShowRateMovie(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowRateMovie(movieID(movie))
	}
}

// SubmitRating rates movie from 1 to 10; 0 removes the rating.
func (a *Actions) SubmitRating(movie *models.Movie, rating int) {
	if a.checkMovie(movie) {
		a.c.submitRating(a.id, movie, rating)
	}
}

// ScrolledToBottom fetches the next page of a paginated listing.
func (a *Actions) ScrolledToBottom() {
	c := a.c
	switch a.ui.QueryType() {
	case QueryPopular:
		c.fetchNextListingPage(a.id, tasks.ListingPopular)
	case QueryUpcoming:
		c.fetchNextListingPage(a.id, tasks.ListingUpcoming)
	case QueryNowPlaying:
		c.fetchNextListingPage(a.id, tasks.ListingNowPlaying)
	case QuerySearchMovies:
		if result := c.store.SearchResult(); result != nil && result.Movies.CanFetchNextPage() {
			c.dispatch(tasks.NewSearchMovies(c.deps, a.id, result.Query(), result.Movies.Page+1), false)
		}
	case QuerySearchPeople:
		if result := c.store.SearchResult(); result != nil && result.People.CanFetchNextPage() {
			c.dispatch(tasks.NewSearchPeople(c.deps, a.id, result.Query(), result.People.Page+1), false)
		}
	}
}

func (a *Actions) ShowRelatedMovies(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowRelatedMovies(movieID(movie))
	}
}

func (a *Actions) ShowCastList(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowCastList(movieID(movie))
	}
}

func (a *Actions) ShowCrewList(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowCrewList(movieID(movie))
	}
}

func (a *Actions) ShowMovieImages(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowMovieImages(movieID(movie))
	}
}

func (a *Actions) Checkin(movie *models.Movie, options models.CheckinOptions) {
	if a.checkMovie(movie) {
		a.c.checkin(a.id, movie, options)
	}
}

func (a *Actions) CancelCurrentCheckin() {
	a.c.cancelCheckin(a.id)
}

// RequestCheckin opens the check-in screen for movie.
func (a *Actions) RequestCheckin(movie *models.Movie) {
	if a.checkMovie(movie) && a.c.display != nil {
		a.c.display.ShowCheckin(movieID(movie))
	}
}

func (a *Actions) RequestCancelCurrentCheckin() {
	if a.c.display != nil {
		a.c.display.ShowCancelCheckin()
	}
}

func (a *Actions) checkPerson(person *models.Person) bool {
	return a.c.ensure(person != nil && person.TmdbID != 0, "person without an id")
}

func (a *Actions) ShowPersonDetail(person *models.Person) {
	if a.checkPerson(person) && a.c.display != nil {
		a.c.display.ShowPersonDetail(strconv.Itoa(person.TmdbID))
	}
}

func (a *Actions) ShowPersonCastCredits(person *models.Person) {
	if a.checkPerson(person) && a.c.display != nil {
		a.c.display.ShowPersonCastCredits(strconv.Itoa(person.TmdbID))
	}
}

func (a *Actions) ShowPersonCrewCredits(person *models.Person) {
	if a.checkPerson(person) && a.c.display != nil {
		a.c.display.ShowPersonCrewCredits(strconv.Itoa(person.TmdbID))
	}
}

func (a *Actions) ShowMovieSearchResults() {
	if a.c.display != nil {
		a.c.display.ShowSearchMovies()
	}
}

func (a *Actions) ShowPeopleSearchResults() {
	if a.c.display != nil {
		a.c.display.ShowSearchPeople()
	}
}

// PlayTrailer plays trailer when it is hosted somewhere the display can play. Only YouTube is.
func (a *Actions) PlayTrailer(trailer models.Video) {
	if !a.c.ensure(trailer.Key != "", "trailer without a key") {
		return
	}
	if a.c.display != nil && trailer.Site == models.VideoSiteYouTube {
		a.c.display.PlayYouTubeVideo(trailer.Key)
	}
}

// Title is the title the Ui should show for itself.
func (a *Actions) Title() string {
	return a.c.title(a.ui)
}

func (a *Actions) SetHeaderScrollValue(scrollPercentage float64) {
	if a.c.display != nil {
		a.c.display.SetStatusBarColor(scrollPercentage)
	}
}

// UpdateColorScheme records the scheme the Ui derived from the movie artwork and applies it.
func (a *Actions) UpdateColorScheme(scheme *models.ColorScheme) {
	a.c.recordColorScheme(a.ui, scheme)
	if a.c.display != nil {
		a.c.display.SetColorScheme(scheme)
	}
	a.c.updateDisplayTitle(a.ui)
	a.ui.SetColorScheme(scheme)
}
