package controller

import (
	"log"
	"strconv"

	"cinetrack/internal/executor"
	"cinetrack/internal/tasks"
	"cinetrack/models"
)

// dispatch runs t. Forced dispatches always run; the others are dropped while a task for the
// same data is in flight.
func (c *Controller) dispatch(t executor.Task, force bool) {
	if force {
		c.exec.Execute(t)
		return
	}
	c.exec.ExecuteUnique(t)
}

// onUiAttached dispatches what ui needs and updates the chrome.
func (c *Controller) onUiAttached(a attachment) {
	queryType := a.ui.QueryType()
	if queryType.RequiresLogin() && !c.store.IsLoggedIn() {
		return
	}
	c.fetchForUi(a)

	var subtitle string
	switch queryType {
	case QueryMovieRelated:
		subtitle = c.strings.Get(keyRelatedMovies)
	case QueryMovieCast, QueryPersonCreditsCast:
		subtitle = c.strings.Get(keyCastMovies)
	case QueryMovieCrew, QueryPersonCreditsCrew:
		subtitle = c.strings.Get(keyCrewMovies)
	case QueryMovieImages:
		subtitle = c.strings.Get(keyImagesMovies)
	case QuerySearchPeople:
		subtitle = c.strings.Get(keyCategoryPeople)
	case QuerySearchMovies:
		subtitle = c.strings.Get(keyCategoryMovies)
	}

	if c.display != nil {
		if !a.ui.IsModal() {
			c.display.ShowUpNavigation(queryType.ShowsUpNavigation())
			c.display.SetColorScheme(c.colorScheme(a.ui))
		}
		c.display.SetSubtitle(subtitle)
	}
}

// fetchForUi applies the fetch-if-needed policy for what ui shows.
func (c *Controller) fetchForUi(a attachment) {
	queryType := a.ui.QueryType()
	if queryType.RequiresLogin() && !c.store.IsLoggedIn() {
		return
	}
	param := a.ui.RequestParameter()

	switch queryType {
	case QueryTrending:
		c.fetchTrendingIfNeeded(a.id)
	case QueryPopular:
		c.fetchListingIfNeeded(a.id, tasks.ListingPopular)
	case QueryNowPlaying:
		c.fetchListingIfNeeded(a.id, tasks.ListingNowPlaying)
	case QueryUpcoming:
		c.fetchListingIfNeeded(a.id, tasks.ListingUpcoming)
	case QueryLibrary:
		c.fetchLibraryIfNeeded(a.id)
	case QueryWatchlist:
		c.fetchWatchlistIfNeeded(a.id)
	case QueryRecommended:
		c.fetchRecommendedIfNeeded(a.id)
	case QueryMovieDetail:
		c.fetchDetailMovieIfNeededByID(a.id, param)
	case QueryMovieRelated:
		c.fetchRelatedIfNeeded(a.id, param)
	case QueryMovieCast:
		if movie := c.store.FindMovie(param); movie != nil && len(movie.Cast) == 0 {
			c.fetchMovieCredits(a.id, movie)
		}
	case QueryMovieCrew:
		if movie := c.store.FindMovie(param); movie != nil && len(movie.Crew) == 0 {
			c.fetchMovieCredits(a.id, movie)
		}
	case QueryMovieImages:
		c.fetchMovieImagesIfNeeded(a.id, param)
	case QueryPersonDetail:
		c.fetchPersonIfNeeded(a.id, param)
	case QueryPersonCreditsCast, QueryPersonCreditsCrew:
		c.fetchPersonCreditsIfNeeded(a.id, param)
	}
}

func (c *Controller) fetchTrendingIfNeeded(callingID int) {
	// An empty trending list is a loaded list; only nil means it was never fetched.
	if c.store.Trending() == nil {
		c.dispatch(tasks.NewFetchTrending(c.deps, callingID, false), false)
	}
}

func (c *Controller) fetchTrending(callingID int) {
	c.dispatch(tasks.NewFetchTrending(c.deps, callingID, true), true)
}

func (c *Controller) listing(listing tasks.Listing) *models.MoviePage {
	switch listing {
	case tasks.ListingNowPlaying:
		return c.store.NowPlaying()
	case tasks.ListingUpcoming:
		return c.store.Upcoming()
	default:
		return c.store.Popular()
	}
}

func (c *Controller) fetchListingIfNeeded(callingID int, listing tasks.Listing) {
	if c.listing(listing).IsEmpty() {
		c.dispatch(tasks.NewFetchListingPage(c.deps, callingID, listing, models.FirstPage), false)
	}
}

// refreshListing drops what is cached for listing and starts over at the first page.
func (c *Controller) refreshListing(callingID int, listing tasks.Listing) {
	switch listing {
	case tasks.ListingNowPlaying:
		c.store.SetNowPlaying(nil)
	case tasks.ListingUpcoming:
		c.store.SetUpcoming(nil)
	default:
		c.store.SetPopular(nil)
	}
	c.dispatch(tasks.NewFetchListingPage(c.deps, callingID, listing, models.FirstPage), true)
}

// fetchNextListingPage continues listing when a further page exists.
func (c *Controller) fetchNextListingPage(callingID int, listing tasks.Listing) {
	page := c.listing(listing)
	if page.CanFetchNextPage() {
		c.dispatch(tasks.NewFetchListingPage(c.deps, callingID, listing, page.Page+1), false)
	}
}

func (c *Controller) fetchLibrary(callingID int, force bool) {
	if c.store.IsLoggedIn() {
		c.dispatch(tasks.NewFetchLibrary(c.deps, callingID), force)
	}
}

// fetchLibraryIfNeeded waits for the local preload so an empty remote answer cannot race the
// stored list.
func (c *Controller) fetchLibraryIfNeeded(callingID int) {
	if c.populatedLibraryFromDB && len(c.store.Library()) == 0 {
		c.fetchLibrary(callingID, false)
	}
}

func (c *Controller) fetchWatchlist(callingID int, force bool) {
	if c.store.IsLoggedIn() {
		c.dispatch(tasks.NewFetchWatchlist(c.deps, callingID), force)
	}
}

func (c *Controller) fetchWatchlistIfNeeded(callingID int) {
	if c.populatedWatchlistFromDB && len(c.store.Watchlist()) == 0 {
		c.fetchWatchlist(callingID, false)
	}
}

func (c *Controller) fetchRecommended(callingID int) {
	if !c.ensure(c.store.IsLoggedIn(), "recommendations need a trakt account") {
		return
	}
	c.dispatch(tasks.NewFetchRecommendations(c.deps, callingID), true)
}

func (c *Controller) fetchRecommendedIfNeeded(callingID int) {
	if c.store.Recommended() == nil && c.store.IsLoggedIn() {
		c.dispatch(tasks.NewFetchRecommendations(c.deps, callingID), false)
	}
}

func (c *Controller) fetchWatchingMovie() {
	if c.store.IsLoggedIn() {
		c.dispatch(tasks.NewFetchWatching(c.deps, 0), false)
	}
}

func (c *Controller) fetchUserProfile() {
	if c.store.IsLoggedIn() {
		c.dispatch(tasks.NewFetchUserProfile(c.deps, 0), false)
	}
}

// fetchDetailMovieIfNeededByID resolves id and fetches whatever detail is still missing. An
// unknown id is fetched from scratch.
func (c *Controller) fetchDetailMovieIfNeededByID(callingID int, id string) {
	if !c.ensure(id != "", "movie detail without an id") {
		return
	}
	movie := c.store.FindMovie(id)
	if movie == nil {
		c.fetchDetailMovie(callingID, id)
		return
	}
	c.fetchDetailMovieIfNeeded(callingID, movie, false)
	c.fetchDetailExtrasIfNeeded(callingID, movie)
}

// fetchDetailMovie refetches the detail of id from both providers.
func (c *Controller) fetchDetailMovie(callingID int, id string) {
	if movie := c.store.FindMovie(id); movie != nil {
		c.fetchDetailMovieIfNeeded(callingID, movie, true)
		return
	}
	// Unknown movie: numeric ids are TMDB ids, everything else is a Trakt id or slug.
	if tmdbID, err := strconv.Atoi(id); err == nil {
		c.dispatch(tasks.NewFetchTmdbMovie(c.deps, callingID, tmdbID), true)
		return
	}
	c.dispatch(tasks.NewFetchTraktMovie(c.deps, callingID, id), true)
}

// fetchDetailMovieIfNeeded fetches the detail from each provider whose freshness marker is
// still unset. The two providers are independent: one fetch never satisfies the other.
func (c *Controller) fetchDetailMovieIfNeeded(callingID int, movie *models.Movie, force bool) {
	if !c.ensure(movie != nil, "detail fetch for a nil movie") {
		return
	}
	// Trakt only resolves its own ids, so a movie known by TMDB id alone waits for the TMDB
	// detail to reveal the IMDB id.
	if c.store.IsLoggedIn() && movie.TraktID != "" && (force || movie.NeedFullFetchFrom(models.SourceTrakt)) {
		c.dispatch(tasks.NewFetchTraktMovie(c.deps, callingID, movie.TraktID), force)
	}
	if movie.TmdbID != 0 && (force || movie.NeedFullFetchFrom(models.SourceTMDB)) {
		c.dispatch(tasks.NewFetchTmdbMovie(c.deps, callingID, movie.TmdbID), force)
	}
}

// fetchDetailExtrasIfNeeded fetches the secondary data a detail screen shows.
func (c *Controller) fetchDetailExtrasIfNeeded(callingID int, movie *models.Movie) {
	if movie.Related == nil {
		c.fetchRelatedMovies(callingID, movie)
	}
	if movie.TmdbID == 0 {
		return
	}
	if movie.Cast == nil {
		c.fetchMovieCredits(callingID, movie)
	}
	if movie.Trailers == nil {
		c.dispatch(tasks.NewFetchTmdbTrailers(c.deps, callingID, movie.TmdbID), false)
	}
	if movie.Releases == nil {
		c.dispatch(tasks.NewFetchTmdbReleases(c.deps, callingID, movie.TmdbID), false)
	}
}

// checkDetailMovieResult follows up a detail result: the other provider is fetched if it is
// still needed, and a detail screen gets its secondary data.
func (c *Controller) checkDetailMovieResult(callingID int, movie *models.Movie) {
	if !c.ensure(movie != nil, "detail result without a movie") {
		return
	}
	c.fetchDetailMovieIfNeeded(callingID, movie, false)
	if ui := c.findUi(callingID); ui != nil && ui.QueryType() == QueryMovieDetail {
		c.fetchDetailExtrasIfNeeded(callingID, movie)
	}
}

func (c *Controller) fetchRelatedIfNeeded(callingID int, id string) {
	if movie := c.store.FindMovie(id); movie != nil && len(movie.Related) == 0 {
		c.fetchRelatedMovies(callingID, movie)
	}
}

func (c *Controller) fetchRelatedMovies(callingID int, movie *models.Movie) {
	switch {
	case movie.TmdbID != 0:
		c.dispatch(tasks.NewFetchTmdbRelated(c.deps, callingID, movie.TmdbID), false)
	case movie.TraktID != "":
		c.dispatch(tasks.NewFetchTraktRelated(c.deps, callingID, movie.TraktID), false)
	}
}

func (c *Controller) fetchMovieCredits(callingID int, movie *models.Movie) {
	if movie.TmdbID != 0 {
		c.dispatch(tasks.NewFetchTmdbCredits(c.deps, callingID, movie.TmdbID), false)
	}
}

func (c *Controller) fetchMovieImagesIfNeeded(callingID int, id string) {
	movie := c.store.FindMovie(id)
	if movie != nil && len(movie.BackdropImages) == 0 && movie.TmdbID != 0 {
		c.dispatch(tasks.NewFetchTmdbImages(c.deps, callingID, movie.TmdbID), false)
	}
}

func (c *Controller) personID(id string) (int, bool) {
	personID, err := strconv.Atoi(id)
	if !c.ensure(err == nil && personID > 0, "invalid person id %q", id) {
		return 0, false
	}
	return personID, true
}

func (c *Controller) fetchPersonIfNeeded(callingID int, id string) {
	personID, ok := c.personID(id)
	if !ok {
		return
	}
	person := c.store.Person(personID)
	if person == nil || !person.FetchedCredits {
		c.dispatch(tasks.NewFetchPerson(c.deps, callingID, personID), false)
		c.dispatch(tasks.NewFetchPersonCredits(c.deps, callingID, personID), false)
	}
}

func (c *Controller) fetchPersonCreditsIfNeeded(callingID int, id string) {
	personID, ok := c.personID(id)
	if !ok {
		return
	}
	if person := c.store.Person(personID); person != nil && !person.FetchedCredits {
		c.dispatch(tasks.NewFetchPersonCredits(c.deps, callingID, personID), false)
	}
}

// search starts a new search for query in the categories queryType shows.
func (c *Controller) search(callingID int, queryType QueryType, query string) {
	c.store.SetSearchResult(models.NewSearchResult(query))
	if queryType == QuerySearch || queryType == QuerySearchMovies {
		c.dispatch(tasks.NewSearchMovies(c.deps, callingID, query, models.FirstPage), true)
	}
	if queryType == QuerySearch || queryType == QuerySearchPeople {
		c.dispatch(tasks.NewSearchPeople(c.deps, callingID, query, models.FirstPage), true)
	}
}

// changeFlags sends one batch change for movies. Marking seen also takes the movies off the
// watchlist when the user asked for that.
func (c *Controller) changeFlags(callingID int, action tasks.FlagAction, movies []*models.Movie) {
	if len(movies) == 0 {
		return
	}
	if !c.ensure(c.store.IsLoggedIn(), "%s needs a trakt account", action) {
		return
	}
	c.dispatch(tasks.NewChangeFlags(c.deps, callingID, action, movies), true)

	if action == tasks.MarkSeen && c.opts.RemoveFromWatchlistOnWatched {
		var listed []*models.Movie
		for _, m := range movies {
			if m.InWatchlist {
				listed = append(listed, m)
			}
		}
		if len(listed) > 0 {
			c.dispatch(tasks.NewChangeFlags(c.deps, callingID, tasks.RemoveFromWatchlist, listed), true)
		}
	}
}

func (c *Controller) submitRating(callingID int, movie *models.Movie, rating int) {
	if !c.ensure(rating >= 0 && rating <= 10, "rating %d out of range", rating) {
		return
	}
	if c.opts.Debug {
		log.Printf("[controller] rating %s: %d", movie.Key(), rating)
	}
	c.dispatch(tasks.NewSubmitRating(c.deps, callingID, movie, rating), true)
}

func (c *Controller) checkin(callingID int, movie *models.Movie, options models.CheckinOptions) {
	c.dispatch(tasks.NewCheckin(c.deps, callingID, movie, options), true)
}

func (c *Controller) cancelCheckin(callingID int) {
	if c.store.WatchingMovie() != nil {
		c.dispatch(tasks.NewCancelCheckin(c.deps, callingID), true)
	}
}
