package controller

import (
	"log"
	"slices"
	"strconv"

	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/utils/filter"
)

// populateUi pushes the current state to ui.
func (c *Controller) populateUi(ui Ui) {
	queryType := ui.QueryType()
	if queryType.RequiresLogin() && !c.store.IsLoggedIn() {
		ui.ShowError(remote.ErrTraktUnauthorized)
		return
	}
	if c.store.Configuration() == nil {
		log.Printf("[controller] tmdb configuration not loaded yet, holding back %s", queryType)
		return
	}
	if c.opts.Debug {
		log.Printf("[controller] populate %s (%s)", queryType, viewName(ui.View()))
	}

	ui.SetColorScheme(c.colorScheme(ui))

	switch v := ui.View().(type) {
	case MovieListView:
		if queryType.isSearch() {
			c.setDisplayTitle(ui, c.searchTitle())
		}
		c.populateMovieList(ui, v.Sink)
	case PersonListView:
		if queryType.isSearch() {
			c.setDisplayTitle(ui, c.searchTitle())
		}
		c.populatePersonList(ui, v.Sink)
	case MovieCreditListView:
		c.populateMovieCreditList(ui, v.Sink)
	case PersonCreditListView:
		c.populatePersonCreditList(ui, v.Sink)
	case MovieDetailView:
		c.populateDetail(ui, v.Sink)
	case MovieRateView:
		if movie := c.store.FindMovie(ui.RequestParameter()); movie != nil {
			v.Sink.SetMovie(movie)
			v.Sink.SetMarkWatchedVisible(!movie.Watched)
		}
	case DiscoverView:
		if c.store.IsLoggedIn() {
			v.Sink.SetTabs(TabPopular, TabInTheatres, TabUpcoming, TabRecommended)
		} else {
			v.Sink.SetTabs(TabPopular, TabInTheatres, TabUpcoming)
		}
	case CheckinView:
		c.populateCheckin(ui, v.Sink)
	case CancelCheckinView:
		if watching := c.store.WatchingMovie(); watching != nil && watching.Movie != nil {
			v.Sink.SetMovie(watching.Movie)
		}
	case PersonView:
		if person := c.person(ui.RequestParameter()); person != nil {
			v.Sink.SetPerson(person)
		}
	case MainSearchView:
		v.Sink.SetSearchResult(c.store.SearchResult())
	case MovieImagesView:
		if movie := c.store.FindMovie(ui.RequestParameter()); movie != nil && len(movie.BackdropImages) > 0 {
			v.Sink.SetItems(slices.Clone(movie.BackdropImages))
		}
	default:
		c.ensure(false, "unknown view %T for %s", v, queryType)
	}
}

// listMovies returns the movies behind a list query, nil when they are not loaded yet.
func (c *Controller) listMovies(ui Ui) []*models.Movie {
	pageItems := func(page *models.MoviePage) []*models.Movie {
		if page == nil {
			return nil
		}
		return page.Items
	}
	switch ui.QueryType() {
	case QueryTrending:
		return c.store.Trending()
	case QueryPopular:
		return pageItems(c.store.Popular())
	case QueryNowPlaying:
		return pageItems(c.store.NowPlaying())
	case QueryUpcoming:
		return pageItems(c.store.Upcoming())
	case QueryLibrary:
		return c.store.Library()
	case QueryWatchlist:
		return c.store.Watchlist()
	case QueryRecommended:
		return c.store.Recommended()
	case QuerySearch, QuerySearchMovies:
		if result := c.store.SearchResult(); result != nil {
			return pageItems(result.Movies)
		}
	case QueryMovieRelated:
		if movie := c.store.FindMovie(ui.RequestParameter()); movie != nil {
			return movie.Related
		}
	}
	return nil
}

func (c *Controller) populateMovieList(ui Ui, sink MovieListSink) {
	queryType := ui.QueryType()

	var active filter.Set
	if c.store.IsLoggedIn() {
		if queryType.SupportsFiltering() {
			sink.SetFiltersVisible(true)
			active = *c.store.Filters()
			sink.ShowActiveFilters(active.Filters())
		}
	} else {
		sink.SetFiltersVisible(false)
	}

	movies := c.listMovies(ui)
	if movies == nil {
		sink.SetItems(nil)
		return
	}
	// Adult movies are dropped even when no filter is active.
	movies = c.opts.Rules.Apply(movies, active)

	display, processing := queryType.Sections()
	if display != nil {
		sink.SetItems(c.opts.Rules.Sectioned(movies, display, processing))
		return
	}

	sink.SetItems(plainItems(movies))
	if c.store.IsLoggedIn() {
		sink.AllowBatchOperations(OperationMarkSeen, OperationAddToCollection, OperationAddToWatchlist)
	} else {
		sink.DisableBatchOperations()
	}
}

func plainItems(movies []*models.Movie) []filter.ListItem {
	items := make([]filter.ListItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, filter.ListItem{Movie: m})
	}
	return items
}

func (c *Controller) populatePersonList(ui Ui, sink PersonListSink) {
	if !ui.QueryType().isSearch() {
		return
	}
	if result := c.store.SearchResult(); result != nil && result.People != nil {
		sink.SetItems(slices.Clone(result.People.Items))
	}
}

func (c *Controller) populateMovieCreditList(ui Ui, sink MovieCreditListSink) {
	movie := c.store.FindMovie(ui.RequestParameter())
	if movie == nil {
		return
	}
	c.setDisplayTitle(ui, movie.Title)

	credits := movie.Cast
	if ui.QueryType() == QueryMovieCrew {
		credits = movie.Crew
	}
	if len(credits) > 0 {
		sink.SetItems(slices.Clone(credits))
	}
}

func (c *Controller) populatePersonCreditList(ui Ui, sink PersonCreditListSink) {
	person := c.person(ui.RequestParameter())
	if person == nil {
		return
	}
	c.setDisplayTitle(ui, person.Name)

	credits := person.CastCredits
	if ui.QueryType() == QueryPersonCreditsCrew {
		credits = person.CrewCredits
	}
	if len(credits) > 0 {
		sink.SetItems(slices.Clone(credits))
	}
}

func (c *Controller) populateDetail(ui Ui, sink MovieDetailSink) {
	movie := c.store.FindMovie(ui.RequestParameter())
	if movie == nil {
		return
	}
	canUpdate := c.store.IsLoggedIn() && movie.IsLoadedFromTrakt()
	watching := c.store.WatchingMovie()
	canCheckin := watching == nil
	canCancelCheckin := watching != nil && watching.Type == models.WatchingCheckin && sameMovie(watching.Movie, movie)

	sink.SetRateCircleEnabled(canUpdate)
	sink.SetButtonsEnabled(DetailButtons{
		Watched:       canUpdate,
		Collection:    canUpdate,
		Watchlist:     canUpdate,
		Checkin:       canUpdate && canCheckin,
		CancelCheckin: canUpdate && canCancelCheckin,
	})
	sink.SetMovie(movie)
}

func (c *Controller) populateCheckin(ui Ui, sink CheckinSink) {
	movie := c.store.FindMovie(ui.RequestParameter())
	if movie == nil {
		return
	}
	profile := c.store.UserProfile()
	sink.SetMovie(movie)
	sink.ShowTwitterShare(profile != nil && profile.TwitterConnected)
	sink.ShowMastodonShare(profile != nil && profile.MastodonConnected)
	sink.ShowTumblrShare(profile != nil && profile.TumblrConnected)
	if text := profile.ShareText(movie.Title); text != "" {
		sink.SetShareText(text)
	}
}

func sameMovie(a, b *models.Movie) bool {
	if a == nil || b == nil {
		return false
	}
	return a == b || (a.Key() != "" && a.Key() == b.Key())
}

// person resolves a person id parameter without treating garbage as a broken precondition.
func (c *Controller) person(id string) *models.Person {
	personID, err := strconv.Atoi(id)
	if err != nil {
		return nil
	}
	return c.store.Person(personID)
}

func (c *Controller) searchTitle() string {
	if result := c.store.SearchResult(); result != nil {
		return result.Query()
	}
	return c.strings.Get(keySearchTitle)
}

// title is the display title of ui, or "" when it has none of its own.
func (c *Controller) title(ui Ui) string {
	queryType := ui.QueryType()
	switch queryType {
	case QueryDiscover:
		return c.strings.Get(keyDiscoverTitle)
	case QueryPopular:
		return c.strings.Get(keyPopularTitle)
	case QueryTrending:
		return c.strings.Get(keyTrendingTitle)
	case QueryLibrary:
		return c.strings.Get(keyLibraryTitle)
	case QueryWatchlist:
		return c.strings.Get(keyWatchlistTitle)
	case QueryUpcoming:
		return c.strings.Get(keyUpcomingTitle)
	case QueryRecommended:
		return c.strings.Get(keyRecommendedTitle)
	case QueryNowPlaying:
		return c.strings.Get(keyInTheatresTitle)
	case QuerySearch, QuerySearchMovies, QuerySearchPeople:
		return c.searchTitle()
	}
	// The detail screen shows the title in its header instead.
	if queryType.personScoped() {
		if person := c.person(ui.RequestParameter()); person != nil {
			return person.Name
		}
	} else if queryType.movieScoped() && queryType != QueryMovieDetail {
		if movie := c.store.FindMovie(ui.RequestParameter()); movie != nil {
			return movie.Title
		}
	}
	return ""
}

func (c *Controller) updateDisplayTitle(ui Ui) {
	c.setDisplayTitle(ui, c.title(ui))
}

func (c *Controller) setDisplayTitle(ui Ui, title string) {
	if c.display != nil && !ui.IsModal() {
		c.display.SetTitle(title)
	}
}

// colorScheme returns the scheme recorded on the movie a movie screen is about.
func (c *Controller) colorScheme(ui Ui) *models.ColorScheme {
	if !ui.QueryType().movieScoped() {
		return nil
	}
	if movie := c.store.FindMovie(ui.RequestParameter()); movie != nil {
		return movie.ColorScheme
	}
	return nil
}

func (c *Controller) recordColorScheme(ui Ui, scheme *models.ColorScheme) {
	if !ui.QueryType().movieScoped() {
		return
	}
	if movie := c.store.FindMovie(ui.RequestParameter()); movie != nil {
		movie.ColorScheme = scheme
	}
}

func (c *Controller) populateUis() {
	for _, a := range slices.Clone(c.uis) {
		c.populateUi(a.ui)
	}
}

// populateQueries populates every UI showing one of queryTypes.
func (c *Controller) populateQueries(queryTypes ...QueryType) {
	for _, a := range slices.Clone(c.uis) {
		if slices.Contains(queryTypes, a.ui.QueryType()) {
			c.populateUi(a.ui)
		}
	}
}

// populateViews populates every UI whose view matches.
func (c *Controller) populateViews(match func(View) bool) {
	for _, a := range slices.Clone(c.uis) {
		if match(a.ui.View()) {
			c.populateUi(a.ui)
		}
	}
}

func isCheckinView(v View) bool {
	_, ok := v.(CheckinView)
	return ok
}

func isCancelCheckinView(v View) bool {
	_, ok := v.(CancelCheckinView)
	return ok
}

// populateForMovie populates the UI that asked for movie and every other screen about the same
// movie.
func (c *Controller) populateForMovie(callingID int, movie *models.Movie) {
	for _, a := range slices.Clone(c.uis) {
		if a.id == callingID {
			c.populateUi(a.ui)
			continue
		}
		if movie != nil && a.ui.QueryType().movieScoped() && sameMovie(c.store.FindMovie(a.ui.RequestParameter()), movie) {
			c.populateUi(a.ui)
		}
	}
}

// populateForPerson is populateForMovie for person screens.
func (c *Controller) populateForPerson(callingID int, person *models.Person) {
	for _, a := range slices.Clone(c.uis) {
		if a.id == callingID {
			c.populateUi(a.ui)
			continue
		}
		if person != nil && a.ui.QueryType().personScoped() && a.ui.RequestParameter() == strconv.Itoa(person.TmdbID) {
			c.populateUi(a.ui)
		}
	}
}
