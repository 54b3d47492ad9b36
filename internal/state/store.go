// Package state holds the process wide movie state. A Store must only be touched from the
// coordination goroutine; it takes no locks.
package state

import (
	"log"
	"slices"
	"strconv"
	"time"

	"cinetrack/internal/eventbus"
	"cinetrack/models"
	"cinetrack/utils/filter"
)

// Store owns the canonical movie and person instances and the collections that reference them.
// Every mutator publishes its change event after the in-memory update.
type Store struct {
	bus *eventbus.Bus
	now func() time.Time

	tmdbMovies  map[int]*models.Movie
	traktMovies map[string]*models.Movie
	people      map[int]*models.Person

	library     []*models.Movie
	watchlist   []*models.Movie
	trending    []*models.Movie
	recommended []*models.Movie
	popular     *models.MoviePage
	nowPlaying  *models.MoviePage
	upcoming    *models.MoviePage
	search      *models.SearchResult

	configuration *models.ImageConfiguration
	watching      *models.WatchingMovie
	account       *models.Account
	profile       *models.UserProfile
	filters       filter.Set
}

// New creates an empty store publishing on bus.
func New(bus *eventbus.Bus) *Store {
	return &Store{
		bus:         bus,
		now:         time.Now,
		tmdbMovies:  make(map[int]*models.Movie),
		traktMovies: make(map[string]*models.Movie),
		people:      make(map[int]*models.Person),
		filters:     filter.NewSet(),
	}
}

// SetClock replaces the clock used for derived dates such as a person's age.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) Now() time.Time {
	return s.now()
}

// Publish forwards an event to the bus. Tasks use it for the per-movie events.
func (s *Store) Publish(event eventbus.Event) {
	s.bus.Publish(event)
}

// MovieByTmdbID returns the canonical movie for a TMDB id.
func (s *Store) MovieByTmdbID(id int) *models.Movie {
	return s.tmdbMovies[id]
}

// MovieByTraktID returns the canonical movie for a Trakt id.
func (s *Store) MovieByTraktID(id string) *models.Movie {
	return s.traktMovies[id]
}

// FindMovie resolves a request parameter: a Trakt id first, then a numeric TMDB id.
func (s *Store) FindMovie(id string) *models.Movie {
	if id == "" {
		return nil
	}
	if m, ok := s.traktMovies[id]; ok {
		return m
	}
	if n, err := strconv.Atoi(id); err == nil {
		return s.tmdbMovies[n]
	}
	return nil
}

// MovieCount returns the number of distinct canonical movies.
func (s *Store) MovieCount() int {
	seen := make(map[*models.Movie]struct{}, len(s.tmdbMovies)+len(s.traktMovies))
	for _, m := range s.tmdbMovies {
		seen[m] = struct{}{}
	}
	for _, m := range s.traktMovies {
		seen[m] = struct{}{}
	}
	return len(seen)
}

// IndexSizes returns the sizes of the TMDB and Trakt id indexes.
func (s *Store) IndexSizes() (tmdb, trakt int) {
	return len(s.tmdbMovies), len(s.traktMovies)
}

// PutMovie upserts partial and returns the canonical instance. A movie is the same logical
// movie when it shares either id with a known one. Descriptive fields are merged into the
// existing instance; user state is left as it is.
//
// When the two ids resolve to two different instances, the one indexed by Trakt id survives:
// the other instance fills its blank fields and ORs its flags into it, the incoming payload is
// then merged on top, and every index and collection is repointed to the survivor.
func (s *Store) PutMovie(partial *models.Movie) *models.Movie {
	if partial == nil {
		return nil
	}
	if !partial.HasIdentity() {
		log.Printf("[state] ignoring movie %q without ids", partial.Title)
		return partial
	}

	var byTmdb, byTrakt *models.Movie
	if partial.TmdbID != 0 {
		byTmdb = s.tmdbMovies[partial.TmdbID]
	}
	if partial.TraktID != "" {
		byTrakt = s.traktMovies[partial.TraktID]
	}

	canonical := partial
	switch {
	case byTmdb != nil && byTrakt != nil && byTmdb != byTrakt:
		canonical = byTrakt
		s.collapse(canonical, byTmdb)
	case byTrakt != nil:
		canonical = byTrakt
	case byTmdb != nil:
		canonical = byTmdb
	}
	if canonical != partial {
		oldTmdb, oldTrakt := canonical.TmdbID, canonical.TraktID
		canonical.Merge(partial)
		s.unindex(canonical, oldTmdb, oldTrakt)
	}
	s.index(canonical)
	return canonical
}

// PutMovieWithUserState upserts partial and then overwrites the canonical user state with the
// one partial carries. Used when the payload is authoritative for the user's flags.
func (s *Store) PutMovieWithUserState(partial *models.Movie) *models.Movie {
	canonical := s.PutMovie(partial)
	if canonical != nil && canonical != partial {
		canonical.CopyUserState(partial)
	}
	return canonical
}

// PutMovies upserts every movie and returns the canonical instances without duplicates.
func (s *Store) PutMovies(movies []*models.Movie) []*models.Movie {
	result := make([]*models.Movie, 0, len(movies))
	for _, m := range movies {
		if c := s.PutMovie(m); c != nil && c.HasIdentity() {
			result = append(result, c)
		}
	}
	return dedupe(result)
}

func (s *Store) index(m *models.Movie) {
	if m.TmdbID != 0 {
		s.tmdbMovies[m.TmdbID] = m
	}
	if m.TraktID != "" {
		s.traktMovies[m.TraktID] = m
	}
}

// unindex drops the keys m was indexed under before a merge replaced its ids.
func (s *Store) unindex(m *models.Movie, oldTmdb int, oldTrakt string) {
	if oldTmdb != 0 && oldTmdb != m.TmdbID && s.tmdbMovies[oldTmdb] == m {
		delete(s.tmdbMovies, oldTmdb)
	}
	if oldTrakt != "" && oldTrakt != m.TraktID && s.traktMovies[oldTrakt] == m {
		delete(s.traktMovies, oldTrakt)
	}
}

func (s *Store) collapse(survivor, loser *models.Movie) {
	log.Printf("[state] MovieIdentityMerged: %s absorbs %s (%q)", survivor.Key(), loser.Key(), loser.Title)
	survivor.FillBlanks(loser)

	for id, m := range s.tmdbMovies {
		if m == loser {
			s.tmdbMovies[id] = survivor
		}
	}
	for id, m := range s.traktMovies {
		if m == loser {
			s.traktMovies[id] = survivor
		}
	}

	s.library = replaceMovie(s.library, loser, survivor)
	s.watchlist = replaceMovie(s.watchlist, loser, survivor)
	s.trending = replaceMovie(s.trending, loser, survivor)
	s.recommended = replaceMovie(s.recommended, loser, survivor)
	for _, page := range []*models.MoviePage{s.popular, s.nowPlaying, s.upcoming} {
		if page != nil {
			page.Items = replaceMovie(page.Items, loser, survivor)
		}
	}
	if s.search != nil && s.search.Movies != nil {
		s.search.Movies.Items = replaceMovie(s.search.Movies.Items, loser, survivor)
	}
	if s.watching != nil && s.watching.Movie == loser {
		s.watching.Movie = survivor
	}
	for _, m := range s.tmdbMovies {
		m.Related = replaceMovie(m.Related, loser, survivor)
	}
	for _, m := range s.traktMovies {
		m.Related = replaceMovie(m.Related, loser, survivor)
	}
}

func replaceMovie(list []*models.Movie, old, replacement *models.Movie) []*models.Movie {
	if list == nil || !slices.Contains(list, old) {
		return list
	}
	for i, m := range list {
		if m == old {
			list[i] = replacement
		}
	}
	return dedupe(list)
}

func dedupe(list []*models.Movie) []*models.Movie {
	if list == nil {
		return nil
	}
	seen := make(map[*models.Movie]struct{}, len(list))
	result := list[:0]
	for _, m := range list {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		result = append(result, m)
	}
	return result
}

// canonicalize makes sure every movie in a collection is the indexed instance.
func (s *Store) canonicalize(movies []*models.Movie) []*models.Movie {
	if movies == nil {
		return nil
	}
	return s.PutMovies(movies)
}

// Person returns the person with TMDB id, if known.
func (s *Store) Person(id int) *models.Person {
	return s.people[id]
}

// PutPerson upserts a person by TMDB id and returns the canonical instance.
func (s *Store) PutPerson(p *models.Person) *models.Person {
	if p == nil || p.TmdbID == 0 {
		return p
	}
	if existing, ok := s.people[p.TmdbID]; ok {
		existing.Merge(p, s.now())
		return existing
	}
	s.people[p.TmdbID] = p
	return p
}

func (s *Store) Library() []*models.Movie { return s.library }

// SetLibrary replaces the library sorted by title. nil means not loaded.
func (s *Store) SetLibrary(movies []*models.Movie) {
	s.library = sortedByTitle(s.canonicalize(movies))
	s.bus.Publish(LibraryChanged{})
}

func (s *Store) Watchlist() []*models.Movie { return s.watchlist }

// SetWatchlist replaces the watchlist sorted by title. nil means not loaded.
func (s *Store) SetWatchlist(movies []*models.Movie) {
	s.watchlist = sortedByTitle(s.canonicalize(movies))
	s.bus.Publish(WatchlistChanged{})
}

func (s *Store) Trending() []*models.Movie { return s.trending }

func (s *Store) SetTrending(movies []*models.Movie) {
	s.trending = s.canonicalize(movies)
	s.bus.Publish(TrendingChanged{})
}

func (s *Store) Recommended() []*models.Movie { return s.recommended }

func (s *Store) SetRecommended(movies []*models.Movie) {
	s.recommended = s.canonicalize(movies)
	s.bus.Publish(RecommendedChanged{})
}

func (s *Store) Popular() *models.MoviePage { return s.popular }

// SetPopular replaces the popular listing; nil resets it.
func (s *Store) SetPopular(page *models.MoviePage) {
	s.popular = page
	s.bus.Publish(PopularChanged{})
}

// AppendPopular records one page of the popular listing.
func (s *Store) AppendPopular(page, totalPages int, movies []*models.Movie) {
	if s.appendPage(&s.popular, page, totalPages, movies) {
		s.bus.Publish(PopularChanged{})
	}
}

func (s *Store) NowPlaying() *models.MoviePage { return s.nowPlaying }

func (s *Store) SetNowPlaying(page *models.MoviePage) {
	s.nowPlaying = page
	s.bus.Publish(InTheatresChanged{})
}

func (s *Store) AppendNowPlaying(page, totalPages int, movies []*models.Movie) {
	if s.appendPage(&s.nowPlaying, page, totalPages, movies) {
		s.bus.Publish(InTheatresChanged{})
	}
}

func (s *Store) Upcoming() *models.MoviePage { return s.upcoming }

func (s *Store) SetUpcoming(page *models.MoviePage) {
	s.upcoming = page
	s.bus.Publish(UpcomingChanged{})
}

func (s *Store) AppendUpcoming(page, totalPages int, movies []*models.Movie) {
	if s.appendPage(&s.upcoming, page, totalPages, movies) {
		s.bus.Publish(UpcomingChanged{})
	}
}

func (s *Store) appendPage(target **models.MoviePage, page, totalPages int, movies []*models.Movie) bool {
	current := *target
	if current == nil {
		current = &models.MoviePage{}
	}
	if !current.AppendPage(page, totalPages, s.PutMovies(movies)) {
		log.Printf("[state] dropping out of order page %d (current %d)", page, current.Page)
		return false
	}
	current.Items = dedupe(current.Items)
	*target = current
	return true
}

func (s *Store) SearchResult() *models.SearchResult { return s.search }

// SetSearchResult starts a new search, or clears it when result is nil.
func (s *Store) SetSearchResult(result *models.SearchResult) {
	s.search = result
	s.bus.Publish(SearchResultChanged{})
}

// AppendSearchMovies records a page of movie results for query. Results for a query that is no
// longer current are dropped.
func (s *Store) AppendSearchMovies(query string, page, totalPages int, movies []*models.Movie) bool {
	if s.search == nil || s.search.Query() != query {
		log.Printf("[state] dropping movie results for stale query %q", query)
		return false
	}
	if !s.appendPage(&s.search.Movies, page, totalPages, movies) {
		return false
	}
	s.bus.Publish(SearchResultChanged{})
	return true
}

// AppendSearchPeople records a page of people results for query.
func (s *Store) AppendSearchPeople(query string, page, totalPages int, people []*models.Person) bool {
	if s.search == nil || s.search.Query() != query {
		log.Printf("[state] dropping people results for stale query %q", query)
		return false
	}
	canonical := make([]*models.Person, 0, len(people))
	for _, p := range people {
		canonical = append(canonical, s.PutPerson(p))
	}
	current := s.search.People
	if current == nil {
		current = &models.PersonPage{}
	}
	if !current.AppendPage(page, totalPages, canonical) {
		log.Printf("[state] dropping out of order people page %d (current %d)", page, current.Page)
		return false
	}
	s.search.People = current
	s.bus.Publish(SearchResultChanged{})
	return true
}

func (s *Store) Configuration() *models.ImageConfiguration { return s.configuration }

func (s *Store) SetConfiguration(cfg *models.ImageConfiguration) {
	s.configuration = cfg
	s.bus.Publish(ConfigurationChanged{})
}

func (s *Store) WatchingMovie() *models.WatchingMovie { return s.watching }

func (s *Store) SetWatchingMovie(w *models.WatchingMovie) {
	if w != nil && w.Movie != nil {
		w.Movie = s.PutMovie(w.Movie)
	}
	s.watching = w
	s.bus.Publish(WatchingMovieUpdated{})
}

func (s *Store) Account() *models.Account { return s.account }

// IsLoggedIn reports whether a Trakt account is present.
func (s *Store) IsLoggedIn() bool {
	return s.account != nil && s.account.AccessToken != ""
}

// Username returns the logged-in username, or "".
func (s *Store) Username() string {
	if s.account == nil {
		return ""
	}
	return s.account.Username
}

// AccessToken returns the logged-in access token, or "".
func (s *Store) AccessToken() string {
	if s.account == nil {
		return ""
	}
	return s.account.AccessToken
}

// SetAccount replaces the account and publishes AccountChanged. Subscribers decide what to
// clear.
func (s *Store) SetAccount(account *models.Account) {
	s.account = account
	s.bus.Publish(AccountChanged{Account: account})
}

func (s *Store) UserProfile() *models.UserProfile { return s.profile }

func (s *Store) SetUserProfile(profile *models.UserProfile) {
	s.profile = profile
	s.bus.Publish(UserProfileChanged{})
}

// Filters returns the active filter set for in-place edits.
func (s *Store) Filters() *filter.Set { return &s.filters }

// ReconcileMembership keeps the loaded library and watchlist consistent with movie's flags.
// Lists that have not been loaded are left alone.
func (s *Store) ReconcileMembership(movie *models.Movie) {
	if movie == nil {
		return
	}
	if s.library != nil {
		want := movie.Watched || movie.InCollection
		if updated, changed := setMembership(s.library, movie, want); changed {
			s.library = updated
			s.bus.Publish(LibraryChanged{})
		}
	}
	if s.watchlist != nil {
		if updated, changed := setMembership(s.watchlist, movie, movie.InWatchlist); changed {
			s.watchlist = updated
			s.bus.Publish(WatchlistChanged{})
		}
	}
}

func setMembership(list []*models.Movie, movie *models.Movie, want bool) ([]*models.Movie, bool) {
	idx := slices.Index(list, movie)
	switch {
	case want && idx < 0:
		return sortedByTitle(append(list, movie)), true
	case !want && idx >= 0:
		return slices.Delete(list, idx, idx+1), true
	}
	return list, false
}

func sortedByTitle(movies []*models.Movie) []*models.Movie {
	if movies != nil {
		slices.SortStableFunc(movies, models.CompareTitle)
	}
	return movies
}

// ClearUserData forgets everything tied to the previous account. The TMDB configuration and
// the filter set are kept.
func (s *Store) ClearUserData() {
	s.library = nil
	s.watchlist = nil
	s.recommended = nil
	s.trending = nil
	s.popular = nil
	s.nowPlaying = nil
	s.upcoming = nil
	s.search = nil
	s.watching = nil
	s.profile = nil
	clear(s.tmdbMovies)
	clear(s.traktMovies)
	clear(s.people)
	log.Printf("[state] user data cleared")

	s.bus.Publish(LibraryChanged{})
	s.bus.Publish(WatchlistChanged{})
	s.bus.Publish(RecommendedChanged{})
	s.bus.Publish(TrendingChanged{})
	s.bus.Publish(PopularChanged{})
	s.bus.Publish(InTheatresChanged{})
	s.bus.Publish(UpcomingChanged{})
	s.bus.Publish(SearchResultChanged{})
	s.bus.Publish(WatchingMovieUpdated{})
	s.bus.Publish(UserProfileChanged{})
}

// Snapshot is a read-only summary used by the debug endpoints.
type Snapshot struct {
	LoggedIn       bool     `json:"loggedIn"`
	Username       string   `json:"username,omitempty"`
	Movies         int      `json:"movies"`
	TmdbIndex      int      `json:"tmdbIndex"`
	TraktIndex     int      `json:"traktIndex"`
	People         int      `json:"people"`
	Library        int      `json:"library"`
	Watchlist      int      `json:"watchlist"`
	Trending       int      `json:"trending"`
	Recommended    int      `json:"recommended"`
	PopularPage    int      `json:"popularPage"`
	NowPlayingPage int      `json:"nowPlayingPage"`
	UpcomingPage   int      `json:"upcomingPage"`
	SearchQuery    string   `json:"searchQuery,omitempty"`
	HasConfig      bool     `json:"hasConfiguration"`
	Watching       string   `json:"watching,omitempty"`
	Filters        []string `json:"filters,omitempty"`
}

// Snapshot summarizes the store.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		LoggedIn:    s.IsLoggedIn(),
		Username:    s.Username(),
		Movies:      s.MovieCount(),
		TmdbIndex:   len(s.tmdbMovies),
		TraktIndex:  len(s.traktMovies),
		People:      len(s.people),
		Library:     len(s.library),
		Watchlist:   len(s.watchlist),
		Trending:    len(s.trending),
		Recommended: len(s.recommended),
		HasConfig:   s.configuration != nil,
	}
	if s.popular != nil {
		snap.PopularPage = s.popular.Page
	}
	if s.nowPlaying != nil {
		snap.NowPlayingPage = s.nowPlaying.Page
	}
	if s.upcoming != nil {
		snap.UpcomingPage = s.upcoming.Page
	}
	if s.search != nil {
		snap.SearchQuery = s.search.Query()
	}
	if s.watching != nil && s.watching.Movie != nil {
		snap.Watching = s.watching.Movie.Title
	}
	for _, f := range s.filters.Filters() {
		snap.Filters = append(snap.Filters, f.String())
	}
	return snap
}
