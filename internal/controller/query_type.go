package controller

import (
	"cinetrack/utils/filter"
)

// QueryType names what an attached Ui is showing.
type QueryType int

const (
	QueryNone QueryType = iota
	QueryTrending
	QueryPopular
	QueryLibrary
	QueryWatchlist
	QueryNowPlaying
	QueryUpcoming
	QueryRecommended
	QueryDiscover
	QuerySearch
	QuerySearchMovies
	QuerySearchPeople
	QueryMovieDetail
	QueryMovieRelated
	QueryMovieCast
	QueryMovieCrew
	QueryMovieImages
	QueryPersonDetail
	QueryPersonCreditsCast
	QueryPersonCreditsCrew
)

var queryTypeNames = map[QueryType]string{
	QueryNone:              "none",
	QueryTrending:          "trending",
	QueryPopular:           "popular",
	QueryLibrary:           "library",
	QueryWatchlist:         "watchlist",
	QueryNowPlaying:        "now-playing",
	QueryUpcoming:          "upcoming",
	QueryRecommended:       "recommended",
	QueryDiscover:          "discover",
	QuerySearch:            "search",
	QuerySearchMovies:      "search-movies",
	QuerySearchPeople:      "search-people",
	QueryMovieDetail:       "movie",
	QueryMovieRelated:      "movie-related",
	QueryMovieCast:         "movie-cast",
	QueryMovieCrew:         "movie-crew",
	QueryMovieImages:       "movie-images",
	QueryPersonDetail:      "person",
	QueryPersonCreditsCast: "person-cast",
	QueryPersonCreditsCrew: "person-crew",
}

func (q QueryType) String() string {
	if name, ok := queryTypeNames[q]; ok {
		return name
	}
	return "unknown"
}

// ParseQueryType is the inverse of String.
func ParseQueryType(name string) (QueryType, bool) {
	for q, n := range queryTypeNames {
		if n == name {
			return q, true
		}
	}
	return QueryNone, false
}

// RequiresLogin reports whether the query only makes sense for a logged-in Trakt user.
func (q QueryType) RequiresLogin() bool {
	switch q {
	case QueryWatchlist, QueryLibrary, QueryRecommended:
		return true
	}
	return false
}

// SupportsFiltering reports whether the active filter set applies to the query.
func (q QueryType) SupportsFiltering() bool {
	switch q {
	case QueryLibrary, QueryTrending:
		return true
	}
	return false
}

// ShowsUpNavigation reports whether the screen is reached by drilling down.
func (q QueryType) ShowsUpNavigation() bool {
	switch q {
	case QueryMovieDetail, QueryMovieRelated, QueryMovieCast, QueryMovieCrew, QueryMovieImages,
		QueryPersonDetail, QueryPersonCreditsCast, QueryPersonCreditsCrew,
		QuerySearchMovies, QuerySearchPeople:
		return true
	}
	return false
}

// movieScoped reports whether the request parameter names a movie.
func (q QueryType) movieScoped() bool {
	switch q {
	case QueryMovieDetail, QueryMovieRelated, QueryMovieCast, QueryMovieCrew, QueryMovieImages:
		return true
	}
	return false
}

// personScoped reports whether the request parameter names a person.
func (q QueryType) personScoped() bool {
	switch q {
	case QueryPersonDetail, QueryPersonCreditsCast, QueryPersonCreditsCrew:
		return true
	}
	return false
}

func (q QueryType) isSearch() bool {
	return q == QuerySearch || q == QuerySearchMovies || q == QuerySearchPeople
}

var (
	watchlistSections           = []filter.MovieFilter{filter.Upcoming, filter.Soon, filter.Released, filter.Seen}
	watchlistSectionsProcessing = []filter.MovieFilter{filter.Upcoming, filter.Soon, filter.Seen, filter.Released}
)

// Sections returns the display and processing order of the sections the query's list is split
// into, or nil for a flat list.
func (q QueryType) Sections() (display, processing []filter.MovieFilter) {
	if q == QueryWatchlist {
		return watchlistSections, watchlistSectionsProcessing
	}
	return nil, nil
}

// MovieOperation is a batch operation a movie list may offer.
type MovieOperation int

const (
	OperationMarkSeen MovieOperation = iota
	OperationAddToCollection
	OperationAddToWatchlist
)

func (o MovieOperation) String() string {
	switch o {
	case OperationMarkSeen:
		return "mark_seen"
	case OperationAddToCollection:
		return "add_to_collection"
	case OperationAddToWatchlist:
		return "add_to_watchlist"
	}
	return "unknown"
}

// DiscoverTab is one tab of the discover screen.
type DiscoverTab int

const (
	TabPopular DiscoverTab = iota
	TabInTheatres
	TabUpcoming
	TabRecommended
)

func (t DiscoverTab) String() string {
	switch t {
	case TabPopular:
		return "popular"
	case TabInTheatres:
		return "in_theatres"
	case TabUpcoming:
		return "upcoming"
	case TabRecommended:
		return "recommended"
	}
	return "unknown"
}
