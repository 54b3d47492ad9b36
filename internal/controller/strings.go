package controller

import (
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"cinetrack/utils/filter"
)

const (
	keyDiscoverTitle    = "discover_title"
	keyPopularTitle     = "popular_title"
	keyTrendingTitle    = "trending_title"
	keyLibraryTitle     = "library_title"
	keyWatchlistTitle   = "watchlist_title"
	keyUpcomingTitle    = "upcoming_title"
	keyRecommendedTitle = "recommended_title"
	keyInTheatresTitle  = "in_theatres_title"
	keySearchTitle      = "search_title"
	keyRelatedMovies    = "related_movies"
	keyCastMovies       = "cast_movies"
	keyCrewMovies       = "crew_movies"
	keyImagesMovies     = "images_movies"
	keyCategoryPeople   = "category_people"
	keyCategoryMovies   = "category_movies"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyDiscoverTitle:    "Discover",
		keyPopularTitle:     "Popular",
		keyTrendingTitle:    "Trending",
		keyLibraryTitle:     "Library",
		keyWatchlistTitle:   "Watchlist",
		keyUpcomingTitle:    "Upcoming",
		keyRecommendedTitle: "Recommended",
		keyInTheatresTitle:  "In Theatres",
		keySearchTitle:      "Search",
		keyRelatedMovies:    "Related",
		keyCastMovies:       "Cast",
		keyCrewMovies:       "Crew",
		keyImagesMovies:     "Images",
		keyCategoryPeople:   "People",
		keyCategoryMovies:   "Movies",

		"filter_collection":   "In collection",
		"filter_seen":         "Seen",
		"filter_unseen":       "Unseen",
		"filter_not_released": "Not released",
		"filter_released":     "Released",
		"filter_upcoming":     "Upcoming",
		"filter_soon":         "Soon",
		"filter_highly_rated": "Highly rated",
	},
	language.German: {
		keyDiscoverTitle:    "Entdecken",
		keyPopularTitle:     "Beliebt",
		keyTrendingTitle:    "Im Trend",
		keyLibraryTitle:     "Bibliothek",
		keyWatchlistTitle:   "Merkliste",
		keyUpcomingTitle:    "Demnächst",
		keyRecommendedTitle: "Empfohlen",
		keyInTheatresTitle:  "Im Kino",
		keySearchTitle:      "Suche",
		keyRelatedMovies:    "Ähnlich",
		keyCastMovies:       "Besetzung",
		keyCrewMovies:       "Crew",
		keyImagesMovies:     "Bilder",
		keyCategoryPeople:   "Personen",
		keyCategoryMovies:   "Filme",

		"filter_collection":   "In der Sammlung",
		"filter_seen":         "Gesehen",
		"filter_unseen":       "Nicht gesehen",
		"filter_not_released": "Nicht erschienen",
		"filter_released":     "Erschienen",
		"filter_upcoming":     "Demnächst",
		"filter_soon":         "Bald",
		"filter_highly_rated": "Gut bewertet",
	},
}

var stringCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				log.Printf("[controller] failed to register string %s/%s: %v", tag, key, err)
			}
		}
	}
	return b
}

// Strings resolves UI strings for one language. Unknown languages fall back to English.
type Strings struct {
	printer *message.Printer
}

var (
	supportedLanguages = []language.Tag{language.English, language.German}
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

// NewStrings creates a resolver for the supported language closest to tag.
func NewStrings(tag language.Tag) *Strings {
	_, idx, _ := languageMatcher.Match(tag)
	return &Strings{printer: message.NewPrinter(supportedLanguages[idx], message.Catalog(stringCatalog))}
}

// Get returns the string for key.
func (s *Strings) Get(key string) string {
	return s.printer.Sprintf(key)
}

// FilterTitle returns the section header and menu label of f.
func (s *Strings) FilterTitle(f filter.MovieFilter) string {
	return s.Get(f.TitleKey())
}
