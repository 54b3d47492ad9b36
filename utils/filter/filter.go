package filter

import (
	"log"
	"slices"
	"time"

	"cinetrack/models"
)

const (
	// DefaultSoonThreshold is how far ahead a release still counts as "soon".
	DefaultSoonThreshold = 30 * 24 * time.Hour

	// DefaultHighlyRatedPercent is the minimum rating for HighlyRated.
	DefaultHighlyRatedPercent = 70
)

// MovieFilter is a predicate over a movie. Active filters exclude the movies they match;
// section filters claim the movies they match.
type MovieFilter int

const (
	Collection MovieFilter = iota
	Seen
	Unseen
	NotReleased
	Released
	Upcoming
	Soon
	HighlyRated
)

// All lists every filter in declaration order.
var All = []MovieFilter{Collection, Seen, Unseen, NotReleased, Released, Upcoming, Soon, HighlyRated}

func (f MovieFilter) String() string {
	switch f {
	case Collection:
		return "collection"
	case Seen:
		return "seen"
	case Unseen:
		return "unseen"
	case NotReleased:
		return "not_released"
	case Released:
		return "released"
	case Upcoming:
		return "upcoming"
	case Soon:
		return "soon"
	case HighlyRated:
		return "highly_rated"
	default:
		return "unknown"
	}
}

// TitleKey is the string catalog key used for the filter's section header and menu entry.
func (f MovieFilter) TitleKey() string {
	return "filter_" + f.String()
}

// MutuallyExclusive returns the filters that selecting f deselects.
func (f MovieFilter) MutuallyExclusive() []MovieFilter {
	switch f {
	case Seen:
		return []MovieFilter{Unseen}
	case Unseen:
		return []MovieFilter{Seen}
	}
	return nil
}

// Rules holds the thresholds the time and rating based filters are evaluated with.
type Rules struct {
	Now                func() time.Time
	SoonThreshold      time.Duration
	HighlyRatedPercent int
}

// DefaultRules evaluates against the wall clock with the default thresholds.
func DefaultRules() Rules {
	return Rules{
		Now:                time.Now,
		SoonThreshold:      DefaultSoonThreshold,
		HighlyRatedPercent: DefaultHighlyRatedPercent,
	}
}

func (r Rules) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r Rules) soonThreshold() time.Duration {
	if r.SoonThreshold <= 0 {
		return DefaultSoonThreshold
	}
	return r.SoonThreshold
}

func (r Rules) highlyRatedPercent() int {
	if r.HighlyRatedPercent <= 0 {
		return DefaultHighlyRatedPercent
	}
	return r.HighlyRatedPercent
}

// Matches evaluates f against movie. A movie without a release time is neither released nor
// unreleased.
func (r Rules) Matches(f MovieFilter, movie *models.Movie) bool {
	if movie == nil {
		return false
	}
	now := r.now()
	released := movie.ReleasedAt
	known := !released.IsZero()
	switch f {
	case Collection:
		return movie.InCollection
	case Seen:
		return movie.Watched
	case Unseen:
		return !movie.Watched
	case NotReleased:
		return known && released.After(now)
	case Released:
		return known && released.Before(now)
	case Upcoming:
		return known && released.After(now.Add(r.soonThreshold()))
	case Soon:
		return known && released.After(now) && !released.After(now.Add(r.soonThreshold()))
	case HighlyRated:
		return max(movie.TraktRatingPercent, movie.UserRating*10) >= r.highlyRatedPercent()
	}
	return false
}

// Apply drops adult movies and every movie matched by one of the active filters. The input
// order is kept.
func (r Rules) Apply(movies []*models.Movie, active Set) []*models.Movie {
	result := make([]*models.Movie, 0, len(movies))
	for _, movie := range movies {
		if movie == nil || movie.Adult {
			continue
		}
		excluded := false
		for _, f := range active.Filters() {
			if r.Matches(f, movie) {
				excluded = true
				break
			}
		}
		if !excluded {
			result = append(result, movie)
		}
	}
	return result
}

// ListItem is either a section header (Movie == nil) or a movie within Section.
type ListItem struct {
	Section MovieFilter
	Movie   *models.Movie
}

// IsHeader reports whether the item is a section header.
func (i ListItem) IsHeader() bool {
	return i.Movie == nil
}

// Sectioned partitions movies into sections. Each movie is claimed by the first filter in
// processing order that matches it; each section is sorted by release date and the sections are
// emitted in display order, each preceded by its header. Movies no section claims are dropped.
// A nil processing order means display order.
func (r Rules) Sectioned(movies []*models.Movie, display, processing []MovieFilter) []ListItem {
	if processing == nil {
		processing = display
	}
	if len(processing) != len(display) {
		log.Printf("[filter] section display/processing order mismatch (%d vs %d)", len(display), len(processing))
	}

	remaining := slices.Clone(movies)
	sections := make(map[MovieFilter][]*models.Movie, len(processing))
	for _, f := range processing {
		kept := remaining[:0]
		for _, movie := range remaining {
			if movie != nil && r.Matches(f, movie) {
				sections[f] = append(sections[f], movie)
			} else {
				kept = append(kept, movie)
			}
		}
		remaining = kept
	}

	result := make([]ListItem, 0, len(movies)+len(display))
	for _, f := range display {
		items := sections[f]
		if len(items) == 0 {
			continue
		}
		slices.SortStableFunc(items, models.CompareReleaseDate)
		result = append(result, ListItem{Section: f})
		for _, movie := range items {
			result = append(result, ListItem{Section: f, Movie: movie})
		}
	}
	return result
}

// Set is the set of active filters.
type Set struct {
	active map[MovieFilter]struct{}
}

// NewSet returns a set containing filters.
func NewSet(filters ...MovieFilter) Set {
	s := Set{active: map[MovieFilter]struct{}{}}
	for _, f := range filters {
		s.Add(f)
	}
	return s
}

// Add activates f and deactivates the filters it is mutually exclusive with. It reports
// whether the set changed.
func (s *Set) Add(f MovieFilter) bool {
	if s.active == nil {
		s.active = map[MovieFilter]struct{}{}
	}
	if _, ok := s.active[f]; ok {
		return false
	}
	s.active[f] = struct{}{}
	for _, other := range f.MutuallyExclusive() {
		delete(s.active, other)
	}
	return true
}

// Remove deactivates f and reports whether it was active.
func (s *Set) Remove(f MovieFilter) bool {
	if _, ok := s.active[f]; !ok {
		return false
	}
	delete(s.active, f)
	return true
}

// Clear deactivates every filter and reports whether anything was active.
func (s *Set) Clear() bool {
	if len(s.active) == 0 {
		return false
	}
	clear(s.active)
	return true
}

func (s Set) Contains(f MovieFilter) bool {
	_, ok := s.active[f]
	return ok
}

func (s Set) Len() int {
	return len(s.active)
}

// Filters returns the active filters in declaration order.
func (s Set) Filters() []MovieFilter {
	if len(s.active) == 0 {
		return nil
	}
	result := make([]MovieFilter, 0, len(s.active))
	for _, f := range All {
		if _, ok := s.active[f]; ok {
			result = append(result, f)
		}
	}
	return result
}
