package models

import (
	"strconv"
	"time"
)

// Source identifies which remote catalog a piece of data came from.
type Source int

const (
	SourceUnknown Source = iota
	SourceTMDB
	SourceTrakt
)

func (s Source) String() string {
	switch s {
	case SourceTMDB:
		return "tmdb"
	case SourceTrakt:
		return "trakt"
	default:
		return "unknown"
	}
}

// Movie is the canonical, shared representation of a film. A single instance exists per
// logical movie; tasks merge into it rather than replacing it.
type Movie struct {
	TmdbID  int    `json:"tmdbId,omitempty"`
	TraktID string `json:"traktId,omitempty"` // IMDB id when known, otherwise the Trakt slug

	Title         string    `json:"title"`
	Year          int       `json:"year,omitempty"`
	ReleasedAt    time.Time `json:"releasedAt,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	Tagline       string    `json:"tagline,omitempty"`
	Runtime       int       `json:"runtime,omitempty"`
	Certification string    `json:"certification,omitempty"`
	Genres        []string  `json:"genres,omitempty"`
	Adult         bool      `json:"adult,omitempty"`

	TmdbRatingPercent  int `json:"tmdbRatingPercent,omitempty"`
	TmdbVotes          int `json:"tmdbVotes,omitempty"`
	TraktRatingPercent int `json:"traktRatingPercent,omitempty"`
	TraktVotes         int `json:"traktVotes,omitempty"`

	// User scoped state, only ever written on the canonical instance.
	UserRating   int  `json:"userRating,omitempty"` // 0 = unrated, otherwise 1-10
	InCollection bool `json:"inCollection,omitempty"`
	InWatchlist  bool `json:"inWatchlist,omitempty"`
	Watched      bool `json:"watched,omitempty"`

	PosterPath     string `json:"posterPath,omitempty"`
	PosterSource   Source `json:"posterSource,omitempty"`
	BackdropPath   string `json:"backdropPath,omitempty"`
	BackdropSource Source `json:"backdropSource,omitempty"`

	// Lazily populated; nil means "not fetched yet".
	Cast           []*MovieCredit  `json:"-"`
	Crew           []*MovieCredit  `json:"-"`
	Related        []*Movie        `json:"-"`
	BackdropImages []BackdropImage `json:"-"`
	Trailers       []Video         `json:"-"`
	Releases       []Release       `json:"-"`

	ColorScheme *ColorScheme `json:"-"`

	fullFetchedTmdb  bool
	fullFetchedTrakt bool
}

// BackdropImage is one entry of a movie's image gallery.
type BackdropImage struct {
	Path   string  `json:"path"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Aspect float64 `json:"aspect"`
}

// VideoSite identifies where a trailer is hosted.
type VideoSite string

const VideoSiteYouTube VideoSite = "YouTube"

// Video is a trailer or teaser.
type Video struct {
	Key  string    `json:"key"`
	Name string    `json:"name"`
	Site VideoSite `json:"site"`
	Type string    `json:"type"`
}

// Release is a per-country theatrical release.
type Release struct {
	Country       string    `json:"country"`
	Certification string    `json:"certification,omitempty"`
	ReleasedAt    time.Time `json:"releasedAt"`
}

// ColorScheme is derived from the movie artwork by the UI and cached on the movie.
type ColorScheme struct {
	Primary       uint32 `json:"primary"`
	Secondary     uint32 `json:"secondary"`
	PrimaryText   uint32 `json:"primaryText"`
	SecondaryText uint32 `json:"secondaryText"`
}

// Key returns a stable identifier preferring the Trakt id.
func (m *Movie) Key() string {
	if m.TraktID != "" {
		return "trakt:" + m.TraktID
	}
	if m.TmdbID != 0 {
		return "tmdb:" + strconv.Itoa(m.TmdbID)
	}
	return ""
}

// HasIdentity reports whether at least one provider id is known.
func (m *Movie) HasIdentity() bool {
	return m.TmdbID != 0 || m.TraktID != ""
}

// MarkFullFetched records that a full detail fetch from source completed.
func (m *Movie) MarkFullFetched(source Source) {
	switch source {
	case SourceTMDB:
		m.fullFetchedTmdb = true
	case SourceTrakt:
		m.fullFetchedTrakt = true
	}
}

// NeedFullFetchFrom is true until a full detail fetch from that specific source completed.
func (m *Movie) NeedFullFetchFrom(source Source) bool {
	switch source {
	case SourceTMDB:
		return !m.fullFetchedTmdb
	case SourceTrakt:
		return !m.fullFetchedTrakt
	}
	return false
}

// IsLoadedFromTrakt reports whether Trakt detail (and so user state) is known for the movie.
func (m *Movie) IsLoadedFromTrakt() bool {
	return m.fullFetchedTrakt
}

// ReleaseFor returns the release for country, if known.
func (m *Movie) ReleaseFor(country string) (Release, bool) {
	for _, r := range m.Releases {
		if r.Country == country {
			return r, true
		}
	}
	return Release{}, false
}

// Merge copies the descriptive data present in src onto m. Non-empty scalar fields overwrite,
// lazily-populated lists overwrite only when src carries them, freshness markers are OR'd.
// User scoped state is left untouched.
func (m *Movie) Merge(src *Movie) {
	if src == nil || src == m {
		return
	}
	if src.TmdbID != 0 {
		m.TmdbID = src.TmdbID
	}
	if src.TraktID != "" {
		m.TraktID = src.TraktID
	}
	if src.Title != "" {
		m.Title = src.Title
	}
	if src.Year != 0 {
		m.Year = src.Year
	}
	if !src.ReleasedAt.IsZero() {
		m.ReleasedAt = src.ReleasedAt
	}
	if src.Overview != "" {
		m.Overview = src.Overview
	}
	if src.Tagline != "" {
		m.Tagline = src.Tagline
	}
	if src.Runtime != 0 {
		m.Runtime = src.Runtime
	}
	if src.Certification != "" {
		m.Certification = src.Certification
	}
	if src.Genres != nil {
		m.Genres = src.Genres
	}
	if src.Adult {
		m.Adult = true
	}
	if src.TmdbVotes != 0 || src.TmdbRatingPercent != 0 {
		m.TmdbRatingPercent = src.TmdbRatingPercent
		m.TmdbVotes = src.TmdbVotes
	}
	if src.TraktVotes != 0 || src.TraktRatingPercent != 0 {
		m.TraktRatingPercent = src.TraktRatingPercent
		m.TraktVotes = src.TraktVotes
	}
	if src.PosterPath != "" {
		m.PosterPath = src.PosterPath
		m.PosterSource = src.PosterSource
	}
	if src.BackdropPath != "" {
		m.BackdropPath = src.BackdropPath
		m.BackdropSource = src.BackdropSource
	}
	if src.Cast != nil {
		m.Cast = src.Cast
	}
	if src.Crew != nil {
		m.Crew = src.Crew
	}
	if src.Related != nil {
		m.Related = src.Related
	}
	if src.BackdropImages != nil {
		m.BackdropImages = src.BackdropImages
	}
	if src.Trailers != nil {
		m.Trailers = src.Trailers
	}
	if src.Releases != nil {
		m.Releases = src.Releases
	}
	if src.ColorScheme != nil && m.ColorScheme == nil {
		m.ColorScheme = src.ColorScheme
	}
	m.fullFetchedTmdb = m.fullFetchedTmdb || src.fullFetchedTmdb
	m.fullFetchedTrakt = m.fullFetchedTrakt || src.fullFetchedTrakt
}

// FillBlanks copies from other only the fields m does not know yet. User state is combined
// with AbsorbUserState.
func (m *Movie) FillBlanks(other *Movie) {
	if other == nil || other == m {
		return
	}
	merged := *other
	merged.Merge(m)
	merged.CopyUserState(m)
	merged.AbsorbUserState(other)
	*m = merged
}

// AbsorbUserState ORs the membership flags of other into m and keeps the first known rating.
// Used when two canonical instances turn out to be the same movie.
func (m *Movie) AbsorbUserState(other *Movie) {
	if other == nil {
		return
	}
	m.InCollection = m.InCollection || other.InCollection
	m.InWatchlist = m.InWatchlist || other.InWatchlist
	m.Watched = m.Watched || other.Watched
	if m.UserRating == 0 {
		m.UserRating = other.UserRating
	}
}

// CopyUserState overwrites m's user scoped state with other's.
func (m *Movie) CopyUserState(other *Movie) {
	m.InCollection = other.InCollection
	m.InWatchlist = other.InWatchlist
	m.Watched = other.Watched
	m.UserRating = other.UserRating
}
