package trakt

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DeviceCodeResponse represents the response from /oauth/device/code
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// TokenResponse represents the response from /oauth/device/token
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	CreatedAt    int64  `json:"created_at"`
}

// UserProfile represents basic Trakt user information
type UserProfile struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	VIP      bool   `json:"vip"`
	Private  bool   `json:"private"`
	IDs      struct {
		Slug string `json:"slug"`
	} `json:"ids"`
}

// IDs holds external identifiers for a movie
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
}

// ID returns the identifier the core keys Trakt movies by: the IMDB id when known, otherwise
// the slug.
func (ids IDs) ID() string {
	if ids.IMDB != "" {
		return ids.IMDB
	}
	return ids.Slug
}

// IDsFor builds the ids object used in sync bodies from a core Trakt id and an optional TMDB
// id. "tt" prefixed ids are IMDB ids, anything else is a slug.
func IDsFor(traktID string, tmdbID int) IDs {
	ids := IDs{TMDB: tmdbID}
	switch {
	case strings.HasPrefix(traktID, "tt"):
		ids.IMDB = traktID
	case traktID != "":
		if n, err := strconv.Atoi(traktID); err == nil {
			ids.Trakt = n
		} else {
			ids.Slug = traktID
		}
	}
	return ids
}

// Date accepts "2006-01-02" dates and empty strings.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	_ = json.Unmarshal(data, &raw)
	d.Time = time.Time{}
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		d.Time = t
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// Movie represents a Trakt movie. The extended fields are only present with ?extended=full.
type Movie struct {
	Title         string   `json:"title"`
	Year          int      `json:"year"`
	IDs           IDs      `json:"ids"`
	Tagline       string   `json:"tagline,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	Released      Date     `json:"released"`
	Runtime       int      `json:"runtime,omitempty"`
	Trailer       string   `json:"trailer,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Votes         int      `json:"votes,omitempty"`
	Certification string   `json:"certification,omitempty"`
	Genres        []string `json:"genres,omitempty"`
}

// TrendingItem is an entry of /movies/trending.
type TrendingItem struct {
	Watchers int   `json:"watchers"`
	Movie    Movie `json:"movie"`
}

// CollectionItem is an entry of /sync/collection/movies.
type CollectionItem struct {
	CollectedAt time.Time `json:"collected_at"`
	Movie       Movie     `json:"movie"`
}

// WatchedItem is an entry of /sync/watched/movies.
type WatchedItem struct {
	Plays         int       `json:"plays"`
	LastWatchedAt time.Time `json:"last_watched_at"`
	Movie         Movie     `json:"movie"`
}

// RatingItem is an entry of /sync/ratings/movies.
type RatingItem struct {
	RatedAt time.Time `json:"rated_at"`
	Rating  int       `json:"rating"`
	Movie   Movie     `json:"movie"`
}

// WatchlistItem represents an item from the Trakt watchlist
type WatchlistItem struct {
	Rank     int       `json:"rank"`
	ListedAt time.Time `json:"listed_at"`
	Type     string    `json:"type"`
	Movie    *Movie    `json:"movie,omitempty"`
}

// Watching is the response of /users/{username}/watching.
type Watching struct {
	ExpiresAt time.Time `json:"expires_at"`
	StartedAt time.Time `json:"started_at"`
	Action    string    `json:"action"` // "checkin" or "scrobble"
	Type      string    `json:"type"`
	Movie     *Movie    `json:"movie,omitempty"`
}

// Settings is the response of /users/settings.
type Settings struct {
	User struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"user"`
	Connections struct {
		Twitter  bool `json:"twitter"`
		Mastodon bool `json:"mastodon"`
		Tumblr   bool `json:"tumblr"`
	} `json:"connections"`
	SharingText struct {
		Watching string `json:"watching"`
		Watched  string `json:"watched"`
	} `json:"sharing_text"`
}

// SyncMovie is one movie in a sync request body.
type SyncMovie struct {
	IDs       IDs        `json:"ids"`
	Rating    int        `json:"rating,omitempty"`
	WatchedAt *time.Time `json:"watched_at,omitempty"`
}

// SyncRequest is the body of the /sync endpoints.
type SyncRequest struct {
	Movies []SyncMovie `json:"movies"`
}

// SyncCounts reports how many movies a sync call touched.
type SyncCounts struct {
	Movies int `json:"movies"`
}

// SyncResponse is the body returned by the /sync endpoints.
type SyncResponse struct {
	Added    SyncCounts `json:"added"`
	Deleted  SyncCounts `json:"deleted"`
	Existing SyncCounts `json:"existing"`
	NotFound struct {
		Movies []SyncMovie `json:"movies"`
	} `json:"not_found"`
}

// Sharing selects the networks a check-in is posted to.
type Sharing struct {
	Twitter  bool `json:"twitter"`
	Mastodon bool `json:"mastodon"`
	Tumblr   bool `json:"tumblr"`
}

// CheckinRequest is the body of POST /checkin.
type CheckinRequest struct {
	Movie   SyncMovie `json:"movie"`
	Sharing Sharing   `json:"sharing"`
	Message string    `json:"message,omitempty"`
}

// CheckinResponse is returned by a successful check-in.
type CheckinResponse struct {
	ID        int64     `json:"id"`
	WatchedAt time.Time `json:"watched_at"`
	Sharing   Sharing   `json:"sharing"`
	Movie     Movie     `json:"movie"`
}
