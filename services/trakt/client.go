package trakt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/utils/cache"
)

const (
	traktAPIBaseURL = "https://api.trakt.tv"
	traktAPIVersion = "2"

	trendingLimit = 100
	cacheTTL      = 5 * time.Minute
)

// ErrAlreadyCheckedIn is returned when a check-in is already in progress.
var ErrAlreadyCheckedIn = errors.New("trakt: already checked in")

// Client handles Trakt API interactions for OAuth, data fetching and sync
type Client struct {
	http         *remote.HTTPClient
	baseURL      string
	clientID     string
	clientSecret string

	trending *cache.Expiring[[]TrendingItem]
	settings *cache.Expiring[*Settings]
}

// NewClient creates a new Trakt API client
func NewClient(clientID, clientSecret string, opts ...remote.Option) *Client {
	return &Client{
		http:         remote.NewHTTPClient(models.SourceTrakt, opts...),
		baseURL:      traktAPIBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		trending:     cache.NewExpiring[[]TrendingItem](cacheTTL, 2*cacheTTL),
		settings:     cache.NewExpiring[*Settings](cacheTTL, 2*cacheTTL),
	}
}

// WithBaseURL points the client at another API host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// traktHeaders builds the required Trakt API headers for a request
func (c *Client) traktHeaders(accessToken string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("trakt-api-version", traktAPIVersion)
	h.Set("trakt-api-key", c.clientID)
	if accessToken != "" {
		h.Set("Authorization", "Bearer "+accessToken)
	}
	return h
}

func (c *Client) call(ctx context.Context, method, path, accessToken string, body, out any) (*remote.Response, error) {
	resp, err := c.http.Do(ctx, remote.Request{
		Method: method,
		URL:    c.baseURL + path,
		Header: c.traktHeaders(accessToken),
		Body:   body,
	}, out)
	if err != nil {
		return nil, fmt.Errorf("trakt %s %s: %w", method, path, err)
	}
	return resp, nil
}

// GetDeviceCode initiates the device code OAuth flow
func (c *Client) GetDeviceCode(ctx context.Context) (*DeviceCodeResponse, error) {
	payload := map[string]string{
		"client_id": c.clientID,
	}
	var deviceCode DeviceCodeResponse
	if _, err := c.call(ctx, http.MethodPost, "/oauth/device/code", "", payload, &deviceCode); err != nil {
		return nil, fmt.Errorf("trakt device code failed: %w", err)
	}
	return &deviceCode, nil
}

// PollForToken polls for the OAuth token after user has authorized
// Returns nil, nil if still pending authorization
func (c *Client) PollForToken(ctx context.Context, deviceCode string) (*TokenResponse, error) {
	payload := map[string]string{
		"code":          deviceCode,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}
	var token TokenResponse
	_, err := c.call(ctx, http.MethodPost, "/oauth/device/token", "", payload, &token)
	if err == nil {
		return &token, nil
	}

	var callErr *remote.CallError
	if !errors.As(err, &callErr) {
		return nil, err
	}
	switch callErr.StatusCode {
	case http.StatusBadRequest:
		// 400 means still waiting for user to authorize - this is expected during polling
		return nil, nil
	case http.StatusGone:
		return nil, fmt.Errorf("device code expired")
	case http.StatusConflict:
		return nil, fmt.Errorf("device code already used")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("polling too fast, slow down")
	default:
		return nil, fmt.Errorf("trakt token poll failed: %w", err)
	}
}

// RefreshAccessToken refreshes an expired access token
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	payload := map[string]string{
		"refresh_token": refreshToken,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"redirect_uri":  "urn:ietf:wg:oauth:2.0:oob",
		"grant_type":    "refresh_token",
	}
	var token TokenResponse
	if _, err := c.call(ctx, http.MethodPost, "/oauth/token", "", payload, &token); err != nil {
		return nil, fmt.Errorf("trakt token refresh failed: %w", err)
	}
	return &token, nil
}

// GetUserProfile retrieves information about the authenticated user
func (c *Client) GetUserProfile(ctx context.Context, accessToken string) (*UserProfile, error) {
	var profile UserProfile
	if _, err := c.call(ctx, http.MethodGet, "/users/me", accessToken, nil, &profile); err != nil {
		return nil, fmt.Errorf("trakt user profile failed: %w", err)
	}
	return &profile, nil
}

// GetSettings retrieves the sharing connections and default share texts of the user
func (c *Client) GetSettings(ctx context.Context, accessToken string) (*Settings, error) {
	if cached, ok := c.settings.Get(accessToken); ok {
		return cached, nil
	}
	var settings Settings
	if _, err := c.call(ctx, http.MethodGet, "/users/settings", accessToken, nil, &settings); err != nil {
		return nil, err
	}
	c.settings.Set(accessToken, &settings)
	return &settings, nil
}

// GetTrendingMovies retrieves the movies being watched right now
func (c *Client) GetTrendingMovies(ctx context.Context) ([]TrendingItem, error) {
	if cached, ok := c.trending.Get("movies"); ok {
		return cached, nil
	}
	path := fmt.Sprintf("/movies/trending?extended=full&limit=%d", trendingLimit)
	var items []TrendingItem
	if _, err := c.call(ctx, http.MethodGet, path, "", nil, &items); err != nil {
		return nil, err
	}
	c.trending.Set("movies", items)
	return items, nil
}

// GetMovie retrieves the full detail of a movie by Trakt id, slug or IMDB id
func (c *Client) GetMovie(ctx context.Context, accessToken, id string) (*Movie, error) {
	var movie Movie
	if _, err := c.call(ctx, http.MethodGet, "/movies/"+url.PathEscape(id)+"?extended=full", accessToken, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetRelatedMovies retrieves movies related to id
func (c *Client) GetRelatedMovies(ctx context.Context, accessToken, id string) ([]Movie, error) {
	var movies []Movie
	if _, err := c.call(ctx, http.MethodGet, "/movies/"+url.PathEscape(id)+"/related?extended=full", accessToken, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetRecommendedMovies retrieves personalized recommendations
func (c *Client) GetRecommendedMovies(ctx context.Context, accessToken string) ([]Movie, error) {
	var movies []Movie
	if _, err := c.call(ctx, http.MethodGet, "/recommendations/movies?extended=full", accessToken, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetCollection retrieves the movies in the user's collection
func (c *Client) GetCollection(ctx context.Context, accessToken string) ([]CollectionItem, error) {
	var items []CollectionItem
	if _, err := c.call(ctx, http.MethodGet, "/sync/collection/movies?extended=full", accessToken, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetWatched retrieves the movies the user has watched
func (c *Client) GetWatched(ctx context.Context, accessToken string) ([]WatchedItem, error) {
	var items []WatchedItem
	if _, err := c.call(ctx, http.MethodGet, "/sync/watched/movies?extended=full", accessToken, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetRatings retrieves the user's movie ratings
func (c *Client) GetRatings(ctx context.Context, accessToken string) ([]RatingItem, error) {
	var items []RatingItem
	if _, err := c.call(ctx, http.MethodGet, "/sync/ratings/movies", accessToken, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetWatchlist retrieves the user's movie watchlist
func (c *Client) GetWatchlist(ctx context.Context, accessToken string) ([]WatchlistItem, error) {
	var items []WatchlistItem
	if _, err := c.call(ctx, http.MethodGet, "/sync/watchlist/movies?extended=full", accessToken, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetWatching retrieves what the user is watching right now. Returns nil, nil when nothing is
// being watched.
func (c *Client) GetWatching(ctx context.Context, accessToken, username string) (*Watching, error) {
	var watching Watching
	resp, err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(username)+"/watching?extended=full", accessToken, nil, &watching)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent || watching.Movie == nil {
		return nil, nil
	}
	return &watching, nil
}

func syncBody(movies []SyncMovie) SyncRequest {
	return SyncRequest{Movies: movies}
}

func (c *Client) sync(ctx context.Context, path, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	var result SyncResponse
	if _, err := c.call(ctx, http.MethodPost, path, accessToken, syncBody(movies), &result); err != nil {
		return nil, err
	}
	if n := len(result.NotFound.Movies); n > 0 {
		log.Printf("[trakt] %s: %d movies not found", path, n)
	}
	return &result, nil
}

// AddToHistory marks movies as watched
func (c *Client) AddToHistory(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	return c.sync(ctx, "/sync/history", accessToken, movies)
}

// RemoveFromHistory marks movies as unwatched
func (c *Client) RemoveFromHistory(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	return c.sync(ctx, "/sync/history/remove", accessToken, movies)
}

// AddToCollection adds movies to the user's collection
func (c *Client) AddToCollection(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	return c.sync(ctx, "/sync/collection", accessToken, movies)
}

// RemoveFromCollection removes movies from the user's collection
func (c *Client) RemoveFromCollection(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	return c.sync(ctx, "/sync/collection/remove", accessToken, movies)
}

// AddToWatchlist adds movies to the user's watchlist
func (c *Client) AddToWatchlist(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	return c.sync(ctx, "/sync/watchlist", accessToken, movies)
}

// RemoveFromWatchlist removes movies from the user's watchlist
func (c *Client) RemoveFromWatchlist(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	return c.sync(ctx, "/sync/watchlist/remove", accessToken, movies)
}

// AddRatings rates movies. A rating of 0 removes the rating.
func (c *Client) AddRatings(ctx context.Context, accessToken string, movies []SyncMovie) (*SyncResponse, error) {
	var rated, unrated []SyncMovie
	for _, m := range movies {
		if m.Rating > 0 {
			rated = append(rated, m)
		} else {
			unrated = append(unrated, m)
		}
	}
	result := &SyncResponse{}
	if len(rated) > 0 {
		r, err := c.sync(ctx, "/sync/ratings", accessToken, rated)
		if err != nil {
			return nil, err
		}
		result.Added = r.Added
	}
	if len(unrated) > 0 {
		r, err := c.sync(ctx, "/sync/ratings/remove", accessToken, unrated)
		if err != nil {
			return nil, err
		}
		result.Deleted = r.Deleted
	}
	return result, nil
}

// Checkin checks the user into a movie
func (c *Client) Checkin(ctx context.Context, accessToken string, req CheckinRequest) (*CheckinResponse, error) {
	var result CheckinResponse
	if _, err := c.call(ctx, http.MethodPost, "/checkin", accessToken, req, &result); err != nil {
		var callErr *remote.CallError
		if errors.As(err, &callErr) && callErr.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("%w: %w", ErrAlreadyCheckedIn, err)
		}
		return nil, err
	}
	return &result, nil
}

// CancelCheckin removes any active check-in
func (c *Client) CancelCheckin(ctx context.Context, accessToken string) error {
	_, err := c.call(ctx, http.MethodDelete, "/checkin", accessToken, nil, nil)
	return err
}

// InvalidateTrending drops the cached trending list
func (c *Client) InvalidateTrending() {
	c.trending.Delete("movies")
}

// HasCredentials checks if the client has valid credentials configured
func (c *Client) HasCredentials() bool {
	return c.clientID != "" && c.clientSecret != ""
}
