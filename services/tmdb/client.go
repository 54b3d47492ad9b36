package tmdb

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/utils/cache"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	searchCacheSize = 256
	searchCacheTTL  = 10 * time.Minute
	defaultLanguage = "en-US"
)

// Client talks to the TMDB v3 API.
type Client struct {
	http     *remote.HTTPClient
	baseURL  string
	apiKey   string
	language string
	region   string

	movieSearches  *cache.LRU[*MoviesPage]
	personSearches *cache.LRU[*PeoplePage]
}

// Options configures a Client.
type Options struct {
	APIKey   string
	Language string
	Region   string
	BaseURL  string
	HTTP     []remote.Option
}

// NewClient creates a TMDB client.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := opts.Language
	if language == "" {
		language = defaultLanguage
	}
	return &Client{
		http:           remote.NewHTTPClient(models.SourceTMDB, opts.HTTP...),
		baseURL:        baseURL,
		apiKey:         opts.APIKey,
		language:       language,
		region:         opts.Region,
		movieSearches:  cache.NewLRU[*MoviesPage](searchCacheSize, searchCacheTTL),
		personSearches: cache.NewLRU[*PeoplePage](searchCacheSize, searchCacheTTL),
	}
}

// HasCredentials reports whether an API key is configured.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	return c.baseURL + path + "?" + params.Encode()
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if _, err := c.http.Do(ctx, remote.Request{URL: c.endpoint(path, params)}, out); err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	return nil
}

func pageParams(page int) url.Values {
	if page < models.FirstPage {
		page = models.FirstPage
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

// Configuration fetches the image configuration.
func (c *Client) Configuration(ctx context.Context) (*Configuration, error) {
	var cfg Configuration
	if err := c.get(ctx, "/configuration", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) listing(ctx context.Context, path string, page int, regional bool) (*MoviesPage, error) {
	params := pageParams(page)
	if regional && c.region != "" {
		params.Set("region", c.region)
	}
	var result MoviesPage
	if err := c.get(ctx, path, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PopularMovies fetches one page of /movie/popular.
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviesPage, error) {
	return c.listing(ctx, "/movie/popular", page, false)
}

// NowPlayingMovies fetches one page of /movie/now_playing.
func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*MoviesPage, error) {
	return c.listing(ctx, "/movie/now_playing", page, true)
}

// UpcomingMovies fetches one page of /movie/upcoming.
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*MoviesPage, error) {
	return c.listing(ctx, "/movie/upcoming", page, true)
}

// SimilarMovies fetches one page of movies similar to id.
func (c *Client) SimilarMovies(ctx context.Context, id, page int) (*MoviesPage, error) {
	return c.listing(ctx, fmt.Sprintf("/movie/%d/similar", id), page, false)
}

// SearchMovies searches movies by title. Results are cached for a few minutes.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*MoviesPage, error) {
	key := fmt.Sprintf("%s|%d", query, page)
	if cached, ok := c.movieSearches.Get(key); ok {
		return cached, nil
	}
	params := pageParams(page)
	params.Set("query", query)
	var result MoviesPage
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	c.movieSearches.Set(key, &result)
	return &result, nil
}

// SearchPeople searches people by name. Results are cached for a few minutes.
func (c *Client) SearchPeople(ctx context.Context, query string, page int) (*PeoplePage, error) {
	key := fmt.Sprintf("%s|%d", query, page)
	if cached, ok := c.personSearches.Get(key); ok {
		return cached, nil
	}
	params := pageParams(page)
	params.Set("query", query)
	var result PeoplePage
	if err := c.get(ctx, "/search/person", params, &result); err != nil {
		return nil, err
	}
	c.personSearches.Set(key, &result)
	return &result, nil
}

// Movie fetches the full detail of a movie.
func (c *Client) Movie(ctx context.Context, id int) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// MovieCredits fetches the cast and crew of a movie.
func (c *Client) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	var credits Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// MovieImages fetches the backdrops of a movie in every language.
func (c *Client) MovieImages(ctx context.Context, id int) (*Images, error) {
	var images Images
	params := url.Values{"include_image_language": {"en,null"}}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/images", id), params, &images); err != nil {
		return nil, err
	}
	return &images, nil
}

// MovieVideos fetches the trailers of a movie.
func (c *Client) MovieVideos(ctx context.Context, id int) (*Videos, error) {
	var videos Videos
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &videos); err != nil {
		return nil, err
	}
	return &videos, nil
}

// MovieReleaseDates fetches the per-country releases of a movie.
func (c *Client) MovieReleaseDates(ctx context.Context, id int) (*ReleaseDates, error) {
	var releases ReleaseDates
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/release_dates", id), nil, &releases); err != nil {
		return nil, err
	}
	return &releases, nil
}

// Person fetches the detail of a person.
func (c *Client) Person(ctx context.Context, id int) (*Person, error) {
	var person Person
	if err := c.get(ctx, fmt.Sprintf("/person/%d", id), nil, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// PersonMovieCredits fetches a person's filmography.
func (c *Client) PersonMovieCredits(ctx context.Context, id int) (*PersonCredits, error) {
	var credits PersonCredits
	if err := c.get(ctx, fmt.Sprintf("/person/%d/movie_credits", id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// ClearSearchCache drops cached search responses.
func (c *Client) ClearSearchCache() {
	c.movieSearches.Clear()
	c.personSearches.Clear()
	log.Printf("[tmdb] search cache cleared")
}
