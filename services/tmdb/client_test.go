package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinetrack/services/remote"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		APIKey:  "key",
		BaseURL: srv.URL,
		HTTP:    []remote.Option{remote.WithRetry(1, time.Millisecond)},
	})
}

func TestPopularMovies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"page":2,"total_pages":5,"results":[{"id":1,"title":"Alien","release_date":"1979-05-25","adult":false}]}`)
	})

	page, err := client.PopularMovies(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 1979, page.Results[0].ReleaseDate.Year())
}

func TestSearchMovies_Cached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "alien", r.URL.Query().Get("query"))
		fmt.Fprint(w, `{"page":1,"total_pages":1,"results":[]}`)
	})

	for i := 0; i < 3; i++ {
		_, err := client.SearchMovies(context.Background(), "alien", 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())

	client.ClearSearchCache()
	_, err := client.SearchMovies(context.Background(), "alien", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMovie_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	})

	_, err := client.Movie(context.Background(), 42)
	require.Error(t, err)
	var callErr *remote.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, remote.CauseNotFound, callErr.Cause)
}

func TestDate_Formats(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1,"results":[{"iso_3166_1":"US","release_dates":[{"certification":"R","release_date":"1979-05-25T00:00:00.000Z","type":3},{"release_date":"","type":4}]}]}`)
	})

	releases, err := client.MovieReleaseDates(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, releases.Results, 1)
	dates := releases.Results[0].ReleaseDates
	require.Len(t, dates, 2)
	assert.Equal(t, time.May, dates[0].ReleaseDate.Month())
	assert.True(t, dates[1].ReleaseDate.IsZero())
}
