package trakt

import (
	"context"
	"encoding/json"
	"errors"
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
	return NewClient("client-id", "secret", remote.WithRetry(1, time.Millisecond)).WithBaseURL(srv.URL)
}

func TestHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, traktAPIVersion, r.Header.Get("trakt-api-version"))
		assert.Equal(t, "client-id", r.Header.Get("trakt-api-key"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"username":"sam"}`)
	})

	profile, err := client.GetUserProfile(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "sam", profile.Username)
}

func TestGetTrendingMovies_Cached(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/movies/trending", r.URL.Path)
		fmt.Fprint(w, `[{"watchers":10,"movie":{"title":"Alien","year":1979,"released":"1979-05-25","ids":{"slug":"alien-1979","imdb":"tt0078748","tmdb":348}}}]`)
	})

	for i := 0; i < 2; i++ {
		items, err := client.GetTrendingMovies(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "tt0078748", items[0].Movie.IDs.ID())
		assert.Equal(t, 1979, items[0].Movie.Released.Year())
	}
	assert.Equal(t, int32(1), calls.Load())

	client.InvalidateTrending()
	_, err := client.GetTrendingMovies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetWatching_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/sam/watching", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	watching, err := client.GetWatching(context.Background(), "token", "sam")
	require.NoError(t, err)
	assert.Nil(t, watching)
}

func TestAddToWatchlist_Body(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sync/watchlist", r.URL.Path)
		var body SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Movies, 2)
		assert.Equal(t, "tt0078748", body.Movies[0].IDs.IMDB)
		assert.Equal(t, "some-slug", body.Movies[1].IDs.Slug)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"added":{"movies":2}}`)
	})

	result, err := client.AddToWatchlist(context.Background(), "token", []SyncMovie{
		{IDs: IDsFor("tt0078748", 348)},
		{IDs: IDsFor("some-slug", 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added.Movies)
}

func TestAddRatings_SplitsRemovals(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"added":{"movies":1},"deleted":{"movies":1}}`)
	})

	_, err := client.AddRatings(context.Background(), "token", []SyncMovie{
		{IDs: IDsFor("tt1", 0), Rating: 8},
		{IDs: IDsFor("tt2", 0)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/sync/ratings", "/sync/ratings/remove"}, paths)
}

func TestCheckin_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := client.Checkin(context.Background(), "token", CheckinRequest{Movie: SyncMovie{IDs: IDsFor("tt1", 0)}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyCheckedIn))
}

func TestPollForToken_Pending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	token, err := client.PollForToken(context.Background(), "device")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestUnauthorizedIsClassified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetWatchlist(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote.ErrTraktUnauthorized))
}

func TestIDsFor(t *testing.T) {
	assert.Equal(t, IDs{IMDB: "tt0078748", TMDB: 348}, IDsFor("tt0078748", 348))
	assert.Equal(t, IDs{Slug: "alien-1979"}, IDsFor("alien-1979", 0))
	assert.Equal(t, IDs{Trakt: 12}, IDsFor("12", 0))
	assert.Equal(t, IDs{TMDB: 5}, IDsFor("", 5))
}
