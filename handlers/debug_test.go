package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinetrack/internal/controller"
	"cinetrack/internal/eventbus"
	"cinetrack/internal/state"
	"cinetrack/models"
	"cinetrack/utils"
)

type fakeUis struct {
	infos []controller.UiInfo
}

func (f fakeUis) Attached() []controller.UiInfo {
	return f.infos
}

func inline(fn func()) bool {
	fn()
	return true
}

func newDebugRouter(t *testing.T, run Runner) (*state.Store, http.Handler) {
	t.Helper()
	store := state.New(eventbus.New())
	uis := fakeUis{infos: []controller.UiInfo{{ID: 1, Query: "trending", View: "movie-list"}}}
	return store, utils.NewRouter(false, NewDebugHandler(run, store, uis, nil))
}

func TestDebugHandlerState(t *testing.T) {
	store, router := newDebugRouter(t, inline)
	store.SetTrending(store.PutMovies([]*models.Movie{
		{TmdbID: 1, TraktID: "tt1", Title: "Alien"},
		{TmdbID: 2, Title: "Heat"},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var snapshot state.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snapshot.Trending != 2 || snapshot.Movies != 2 || snapshot.LoggedIn {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestDebugHandlerUis(t *testing.T) {
	_, router := newDebugRouter(t, inline)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/uis", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Uis   []controller.UiInfo `json:"uis"`
		Count int                 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 || resp.Uis[0].Query != "trending" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDebugHandlerMovie(t *testing.T) {
	store, router := newDebugRouter(t, inline)
	store.PutMovie(&models.Movie{TmdbID: 348, TraktID: "tt0078748", Title: "Alien"})

	for _, id := range []string{"348", "tt0078748"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/movies/"+id, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", id, rec.Code)
		}
		var movie models.Movie
		if err := json.Unmarshal(rec.Body.Bytes(), &movie); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if movie.Title != "Alien" {
			t.Fatalf("%s: unexpected movie %+v", id, movie)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/movies/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestDebugHandlerStoppedCore(t *testing.T) {
	_, router := newDebugRouter(t, func(func()) bool { return false })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/state", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	_, router := newDebugRouter(t, inline)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
