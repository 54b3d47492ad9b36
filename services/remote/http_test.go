package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinetrack/models"
)

type payload struct {
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(models.SourceTMDB, WithRetry(3, time.Millisecond)), srv
}

func TestDo_DecodesJSON(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"Alien"}`)
	})

	var out payload
	resp, err := client.Do(context.Background(), Request{URL: srv.URL}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alien", out.Name)
}

func TestDo_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"name":"ok"}`)
	})

	var out payload
	_, err := client.Do(context.Background(), Request{URL: srv.URL}, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "ok", out.Name)
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing", http.StatusNotFound)
	})

	_, err := client.Do(context.Background(), Request{URL: srv.URL}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, models.SourceTMDB, callErr.Source)
	assert.Equal(t, CauseNotFound, callErr.Cause)
	assert.Equal(t, http.StatusNotFound, callErr.StatusCode)
}

func TestDo_ClassifiesUnauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := client.Do(context.Background(), Request{Method: http.MethodPost, URL: srv.URL, Body: payload{Name: "x"}}, nil)
		if !errors.Is(err, ErrTmdbUnauthorized) {
			t.Fatalf("status %d: expected unauthorized, got %v", status, err)
		}
		if !IsUnauthorized(err) {
			t.Fatalf("status %d: IsUnauthorized false", status)
		}
	}
}

func TestDo_SendsBodyAndHeaders(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	})

	header := http.Header{}
	header.Set("Authorization", "Bearer token")
	resp, err := client.Do(context.Background(), Request{Method: http.MethodPost, URL: srv.URL, Header: header, Body: payload{Name: "x"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(models.SourceTrakt, nil))

	network := Classify(models.SourceTrakt, fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.Equal(t, CauseNetwork, network.Cause)
	assert.Equal(t, models.SourceTrakt, network.Source)

	unknown := Classify(models.SourceTrakt, errors.New("boom"))
	assert.Equal(t, CauseUnknown, unknown.Cause)

	// An already classified error keeps its cause.
	again := Classify(models.SourceTMDB, unknown)
	assert.Same(t, unknown, again)

	server := Classify(models.SourceTMDB, &StatusError{StatusCode: http.StatusInternalServerError, Status: "500"})
	assert.Equal(t, CauseUnknown, server.Cause)
	assert.Equal(t, http.StatusInternalServerError, server.StatusCode)
}
