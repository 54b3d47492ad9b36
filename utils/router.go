package utils

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RouteRegistrar adds its routes to a router.
type RouteRegistrar interface {
	Register(r *mux.Router)
}

// CORS middleware so a browser devtools page can poll the debug endpoints.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[http] %s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	})
}

// NewRouter constructs the base mux router with /health and the routes of every registrar.
func NewRouter(debug bool, registrars ...RouteRegistrar) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	if debug {
		r.Use(logMiddleware)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	for _, registrar := range registrars {
		registrar.Register(r)
	}
	return r
}
