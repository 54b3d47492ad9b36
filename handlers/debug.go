package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"cinetrack/internal/controller"
	"cinetrack/internal/state"
	"cinetrack/models"
)

// StateReader is the read side of the shared store the debug endpoints expose.
type StateReader interface {
	Snapshot() state.Snapshot
	FindMovie(id string) *models.Movie
}

// UiLister lists the attached screens.
type UiLister interface {
	Attached() []controller.UiInfo
}

// Runner runs fn on the coordination looper and waits for it.
type Runner func(fn func()) bool

// DebugHandler serves a read-only view of the core for diagnosing a running shell.
type DebugHandler struct {
	run    Runner
	state  StateReader
	uis    UiLister
	logger *log.Logger
}

func NewDebugHandler(run Runner, state StateReader, uis UiLister, logger *log.Logger) *DebugHandler {
	h := &DebugHandler{run: run, state: state, uis: uis, logger: logger}
	if h.logger == nil {
		h.logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	return h
}

// Register adds the debug routes to r.
func (h *DebugHandler) Register(r *mux.Router) {
	r.HandleFunc("/debug/state", h.State).Methods(http.MethodGet)
	r.HandleFunc("/debug/uis", h.Uis).Methods(http.MethodGet)
	r.HandleFunc("/debug/movies/{id}", h.Movie).Methods(http.MethodGet)
}

func (h *DebugHandler) State(w http.ResponseWriter, r *http.Request) {
	var snapshot state.Snapshot
	if !h.run(func() { snapshot = h.state.Snapshot() }) {
		http.Error(w, "core stopped", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, snapshot)
}

func (h *DebugHandler) Uis(w http.ResponseWriter, r *http.Request) {
	var uis []controller.UiInfo
	if !h.run(func() { uis = h.uis.Attached() }) {
		http.Error(w, "core stopped", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, map[string]any{"uis": uis, "count": len(uis)})
}

// Movie renders the canonical instance for a Trakt or TMDB id.
func (h *DebugHandler) Movie(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	var body []byte
	var err error
	found := false
	// Encode on the looper; the movie is mutated there.
	ok := h.run(func() {
		movie := h.state.FindMovie(id)
		if movie == nil {
			return
		}
		found = true
		body, err = json.Marshal(movie)
	})
	switch {
	case !ok:
		http.Error(w, "core stopped", http.StatusServiceUnavailable)
	case !found:
		http.Error(w, "movie not found", http.StatusNotFound)
	case err != nil:
		h.logger.Printf("[debug] encode movie %s: %v", id, err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (h *DebugHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Printf("[debug] encode response: %v", err)
	}
}
