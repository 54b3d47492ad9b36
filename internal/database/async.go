package database

import (
	"context"
	"log"

	"cinetrack/internal/executor"
	"cinetrack/models"
)

// AsyncStore runs repository calls on the executor's workers and hands results back on the
// looper. Callbacks are invoked once; a failed read delivers nil.
type AsyncStore struct {
	movies *MovieRepository
	exec   *executor.Executor
}

// NewAsyncStore creates an async store over repo.
func NewAsyncStore(movies *MovieRepository, exec *executor.Executor) *AsyncStore {
	return &AsyncStore{movies: movies, exec: exec}
}

// GetLibrary loads the stored library.
func (s *AsyncStore) GetLibrary(callback func([]*models.Movie)) {
	s.getList(ListLibrary, callback)
}

// GetWatchlist loads the stored watchlist.
func (s *AsyncStore) GetWatchlist(callback func([]*models.Movie)) {
	s.getList(ListWatchlist, callback)
}

func (s *AsyncStore) getList(list List, callback func([]*models.Movie)) {
	var movies []*models.Movie
	s.exec.Background(func(ctx context.Context) {
		var err error
		movies, err = s.movies.GetList(ctx, list)
		if err != nil {
			log.Printf("[database] failed to load %s: %v", list, err)
			movies = nil
		}
	}, func() {
		callback(movies)
	})
}

// SaveLibrary replaces the stored library. Must be called on the looper.
func (s *AsyncStore) SaveLibrary(movies []*models.Movie) {
	s.save(ListLibrary, movies)
}

// SaveWatchlist replaces the stored watchlist. Must be called on the looper.
func (s *AsyncStore) SaveWatchlist(movies []*models.Movie) {
	s.save(ListWatchlist, movies)
}

func (s *AsyncStore) save(list List, movies []*models.Movie) {
	// Copy now: the canonical instances keep changing on the looper while the write runs.
	snapshot := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		snapshot = append(snapshot, *m)
	}
	s.exec.Background(func(ctx context.Context) {
		if err := s.movies.ReplaceList(ctx, list, snapshot); err != nil {
			log.Printf("[database] failed to save %s: %v", list, err)
		}
	}, nil)
}

// DeleteAll removes everything stored for the previous account.
func (s *AsyncStore) DeleteAll() {
	s.exec.Background(func(ctx context.Context) {
		if err := s.movies.DeleteAll(ctx); err != nil {
			log.Printf("[database] failed to delete stored movies: %v", err)
		}
	}, nil)
}
