package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinetrack/internal/executor"
	"cinetrack/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(Config{DatabasePath: filepath.Join(t.TempDir(), "cinetrack.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return db
}

func testMovies() []models.Movie {
	return []models.Movie{
		{
			TmdbID:             348,
			TraktID:            "tt0078748",
			Title:              "Alien",
			Year:               1979,
			ReleasedAt:         time.Date(1979, 5, 25, 0, 0, 0, 0, time.UTC),
			Genres:             []string{"horror", "science-fiction"},
			TraktRatingPercent: 85,
			Watched:            true,
			UserRating:         9,
			PosterPath:         "/alien.jpg",
			PosterSource:       models.SourceTMDB,
		},
		{TraktID: "tt0443706", Title: "Zodiac", InCollection: true},
	}
}

func TestMovieRepository_ReplaceAndGetList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Movies.ReplaceList(ctx, ListLibrary, testMovies()))

	movies, err := db.Movies.GetList(ctx, ListLibrary)
	require.NoError(t, err)
	require.Len(t, movies, 2)

	alien := movies[0]
	assert.Equal(t, 348, alien.TmdbID)
	assert.Equal(t, "tt0078748", alien.TraktID)
	assert.Equal(t, "Alien", alien.Title)
	assert.Equal(t, 1979, alien.ReleasedAt.Year())
	assert.Equal(t, []string{"horror", "science-fiction"}, alien.Genres)
	assert.True(t, alien.Watched)
	assert.False(t, alien.InCollection)
	assert.Equal(t, 9, alien.UserRating)
	assert.Equal(t, models.SourceTMDB, alien.PosterSource)

	assert.Equal(t, "Zodiac", movies[1].Title)
	assert.True(t, movies[1].InCollection)
	assert.Zero(t, movies[1].TmdbID)
}

func TestMovieRepository_ReplaceDropsOldEntries(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	movies := testMovies()

	require.NoError(t, db.Movies.ReplaceList(ctx, ListLibrary, movies))
	require.NoError(t, db.Movies.ReplaceList(ctx, ListWatchlist, movies[1:]))
	require.NoError(t, db.Movies.ReplaceList(ctx, ListLibrary, movies[:1]))

	library, err := db.Movies.GetList(ctx, ListLibrary)
	require.NoError(t, err)
	require.Len(t, library, 1)
	assert.Equal(t, "Alien", library[0].Title)

	watchlist, err := db.Movies.GetList(ctx, ListWatchlist)
	require.NoError(t, err)
	require.Len(t, watchlist, 1)
	assert.Equal(t, "Zodiac", watchlist[0].Title)
}

func TestMovieRepository_DeleteAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Movies.ReplaceList(ctx, ListLibrary, testMovies()))

	require.NoError(t, db.Movies.DeleteAll(ctx))

	movies, err := db.Movies.GetList(ctx, ListLibrary)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestAsyncStore_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	looper := executor.NewLooper()
	looper.Start()
	exec := executor.New(looper, 2)
	t.Cleanup(func() {
		exec.Close()
		looper.Stop()
	})
	store := NewAsyncStore(db.Movies, exec)

	movies := testMovies()
	looper.Do(func() { store.SaveWatchlist([]*models.Movie{&movies[0], &movies[1]}) })
	exec.Wait()

	var loaded []*models.Movie
	calls := 0
	store.GetWatchlist(func(result []*models.Movie) {
		calls++
		loaded = result
	})
	exec.Wait()

	assert.Equal(t, 1, calls)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Alien", loaded[0].Title)

	store.DeleteAll()
	exec.Wait()
	store.GetWatchlist(func(result []*models.Movie) { loaded = result })
	exec.Wait()
	assert.Empty(t, loaded)
}
