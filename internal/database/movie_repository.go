package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cinetrack/models"
)

// List names the persisted user lists.
type List string

const (
	ListLibrary   List = "library"
	ListWatchlist List = "watchlist"
)

// MovieRepository persists movies and the user lists that reference them.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const upsertMovie = `
	INSERT INTO movies (movie_key, tmdb_id, trakt_id, title, year, released_at, overview, tagline,
	                    runtime, certification, genres, adult, tmdb_rating, tmdb_votes, trakt_rating,
	                    trakt_votes, user_rating, in_collection, in_watchlist, watched, poster_path,
	                    poster_source, backdrop_path, backdrop_source, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(movie_key) DO UPDATE SET
		tmdb_id = excluded.tmdb_id,
		trakt_id = excluded.trakt_id,
		title = excluded.title,
		year = excluded.year,
		released_at = excluded.released_at,
		overview = excluded.overview,
		tagline = excluded.tagline,
		runtime = excluded.runtime,
		certification = excluded.certification,
		genres = excluded.genres,
		adult = excluded.adult,
		tmdb_rating = excluded.tmdb_rating,
		tmdb_votes = excluded.tmdb_votes,
		trakt_rating = excluded.trakt_rating,
		trakt_votes = excluded.trakt_votes,
		user_rating = excluded.user_rating,
		in_collection = excluded.in_collection,
		in_watchlist = excluded.in_watchlist,
		watched = excluded.watched,
		poster_path = excluded.poster_path,
		poster_source = excluded.poster_source,
		backdrop_path = excluded.backdrop_path,
		backdrop_source = excluded.backdrop_source,
		updated_at = excluded.updated_at
`

// ReplaceList stores movies and makes them, in order, the content of list.
func (r *MovieRepository) ReplaceList(ctx context.Context, list List, movies []models.Movie) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM list_entries WHERE list_name = ?", string(list)); err != nil {
		return fmt.Errorf("failed to clear list %s: %w", list, err)
	}

	now := time.Now().UTC()
	for i := range movies {
		movie := &movies[i]
		key := movie.Key()
		if key == "" {
			continue
		}
		genres, err := json.Marshal(movie.Genres)
		if err != nil {
			return fmt.Errorf("failed to encode genres of %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, upsertMovie,
			key, nullInt(movie.TmdbID), nullString(movie.TraktID), movie.Title, nullInt(movie.Year),
			nullTime(movie.ReleasedAt), nullString(movie.Overview), nullString(movie.Tagline),
			nullInt(movie.Runtime), nullString(movie.Certification), string(genres), movie.Adult,
			nullInt(movie.TmdbRatingPercent), nullInt(movie.TmdbVotes),
			nullInt(movie.TraktRatingPercent), nullInt(movie.TraktVotes), nullInt(movie.UserRating),
			movie.InCollection, movie.InWatchlist, movie.Watched,
			nullString(movie.PosterPath), nullInt(int(movie.PosterSource)),
			nullString(movie.BackdropPath), nullInt(int(movie.BackdropSource)), now,
		); err != nil {
			return fmt.Errorf("failed to save movie %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO list_entries (list_name, movie_key, position) VALUES (?, ?, ?)",
			string(list), key, i,
		); err != nil {
			return fmt.Errorf("failed to add %s to %s: %w", key, list, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM movies WHERE movie_key NOT IN (SELECT movie_key FROM list_entries)",
	); err != nil {
		return fmt.Errorf("failed to prune movies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit list %s: %w", list, err)
	}
	return nil
}

// GetList returns the movies of list in their stored order.
func (r *MovieRepository) GetList(ctx context.Context, list List) ([]*models.Movie, error) {
	query := `
		SELECT m.tmdb_id, m.trakt_id, m.title, m.year, m.released_at, m.overview, m.tagline,
		       m.runtime, m.certification, m.genres, m.adult, m.tmdb_rating, m.tmdb_votes,
		       m.trakt_rating, m.trakt_votes, m.user_rating, m.in_collection, m.in_watchlist,
		       m.watched, m.poster_path, m.poster_source, m.backdrop_path, m.backdrop_source
		FROM list_entries e
		JOIN movies m ON m.movie_key = e.movie_key
		WHERE e.list_name = ?
		ORDER BY e.position
	`

	rows, err := r.db.QueryContext(ctx, query, string(list))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", list, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("[database] failed to close rows: %v", err)
		}
	}()

	movies := []*models.Movie{}
	for rows.Next() {
		var movie models.Movie
		var traktID, overview, tagline, certification, genres, posterPath, backdropPath sql.NullString
		var tmdbID, year, runtime, tmdbRating, tmdbVotes, traktRating, traktVotes, userRating sql.NullInt64
		var posterSource, backdropSource sql.NullInt64
		var releasedAt sql.NullTime

		err := rows.Scan(
			&tmdbID, &traktID, &movie.Title, &year, &releasedAt, &overview, &tagline,
			&runtime, &certification, &genres, &movie.Adult, &tmdbRating, &tmdbVotes,
			&traktRating, &traktVotes, &userRating, &movie.InCollection, &movie.InWatchlist,
			&movie.Watched, &posterPath, &posterSource, &backdropPath, &backdropSource,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}

		movie.TmdbID = int(tmdbID.Int64)
		movie.TraktID = traktID.String
		movie.Year = int(year.Int64)
		if releasedAt.Valid {
			movie.ReleasedAt = releasedAt.Time
		}
		movie.Overview = overview.String
		movie.Tagline = tagline.String
		movie.Runtime = int(runtime.Int64)
		movie.Certification = certification.String
		if genres.Valid && genres.String != "" && genres.String != "null" {
			if err := json.Unmarshal([]byte(genres.String), &movie.Genres); err != nil {
				log.Printf("[database] ignoring bad genres of %q: %v", movie.Title, err)
			}
		}
		movie.TmdbRatingPercent = int(tmdbRating.Int64)
		movie.TmdbVotes = int(tmdbVotes.Int64)
		movie.TraktRatingPercent = int(traktRating.Int64)
		movie.TraktVotes = int(traktVotes.Int64)
		movie.UserRating = int(userRating.Int64)
		movie.PosterPath = posterPath.String
		movie.PosterSource = models.Source(posterSource.Int64)
		movie.BackdropPath = backdropPath.String
		movie.BackdropSource = models.Source(backdropSource.Int64)

		movies = append(movies, &movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return movies, nil
}

// DeleteAll removes every stored movie and list.
func (r *MovieRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM list_entries"); err != nil {
		return fmt.Errorf("failed to delete list entries: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM movies"); err != nil {
		return fmt.Errorf("failed to delete movies: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t, Valid: true}
}
