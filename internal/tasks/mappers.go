package tasks

import (
	"math"
	"time"

	"cinetrack/models"
	"cinetrack/services/tmdb"
	"cinetrack/services/trakt"
)

func percent(rating float64) int {
	return int(math.Round(rating * 10))
}

func movieFromTmdbSummary(s tmdb.MovieSummary) *models.Movie {
	m := &models.Movie{
		TmdbID:            s.ID,
		Title:             s.Title,
		Overview:          s.Overview,
		ReleasedAt:        s.ReleaseDate.Time,
		Adult:             s.Adult,
		TmdbRatingPercent: percent(s.VoteAverage),
		TmdbVotes:         s.VoteCount,
	}
	if !s.ReleaseDate.IsZero() {
		m.Year = s.ReleaseDate.Year()
	}
	if s.PosterPath != "" {
		m.PosterPath = s.PosterPath
		m.PosterSource = models.SourceTMDB
	}
	if s.BackdropPath != "" {
		m.BackdropPath = s.BackdropPath
		m.BackdropSource = models.SourceTMDB
	}
	return m
}

func moviesFromTmdbPage(page *tmdb.MoviesPage) []*models.Movie {
	movies := make([]*models.Movie, 0, len(page.Results))
	for _, s := range page.Results {
		movies = append(movies, movieFromTmdbSummary(s))
	}
	return movies
}

// movieFromTmdb maps a full TMDB detail response. The IMDB id doubles as the Trakt id, which is
// how a movie first seen on TMDB gets linked to Trakt.
func movieFromTmdb(t *tmdb.Movie) *models.Movie {
	m := movieFromTmdbSummary(t.MovieSummary)
	m.TraktID = t.IMDBID
	m.Tagline = t.Tagline
	m.Runtime = t.Runtime
	if len(t.Genres) > 0 {
		m.Genres = make([]string, 0, len(t.Genres))
		for _, g := range t.Genres {
			m.Genres = append(m.Genres, g.Name)
		}
	}
	return m
}

func movieFromTrakt(t trakt.Movie) *models.Movie {
	return &models.Movie{
		TraktID:            t.IDs.ID(),
		TmdbID:             t.IDs.TMDB,
		Title:              t.Title,
		Year:               t.Year,
		ReleasedAt:         t.Released.Time,
		Overview:           t.Overview,
		Tagline:            t.Tagline,
		Runtime:            t.Runtime,
		Certification:      t.Certification,
		Genres:             t.Genres,
		TraktRatingPercent: percent(t.Rating),
		TraktVotes:         t.Votes,
	}
}

func moviesFromTrakt(list []trakt.Movie) []*models.Movie {
	movies := make([]*models.Movie, 0, len(list))
	for _, t := range list {
		movies = append(movies, movieFromTrakt(t))
	}
	return movies
}

func personFromTmdbSummary(s tmdb.PersonSummary) *models.Person {
	p := &models.Person{TmdbID: s.ID, Name: s.Name}
	if s.ProfilePath != "" {
		p.PicturePath = s.ProfilePath
		p.PictureSource = models.SourceTMDB
	}
	return p
}

func personFromTmdb(t *tmdb.Person, now time.Time) *models.Person {
	p := personFromTmdbSummary(t.PersonSummary)
	p.Biography = t.Biography
	p.PlaceOfBirth = t.PlaceOfBirth
	p.SetDates(t.Birthday.Time, t.Deathday.Time, now)
	return p
}

func personCredits(list []tmdb.PersonMovieCredit) []*models.PersonCredit {
	credits := make([]*models.PersonCredit, 0, len(list))
	for _, c := range list {
		if c.Adult {
			continue
		}
		credits = append(credits, &models.PersonCredit{
			MovieTmdbID: c.ID,
			Title:       c.Title,
			PosterPath:  c.PosterPath,
			ReleasedAt:  c.ReleaseDate.Time,
			Character:   c.Character,
			Job:         c.Job,
			Department:  c.Department,
		})
	}
	return credits
}

func imageConfiguration(c *tmdb.Configuration) *models.ImageConfiguration {
	base := c.Images.SecureBaseURL
	if base == "" {
		base = c.Images.BaseURL
	}
	return &models.ImageConfiguration{
		BaseURL:       base,
		PosterSizes:   c.Images.PosterSizes,
		BackdropSizes: c.Images.BackdropSizes,
		ProfileSizes:  c.Images.ProfileSizes,
	}
}

func userProfile(s *trakt.Settings, now time.Time) *models.UserProfile {
	return &models.UserProfile{
		Username:            s.User.Username,
		Name:                s.User.Name,
		TwitterConnected:    s.Connections.Twitter,
		MastodonConnected:   s.Connections.Mastodon,
		TumblrConnected:     s.Connections.Tumblr,
		DefaultShareMessage: s.SharingText.Watching,
		UpdatedAt:           now,
	}
}

// syncMovies builds the ids of a sync body. Movies without any id are skipped.
func syncMovies(movies []*models.Movie) []trakt.SyncMovie {
	result := make([]trakt.SyncMovie, 0, len(movies))
	for _, m := range movies {
		if !m.HasIdentity() {
			continue
		}
		result = append(result, trakt.SyncMovie{IDs: trakt.IDsFor(m.TraktID, m.TmdbID)})
	}
	return result
}
