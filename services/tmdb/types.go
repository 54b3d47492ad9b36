package tmdb

import (
	"encoding/json"
	"strings"
	"time"
)

// Date accepts TMDB's "2006-01-02" dates, RFC 3339 timestamps and empty strings.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// null
		d.Time = time.Time{}
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

// Configuration is the response of /configuration.
type Configuration struct {
	Images struct {
		SecureBaseURL string   `json:"secure_base_url"`
		BaseURL       string   `json:"base_url"`
		PosterSizes   []string `json:"poster_sizes"`
		BackdropSizes []string `json:"backdrop_sizes"`
		ProfileSizes  []string `json:"profile_sizes"`
	} `json:"images"`
}

// MovieSummary is a movie as it appears in list and search responses.
type MovieSummary struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  Date    `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Adult        bool    `json:"adult"`
}

// MoviesPage is a page of a movie listing.
type MoviesPage struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []MovieSummary `json:"results"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the response of /movie/{id}.
type Movie struct {
	MovieSummary
	IMDBID  string  `json:"imdb_id"`
	Tagline string  `json:"tagline"`
	Runtime int     `json:"runtime"`
	Genres  []Genre `json:"genres"`
}

// CastMember is one entry of a movie's cast.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

// CrewMember is one entry of a movie's crew.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits is the response of /movie/{id}/credits.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Image is a backdrop, poster or profile picture.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// Images is the response of /movie/{id}/images.
type Images struct {
	ID        int     `json:"id"`
	Backdrops []Image `json:"backdrops"`
}

// Video is a trailer, teaser or clip.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Videos is the response of /movie/{id}/videos.
type Videos struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// ReleaseDate is one dated release within a country.
type ReleaseDate struct {
	Certification string `json:"certification"`
	ReleaseDate   Date   `json:"release_date"`
	Type          int    `json:"type"`
}

// CountryReleases groups the releases of one country.
type CountryReleases struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

// ReleaseDates is the response of /movie/{id}/release_dates.
type ReleaseDates struct {
	ID      int               `json:"id"`
	Results []CountryReleases `json:"results"`
}

// TheatricalReleaseType is TMDB's release type for a theatrical run.
const TheatricalReleaseType = 3

// PersonSummary is a person as it appears in search responses.
type PersonSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

// PeoplePage is a page of people search results.
type PeoplePage struct {
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
	Results      []PersonSummary `json:"results"`
}

// PersonMovieCredit is a movie in a person's filmography.
type PersonMovieCredit struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate Date   `json:"release_date"`
	Character   string `json:"character"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	Adult       bool   `json:"adult"`
}

// PersonCredits is the response of /person/{id}/movie_credits.
type PersonCredits struct {
	ID   int                 `json:"id"`
	Cast []PersonMovieCredit `json:"cast"`
	Crew []PersonMovieCredit `json:"crew"`
}

// Person is the response of /person/{id}.
type Person struct {
	PersonSummary
	Biography    string `json:"biography"`
	PlaceOfBirth string `json:"place_of_birth"`
	Birthday     Date   `json:"birthday"`
	Deathday     Date   `json:"deathday"`
}
