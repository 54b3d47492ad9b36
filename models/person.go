package models

import "time"

// Person is a cast or crew member known to TMDB.
type Person struct {
	TmdbID        int    `json:"tmdbId"`
	Name          string `json:"name"`
	PicturePath   string `json:"picturePath,omitempty"`
	PictureSource Source `json:"pictureSource,omitempty"`
	Biography     string `json:"biography,omitempty"`
	PlaceOfBirth  string `json:"placeOfBirth,omitempty"`

	DateOfBirth time.Time `json:"dateOfBirth,omitempty"`
	DateOfDeath time.Time `json:"dateOfDeath,omitempty"`
	Age         int       `json:"age,omitempty"`

	CastCredits    []*PersonCredit `json:"-"`
	CrewCredits    []*PersonCredit `json:"-"`
	FetchedCredits bool            `json:"-"`
}

// SetDates assigns birth/death dates and recomputes the age. The age is measured up to the
// date of death when there is one, otherwise up to now.
func (p *Person) SetDates(birth, death time.Time, now time.Time) {
	p.DateOfBirth = birth
	p.DateOfDeath = death
	p.Age = 0
	if birth.IsZero() {
		return
	}
	end := now
	if !death.IsZero() {
		end = death
	}
	age := end.Year() - birth.Year()
	if end.Month() < birth.Month() || (end.Month() == birth.Month() && end.Day() < birth.Day()) {
		age--
	}
	if age > 0 {
		p.Age = age
	}
}

// Merge copies the fields present in src onto p. Credit lists are only replaced when src
// carries them.
func (p *Person) Merge(src *Person, now time.Time) {
	if src == nil || src == p {
		return
	}
	if src.TmdbID != 0 {
		p.TmdbID = src.TmdbID
	}
	if src.Name != "" {
		p.Name = src.Name
	}
	if src.PicturePath != "" {
		p.PicturePath = src.PicturePath
		p.PictureSource = src.PictureSource
	}
	if src.Biography != "" {
		p.Biography = src.Biography
	}
	if src.PlaceOfBirth != "" {
		p.PlaceOfBirth = src.PlaceOfBirth
	}
	if !src.DateOfBirth.IsZero() {
		death := p.DateOfDeath
		if !src.DateOfDeath.IsZero() {
			death = src.DateOfDeath
		}
		p.SetDates(src.DateOfBirth, death, now)
	}
	if src.CastCredits != nil {
		p.CastCredits = src.CastCredits
	}
	if src.CrewCredits != nil {
		p.CrewCredits = src.CrewCredits
	}
	p.FetchedCredits = p.FetchedCredits || src.FetchedCredits
}

// MovieCredit links a person to a movie's cast or crew.
type MovieCredit struct {
	Person     *Person `json:"person"`
	Character  string  `json:"character,omitempty"`
	Job        string  `json:"job,omitempty"`
	Department string  `json:"department,omitempty"`
	Order      int     `json:"order"`
}

// PersonCredit links a movie to a person's filmography.
type PersonCredit struct {
	MovieTmdbID int       `json:"movieTmdbId"`
	Title       string    `json:"title"`
	PosterPath  string    `json:"posterPath,omitempty"`
	ReleasedAt  time.Time `json:"releasedAt,omitempty"`
	Character   string    `json:"character,omitempty"`
	Job         string    `json:"job,omitempty"`
	Department  string    `json:"department,omitempty"`
}
