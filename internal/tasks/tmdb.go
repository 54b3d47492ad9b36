package tasks

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"cinetrack/internal/state"
	"cinetrack/models"
	"cinetrack/services/tmdb"
)

// FetchConfiguration loads the TMDB image configuration.
type FetchConfiguration struct {
	base
	result *tmdb.Configuration
}

func NewFetchConfiguration(deps *Deps, callingID int) *FetchConfiguration {
	return &FetchConfiguration{base: newBase(deps, callingID, models.SourceTMDB, "configuration")}
}

func (t *FetchConfiguration) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.Configuration(ctx)
	return err
}

func (t *FetchConfiguration) OnSuccess() {
	t.store().SetConfiguration(imageConfiguration(t.result))
}

// Listing selects one of the paginated TMDB movie listings.
type Listing int

const (
	ListingPopular Listing = iota
	ListingNowPlaying
	ListingUpcoming
)

func (l Listing) String() string {
	switch l {
	case ListingNowPlaying:
		return "now_playing"
	case ListingUpcoming:
		return "upcoming"
	default:
		return "popular"
	}
}

// FetchListingPage loads one page of a paginated listing and appends it to the store.
type FetchListingPage struct {
	base
	listing Listing
	page    int
	result  *tmdb.MoviesPage
}

func NewFetchListingPage(deps *Deps, callingID int, listing Listing, page int) *FetchListingPage {
	if page < models.FirstPage {
		page = models.FirstPage
	}
	return &FetchListingPage{
		base:    newBase(deps, callingID, models.SourceTMDB, fmt.Sprintf("%s:%d", listing, page)),
		listing: listing,
		page:    page,
	}
}

func (t *FetchListingPage) Call(ctx context.Context) (err error) {
	switch t.listing {
	case ListingNowPlaying:
		t.result, err = t.deps.TMDB.NowPlayingMovies(ctx, t.page)
	case ListingUpcoming:
		t.result, err = t.deps.TMDB.UpcomingMovies(ctx, t.page)
	default:
		t.result, err = t.deps.TMDB.PopularMovies(ctx, t.page)
	}
	return err
}

func (t *FetchListingPage) OnSuccess() {
	page := t.result.Page
	if page == 0 {
		page = t.page
	}
	movies := moviesFromTmdbPage(t.result)
	switch t.listing {
	case ListingNowPlaying:
		t.store().AppendNowPlaying(page, t.result.TotalPages, movies)
	case ListingUpcoming:
		t.store().AppendUpcoming(page, t.result.TotalPages, movies)
	default:
		t.store().AppendPopular(page, t.result.TotalPages, movies)
	}
}

// SearchMovies loads one page of movie results for a query.
type SearchMovies struct {
	base
	query  string
	page   int
	result *tmdb.MoviesPage
}

func NewSearchMovies(deps *Deps, callingID int, query string, page int) *SearchMovies {
	return &SearchMovies{
		base:  newBase(deps, callingID, models.SourceTMDB, fmt.Sprintf("search:movies:%s:%d", query, page)),
		query: query,
		page:  page,
	}
}

func (t *SearchMovies) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.SearchMovies(ctx, t.query, t.page)
	return err
}

func (t *SearchMovies) OnSuccess() {
	t.store().AppendSearchMovies(t.query, t.page, t.result.TotalPages, moviesFromTmdbPage(t.result))
}

// SearchPeople loads one page of people results for a query.
type SearchPeople struct {
	base
	query  string
	page   int
	result *tmdb.PeoplePage
}

func NewSearchPeople(deps *Deps, callingID int, query string, page int) *SearchPeople {
	return &SearchPeople{
		base:  newBase(deps, callingID, models.SourceTMDB, fmt.Sprintf("search:people:%s:%d", query, page)),
		query: query,
		page:  page,
	}
}

func (t *SearchPeople) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.SearchPeople(ctx, t.query, t.page)
	return err
}

func (t *SearchPeople) OnSuccess() {
	people := make([]*models.Person, 0, len(t.result.Results))
	for _, p := range t.result.Results {
		people = append(people, personFromTmdbSummary(p))
	}
	t.store().AppendSearchPeople(t.query, t.page, t.result.TotalPages, people)
}

// movieTask is the shape of the per-movie TMDB tasks: they are keyed by the TMDB id and report
// back with a movie event for the calling id.
type movieTask struct {
	base
	tmdbID int
}

func newMovieTask(deps *Deps, callingID int, what string, tmdbID int) movieTask {
	t := movieTask{
		base:   newBase(deps, callingID, models.SourceTMDB, what+":"+strconv.Itoa(tmdbID)),
		tmdbID: tmdbID,
	}
	t.secondary = what != "movie"
	return t
}

// movie returns the canonical movie for the task's id. The id may have been merged away while
// the call ran, in which case the lookup still resolves to the survivor.
func (t *movieTask) movie() *models.Movie {
	if m := t.store().MovieByTmdbID(t.tmdbID); m != nil {
		return m
	}
	return t.store().PutMovie(&models.Movie{TmdbID: t.tmdbID})
}

// FetchTmdbMovie loads the full detail of a movie.
type FetchTmdbMovie struct {
	movieTask
	result *tmdb.Movie
}

func NewFetchTmdbMovie(deps *Deps, callingID, tmdbID int) *FetchTmdbMovie {
	return &FetchTmdbMovie{movieTask: newMovieTask(deps, callingID, "movie", tmdbID)}
}

func (t *FetchTmdbMovie) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.Movie(ctx, t.tmdbID)
	return err
}

func (t *FetchTmdbMovie) OnSuccess() {
	partial := movieFromTmdb(t.result)
	partial.MarkFullFetched(models.SourceTMDB)
	movie := t.store().PutMovie(partial)
	t.store().Publish(state.MovieInformationUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchTmdbCredits loads the cast and crew of a movie.
type FetchTmdbCredits struct {
	movieTask
	result *tmdb.Credits
}

func NewFetchTmdbCredits(deps *Deps, callingID, tmdbID int) *FetchTmdbCredits {
	return &FetchTmdbCredits{movieTask: newMovieTask(deps, callingID, "credits", tmdbID)}
}

func (t *FetchTmdbCredits) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.MovieCredits(ctx, t.tmdbID)
	return err
}

func (t *FetchTmdbCredits) OnSuccess() {
	movie := t.movie()
	cast := make([]*models.MovieCredit, 0, len(t.result.Cast))
	for _, c := range t.result.Cast {
		person := t.store().PutPerson(personFromTmdbSummary(tmdb.PersonSummary{ID: c.ID, Name: c.Name, ProfilePath: c.ProfilePath}))
		cast = append(cast, &models.MovieCredit{Person: person, Character: c.Character, Order: c.Order})
	}
	slices.SortStableFunc(cast, func(a, b *models.MovieCredit) int { return a.Order - b.Order })

	crew := make([]*models.MovieCredit, 0, len(t.result.Crew))
	for i, c := range t.result.Crew {
		person := t.store().PutPerson(personFromTmdbSummary(tmdb.PersonSummary{ID: c.ID, Name: c.Name, ProfilePath: c.ProfilePath}))
		crew = append(crew, &models.MovieCredit{Person: person, Job: c.Job, Department: c.Department, Order: i})
	}

	movie.Cast = cast
	movie.Crew = crew
	t.store().Publish(state.MovieCastItemsUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchTmdbImages loads the backdrop gallery of a movie.
type FetchTmdbImages struct {
	movieTask
	result *tmdb.Images
}

func NewFetchTmdbImages(deps *Deps, callingID, tmdbID int) *FetchTmdbImages {
	return &FetchTmdbImages{movieTask: newMovieTask(deps, callingID, "images", tmdbID)}
}

func (t *FetchTmdbImages) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.MovieImages(ctx, t.tmdbID)
	return err
}

func (t *FetchTmdbImages) OnSuccess() {
	movie := t.movie()
	images := make([]models.BackdropImage, 0, len(t.result.Backdrops))
	for _, img := range t.result.Backdrops {
		images = append(images, models.BackdropImage{
			Path:   img.FilePath,
			Width:  img.Width,
			Height: img.Height,
			Aspect: img.AspectRatio,
		})
	}
	movie.BackdropImages = images
	t.store().Publish(state.MovieImagesUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchTmdbTrailers loads the YouTube videos of a movie.
type FetchTmdbTrailers struct {
	movieTask
	result *tmdb.Videos
}

func NewFetchTmdbTrailers(deps *Deps, callingID, tmdbID int) *FetchTmdbTrailers {
	return &FetchTmdbTrailers{movieTask: newMovieTask(deps, callingID, "trailers", tmdbID)}
}

func (t *FetchTmdbTrailers) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.MovieVideos(ctx, t.tmdbID)
	return err
}

func (t *FetchTmdbTrailers) OnSuccess() {
	movie := t.movie()
	trailers := make([]models.Video, 0, len(t.result.Results))
	for _, v := range t.result.Results {
		if models.VideoSite(v.Site) != models.VideoSiteYouTube {
			continue
		}
		trailers = append(trailers, models.Video{Key: v.Key, Name: v.Name, Site: models.VideoSiteYouTube, Type: v.Type})
	}
	movie.Trailers = trailers
	t.store().Publish(state.MovieVideosUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchTmdbReleases loads the per-country theatrical releases of a movie. The release for the
// configured country, when there is one, becomes the movie's release date and certification.
type FetchTmdbReleases struct {
	movieTask
	result *tmdb.ReleaseDates
}

func NewFetchTmdbReleases(deps *Deps, callingID, tmdbID int) *FetchTmdbReleases {
	return &FetchTmdbReleases{movieTask: newMovieTask(deps, callingID, "releases", tmdbID)}
}

func (t *FetchTmdbReleases) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.MovieReleaseDates(ctx, t.tmdbID)
	return err
}

func (t *FetchTmdbReleases) OnSuccess() {
	movie := t.movie()
	releases := make([]models.Release, 0, len(t.result.Results))
	for _, country := range t.result.Results {
		for _, r := range country.ReleaseDates {
			if r.Type != tmdb.TheatricalReleaseType || r.ReleaseDate.IsZero() {
				continue
			}
			releases = append(releases, models.Release{
				Country:       country.Country,
				Certification: r.Certification,
				ReleasedAt:    r.ReleaseDate.Time,
			})
			break
		}
	}
	movie.Releases = releases

	if local, ok := movie.ReleaseFor(t.deps.Country); ok {
		movie.ReleasedAt = local.ReleasedAt
		if local.Certification != "" {
			movie.Certification = local.Certification
		}
	}
	t.store().Publish(state.MovieReleasesUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchTmdbRelated loads the first page of similar movies.
type FetchTmdbRelated struct {
	movieTask
	result *tmdb.MoviesPage
}

func NewFetchTmdbRelated(deps *Deps, callingID, tmdbID int) *FetchTmdbRelated {
	return &FetchTmdbRelated{movieTask: newMovieTask(deps, callingID, "related", tmdbID)}
}

func (t *FetchTmdbRelated) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.SimilarMovies(ctx, t.tmdbID, models.FirstPage)
	return err
}

func (t *FetchTmdbRelated) OnSuccess() {
	related := t.store().PutMovies(moviesFromTmdbPage(t.result))
	movie := t.movie()
	movie.Related = related
	t.store().Publish(state.MovieRelatedItemsUpdated{CallingID: t.callingID, Movie: movie})
}

// FetchPerson loads a person's details.
type FetchPerson struct {
	base
	personID int
	result   *tmdb.Person
}

func NewFetchPerson(deps *Deps, callingID, personID int) *FetchPerson {
	return &FetchPerson{
		base:     newBase(deps, callingID, models.SourceTMDB, "person:"+strconv.Itoa(personID)),
		personID: personID,
	}
}

func (t *FetchPerson) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.Person(ctx, t.personID)
	return err
}

func (t *FetchPerson) OnSuccess() {
	person := t.store().PutPerson(personFromTmdb(t.result, t.store().Now()))
	t.store().Publish(state.PersonChanged{CallingID: t.callingID, Person: person})
}

// FetchPersonCredits loads a person's filmography.
type FetchPersonCredits struct {
	base
	personID int
	result   *tmdb.PersonCredits
}

func NewFetchPersonCredits(deps *Deps, callingID, personID int) *FetchPersonCredits {
	t := &FetchPersonCredits{
		base:     newBase(deps, callingID, models.SourceTMDB, "person_credits:"+strconv.Itoa(personID)),
		personID: personID,
	}
	t.secondary = true
	return t
}

func (t *FetchPersonCredits) Call(ctx context.Context) (err error) {
	t.result, err = t.deps.TMDB.PersonMovieCredits(ctx, t.personID)
	return err
}

func (t *FetchPersonCredits) OnSuccess() {
	person := t.store().PutPerson(&models.Person{
		TmdbID:         t.personID,
		CastCredits:    personCredits(t.result.Cast),
		CrewCredits:    personCredits(t.result.Crew),
		FetchedCredits: true,
	})
	t.store().Publish(state.PersonChanged{CallingID: t.callingID, Person: person})
}
