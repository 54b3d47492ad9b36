package controller

import "cinetrack/models"

//go:generate mockgen -source=display.go -destination=mocks/display.go -package=mocks

// Display is the navigation and chrome collaborator. Every call is fire and forget.
type Display interface {
	ShowMovieDetail(movieID string)
	ShowPersonDetail(personID string)
	ShowRelatedMovies(movieID string)
	ShowCastList(movieID string)
	ShowCrewList(movieID string)
	ShowMovieImages(movieID string)
	ShowPersonCastCredits(personID string)
	ShowPersonCrewCredits(personID string)
	ShowSearchMovies()
	ShowSearchPeople()
	ShowRateMovie(movieID string)
	ShowCheckin(movieID string)
	ShowCancelCheckin()
	PlayYouTubeVideo(key string)

	SetTitle(title string)
	SetSubtitle(subtitle string)
	ShowUpNavigation(show bool)
	SetColorScheme(scheme *models.ColorScheme)
	SetStatusBarColor(scrollPercentage float64)
}
