package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"cinetrack/internal/controller"
	"cinetrack/models"
	"cinetrack/services/remote"
	"cinetrack/utils/filter"
)

// Image widths the console asks for; TMDB rounds them up to its nearest size.
const (
	posterWidth   = 342
	backdropWidth = 780
	profileWidth  = 185
)

// consoleUi prints whatever the controller pushes to it.
type consoleUi struct {
	query controller.QueryType
	param string
	out   io.Writer
	view  controller.View

	// images returns the TMDB image configuration. It is called from the sinks, on the looper.
	images func() *models.ImageConfiguration
}

func newConsoleUi(query controller.QueryType, param string, out io.Writer) *consoleUi {
	u := &consoleUi{query: query, param: param, out: out}
	switch query {
	case controller.QuerySearchPeople:
		u.view = controller.PersonListView{Sink: peopleSink{u}}
	case controller.QueryMovieDetail:
		u.view = controller.MovieDetailView{Sink: detailSink{u}}
	case controller.QueryMovieCast, controller.QueryMovieCrew:
		u.view = controller.MovieCreditListView{Sink: creditSink{u}}
	default:
		u.view = controller.MovieListView{Sink: listSink{u}}
	}
	return u
}

func (u *consoleUi) QueryType() controller.QueryType    { return u.query }
func (u *consoleUi) RequestParameter() string           { return u.param }
func (u *consoleUi) IsModal() bool                      { return false }
func (u *consoleUi) View() controller.View              { return u.view }
func (u *consoleUi) SetColorScheme(*models.ColorScheme) {}

func (u *consoleUi) ShowError(err *remote.CallError) {
	fmt.Fprintf(u.out, "! %s failed: %v\n", u.query, err)
}

func (u *consoleUi) ShowLoadingProgress(visible bool) {
	if visible {
		log.Printf("[movieshell] loading %s", u.query)
	}
}

func (u *consoleUi) ShowSecondaryLoadingProgress(visible bool) {
	if visible {
		log.Printf("[movieshell] loading more for %s", u.query)
	}
}

func (u *consoleUi) imageConfiguration() *models.ImageConfiguration {
	if u.images == nil {
		return nil
	}
	return u.images()
}

func (u *consoleUi) header(count int) {
	fmt.Fprintf(u.out, "-- %s", u.query)
	if u.param != "" {
		fmt.Fprintf(u.out, " %s", u.param)
	}
	fmt.Fprintf(u.out, " (%d)\n", count)
}

func flags(m *models.Movie) string {
	var parts []string
	if m.Watched {
		parts = append(parts, "seen")
	}
	if m.InCollection {
		parts = append(parts, "collection")
	}
	if m.InWatchlist {
		parts = append(parts, "watchlist")
	}
	if m.UserRating > 0 {
		parts = append(parts, fmt.Sprintf("rated %d", m.UserRating))
	}
	return strings.Join(parts, ",")
}

func formatMovie(m *models.Movie) string {
	year := ""
	if m.Year > 0 {
		year = fmt.Sprintf("(%d)", m.Year)
	}
	rating := m.TraktRatingPercent
	if rating == 0 {
		rating = m.TmdbRatingPercent
	}
	return strings.TrimSpace(fmt.Sprintf("%-40s %-6s %3d%% %s", m.Title, year, rating, flags(m)))
}

type listSink struct{ u *consoleUi }

func (s listSink) SetItems(items []filter.ListItem) {
	if items == nil {
		fmt.Fprintf(s.u.out, "-- %s not loaded yet\n", s.u.query)
		return
	}
	movies := 0
	for _, item := range items {
		if !item.IsHeader() {
			movies++
		}
	}
	s.u.header(movies)
	for _, item := range items {
		if item.IsHeader() {
			fmt.Fprintf(s.u.out, "[%s]\n", item.Section)
			continue
		}
		fmt.Fprintf(s.u.out, "  %s\n", formatMovie(item.Movie))
	}
}

func (s listSink) SetFiltersVisible(bool) {}

func (s listSink) ShowActiveFilters(active []filter.MovieFilter) {
	if len(active) > 0 {
		fmt.Fprintf(s.u.out, "   filters: %v\n", active)
	}
}

func (s listSink) AllowBatchOperations(...controller.MovieOperation) {}
func (s listSink) DisableBatchOperations()                           {}

type peopleSink struct{ u *consoleUi }

func (s peopleSink) SetItems(people []*models.Person) {
	s.u.header(len(people))
	images := s.u.imageConfiguration()
	for _, p := range people {
		line := fmt.Sprintf("  %-30s tmdb:%d %s", p.Name, p.TmdbID, images.ProfileURL(p.PicturePath, profileWidth))
		fmt.Fprintln(s.u.out, strings.TrimRight(line, " "))
	}
}

type creditSink struct{ u *consoleUi }

func (s creditSink) SetItems(credits []*models.MovieCredit) {
	s.u.header(len(credits))
	for _, c := range credits {
		if c.Person == nil {
			continue
		}
		role := c.Character
		if role == "" {
			role = c.Job
		}
		fmt.Fprintf(s.u.out, "  %-30s %s\n", c.Person.Name, role)
	}
}

type detailSink struct{ u *consoleUi }

func (s detailSink) SetMovie(m *models.Movie) {
	fmt.Fprintf(s.u.out, "-- %s\n", formatMovie(m))
	if m.Tagline != "" {
		fmt.Fprintf(s.u.out, "   %s\n", m.Tagline)
	}
	if m.Overview != "" {
		fmt.Fprintf(s.u.out, "   %s\n", m.Overview)
	}
	if len(m.Related) > 0 {
		fmt.Fprintf(s.u.out, "   %d related, %d cast, %d trailers\n", len(m.Related), len(m.Cast), len(m.Trailers))
	}
	images := s.u.imageConfiguration()
	if url := images.PosterURL(m.PosterPath, posterWidth); url != "" {
		fmt.Fprintf(s.u.out, "   poster:   %s\n", url)
	}
	if url := images.BackdropURL(m.BackdropPath, backdropWidth); url != "" {
		fmt.Fprintf(s.u.out, "   backdrop: %s\n", url)
	}
}

func (s detailSink) SetButtonsEnabled(controller.DetailButtons) {}
func (s detailSink) SetRateCircleEnabled(bool)                   {}
