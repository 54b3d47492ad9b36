package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"cinetrack/internal/controller"
	"cinetrack/models"
)

func TestDetailSink_PrintsImageURLs(t *testing.T) {
	var out bytes.Buffer
	ui := newConsoleUi(controller.QueryMovieDetail, "348", &out)
	ui.images = func() *models.ImageConfiguration {
		return &models.ImageConfiguration{
			BaseURL:       "https://image.tmdb.org/t/p/",
			PosterSizes:   []string{"w185", "w342", "w500", "original"},
			BackdropSizes: []string{"w300", "w780", "w1280", "original"},
		}
	}

	view, ok := ui.View().(controller.MovieDetailView)
	if !ok {
		t.Fatalf("Expected a detail view, got %T", ui.View())
	}
	view.Sink.SetMovie(&models.Movie{TmdbID: 348, Title: "Alien", PosterPath: "/alien.jpg", BackdropPath: "/nostromo.jpg"})

	assert.Contains(t, out.String(), "poster:   https://image.tmdb.org/t/p/w342/alien.jpg")
	assert.Contains(t, out.String(), "backdrop: https://image.tmdb.org/t/p/w780/nostromo.jpg")
}

func TestDetailSink_NoConfigurationNoURLs(t *testing.T) {
	var out bytes.Buffer
	ui := newConsoleUi(controller.QueryMovieDetail, "348", &out)
	ui.View().(controller.MovieDetailView).Sink.SetMovie(&models.Movie{TmdbID: 348, Title: "Alien", PosterPath: "/alien.jpg"})

	assert.Contains(t, out.String(), "Alien")
	assert.NotContains(t, out.String(), "poster:")
}
