package models

import (
	"strconv"
	"strings"
)

// ImageConfiguration describes how TMDB image paths turn into URLs. It is global data and
// survives logout.
type ImageConfiguration struct {
	BaseURL       string   `json:"baseUrl"`
	PosterSizes   []string `json:"posterSizes"`
	BackdropSizes []string `json:"backdropSizes"`
	ProfileSizes  []string `json:"profileSizes"`
}

// PosterURL returns the URL of a poster at least width pixels wide.
func (c *ImageConfiguration) PosterURL(path string, width int) string {
	return c.build(path, c.PosterSizes, width)
}

// BackdropURL returns the URL of a backdrop at least width pixels wide.
func (c *ImageConfiguration) BackdropURL(path string, width int) string {
	return c.build(path, c.BackdropSizes, width)
}

// ProfileURL returns the URL of a profile picture at least width pixels wide.
func (c *ImageConfiguration) ProfileURL(path string, width int) string {
	return c.build(path, c.ProfileSizes, width)
}

func (c *ImageConfiguration) build(path string, sizes []string, width int) string {
	if c == nil || path == "" || c.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + selectSize(sizes, width) + "/" + strings.TrimLeft(path, "/")
}

// selectSize picks the smallest "wNNN" bucket that is at least width wide, falling back to
// "original".
func selectSize(sizes []string, width int) string {
	best, bestWidth := "", 0
	for _, size := range sizes {
		if !strings.HasPrefix(size, "w") {
			continue
		}
		w, err := strconv.Atoi(size[1:])
		if err != nil || w < width {
			continue
		}
		if best == "" || w < bestWidth {
			best, bestWidth = size, w
		}
	}
	if best == "" {
		return "original"
	}
	return best
}
