package models

import (
	"cmp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var sortArticles = []string{"the ", "a ", "an "}

// SortTitle folds accents and drops a leading article so "The Élan" sorts as "elan".
func SortTitle(title string) string {
	folded := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(title)))
	for _, article := range sortArticles {
		if strings.HasPrefix(folded, article) && len(folded) > len(article) {
			return strings.TrimSpace(folded[len(article):])
		}
	}
	return folded
}

// CompareTitle orders movies by sort title, then year.
func CompareTitle(a, b *Movie) int {
	if c := cmp.Compare(SortTitle(a.Title), SortTitle(b.Title)); c != 0 {
		return c
	}
	return cmp.Compare(a.Year, b.Year)
}

// CompareReleaseDate orders movies by release time ascending. Movies without a date go last.
func CompareReleaseDate(a, b *Movie) int {
	switch {
	case a.ReleasedAt.IsZero() && b.ReleasedAt.IsZero():
		return 0
	case a.ReleasedAt.IsZero():
		return 1
	case b.ReleasedAt.IsZero():
		return -1
	}
	return a.ReleasedAt.Compare(b.ReleasedAt)
}
