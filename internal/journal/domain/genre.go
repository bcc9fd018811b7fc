package domain

import (
	"slices"
	"strings"
)

// Genre is a value from the fixed genre vocabulary.
type Genre string

const (
	GenreAction      Genre = "action"
	GenreAnimation   Genre = "animation"
	GenreComedy      Genre = "comedy"
	GenreDocumentary Genre = "documentary"
	GenreDrama       Genre = "drama"
	GenreFantasy     Genre = "fantasy"
	GenreHorror      Genre = "horror"
	GenreRomance     Genre = "romance"
	GenreSciFi       Genre = "sci-fi"
	GenreThriller    Genre = "thriller"
)

var allGenres = []Genre{
	GenreAction,
	GenreAnimation,
	GenreComedy,
	GenreDocumentary,
	GenreDrama,
	GenreFantasy,
	GenreHorror,
	GenreRomance,
	GenreSciFi,
	GenreThriller,
}

// AllGenres returns the vocabulary in canonical order.
func AllGenres() []Genre {
	return slices.Clone(allGenres)
}

// IsValid reports whether g belongs to the vocabulary.
func (g Genre) IsValid() bool {
	return slices.Contains(allGenres, g)
}

// ParseGenre trims and lower-cases s and checks it against the vocabulary.
func ParseGenre(s string) (Genre, bool) {
	g := Genre(strings.ToLower(strings.TrimSpace(s)))
	return g, g.IsValid()
}

// NormalizeGenres removes duplicates and orders the set canonically.
// Unknown values are kept so validation can report them.
func NormalizeGenres(genres []Genre) []Genre {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[Genre]bool, len(genres))
	out := make([]Genre, 0, len(genres))
	for _, g := range genres {
		g = Genre(strings.ToLower(strings.TrimSpace(string(g))))
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b Genre) int {
		return genreRank(a) - genreRank(b)
	})
	return out
}

func genreRank(g Genre) int {
	if i := slices.Index(allGenres, g); i >= 0 {
		return i
	}
	return len(allGenres)
}

// ContainsAllGenres reports whether have is a superset of want.
func ContainsAllGenres(have, want []Genre) bool {
	for _, g := range want {
		if !slices.Contains(have, g) {
			return false
		}
	}
	return true
}

func genreStrings(genres []Genre) []string {
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = string(g)
	}
	return out
}
