package domain

import (
	"strings"

	"github.com/reeljournal/reeljournal/internal/domain/specification"
)

// ReviewSpecification filters reviews in memory and in SQL.
type ReviewSpecification = specification.Specification[*Review]

// KindSpecification matches reviews of one kind.
type KindSpecification struct {
	Kind Kind
}

func (s KindSpecification) IsSatisfiedBy(r *Review) bool {
	return r.Kind == s.Kind
}

func (s KindSpecification) ToSQL() (string, []interface{}) {
	return "kind = ?", []interface{}{string(s.Kind)}
}

// TitleContainsSpecification matches a case-insensitive substring of the
// title only. Other text fields are not searched.
type TitleContainsSpecification struct {
	Text string
}

func (s TitleContainsSpecification) IsSatisfiedBy(r *Review) bool {
	return strings.Contains(strings.ToLower(r.Title), strings.ToLower(s.Text))
}

func (s TitleContainsSpecification) ToSQL() (string, []interface{}) {
	return `LOWER(title) LIKE ? ESCAPE '\'`, []interface{}{"%" + escapeLike(strings.ToLower(s.Text)) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GenresSpecification matches reviews whose genre set contains every
// requested genre.
type GenresSpecification struct {
	Genres []Genre
}

func (s GenresSpecification) IsSatisfiedBy(r *Review) bool {
	return r.HasAllGenres(s.Genres)
}

func (s GenresSpecification) ToSQL() (string, []interface{}) {
	return "id IN (SELECT review_id FROM review_genres WHERE genre IN ? GROUP BY review_id HAVING COUNT(DISTINCT genre) = ?)",
		[]interface{}{genreStrings(s.Genres), len(s.Genres)}
}

// FeaturedSpecification matches on the featured flag.
type FeaturedSpecification struct {
	Featured bool
}

func (s FeaturedSpecification) IsSatisfiedBy(r *Review) bool {
	return r.Featured == s.Featured
}

func (s FeaturedSpecification) ToSQL() (string, []interface{}) {
	return "featured = ?", []interface{}{s.Featured}
}
