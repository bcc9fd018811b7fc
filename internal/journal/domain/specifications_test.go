package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reeljournal/reeljournal/internal/domain/specification"
)

func TestTitleContainsSpecification(t *testing.T) {
	spec := TitleContainsSpecification{Text: "MATRIX"}

	assert.True(t, spec.IsSatisfiedBy(&Review{Title: "The Matrix"}))
	assert.False(t, spec.IsSatisfiedBy(&Review{Title: "Alien", Body: "no matrix here"}))

	sql, params := TitleContainsSpecification{Text: "100%_real"}.ToSQL()
	assert.Equal(t, `LOWER(title) LIKE ? ESCAPE '\'`, sql)
	assert.Equal(t, []interface{}{`%100\%\_real%`}, params)
}

func TestGenresSpecification(t *testing.T) {
	spec := GenresSpecification{Genres: []Genre{GenreComedy}}

	assert.True(t, spec.IsSatisfiedBy(&Review{Genres: []Genre{GenreDrama, GenreComedy}}))
	assert.False(t, spec.IsSatisfiedBy(&Review{Genres: []Genre{GenreDrama}}))

	_, params := GenresSpecification{Genres: []Genre{GenreComedy, GenreDrama}}.ToSQL()
	assert.Equal(t, []interface{}{[]string{"comedy", "drama"}, 2}, params)
}

func TestCombinedSpecification(t *testing.T) {
	spec := specification.And[*Review](
		KindSpecification{Kind: KindSeries},
		FeaturedSpecification{Featured: true},
	)

	assert.True(t, spec.IsSatisfiedBy(&Review{Kind: KindSeries, Featured: true}))
	assert.False(t, spec.IsSatisfiedBy(&Review{Kind: KindMovie, Featured: true}))

	sql, params := spec.ToSQL()
	assert.Equal(t, "(kind = ?) AND (featured = ?)", sql)
	assert.Equal(t, []interface{}{"series", true}, params)
}
