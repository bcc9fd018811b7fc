package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
)

// ReviewInput returns a valid input for title; override fields as needed.
func ReviewInput(title string) domain.ReviewInput {
	return domain.ReviewInput{
		Title:       title,
		Kind:        domain.KindMovie,
		Body:        "Notes on " + title + ".",
		DateWatched: "2024-01-15",
	}
}

// NewReview builds a valid review for title, owned by ownerID, watched on date.
func NewReview(t *testing.T, title, date string, ownerID string, mutate ...func(*domain.ReviewInput)) *domain.Review {
	t.Helper()

	in := ReviewInput(title)
	in.DateWatched = date
	for _, m := range mutate {
		m(&in)
	}

	r, err := domain.NewReview(in, ownerID, time.Now().UTC())
	require.NoError(t, err)
	return r
}

// ReviewCreator is the part of the review repository fixtures need.
type ReviewCreator interface {
	Create(ctx context.Context, review *domain.Review) error
}

// SeedReview builds and stores a review.
func SeedReview(t *testing.T, repo ReviewCreator, title, date string, mutate ...func(*domain.ReviewInput)) *domain.Review {
	t.Helper()

	r := NewReview(t, title, date, "owner-1", mutate...)
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

// WithKind sets the kind.
func WithKind(k domain.Kind) func(*domain.ReviewInput) {
	return func(in *domain.ReviewInput) { in.Kind = k }
}

// WithGenres sets the genre set.
func WithGenres(genres ...domain.Genre) func(*domain.ReviewInput) {
	return func(in *domain.ReviewInput) { in.Genres = genres }
}

// Featured marks the review as featured.
func Featured(in *domain.ReviewInput) {
	in.Featured = true
}
