package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	// Create stores a new review. A taken slug is a Conflict.
	Create(ctx context.Context, review *domain.Review) error
	// Update overwrites the mutable fields of an existing review.
	Update(ctx context.Context, review *domain.Review) error
	GetBySlug(ctx context.Context, slug string) (*domain.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	// DeleteBySlug removes the review and all its ratings atomically and
	// returns what was removed.
	DeleteBySlug(ctx context.Context, slug string) (*domain.Review, error)
	// List returns every review satisfying spec, in no particular order.
	List(ctx context.Context, spec domain.ReviewSpecification) ([]*domain.Review, error)
}

// RatingLedger defines the interface for rating data access.
type RatingLedger interface {
	// Submit inserts or replaces raterID's score for the review and returns
	// the recomputed aggregate.
	Submit(ctx context.Context, reviewID uuid.UUID, raterID string, score int) (domain.Aggregate, error)
	AggregateFor(ctx context.Context, reviewID uuid.UUID) (domain.Aggregate, error)
	// AggregatesFor returns an entry for every requested id, zero-valued for
	// reviews nobody has rated.
	AggregatesFor(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregate, error)
	// UserRatingFor returns raterID's score, with found=false if none exists.
	UserRatingFor(ctx context.Context, reviewID uuid.UUID, raterID string) (score int, found bool, err error)
	RatingsFor(ctx context.Context, reviewID uuid.UUID) ([]domain.Rating, error)
}
