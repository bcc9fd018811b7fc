package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
	"github.com/reeljournal/reeljournal/pkg/repository"
)

// GormReviewRepository implements ReviewRepository on GORM.
type GormReviewRepository struct {
	db     *gorm.DB
	logger interfaces.Logger
}

var _ ReviewRepository = (*GormReviewRepository)(nil)

// NewGormReviewRepository creates a new GORM-based review repository.
func NewGormReviewRepository(db *gorm.DB, logger interfaces.Logger) *GormReviewRepository {
	return &GormReviewRepository{db: db, logger: logger}
}

// Create inserts the review row and its genre rows in one transaction.
func (r *GormReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.Slug == "" {
		return pkgerrors.InvalidField("title", "must contain at least one letter or digit")
	}

	m := toReviewModel(review)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.Create(ctx, tx.Omit(clause.Associations), "review", m); err != nil {
			if pkgerrors.IsConflict(err) {
				return pkgerrors.Conflict(fmt.Sprintf("a review with slug %q already exists", review.Slug))
			}
			return err
		}
		return insertGenres(ctx, tx, m.Genres)
	})
}

// Update overwrites the mutable columns and replaces the genre set.
func (r *GormReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	m := toReviewModel(review)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Review{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"title":          m.Title,
			"kind":           m.Kind,
			"poster_url":     m.PosterURL,
			"short_summary":  m.ShortSummary,
			"body":           m.Body,
			"date_watched":   m.DateWatched,
			"tags":           m.Tags,
			"gallery_images": m.GalleryImages,
			"featured":       m.Featured,
			"updated_at":     m.UpdatedAt,
		})
		if result.Error != nil {
			return fmt.Errorf("update review: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return pkgerrors.NotFound("review not found")
		}

		if _, err := repository.DeleteWhere[ReviewGenre](ctx, tx, "review_id = ?", m.ID); err != nil {
			return fmt.Errorf("clear review genres: %w", err)
		}
		return insertGenres(ctx, tx, m.Genres)
	})
}

// GetBySlug looks up a review by its exact slug.
func (r *GormReviewRepository) GetBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	m, err := repository.FindOneBy[Review](ctx, r.db, "review", []string{"Genres"}, "slug = ?", slug)
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// GetByID looks up a review by id.
func (r *GormReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	m, err := repository.FindOneBy[Review](ctx, r.db, "review", []string{"Genres"}, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return m.toDomain(), nil
}

// DeleteBySlug removes ratings, genres and the review in one transaction, so
// no reader sees ratings for a review that is gone.
func (r *GormReviewRepository) DeleteBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	var deleted *domain.Review

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repository.FindOneBy[Review](ctx, tx, "review", []string{"Genres"}, "slug = ?", slug)
		if err != nil {
			return err
		}

		ratings, err := repository.DeleteWhere[Rating](ctx, tx, "review_id = ?", m.ID)
		if err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}
		if _, err := repository.DeleteWhere[ReviewGenre](ctx, tx, "review_id = ?", m.ID); err != nil {
			return fmt.Errorf("delete review genres: %w", err)
		}
		n, err := repository.DeleteWhere[Review](ctx, tx, "id = ?", m.ID)
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		if n == 0 {
			return pkgerrors.NotFound("review not found")
		}

		r.logger.Debug("Review rows deleted",
			interfaces.String("slug", slug),
			interfaces.Int64("ratings", ratings))
		deleted = m.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// List pushes spec down as a WHERE clause.
func (r *GormReviewRepository) List(ctx context.Context, spec domain.ReviewSpecification) ([]*domain.Review, error) {
	q := r.db.WithContext(ctx).Preload("Genres")
	if spec != nil {
		where, args := spec.ToSQL()
		q = q.Where(where, args...)
	}

	var rows []*Review
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*domain.Review, len(rows))
	for i, m := range rows {
		reviews[i] = m.toDomain()
	}
	return reviews, nil
}

func insertGenres(ctx context.Context, tx *gorm.DB, rows []ReviewGenre) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert review genres: %w", err)
	}
	return nil
}
