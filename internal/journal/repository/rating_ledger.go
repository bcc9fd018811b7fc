package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
	"github.com/reeljournal/reeljournal/pkg/repository"
)

// aggregateBatch bounds the IN list of one grouped aggregate query.
const aggregateBatch = 500

// GormRatingLedger implements RatingLedger on GORM.
type GormRatingLedger struct {
	db     *gorm.DB
	logger interfaces.Logger
}

var _ RatingLedger = (*GormRatingLedger)(nil)

// NewGormRatingLedger creates a new GORM-based rating ledger.
func NewGormRatingLedger(db *gorm.DB, logger interfaces.Logger) *GormRatingLedger {
	return &GormRatingLedger{db: db, logger: logger}
}

// Submit upserts on (review_id, rater_id) in a single statement, so two
// concurrent submissions by the same rater leave exactly one row.
func (l *GormRatingLedger) Submit(ctx context.Context, reviewID uuid.UUID, raterID string, score int) (domain.Aggregate, error) {
	if raterID == "" {
		return domain.Aggregate{}, pkgerrors.Unauthorized("sign in to rate")
	}
	if err := domain.ValidateScore(score); err != nil {
		return domain.Aggregate{}, err
	}

	var agg domain.Aggregate
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repository.Exists[Review](ctx, tx, "id = ?", reviewID)
		if err != nil {
			return fmt.Errorf("check review: %w", err)
		}
		if !exists {
			return pkgerrors.NotFound("review not found")
		}

		now := time.Now().UTC()
		row := Rating{
			ID:        uuid.New(),
			ReviewID:  reviewID,
			RaterID:   raterID,
			Score:     score,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "review_id"}, {Name: "rater_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"score":      score,
				"updated_at": now,
			}),
		}).Create(&row).Error
		if err != nil {
			if pkgerrors.IsForeignKeyError(err) {
				return pkgerrors.NotFound("review not found")
			}
			return fmt.Errorf("upsert rating: %w", err)
		}

		aggs, err := aggregates(ctx, tx, []uuid.UUID{reviewID})
		if err != nil {
			return err
		}
		agg = aggs[reviewID]
		return nil
	})
	if err != nil {
		return domain.Aggregate{}, err
	}
	return agg, nil
}

// AggregateFor returns the average and count for one review.
func (l *GormRatingLedger) AggregateFor(ctx context.Context, reviewID uuid.UUID) (domain.Aggregate, error) {
	aggs, err := aggregates(ctx, l.db, []uuid.UUID{reviewID})
	if err != nil {
		return domain.Aggregate{}, err
	}
	return aggs[reviewID], nil
}

// AggregatesFor computes aggregates for many reviews with one grouped query
// per batch.
func (l *GormRatingLedger) AggregatesFor(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregate, error) {
	return aggregates(ctx, l.db, reviewIDs)
}

// UserRatingFor returns the score raterID gave the review, if any.
func (l *GormRatingLedger) UserRatingFor(ctx context.Context, reviewID uuid.UUID, raterID string) (int, bool, error) {
	if raterID == "" {
		return 0, false, nil
	}
	m, err := repository.FindOneBy[Rating](ctx, l.db, "rating", nil, "review_id = ? AND rater_id = ?", reviewID, raterID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return m.Score, true, nil
}

// RatingsFor lists the raw rating rows of a review, oldest first.
func (l *GormRatingLedger) RatingsFor(ctx context.Context, reviewID uuid.UUID) ([]domain.Rating, error) {
	var rows []Rating
	err := l.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	ratings := make([]domain.Rating, len(rows))
	for i := range rows {
		ratings[i] = rows[i].toDomain()
	}
	return ratings, nil
}

type aggregateRow struct {
	ReviewID    uuid.UUID
	ScoreTotal  int64
	RatingCount int64
}

func aggregates(ctx context.Context, db *gorm.DB, reviewIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregate, error) {
	out := make(map[uuid.UUID]domain.Aggregate, len(reviewIDs))
	for _, id := range reviewIDs {
		out[id] = domain.Aggregate{}
	}

	for start := 0; start < len(reviewIDs); start += aggregateBatch {
		end := min(start+aggregateBatch, len(reviewIDs))

		var rows []aggregateRow
		err := db.WithContext(ctx).
			Model(&Rating{}).
			Select("review_id, COALESCE(SUM(score), 0) AS score_total, COUNT(*) AS rating_count").
			Where("review_id IN ?", reviewIDs[start:end]).
			Group("review_id").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
		}

		for _, row := range rows {
			out[row.ReviewID] = domain.NewAggregate(row.ScoreTotal, row.RatingCount)
		}
	}

	return out, nil
}
