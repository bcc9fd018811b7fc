package service

import (
	"context"
	"fmt"
	"time"

	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/internal/journal/domain"
	"github.com/reeljournal/reeljournal/internal/journal/query"
	"github.com/reeljournal/reeljournal/internal/journal/repository"
	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/events"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// ReviewDetail is everything the detail page shows for one review.
type ReviewDetail struct {
	Review    *domain.Review
	Aggregate domain.Aggregate
	// ViewerScore is the viewer's own rating, nil when anonymous or unrated.
	ViewerScore *int
}

// JournalService gates writes on identity and ownership, publishes events
// after successful writes and serves the read views.
type JournalService struct {
	reviews  repository.ReviewRepository
	ratings  repository.RatingLedger
	pipeline *query.Pipeline
	events   interfaces.EventPublisher
	settings config.JournalSettings
	logger   interfaces.Logger
	now      func() time.Time
}

// NewJournalService creates a new journal service.
func NewJournalService(
	reviews repository.ReviewRepository,
	ratings repository.RatingLedger,
	pipeline *query.Pipeline,
	publisher interfaces.EventPublisher,
	settings config.JournalSettings,
	logger interfaces.Logger,
) *JournalService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &JournalService{
		reviews:  reviews,
		ratings:  ratings,
		pipeline: pipeline,
		events:   publisher,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateReview stores a new review owned by actor.
func (s *JournalService) CreateReview(ctx context.Context, actor *identity.Identity, in domain.ReviewInput) (*domain.Review, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	review, err := domain.NewReview(in, actor.ID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewReviewCreatedEvent(review, actor.ID))
	s.logger.WithContext(ctx).Info("Review created",
		interfaces.String("review_id", review.ID.String()),
		interfaces.String("slug", review.Slug),
		interfaces.String("actor_id", actor.ID))

	return review, nil
}

// UpdateReview applies patch to the review at slug. The merged result is
// validated as a whole; the slug never changes.
func (s *JournalService) UpdateReview(ctx context.Context, actor *identity.Identity, slug string, patch domain.ReviewPatch) (*domain.Review, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	review, err := s.reviews.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, review); err != nil {
		return nil, err
	}

	in := review.Input()
	patch.ApplyTo(&in)
	if err := review.Apply(in, s.now()); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.NewReviewUpdatedEvent(review, actor.ID))
	s.logger.WithContext(ctx).Info("Review updated",
		interfaces.String("review_id", review.ID.String()),
		interfaces.String("actor_id", actor.ID))

	return review, nil
}

// GetReview returns the review at slug; a missing slug is NotFound.
func (s *JournalService) GetReview(ctx context.Context, slug string) (*domain.Review, error) {
	return s.reviews.GetBySlug(ctx, slug)
}

// ReviewDetail returns the review at slug with its aggregate and, for a
// signed-in viewer, their own score.
func (s *JournalService) ReviewDetail(ctx context.Context, viewer *identity.Identity, slug string) (*ReviewDetail, error) {
	review, err := s.reviews.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	agg, err := s.ratings.AggregateFor(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	detail := &ReviewDetail{Review: review, Aggregate: agg}
	if viewer != nil {
		score, found, err := s.ratings.UserRatingFor(ctx, review.ID, viewer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load viewer rating: %w", err)
		}
		if found {
			detail.ViewerScore = &score
		}
	}
	return detail, nil
}

// DeleteReview removes the review at slug together with all its ratings.
func (s *JournalService) DeleteReview(ctx context.Context, actor *identity.Identity, slug string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	if !s.settings.SharedEditing {
		review, err := s.reviews.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if err := s.authorize(actor, review); err != nil {
			return err
		}
	}

	removed, err := s.reviews.DeleteBySlug(ctx, slug)
	if err != nil {
		return err
	}

	s.publish(ctx, domain.NewReviewDeletedEvent(removed, actor.ID))
	s.logger.WithContext(ctx).Info("Review deleted",
		interfaces.String("review_id", removed.ID.String()),
		interfaces.String("slug", removed.Slug),
		interfaces.String("actor_id", actor.ID))

	return nil
}

// SubmitRating records actor's score for the review at slug, replacing any
// earlier score, and returns the new aggregate.
func (s *JournalService) SubmitRating(ctx context.Context, actor *identity.Identity, slug string, score int) (domain.Aggregate, error) {
	if err := requireActor(actor); err != nil {
		return domain.Aggregate{}, err
	}
	if err := domain.ValidateScore(score); err != nil {
		return domain.Aggregate{}, err
	}

	review, err := s.reviews.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Aggregate{}, err
	}

	agg, err := s.ratings.Submit(ctx, review.ID, actor.ID, score)
	if err != nil {
		return domain.Aggregate{}, err
	}

	s.publish(ctx, domain.NewRatingSubmittedEvent(review, actor.ID, score, agg))
	s.logger.WithContext(ctx).Debug("Rating submitted",
		interfaces.String("review_id", review.ID.String()),
		interfaces.String("rater_id", actor.ID),
		interfaces.Int("score", score))

	return agg, nil
}

// Query runs a listing request. With a configured maximum the limit is
// capped, and limit 0 means the maximum; without one, 0 returns every match.
func (s *JournalService) Query(ctx context.Context, req query.Request) ([]query.Entry, error) {
	if maxLimit := s.settings.MaxQueryLimit; maxLimit > 0 && (req.Limit == 0 || req.Limit > maxLimit) {
		req.Limit = maxLimit
	}
	return s.pipeline.Query(ctx, req)
}

// Featured returns featured reviews; limit 0 uses the configured default.
func (s *JournalService) Featured(ctx context.Context, limit int) ([]query.Entry, error) {
	if limit == 0 {
		limit = s.settings.FeaturedLimit
	}
	return s.pipeline.Featured(ctx, s.capLimit(limit))
}

// Latest returns the newest reviews; limit 0 uses the configured default.
func (s *JournalService) Latest(ctx context.Context, limit int) ([]query.Entry, error) {
	if limit == 0 {
		limit = s.settings.LatestLimit
	}
	return s.pipeline.Latest(ctx, s.capLimit(limit))
}

func (s *JournalService) capLimit(limit int) int {
	if maxLimit := s.settings.MaxQueryLimit; maxLimit > 0 && limit > maxLimit {
		return maxLimit
	}
	return limit
}

func (s *JournalService) authorize(actor *identity.Identity, review *domain.Review) error {
	if s.settings.SharedEditing || review.OwnedBy(actor.ID) {
		return nil
	}
	return errors.Forbidden("only the owner may change this review")
}

// publish sends event after a committed write. Delivery failures are
// logged; the write already happened.
func (s *JournalService) publish(ctx context.Context, event *events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithContext(ctx).Warn("Failed to publish event",
			interfaces.String("event_type", event.EventType()),
			interfaces.String("aggregate_id", event.AggregateID()),
			interfaces.Error(err))
	}
}

func requireActor(actor *identity.Identity) error {
	if actor == nil || actor.ID == "" {
		return errors.Unauthorized("sign in required")
	}
	return nil
}
