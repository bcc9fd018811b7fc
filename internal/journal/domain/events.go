package domain

import (
	"github.com/reeljournal/reeljournal/pkg/events"
)

// Journal event types.
const (
	EventReviewCreated   = "review.created"
	EventReviewUpdated   = "review.updated"
	EventReviewDeleted   = "review.deleted"
	EventRatingSubmitted = "rating.submitted"
)

// NewReviewCreatedEvent describes a newly stored review.
func NewReviewCreatedEvent(r *Review, actorID string) *events.Event {
	return events.NewAggregateEvent(EventReviewCreated, r.ID.String(), map[string]interface{}{
		"slug":     r.Slug,
		"title":    r.Title,
		"kind":     string(r.Kind),
		"featured": r.Featured,
		"actor_id": actorID,
	})
}

// NewReviewUpdatedEvent describes an edit.
func NewReviewUpdatedEvent(r *Review, actorID string) *events.Event {
	return events.NewAggregateEvent(EventReviewUpdated, r.ID.String(), map[string]interface{}{
		"slug":     r.Slug,
		"title":    r.Title,
		"featured": r.Featured,
		"actor_id": actorID,
	})
}

// NewReviewDeletedEvent describes a removal; its ratings are gone too.
func NewReviewDeletedEvent(r *Review, actorID string) *events.Event {
	return events.NewAggregateEvent(EventReviewDeleted, r.ID.String(), map[string]interface{}{
		"slug":     r.Slug,
		"actor_id": actorID,
	})
}

// NewRatingSubmittedEvent carries the recomputed aggregate.
func NewRatingSubmittedEvent(r *Review, raterID string, score int, agg Aggregate) *events.Event {
	return events.NewAggregateEvent(EventRatingSubmitted, r.ID.String(), map[string]interface{}{
		"slug":     r.Slug,
		"rater_id": raterID,
		"score":    score,
		"average":  agg.Average,
		"count":    agg.Count,
	})
}
