package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Star scale bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one identity's score for one review. There is at most one per
// (ReviewID, RaterID); resubmitting replaces Score.
type Rating struct {
	ID        uuid.UUID
	ReviewID  uuid.UUID
	RaterID   string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Aggregate summarises the ratings of one review at read time.
type Aggregate struct {
	Average float64
	Count   int64
}

// NewAggregate computes the mean from a score total and row count.
func NewAggregate(total, count int64) Aggregate {
	if count == 0 {
		return Aggregate{}
	}
	return Aggregate{
		Average: float64(total) / float64(count),
		Count:   count,
	}
}

// Rated reports whether at least one rating exists.
func (a Aggregate) Rated() bool {
	return a.Count > 0
}

// Rounded returns the average to one decimal place, as shown next to the stars.
func (a Aggregate) Rounded() float64 {
	return math.Round(a.Average*10) / 10
}
