package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) DeleteBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, spec domain.ReviewSpecification) ([]*domain.Review, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

// MockRatingLedger is a mock implementation of repository.RatingLedger
type MockRatingLedger struct {
	mock.Mock
}

func (m *MockRatingLedger) Submit(ctx context.Context, reviewID uuid.UUID, raterID string, score int) (domain.Aggregate, error) {
	args := m.Called(ctx, reviewID, raterID, score)
	return args.Get(0).(domain.Aggregate), args.Error(1)
}

func (m *MockRatingLedger) AggregateFor(ctx context.Context, reviewID uuid.UUID) (domain.Aggregate, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(domain.Aggregate), args.Error(1)
}

func (m *MockRatingLedger) AggregatesFor(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregate, error) {
	args := m.Called(ctx, reviewIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.Aggregate), args.Error(1)
}

func (m *MockRatingLedger) UserRatingFor(ctx context.Context, reviewID uuid.UUID, raterID string) (int, bool, error) {
	args := m.Called(ctx, reviewID, raterID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockRatingLedger) RatingsFor(ctx context.Context, reviewID uuid.UUID) ([]domain.Rating, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rating), args.Error(1)
}

// MockEventPublisher is a mock implementation of interfaces.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event interfaces.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
