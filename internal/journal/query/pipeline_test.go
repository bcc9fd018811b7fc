package query_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
	"github.com/reeljournal/reeljournal/internal/journal/query"
	"github.com/reeljournal/reeljournal/internal/journal/repository"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/logger"
	"github.com/reeljournal/reeljournal/test/testutil"
)

type PipelineTestSuite struct {
	suite.Suite
	reviews  *repository.GormReviewRepository
	ledger   *repository.GormRatingLedger
	pipeline *query.Pipeline
	ctx      context.Context
}

func (suite *PipelineTestSuite) SetupTest() {
	db := testutil.NewSQLiteDB(suite.T())
	suite.reviews = repository.NewGormReviewRepository(db, logger.NewNoopLogger())
	suite.ledger = repository.NewGormRatingLedger(db, logger.NewNoopLogger())
	suite.pipeline = query.NewPipeline(suite.reviews, suite.ledger, logger.NewNoopLogger())
	suite.ctx = context.Background()
}

func (suite *PipelineTestSuite) rate(r *domain.Review, scores ...int) {
	for i, s := range scores {
		_, err := suite.ledger.Submit(suite.ctx, r.ID, string(rune('a'+i)), s)
		suite.Require().NoError(err)
	}
}

func entrySlugs(entries []query.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Review.Slug
	}
	return out
}

func (suite *PipelineTestSuite) TestQuery_RatingSort() {
	// Arrange
	a := testutil.SeedReview(suite.T(), suite.reviews, "A", "2024-01-01")
	b := testutil.SeedReview(suite.T(), suite.reviews, "B", "2024-01-03")
	c := testutil.SeedReview(suite.T(), suite.reviews, "C", "2024-01-02")
	suite.rate(a, 3)
	suite.rate(b, 5, 4)
	_ = c

	// Act
	entries, err := suite.pipeline.Query(suite.ctx, query.Request{Sort: query.SortRating})

	// Assert
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"b", "a", "c"}, entrySlugs(entries))
	assert.Equal(suite.T(), domain.Aggregate{Average: 4.5, Count: 2}, entries[0].Aggregate)
	assert.Equal(suite.T(), domain.Aggregate{}, entries[2].Aggregate)
}

func (suite *PipelineTestSuite) TestQuery_RatingTiesBrokenByRecency() {
	old := testutil.SeedReview(suite.T(), suite.reviews, "Old", "2023-05-01")
	recent := testutil.SeedReview(suite.T(), suite.reviews, "Recent", "2024-05-01")
	suite.rate(old, 4)
	suite.rate(recent, 4)

	entries, err := suite.pipeline.Query(suite.ctx, query.Request{Sort: query.SortRating})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"recent", "old"}, entrySlugs(entries))
}

func (suite *PipelineTestSuite) TestQuery_RecencyIsDefault() {
	testutil.SeedReview(suite.T(), suite.reviews, "Middle", "2024-02-01")
	testutil.SeedReview(suite.T(), suite.reviews, "Newest", "2024-03-01")
	testutil.SeedReview(suite.T(), suite.reviews, "Oldest", "2024-01-01")

	entries, err := suite.pipeline.Query(suite.ctx, query.Request{})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"newest", "middle", "oldest"}, entrySlugs(entries))
}

func (suite *PipelineTestSuite) TestQuery_GenreContainment() {
	// Arrange
	testutil.SeedReview(suite.T(), suite.reviews, "Both", "2024-01-01",
		testutil.WithGenres(domain.GenreComedy, domain.GenreDrama))
	testutil.SeedReview(suite.T(), suite.reviews, "Comedy Only", "2024-01-02",
		testutil.WithGenres(domain.GenreComedy))

	// Act
	single, err := suite.pipeline.Query(suite.ctx, query.Request{Filters: query.Filters{Genres: []domain.Genre{domain.GenreComedy}}})
	suite.Require().NoError(err)
	both, err := suite.pipeline.Query(suite.ctx, query.Request{Filters: query.Filters{Genres: []domain.Genre{domain.GenreComedy, domain.GenreDrama}}})
	suite.Require().NoError(err)

	// Assert
	assert.ElementsMatch(suite.T(), []string{"both", "comedy-only"}, entrySlugs(single))
	assert.Equal(suite.T(), []string{"both"}, entrySlugs(both))
}

func (suite *PipelineTestSuite) TestQuery_FiltersCombine() {
	testutil.SeedReview(suite.T(), suite.reviews, "Dark", "2024-01-01",
		testutil.WithKind(domain.KindSeries), testutil.WithGenres(domain.GenreThriller))
	testutil.SeedReview(suite.T(), suite.reviews, "The Dark Knight", "2024-01-02",
		testutil.WithGenres(domain.GenreAction, domain.GenreThriller))
	testutil.SeedReview(suite.T(), suite.reviews, "Dark Waters", "2024-01-03",
		testutil.WithGenres(domain.GenreDrama))

	entries, err := suite.pipeline.Query(suite.ctx, query.Request{Filters: query.Filters{
		Kind:   domain.KindMovie,
		Text:   "dark",
		Genres: []domain.Genre{domain.GenreThriller},
	}})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"the-dark-knight"}, entrySlugs(entries))
}

func (suite *PipelineTestSuite) TestQuery_TextFoldsNonASCIICase() {
	testutil.SeedReview(suite.T(), suite.reviews, "ÉCOLE Amélie", "2024-01-01")
	testutil.SeedReview(suite.T(), suite.reviews, "Heat", "2024-01-02")

	for _, text := range []string{"école", "AMÉLIE", "ole am"} {
		entries, err := suite.pipeline.Query(suite.ctx, query.Request{Filters: query.Filters{Text: text}})

		suite.Require().NoError(err, text)
		suite.Require().Len(entries, 1, text)
		assert.Equal(suite.T(), "ÉCOLE Amélie", entries[0].Review.Title)
		assert.True(suite.T(), domain.TitleContainsSpecification{Text: text}.IsSatisfiedBy(entries[0].Review))
	}
}

func (suite *PipelineTestSuite) TestFeatured() {
	// Arrange
	testutil.SeedReview(suite.T(), suite.reviews, "Old Featured", "2023-01-01", testutil.Featured)
	testutil.SeedReview(suite.T(), suite.reviews, "New Featured", "2024-01-01", testutil.Featured)
	testutil.SeedReview(suite.T(), suite.reviews, "Plain", "2024-06-01")

	// Act
	entries, err := suite.pipeline.Featured(suite.ctx, 3)

	// Assert
	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"new-featured", "old-featured"}, entrySlugs(entries))
}

func (suite *PipelineTestSuite) TestLatest_RespectsLimit() {
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
		testutil.SeedReview(suite.T(), suite.reviews, "Day "+d, d)
	}

	entries, err := suite.pipeline.Latest(suite.ctx, 2)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), []string{"day-2024-01-04", "day-2024-01-03"}, entrySlugs(entries))
}

func (suite *PipelineTestSuite) TestQuery_EmptyStore() {
	entries, err := suite.pipeline.Query(suite.ctx, query.Request{Sort: query.SortRating})

	suite.Require().NoError(err)
	assert.NotNil(suite.T(), entries)
	assert.Empty(suite.T(), entries)
}

func (suite *PipelineTestSuite) TestQuery_InvalidInput() {
	tests := []struct {
		name  string
		req   query.Request
		field string
	}{
		{"kind", query.Request{Filters: query.Filters{Kind: "podcast"}}, "kind"},
		{"genre", query.Request{Filters: query.Filters{Genres: []domain.Genre{"western"}}}, "genre"},
		{"sort", query.Request{Sort: "alphabetical"}, "sort"},
		{"limit", query.Request{Limit: -1}, "limit"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.pipeline.Query(suite.ctx, tt.req)

			assert.True(suite.T(), pkgerrors.IsInvalidArgument(err))
			assert.Equal(suite.T(), tt.field, pkgerrors.FieldOf(err))
		})
	}
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

// MockAggregateSource is a mock implementation of query.AggregateSource
type MockAggregateSource struct {
	mock.Mock
}

func (m *MockAggregateSource) AggregatesFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Aggregate, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.Aggregate), args.Error(1)
}

// MockReviewLister is a mock implementation of query.ReviewLister
type MockReviewLister struct {
	mock.Mock
}

func (m *MockReviewLister) List(ctx context.Context, spec domain.ReviewSpecification) ([]*domain.Review, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

func TestQuery_AggregateFailurePropagates(t *testing.T) {
	reviews := new(MockReviewLister)
	ratings := new(MockAggregateSource)
	r := &domain.Review{ID: uuid.New(), Slug: "x", DateWatched: time.Now()}
	reviews.On("List", mock.Anything, mock.Anything).Return([]*domain.Review{r}, nil)
	ratings.On("AggregatesFor", mock.Anything, []uuid.UUID{r.ID}).Return(nil, errors.New("db down"))

	_, err := query.NewPipeline(reviews, ratings, logger.NewNoopLogger()).Query(context.Background(), query.Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	reviews.AssertExpectations(t)
	ratings.AssertExpectations(t)
}

func TestQuery_ReviewDeletedBetweenReadsGetsZeroAggregate(t *testing.T) {
	reviews := new(MockReviewLister)
	ratings := new(MockAggregateSource)
	kept := &domain.Review{ID: uuid.New(), Slug: "kept", DateWatched: time.Now()}
	gone := &domain.Review{ID: uuid.New(), Slug: "gone", DateWatched: time.Now().Add(-time.Hour)}
	reviews.On("List", mock.Anything, mock.Anything).Return([]*domain.Review{kept, gone}, nil)
	ratings.On("AggregatesFor", mock.Anything, mock.Anything).Return(map[uuid.UUID]domain.Aggregate{
		kept.ID: {Average: 2, Count: 1},
	}, nil)

	entries, err := query.NewPipeline(reviews, ratings, logger.NewNoopLogger()).Query(context.Background(), query.Request{Sort: query.SortRating})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0].Review.Slug)
	assert.Equal(t, domain.Aggregate{}, entries[1].Aggregate)
}

func TestParseSortOrder(t *testing.T) {
	s, err := query.ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, query.SortRecency, s)

	s, err = query.ParseSortOrder("Rating")
	require.NoError(t, err)
	assert.Equal(t, query.SortRating, s)

	_, err = query.ParseSortOrder("title")
	assert.True(t, pkgerrors.IsInvalidArgument(err))
}
