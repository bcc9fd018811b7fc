//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
	"github.com/reeljournal/reeljournal/internal/journal/repository"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/logger"
	"github.com/reeljournal/reeljournal/test/testutil"
)

type PostgresJournalTestSuite struct {
	suite.Suite
	container *testutil.PostgresContainer
	reviews   *repository.GormReviewRepository
	ledger    *repository.GormRatingLedger
	ctx       context.Context
}

func (suite *PostgresJournalTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.container = testutil.SetupPostgresContainer(suite.T())
	suite.reviews = repository.NewGormReviewRepository(suite.container.DB, logger.NewNoopLogger())
	suite.ledger = repository.NewGormRatingLedger(suite.container.DB, logger.NewNoopLogger())
}

func (suite *PostgresJournalTestSuite) SetupTest() {
	suite.Require().NoError(suite.container.TruncateJournal())
}

func (suite *PostgresJournalTestSuite) TestSlugConflict() {
	testutil.SeedReview(suite.T(), suite.reviews, "Alien", "2024-01-01")

	err := suite.reviews.Create(suite.ctx, testutil.NewReview(suite.T(), "alien", "2024-01-02", "other"))

	assert.True(suite.T(), pkgerrors.IsConflict(err))
}

func (suite *PostgresJournalTestSuite) TestUpsertAndCascade() {
	review := testutil.SeedReview(suite.T(), suite.reviews, "Heat", "2024-01-01",
		testutil.WithGenres(domain.GenreDrama, domain.GenreThriller))

	_, err := suite.ledger.Submit(suite.ctx, review.ID, "u", 2)
	suite.Require().NoError(err)
	agg, err := suite.ledger.Submit(suite.ctx, review.ID, "u", 4)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.Aggregate{Average: 4, Count: 1}, agg)

	found, err := suite.reviews.List(suite.ctx, domain.GenresSpecification{Genres: []domain.Genre{domain.GenreThriller, domain.GenreDrama}})
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)

	_, err = suite.reviews.DeleteBySlug(suite.ctx, "heat")
	suite.Require().NoError(err)

	rows, err := suite.ledger.RatingsFor(suite.ctx, review.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), rows)
}

func (suite *PostgresJournalTestSuite) TestTitleSearch() {
	testutil.SeedReview(suite.T(), suite.reviews, "The Office", "2024-01-01")
	testutil.SeedReview(suite.T(), suite.reviews, "Heat", "2024-01-02")

	found, err := suite.reviews.List(suite.ctx, domain.TitleContainsSpecification{Text: "oFFice"})
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	assert.Equal(suite.T(), "the-office", found[0].Slug)
}

func (suite *PostgresJournalTestSuite) TestConcurrentSubmitsKeepOneRowPerRater() {
	review := testutil.SeedReview(suite.T(), suite.reviews, "Memento", "2024-01-01")

	const raters = 8
	var wg sync.WaitGroup
	errs := make(chan error, raters*domain.MaxScore)
	for r := 0; r < raters; r++ {
		rater := fmt.Sprintf("rater-%d", r)
		for score := domain.MinScore; score <= domain.MaxScore; score++ {
			wg.Add(1)
			go func(rater string, score int) {
				defer wg.Done()
				if _, err := suite.ledger.Submit(suite.ctx, review.ID, rater, score); err != nil {
					errs <- err
				}
			}(rater, score)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.Require().NoError(err)
	}

	rows, err := suite.ledger.RatingsFor(suite.ctx, review.ID)
	suite.Require().NoError(err)
	suite.Require().Len(rows, raters)

	seen := make(map[string]bool, raters)
	var total int
	for _, row := range rows {
		assert.False(suite.T(), seen[row.RaterID], "duplicate row for %s", row.RaterID)
		seen[row.RaterID] = true
		assert.GreaterOrEqual(suite.T(), row.Score, domain.MinScore)
		assert.LessOrEqual(suite.T(), row.Score, domain.MaxScore)
		total += row.Score
	}

	agg, err := suite.ledger.AggregateFor(suite.ctx, review.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(raters), agg.Count)
	assert.InDelta(suite.T(), float64(total)/raters, agg.Average, 1e-9)
}

func TestPostgresJournalTestSuite(t *testing.T) {
	suite.Run(t, new(PostgresJournalTestSuite))
}
