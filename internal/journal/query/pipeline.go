package query

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/reeljournal/reeljournal/internal/domain/specification"
	"github.com/reeljournal/reeljournal/internal/journal/domain"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// SortOrder selects how query results are ordered.
type SortOrder string

const (
	// SortRecency orders by date watched, newest first.
	SortRecency SortOrder = "recency"
	// SortRating orders by average rating, best first; unrated reviews last.
	SortRating SortOrder = "rating"
)

// ParseSortOrder maps request input to a SortOrder; empty means recency.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRecency:
		return SortRecency, nil
	case SortRating:
		return SortRating, nil
	default:
		return "", pkgerrors.InvalidField("sort", fmt.Sprintf("must be %q or %q", SortRecency, SortRating))
	}
}

// Filters combine with AND. Zero values mean "no constraint".
type Filters struct {
	Kind     domain.Kind
	Text     string
	Genres   []domain.Genre
	Featured *bool
}

// Specification validates the filters and builds the matching predicate.
func (f Filters) Specification() (domain.ReviewSpecification, error) {
	var specs []domain.ReviewSpecification

	if f.Kind != "" {
		if !f.Kind.IsValid() {
			return nil, pkgerrors.InvalidField("kind", fmt.Sprintf("must be %q or %q", domain.KindMovie, domain.KindSeries))
		}
		specs = append(specs, domain.KindSpecification{Kind: f.Kind})
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		specs = append(specs, domain.TitleContainsSpecification{Text: text})
	}

	if genres := domain.NormalizeGenres(f.Genres); len(genres) > 0 {
		for _, g := range genres {
			if !g.IsValid() {
				return nil, pkgerrors.InvalidField("genre", fmt.Sprintf("unknown genre %q", g))
			}
		}
		specs = append(specs, domain.GenresSpecification{Genres: genres})
	}

	if f.Featured != nil {
		specs = append(specs, domain.FeaturedSpecification{Featured: *f.Featured})
	}

	return specification.And(specs...), nil
}

// Request is one listing request. Limit 0 returns every match.
type Request struct {
	Filters Filters
	Sort    SortOrder
	Limit   int
}

// Entry pairs a review with its rating aggregate at query time.
type Entry struct {
	Review    *domain.Review
	Aggregate domain.Aggregate
}

// ReviewLister is the part of the review repository the pipeline reads.
type ReviewLister interface {
	List(ctx context.Context, spec domain.ReviewSpecification) ([]*domain.Review, error)
}

// AggregateSource is the part of the rating ledger the pipeline reads.
type AggregateSource interface {
	AggregatesFor(ctx context.Context, reviewIDs []uuid.UUID) (map[uuid.UUID]domain.Aggregate, error)
}

// Pipeline answers listing queries: filter in storage, fetch aggregates in
// one batch, then sort and trim in memory.
type Pipeline struct {
	reviews ReviewLister
	ratings AggregateSource
	logger  interfaces.Logger
}

// NewPipeline creates a query pipeline.
func NewPipeline(reviews ReviewLister, ratings AggregateSource, logger interfaces.Logger) *Pipeline {
	return &Pipeline{reviews: reviews, ratings: ratings, logger: logger}
}

// Query runs req. The review fetch and the aggregate fetch are separate
// reads; a rating written between them shows up in the aggregate of a
// review that was already fetched, and a review deleted between them gets
// a zero aggregate. Both are accepted.
func (p *Pipeline) Query(ctx context.Context, req Request) ([]Entry, error) {
	if req.Limit < 0 {
		return nil, pkgerrors.InvalidField("limit", "must not be negative")
	}
	order := req.Sort
	if order == "" {
		order = SortRecency
	}
	if order != SortRecency && order != SortRating {
		return nil, pkgerrors.InvalidField("sort", fmt.Sprintf("unknown sort %q", order))
	}

	spec, err := req.Filters.Specification()
	if err != nil {
		return nil, err
	}

	reviews, err := p.reviews.List(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if len(reviews) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uuid.UUID, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	aggs, err := p.ratings.AggregatesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}

	entries := make([]Entry, len(reviews))
	for i, r := range reviews {
		entries[i] = Entry{Review: r, Aggregate: aggs[r.ID]}
	}

	switch order {
	case SortRating:
		slices.SortFunc(entries, compareByRating)
	default:
		slices.SortFunc(entries, compareByRecency)
	}

	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	p.logger.WithContext(ctx).Debug("Query answered",
		interfaces.String("sort", string(order)),
		interfaces.Int("matched", len(reviews)),
		interfaces.Int("returned", len(entries)))

	return entries, nil
}

// Featured returns up to limit featured reviews, newest first.
func (p *Pipeline) Featured(ctx context.Context, limit int) ([]Entry, error) {
	featured := true
	return p.Query(ctx, Request{
		Filters: Filters{Featured: &featured},
		Sort:    SortRecency,
		Limit:   limit,
	})
}

// Latest returns up to limit reviews, newest first.
func (p *Pipeline) Latest(ctx context.Context, limit int) ([]Entry, error) {
	return p.Query(ctx, Request{Sort: SortRecency, Limit: limit})
}

// compareByRecency: dateWatched desc, createdAt desc, then id for a total order.
func compareByRecency(a, b Entry) int {
	if c := b.Review.DateWatched.Compare(a.Review.DateWatched); c != 0 {
		return c
	}
	if c := b.Review.CreatedAt.Compare(a.Review.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.Review.ID.String(), b.Review.ID.String())
}

// compareByRating: rated before unrated, higher average first, ties by recency.
func compareByRating(a, b Entry) int {
	if a.Aggregate.Rated() != b.Aggregate.Rated() {
		if a.Aggregate.Rated() {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.Aggregate.Average, a.Aggregate.Average); c != 0 {
		return c
	}
	return compareByRecency(a, b)
}
