package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/reeljournal/reeljournal/internal/journal/domain"
)

// Review is the GORM model for reviews.
type Review struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Slug          string                      `gorm:"type:varchar(255);not null;uniqueIndex:uq_reviews_slug"`
	Title         string                      `gorm:"type:varchar(255);not null"`
	Kind          string                      `gorm:"type:varchar(16);not null;index"`
	PosterURL     string                      `gorm:"type:text"`
	ShortSummary  string                      `gorm:"type:text"`
	Body          string                      `gorm:"type:text;not null"`
	DateWatched   time.Time                   `gorm:"type:date;not null;index"`
	Tags          datatypes.JSONSlice[string] `gorm:"column:tags"`
	GalleryImages datatypes.JSONSlice[string] `gorm:"column:gallery_images"`
	Featured      bool                        `gorm:"not null;default:false;index"`
	OwnerID       string                      `gorm:"type:varchar(128);index"`
	CreatedAt     time.Time                   `gorm:"not null"`
	UpdatedAt     time.Time                   `gorm:"not null"`

	Genres  []ReviewGenre `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	Ratings []Rating      `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Review
func (Review) TableName() string {
	return "reviews"
}

// ReviewGenre is one genre of one review. The composite key keeps the set
// duplicate-free.
type ReviewGenre struct {
	ReviewID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Genre    string    `gorm:"type:varchar(32);primaryKey;index"`
}

// TableName returns the table name for ReviewGenre
func (ReviewGenre) TableName() string {
	return "review_genres"
}

// Rating is the GORM model for ratings. uq_ratings_review_rater enforces one
// row per identity per review.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_ratings_review_rater"`
	RaterID   string    `gorm:"type:varchar(128);not null;uniqueIndex:uq_ratings_review_rater;index"`
	Score     int       `gorm:"not null;check:score BETWEEN 1 AND 5"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for Rating
func (Rating) TableName() string {
	return "ratings"
}

// Models lists every journal model in migration order.
func Models() []interface{} {
	return []interface{}{&Review{}, &ReviewGenre{}, &Rating{}}
}

func toReviewModel(r *domain.Review) *Review {
	m := &Review{
		ID:            r.ID,
		Slug:          r.Slug,
		Title:         r.Title,
		Kind:          string(r.Kind),
		PosterURL:     r.PosterURL,
		ShortSummary:  r.ShortSummary,
		Body:          r.Body,
		DateWatched:   domain.TruncateDate(r.DateWatched),
		Tags:          datatypes.JSONSlice[string](r.Tags),
		GalleryImages: datatypes.JSONSlice[string](r.GalleryImages),
		Featured:      r.Featured,
		OwnerID:       r.OwnerID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	m.Genres = genreRows(r.ID, r.Genres)
	return m
}

func genreRows(reviewID uuid.UUID, genres []domain.Genre) []ReviewGenre {
	rows := make([]ReviewGenre, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, ReviewGenre{ReviewID: reviewID, Genre: string(g)})
	}
	return rows
}

func (m *Review) toDomain() *domain.Review {
	var genres []domain.Genre
	for _, g := range m.Genres {
		genres = append(genres, domain.Genre(g.Genre))
	}

	return &domain.Review{
		ID:            m.ID,
		Slug:          m.Slug,
		Title:         m.Title,
		Kind:          domain.Kind(m.Kind),
		PosterURL:     m.PosterURL,
		ShortSummary:  m.ShortSummary,
		Body:          m.Body,
		DateWatched:   domain.TruncateDate(m.DateWatched),
		Tags:          nilIfEmpty([]string(m.Tags)),
		Genres:        domain.NormalizeGenres(genres),
		GalleryImages: nilIfEmpty([]string(m.GalleryImages)),
		Featured:      m.Featured,
		OwnerID:       m.OwnerID,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

func (m *Rating) toDomain() domain.Rating {
	return domain.Rating{
		ID:        m.ID,
		ReviewID:  m.ReviewID,
		RaterID:   m.RaterID,
		Score:     m.Score,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
