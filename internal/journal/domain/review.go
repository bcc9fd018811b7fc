package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes films from series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return k == KindMovie || k == KindSeries
}

// ParseKind accepts "movie" or "series" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown kind %q", s)
	}
	return k, nil
}

// DateLayout is the wire format of DateWatched.
const DateLayout = "2006-01-02"

// MaxGalleryImages caps the gallery.
const MaxGalleryImages = 10

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// TruncateDate drops the clock part of t, in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Review is one journal entry. ID and Slug never change once assigned.
type Review struct {
	ID            uuid.UUID
	Slug          string
	Title         string
	Kind          Kind
	PosterURL     string
	ShortSummary  string
	Body          string
	DateWatched   time.Time
	Tags          []string
	Genres        []Genre
	GalleryImages []string
	Featured      bool
	OwnerID       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewReview validates in and builds a review owned by ownerID. The slug is
// derived from the title; a title with no letters or digits is rejected.
func NewReview(in ReviewInput, ownerID string, now time.Time) (*Review, error) {
	in.Normalize()
	if err := ValidateInput(in); err != nil {
		return nil, err
	}

	slug := GenerateSlug(in.Title)
	if slug == "" {
		return nil, errSlugless()
	}

	r := &Review{
		ID:        uuid.New(),
		Slug:      slug,
		OwnerID:   ownerID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	r.apply(in)
	return r, nil
}

// Apply validates in and overwrites the mutable fields. Slug, ID, owner
// and CreatedAt are left untouched.
func (r *Review) Apply(in ReviewInput, now time.Time) error {
	in.Normalize()
	if err := ValidateInput(in); err != nil {
		return err
	}
	r.apply(in)
	r.UpdatedAt = now.UTC()
	return nil
}

func (r *Review) apply(in ReviewInput) {
	date, _ := ParseDate(in.DateWatched) // validated

	r.Title = in.Title
	r.Kind = in.Kind
	r.PosterURL = in.PosterURL
	r.ShortSummary = in.ShortSummary
	r.Body = in.Body
	r.DateWatched = date
	r.Tags = in.Tags
	r.Genres = in.Genres
	r.GalleryImages = in.GalleryImages
	r.Featured = in.Featured
}

// Input returns the editable fields of r, the starting point for a patch.
func (r *Review) Input() ReviewInput {
	return ReviewInput{
		Title:         r.Title,
		Kind:          r.Kind,
		PosterURL:     r.PosterURL,
		ShortSummary:  r.ShortSummary,
		Body:          r.Body,
		DateWatched:   r.DateWatched.UTC().Format(DateLayout),
		Tags:          append([]string(nil), r.Tags...),
		Genres:        append([]Genre(nil), r.Genres...),
		GalleryImages: append([]string(nil), r.GalleryImages...),
		Featured:      r.Featured,
	}
}

// HasAllGenres reports whether the review carries every genre in want.
func (r *Review) HasAllGenres(want []Genre) bool {
	return ContainsAllGenres(r.Genres, want)
}

// OwnedBy reports whether userID may edit r under strict ownership.
// Reviews without a recorded owner are editable by anyone.
func (r *Review) OwnedBy(userID string) bool {
	return r.OwnerID == "" || r.OwnerID == userID
}

// Excerpt returns at most n runes of the short summary, or of the body
// when there is no summary.
func (r *Review) Excerpt(n int) string {
	src := r.ShortSummary
	if src == "" {
		src = r.Body
	}
	runes := []rune(strings.TrimSpace(src))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}

// ReviewInput carries the editable fields of a review as submitted.
type ReviewInput struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Kind          Kind     `json:"kind" validate:"required,kind"`
	PosterURL     string   `json:"poster_url" validate:"omitempty,url,max=2048"`
	ShortSummary  string   `json:"short_summary" validate:"max=500"`
	Body          string   `json:"body" validate:"required,max=100000"`
	DateWatched   string   `json:"date_watched" validate:"required,datetime=2006-01-02"`
	Tags          []string `json:"tags" validate:"max=30,dive,max=50"`
	Genres        []Genre  `json:"genres" validate:"dive,genre"`
	GalleryImages []string `json:"gallery_images" validate:"max=10,dive,url,max=2048"`
	Featured      bool     `json:"featured"`
}

// Normalize trims text fields and canonicalises the tag and genre sets.
func (in *ReviewInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Kind = Kind(strings.ToLower(strings.TrimSpace(string(in.Kind))))
	in.PosterURL = strings.TrimSpace(in.PosterURL)
	in.ShortSummary = strings.TrimSpace(in.ShortSummary)
	in.Body = strings.TrimSpace(in.Body)
	in.DateWatched = strings.TrimSpace(in.DateWatched)
	in.Tags = NormalizeTags(in.Tags)
	in.Genres = NormalizeGenres(in.Genres)

	var gallery []string
	for _, u := range in.GalleryImages {
		if u = strings.TrimSpace(u); u != "" {
			gallery = append(gallery, u)
		}
	}
	in.GalleryImages = gallery
}

// ReviewPatch is a partial update; nil fields are left as they are.
type ReviewPatch struct {
	Title         *string   `json:"title"`
	Kind          *Kind     `json:"kind"`
	PosterURL     *string   `json:"poster_url"`
	ShortSummary  *string   `json:"short_summary"`
	Body          *string   `json:"body"`
	DateWatched   *string   `json:"date_watched"`
	Tags          *[]string `json:"tags"`
	Genres        *[]Genre  `json:"genres"`
	GalleryImages *[]string `json:"gallery_images"`
	Featured      *bool     `json:"featured"`
}

// PatchFromInput turns a full input into a patch that sets every field.
func PatchFromInput(in ReviewInput) ReviewPatch {
	return ReviewPatch{
		Title:         &in.Title,
		Kind:          &in.Kind,
		PosterURL:     &in.PosterURL,
		ShortSummary:  &in.ShortSummary,
		Body:          &in.Body,
		DateWatched:   &in.DateWatched,
		Tags:          &in.Tags,
		Genres:        &in.Genres,
		GalleryImages: &in.GalleryImages,
		Featured:      &in.Featured,
	}
}

// ApplyTo overlays the set fields of p onto in.
func (p ReviewPatch) ApplyTo(in *ReviewInput) {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Kind != nil {
		in.Kind = *p.Kind
	}
	if p.PosterURL != nil {
		in.PosterURL = *p.PosterURL
	}
	if p.ShortSummary != nil {
		in.ShortSummary = *p.ShortSummary
	}
	if p.Body != nil {
		in.Body = *p.Body
	}
	if p.DateWatched != nil {
		in.DateWatched = *p.DateWatched
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
	if p.Genres != nil {
		in.Genres = *p.Genres
	}
	if p.GalleryImages != nil {
		in.GalleryImages = *p.GalleryImages
	}
	if p.Featured != nil {
		in.Featured = *p.Featured
	}
}
