package handler

import (
	"time"

	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/internal/journal/domain"
	"github.com/reeljournal/reeljournal/internal/journal/query"
	"github.com/reeljournal/reeljournal/internal/journal/service"
)

// shareExcerptLength is how much of the summary goes into share metadata.
const shareExcerptLength = 150

// ReviewRequest is the body of POST and PUT. TagsText is the comma-separated
// form input; it is used when Tags is empty.
type ReviewRequest struct {
	domain.ReviewInput
	TagsText string `json:"tags_text"`
}

// Input returns the domain input with TagsText folded in.
func (r ReviewRequest) Input() domain.ReviewInput {
	in := r.ReviewInput
	if len(in.Tags) == 0 && r.TagsText != "" {
		in.Tags = domain.ParseTags(r.TagsText)
	}
	return in
}

// PatchRequest is the body of PATCH.
type PatchRequest struct {
	domain.ReviewPatch
	TagsText *string `json:"tags_text"`
}

// Patch returns the domain patch with TagsText folded in.
func (r PatchRequest) Patch() domain.ReviewPatch {
	p := r.ReviewPatch
	if p.Tags == nil && r.TagsText != nil {
		tags := domain.ParseTags(*r.TagsText)
		p.Tags = &tags
	}
	return p
}

// RatingRequest is the body of PUT /reviews/:slug/rating.
type RatingRequest struct {
	Score int `json:"score"`
}

// SessionRequest is the body of POST /session.
type SessionRequest struct {
	Token string `json:"token"`
}

// ReviewResponse is the wire form of a review.
type ReviewResponse struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Kind          string    `json:"kind"`
	PosterURL     string    `json:"poster_url,omitempty"`
	ShortSummary  string    `json:"short_summary,omitempty"`
	Body          string    `json:"body"`
	BodyHTML      string    `json:"body_html,omitempty"`
	DateWatched   string    `json:"date_watched"`
	Tags          []string  `json:"tags"`
	Genres        []string  `json:"genres"`
	GalleryImages []string  `json:"gallery_images"`
	Featured      bool      `json:"featured"`
	OwnerID       string    `json:"owner_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RatingResponse is a rating aggregate; Average is the raw mean.
type RatingResponse struct {
	Average        float64 `json:"average"`
	AverageRounded float64 `json:"average_rounded"`
	Count          int64   `json:"count"`
}

// EntryResponse is one row of a listing.
type EntryResponse struct {
	Review ReviewResponse `json:"review"`
	Rating RatingResponse `json:"rating"`
}

// ShareMeta feeds the detail page's link previews.
type ShareMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// DetailResponse is the detail page payload.
type DetailResponse struct {
	Review  ReviewResponse `json:"review"`
	Rating  RatingResponse `json:"rating"`
	MyScore *int           `json:"my_score"`
	Share   ShareMeta      `json:"share"`
}

// IdentityResponse describes the current session.
type IdentityResponse struct {
	Authenticated bool               `json:"authenticated"`
	Identity      *identity.Identity `json:"identity,omitempty"`
}

// convertReview converts a domain review to its wire form.
func convertReview(r *domain.Review) ReviewResponse {
	genres := make([]string, len(r.Genres))
	for i, g := range r.Genres {
		genres[i] = string(g)
	}

	return ReviewResponse{
		ID:            r.ID.String(),
		Slug:          r.Slug,
		Title:         r.Title,
		Kind:          string(r.Kind),
		PosterURL:     r.PosterURL,
		ShortSummary:  r.ShortSummary,
		Body:          r.Body,
		DateWatched:   r.DateWatched.UTC().Format(domain.DateLayout),
		Tags:          nonNil(r.Tags),
		Genres:        genres,
		GalleryImages: nonNil(r.GalleryImages),
		Featured:      r.Featured,
		OwnerID:       r.OwnerID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func convertAggregate(a domain.Aggregate) RatingResponse {
	return RatingResponse{
		Average:        a.Average,
		AverageRounded: a.Rounded(),
		Count:          a.Count,
	}
}

func convertEntries(entries []query.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			Review: convertReview(e.Review),
			Rating: convertAggregate(e.Aggregate),
		}
	}
	return out
}

func convertDetail(d *service.ReviewDetail, bodyHTML string) DetailResponse {
	review := convertReview(d.Review)
	review.BodyHTML = bodyHTML

	return DetailResponse{
		Review:  review,
		Rating:  convertAggregate(d.Aggregate),
		MyScore: d.ViewerScore,
		Share: ShareMeta{
			Title:       d.Review.Title,
			Description: d.Review.Excerpt(shareExcerptLength),
			Image:       d.Review.PosterURL,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
