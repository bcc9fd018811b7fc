package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reeljournal/reeljournal/internal/identity"
	"github.com/reeljournal/reeljournal/internal/infrastructure/storage"
	"github.com/reeljournal/reeljournal/internal/journal/domain"
	"github.com/reeljournal/reeljournal/internal/journal/query"
	"github.com/reeljournal/reeljournal/internal/journal/service"
	"github.com/reeljournal/reeljournal/internal/render"
	"github.com/reeljournal/reeljournal/pkg/auth"
	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// uploadOverhead is multipart framing allowed on top of the image limit.
const uploadOverhead = 1 << 20

// Handler serves the journal API consumed by the rendering layer.
type Handler struct {
	journal  *service.JournalService
	identity *identity.Provider
	uploader *storage.Uploader
	markdown *render.Markdown
	logger   interfaces.Logger
}

// NewHandler creates a new journal HTTP handler
func NewHandler(
	journal *service.JournalService,
	provider *identity.Provider,
	uploader *storage.Uploader,
	markdown *render.Markdown,
	logger interfaces.Logger,
) *Handler {
	return &Handler{
		journal:  journal,
		identity: provider,
		uploader: uploader,
		markdown: markdown,
		logger:   logger,
	}
}

// RegisterRoutes mounts the API below r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	reviews := r.Group("/reviews")
	reviews.GET("", h.ListReviews)
	reviews.GET("/featured", h.FeaturedReviews)
	reviews.GET("/latest", h.LatestReviews)
	reviews.GET("/:slug", h.GetReview)
	reviews.POST("", h.CreateReview)
	reviews.PUT("/:slug", h.ReplaceReview)
	reviews.PATCH("/:slug", h.PatchReview)
	reviews.DELETE("/:slug", h.DeleteReview)
	reviews.PUT("/:slug/rating", h.SubmitRating)

	r.GET("/genres", h.ListGenres)
	r.POST("/images", h.UploadImage)

	r.GET("/session", h.CurrentSession)
	r.POST("/session", h.SignIn)
	r.DELETE("/session", h.SignOut)
}

// ListReviews handles GET /reviews.
func (h *Handler) ListReviews(c *gin.Context) {
	req, err := parseListRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.journal.Query(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": convertEntries(entries)})
}

// FeaturedReviews handles GET /reviews/featured.
func (h *Handler) FeaturedReviews(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.journal.Featured(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": convertEntries(entries)})
}

// LatestReviews handles GET /reviews/latest.
func (h *Handler) LatestReviews(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.journal.Latest(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": convertEntries(entries)})
}

// GetReview handles GET /reviews/:slug.
func (h *Handler) GetReview(c *gin.Context) {
	viewer, _ := h.identity.CurrentUser(c)

	detail, err := h.journal.ReviewDetail(c.Request.Context(), viewer, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	bodyHTML, err := h.markdown.Render(detail.Review.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertDetail(detail, bodyHTML))
}

// CreateReview handles POST /reviews.
func (h *Handler) CreateReview(c *gin.Context) {
	actor, _ := h.identity.CurrentUser(c)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkgerrors.Wrap(pkgerrors.ErrorTypeInvalidArgument, "malformed request body", err))
		return
	}

	review, err := h.journal.CreateReview(c.Request.Context(), actor, req.Input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/api/v1/reviews/"+review.Slug)
	c.JSON(http.StatusCreated, convertReview(review))
}

// ReplaceReview handles PUT /reviews/:slug; every editable field is replaced.
func (h *Handler) ReplaceReview(c *gin.Context) {
	actor, _ := h.identity.CurrentUser(c)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkgerrors.Wrap(pkgerrors.ErrorTypeInvalidArgument, "malformed request body", err))
		return
	}

	review, err := h.journal.UpdateReview(c.Request.Context(), actor, c.Param("slug"), domain.PatchFromInput(req.Input()))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertReview(review))
}

// PatchReview handles PATCH /reviews/:slug; absent fields are kept.
func (h *Handler) PatchReview(c *gin.Context) {
	actor, _ := h.identity.CurrentUser(c)

	var req PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkgerrors.Wrap(pkgerrors.ErrorTypeInvalidArgument, "malformed request body", err))
		return
	}

	review, err := h.journal.UpdateReview(c.Request.Context(), actor, c.Param("slug"), req.Patch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertReview(review))
}

// DeleteReview handles DELETE /reviews/:slug.
func (h *Handler) DeleteReview(c *gin.Context) {
	actor, _ := h.identity.CurrentUser(c)

	if err := h.journal.DeleteReview(c.Request.Context(), actor, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SubmitRating handles PUT /reviews/:slug/rating.
func (h *Handler) SubmitRating(c *gin.Context) {
	actor, _ := h.identity.CurrentUser(c)

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkgerrors.InvalidField("score", "must be a whole number"))
		return
	}

	agg, err := h.journal.SubmitRating(c.Request.Context(), actor, c.Param("slug"), req.Score)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": convertAggregate(agg), "my_score": req.Score})
}

// ListGenres handles GET /genres.
func (h *Handler) ListGenres(c *gin.Context) {
	genres := domain.AllGenres()
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = string(g)
	}
	c.JSON(http.StatusOK, gin.H{"genres": out})
}

// UploadImage handles POST /images with a multipart "file" field.
func (h *Handler) UploadImage(c *gin.Context) {
	if _, ok := h.identity.CurrentUser(c); !ok {
		respondError(c, pkgerrors.Unauthorized("sign in required"))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploader.MaxBytes()+uploadOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, pkgerrors.InvalidField("file", "is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, pkgerrors.Wrap(pkgerrors.ErrorTypeInvalidArgument, "unreadable upload", err))
		return
	}
	defer file.Close()

	img, err := h.uploader.Upload(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, img)
}

// CurrentSession handles GET /session.
func (h *Handler) CurrentSession(c *gin.Context) {
	id, ok := h.identity.CurrentUser(c)
	c.JSON(http.StatusOK, IdentityResponse{Authenticated: ok, Identity: id})
}

// SignIn handles POST /session, taking the token from the body or the
// Authorization header.
func (h *Handler) SignIn(c *gin.Context) {
	var req SessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, pkgerrors.Wrap(pkgerrors.ErrorTypeInvalidArgument, "malformed request body", err))
			return
		}
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token, _ = auth.BearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		respondError(c, pkgerrors.InvalidField("token", "is required"))
		return
	}

	id, err := h.identity.SignIn(c, token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, IdentityResponse{Authenticated: true, Identity: id})
}

// SignOut handles DELETE /session.
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.identity.SignOut(c); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseListRequest(c *gin.Context) (query.Request, error) {
	var req query.Request

	req.Filters.Kind = domain.Kind(strings.ToLower(strings.TrimSpace(c.Query("kind"))))
	req.Filters.Text = c.Query("q")

	for _, raw := range c.QueryArray("genre") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				req.Filters.Genres = append(req.Filters.Genres, domain.Genre(part))
			}
		}
	}

	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return req, pkgerrors.InvalidField("featured", "must be true or false")
		}
		req.Filters.Featured = &featured
	}

	sort, err := query.ParseSortOrder(c.Query("sort"))
	if err != nil {
		return req, err
	}
	req.Sort = sort

	if req.Limit, err = parseLimit(c.Query("limit")); err != nil {
		return req, err
	}
	return req, nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, pkgerrors.InvalidField("limit", "must be a positive whole number")
	}
	return limit, nil
}
