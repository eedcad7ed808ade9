package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seongmin-k/festival-discovery/internal/repository"
	"github.com/seongmin-k/festival-discovery/internal/service"
)

// ReviewHandler serves the review endpoints.  Creation runs through the
// eligibility engine: one review per (user, festival), and only with a
// prior reservation for a product of that festival.
type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: s}
}

// ----- DTOs -----

type reviewReq struct {
	FestivalID uint64  `json:"festivalId"`
	Rating     float64 `json:"rating"`
	Content    string  `json:"content"`
}

type reviewResp struct {
	ReviewID     uint64  `json:"reviewId"`
	Rating       float64 `json:"rating"`
	Content      string  `json:"content"`
	ReviewDate   string  `json:"reviewDate"`
	LastModified string  `json:"lastModified"`
	UserID       uint64  `json:"userId"`
	UserName     string  `json:"userName"`
	FestivalID   uint64  `json:"festivalId"`
	FestivalName string  `json:"festivalName"`
}

func toReviewResp(d repository.ReviewDetail) reviewResp {
	return reviewResp{
		ReviewID:     d.ID,
		Rating:       d.Rating,
		Content:      d.Content,
		ReviewDate:   d.ReviewDate.Format(time.RFC3339),
		LastModified: d.LastModified.Format(time.RFC3339),
		UserID:       d.UserID,
		UserName:     d.UserName,
		FestivalID:   d.FestivalID,
		FestivalName: d.FestivalName,
	}
}

func toReviewResps(list []repository.ReviewDetail) []reviewResp {
	out := make([]reviewResp, 0, len(list))
	for _, d := range list {
		out = append(out, toReviewResp(d))
	}
	return out
}

func validRating(r float64) bool { return r >= 0.5 && r <= 5 }

// ----- Handlers -----

// Create submits a review for a festival the authenticated user has
// reserved a product of.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FestivalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "festivalId required"})
	}
	if !validRating(req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 0.5 and 5"})
	}
	d, err := h.Reviews.Create(c.Request().Context(), uid, req.FestivalID, req.Rating, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResp(*d))
}

// Eligibility reports whether the authenticated user may review the
// festival, based on reservation history alone.
func (h *ReviewHandler) Eligibility(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	fid, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	reserved, err := h.Reviews.HasReserved(c.Request().Context(), uid, fid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hasReserved": reserved})
}

// ListByFestival returns the reviews of one festival.
func (h *ReviewHandler) ListByFestival(c echo.Context) error {
	fid, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	list, err := h.Reviews.ListByFestival(c.Request().Context(), fid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResps(list))
}

// ListMine returns the authenticated user's reviews.
func (h *ReviewHandler) ListMine(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	list, err := h.Reviews.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResps(list))
}

// Update edits the caller's own review.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validRating(req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 0.5 and 5"})
	}
	d, err := h.Reviews.Update(c.Request().Context(), id, uid, req.Rating, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResp(*d))
}

// Delete removes the caller's own review.
func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Reviews.Delete(c.Request().Context(), id, uid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAll returns every review (admin only).
func (h *ReviewHandler) ListAll(c echo.Context) error {
	list, err := h.Reviews.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReviewResps(list))
}

// AdminDelete removes any review regardless of author (admin only).
func (h *ReviewHandler) AdminDelete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Reviews.AdminDelete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
