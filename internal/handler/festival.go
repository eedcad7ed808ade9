package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/service"
)

// FestivalHandler serves the festival catalog: the rating-ranked
// listing, single lookups, per-user recommendations, upcoming browsing
// and the admin CRUD endpoints.
type FestivalHandler struct {
	Festivals *service.FestivalService
}

func NewFestivalHandler(s *service.FestivalService) *FestivalHandler {
	return &FestivalHandler{Festivals: s}
}

// ----- DTOs -----

type festivalResp struct {
	ID            uint64   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Categories    []string `json:"categories"`
	Category      string   `json:"category"` // first category, used by clients for badges
	AverageRating *float64 `json:"averageRating"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	ImageURL      *string  `json:"imageUrl"`
	Region        string   `json:"region"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
}

func toFestivalResp(f model.Festival, avg *float64) festivalResp {
	first := ""
	if len(f.Categories) > 0 {
		first = f.Categories[0]
	}
	return festivalResp{
		ID:            f.ID,
		Title:         f.Name,
		Description:   f.Description,
		Location:      f.Location,
		Categories:    f.Categories,
		Category:      first,
		AverageRating: avg,
		Lat:           f.Lat,
		Lng:           f.Lng,
		ImageURL:      f.ImageURL,
		Region:        f.Region,
		StartDate:     formatDate(f.StartDate),
		EndDate:       formatDate(f.EndDate),
	}
}

// festivalReq mirrors the admin create/update payload.  Categories may
// arrive either as a comma-delimited "categories" string or a single
// "category"; the delimited form wins when both are present.
type festivalReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Category    *string  `json:"category"`
	Categories  *string  `json:"categories"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	ImageURL    *string  `json:"image_url"`
	Region      *string  `json:"region"`
	StartDate   *string  `json:"start_date"` // "2006-01-02"
	EndDate     *string  `json:"end_date"`
}

func (r festivalReq) categoryList() []string {
	if r.Categories != nil {
		return model.SplitCategories(*r.Categories)
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) != "" {
		return []string{strings.TrimSpace(*r.Category)}
	}
	return nil
}

// ----- Handlers -----

// List returns every festival ordered by average rating descending.
// Festivals without reviews rank last with an average of 0.
func (h *FestivalHandler) List(c echo.Context) error {
	ranked, err := h.Festivals.ListRanked(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]festivalResp, 0, len(ranked))
	for _, r := range ranked {
		avg := r.AvgRating
		out = append(out, toFestivalResp(r.Festival, &avg))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one festival.  averageRating is null when the festival
// has no reviews.
func (h *FestivalHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	fr, err := h.Festivals.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toFestivalResp(fr.Festival, fr.AverageRating))
}

// Recommend returns all festivals for the authenticated user with the
// ones matching the user's interest first.
func (h *FestivalHandler) Recommend(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	list, err := h.Festivals.Recommend(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]festivalResp, 0, len(list))
	for _, fr := range list {
		out = append(out, toFestivalResp(fr.Festival, fr.AverageRating))
	}
	return c.JSON(http.StatusOK, out)
}

// Upcoming returns festivals that have not ended yet, soonest first.
func (h *FestivalHandler) Upcoming(c echo.Context) error {
	list, err := h.Festivals.Upcoming(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]festivalResp, 0, len(list))
	for _, fr := range list {
		out = append(out, toFestivalResp(fr.Festival, fr.AverageRating))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a new festival (admin only).
func (h *FestivalHandler) Create(c echo.Context) error {
	var req festivalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	f := model.Festival{
		Name:       strings.TrimSpace(*req.Name),
		Categories: req.categoryList(),
		Lat:        req.Lat,
		Lng:        req.Lng,
		ImageURL:   req.ImageURL,
	}
	if req.Description != nil {
		f.Description = *req.Description
	}
	if req.Location != nil {
		f.Location = *req.Location
	}
	if req.Region != nil {
		f.Region = *req.Region
	}
	var err error
	if f.StartDate, err = parseReqDate(req.StartDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	if f.EndDate, err = parseReqDate(req.EndDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	created, err := h.Festivals.Create(c.Request().Context(), &f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toFestivalResp(*created, nil))
}

// Update patches an existing festival (admin only).  Absent fields keep
// their stored values.
func (h *FestivalHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req festivalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := service.FestivalPatch{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Categories:  req.categoryList(),
		Lat:         req.Lat,
		Lng:         req.Lng,
		ImageURL:    req.ImageURL,
		Region:      req.Region,
	}
	if req.StartDate != nil {
		t, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		patch.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		patch.EndDate = &t
	}
	fr, err := h.Festivals.Update(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toFestivalResp(fr.Festival, fr.AverageRating))
}

// Delete removes a festival and all dependent rows (admin only).
func (h *FestivalHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Festivals.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseReqDate parses an optional "2006-01-02" string, zero when nil.
func parseReqDate(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, *s)
}
