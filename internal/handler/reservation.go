package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seongmin-k/festival-discovery/internal/repository"
	"github.com/seongmin-k/festival-discovery/internal/service"
)

// ReservationHandler serves the reservation lifecycle endpoints: users
// create, list, count and cancel their own reservations; admins mark
// attendance and manage the full set.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(s *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: s}
}

// ----- DTOs -----

type reservationReq struct {
	FestivalID   uint64   `json:"festivalId"`
	ProductID    uint64   `json:"productId"`
	DiscountRate *float64 `json:"discountRate"`
	Date         string   `json:"date"` // "2025-10-01"
	Time         string   `json:"time"` // "18:00"
	HeadCount    int      `json:"headCount"`
}

type productSummary struct {
	ProductID  uint64  `json:"productId"`
	Name       string  `json:"name"`
	ImageURL   *string `json:"imageUrl"`
	FestivalID uint64  `json:"festivalId"`
}

type reservationResp struct {
	ReservationID   uint64         `json:"reservationId"`
	UserID          uint64         `json:"userId"`
	FestivalID      uint64         `json:"festivalId"`
	ProductID       uint64         `json:"productId"`
	DiscountRate    *float64       `json:"discountRate"`
	ReservationDate string         `json:"reservationDate"`
	FestivalName    string         `json:"festivalName"`
	ProductName     string         `json:"productName"`
	Date            string         `json:"date"`
	Time            string         `json:"time"`
	HeadCount       int            `json:"headCount"`
	Status          string         `json:"status"`
	Product         productSummary `json:"product"`
}

func toReservationResp(d repository.ReservationDetail) reservationResp {
	return reservationResp{
		ReservationID:   d.ID,
		UserID:          d.UserID,
		FestivalID:      d.FestivalID,
		ProductID:       d.ProductID,
		DiscountRate:    d.DiscountRate,
		ReservationDate: d.ReservedAt.Format(time.RFC3339),
		FestivalName:    d.FestivalName,
		ProductName:     d.ProductName,
		Date:            formatDate(d.Date),
		Time:            d.Time,
		HeadCount:       d.HeadCount,
		Status:          d.Status,
		Product: productSummary{
			ProductID:  d.ProductID,
			Name:       d.ProductName,
			ImageURL:   d.ProductImageURL,
			FestivalID: d.FestivalID,
		},
	}
}

func toReservationResps(list []repository.ReservationDetail) []reservationResp {
	out := make([]reservationResp, 0, len(list))
	for _, d := range list {
		out = append(out, toReservationResp(d))
	}
	return out
}

// ----- Handlers -----

// Create books a product for the authenticated user.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HeadCount < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "headCount must be at least 1"})
	}
	d, err := h.Reservations.Create(c.Request().Context(), service.CreateReservationInput{
		UserID:       uid,
		FestivalID:   req.FestivalID,
		ProductID:    req.ProductID,
		DiscountRate: req.DiscountRate,
		Date:         req.Date,
		Time:         req.Time,
		HeadCount:    req.HeadCount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationResp(*d))
}

// ListMine returns the authenticated user's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	list, err := h.Reservations.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResps(list))
}

// CountMine returns how many non-cancelled reservations the user holds.
func (h *ReservationHandler) CountMine(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	n, err := h.Reservations.CountActive(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// Cancel marks the caller's own reservation CANCELLED.  Cancelling an
// already-cancelled reservation returns the unchanged record.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	d, err := h.Reservations.Cancel(c.Request().Context(), uid, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(*d))
}

// MarkAttended transitions a reservation to ATTENDED (admin only).
func (h *ReservationHandler) MarkAttended(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	d, err := h.Reservations.MarkAttended(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(*d))
}

// ListAll returns every reservation (admin only).
func (h *ReservationHandler) ListAll(c echo.Context) error {
	list, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResps(list))
}

// Delete removes a reservation outright (admin only).
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Reservations.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
