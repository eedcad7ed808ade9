package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seongmin-k/festival-discovery/internal/service"
)

// WishlistHandler serves the wishlist toggle and listing endpoints.
type WishlistHandler struct {
	Wishlists *service.WishlistService
}

func NewWishlistHandler(s *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{Wishlists: s}
}

// ----- DTOs -----

type wishlistToggleReq struct {
	FestivalID uint64 `json:"festivalId"`
}

type wishlistResp struct {
	WishlistID       uint64  `json:"wishlistId"`
	UserID           uint64  `json:"userId"`
	FestivalID       uint64  `json:"festivalId"`
	FestivalName     string  `json:"festivalName"`
	FestivalImageURL *string `json:"festivalImageUrl"`
	Added            bool    `json:"added"`
}

// ----- Handlers -----

// Toggle adds the festival to the caller's wishlist, or removes it if
// already present.  The response's "added" flag reports which happened.
func (h *WishlistHandler) Toggle(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req wishlistToggleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FestivalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "festivalId required"})
	}
	t, err := h.Wishlists.Toggle(c.Request().Context(), uid, req.FestivalID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, wishlistResp{
		WishlistID:       t.WishlistID,
		UserID:           t.UserID,
		FestivalID:       t.FestivalID,
		FestivalName:     t.FestivalName,
		FestivalImageURL: t.FestivalImageURL,
		Added:            t.Added,
	})
}

// ListMine returns the caller's wishlist entries with festival display
// fields.
func (h *WishlistHandler) ListMine(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	list, err := h.Wishlists.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]wishlistResp, 0, len(list))
	for _, d := range list {
		out = append(out, wishlistResp{
			WishlistID:       d.ID,
			UserID:           d.UserID,
			FestivalID:       d.FestivalID,
			FestivalName:     d.FestivalName,
			FestivalImageURL: d.FestivalImageURL,
			Added:            true,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Remove deletes the caller's wishlist entry for a festival.  Removing
// an absent entry succeeds silently.
func (h *WishlistHandler) Remove(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	fid, err := paramID(c, "festivalId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Wishlists.Remove(c.Request().Context(), uid, fid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
