package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/repository"
	"github.com/seongmin-k/festival-discovery/internal/service"
)

// ProductHandler serves the product catalog and its admin CRUD.
// Products carry no business rules beyond festival scoping, so the
// handler talks to the store directly.
type ProductHandler struct {
	Products  service.ProductStore
	Festivals service.FestivalStore
}

func NewProductHandler(products service.ProductStore, festivals service.FestivalStore) *ProductHandler {
	return &ProductHandler{Products: products, Festivals: festivals}
}

// ----- DTOs -----

type productResp struct {
	ProductID     uint64  `json:"productId"`
	FestivalID    uint64  `json:"festivalId"`
	FestivalName  string  `json:"festivalName"`
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	OriginalPrice *int    `json:"originalPrice"`
	Stock         int     `json:"stock"`
	ProductType   string  `json:"productType"`
	ImageURL      *string `json:"imageUrl"`
	Description   *string `json:"description"`
}

func toProductResp(d repository.ProductDetail) productResp {
	return productResp{
		ProductID:     d.ID,
		FestivalID:    d.FestivalID,
		FestivalName:  d.FestivalName,
		Name:          d.Name,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Stock:         d.Stock,
		ProductType:   d.Type,
		ImageURL:      d.ImageURL,
		Description:   d.Description,
	}
}

type productReq struct {
	FestivalID    uint64  `json:"festivalId"`
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	OriginalPrice *int    `json:"originalPrice"`
	Stock         int     `json:"stock"`
	ProductType   string  `json:"productType"`
	ImageURL      *string `json:"imageUrl"`
	Description   *string `json:"description"`
}

// productPatchReq mirrors productReq with optional fields so an update
// only touches what the client sent.
type productPatchReq struct {
	Name          *string `json:"name"`
	Price         *int    `json:"price"`
	OriginalPrice *int    `json:"originalPrice"`
	Stock         *int    `json:"stock"`
	ProductType   *string `json:"productType"`
	ImageURL      *string `json:"imageUrl"`
	Description   *string `json:"description"`
}

// ----- Handlers -----

// List returns every product with its festival name.
func (h *ProductHandler) List(c echo.Context) error {
	list, err := h.Products.ListDetails(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]productResp, 0, len(list))
	for _, d := range list {
		out = append(out, toProductResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	d, err := h.Products.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResp(*d))
}

// ListByFestival returns the products of one festival.
func (h *ProductHandler) ListByFestival(c echo.Context) error {
	fid, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	list, err := h.Products.ListDetailsByFestival(c.Request().Context(), fid)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]productResp, 0, len(list))
	for _, d := range list {
		out = append(out, toProductResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a new product under an existing festival (admin
// only).
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FestivalID == 0 || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "festivalId and name required"})
	}
	if req.Price < 0 || req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price and stock must be non-negative"})
	}
	ctx := c.Request().Context()
	// A product cannot reference a festival that does not exist; this is
	// a payload problem, not a missing resource.
	if ok, err := h.Festivals.Exists(ctx, req.FestivalID); err != nil {
		return writeError(c, err)
	} else if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "festival does not exist"})
	}
	p := model.Product{
		FestivalID:    req.FestivalID,
		Name:          strings.TrimSpace(req.Name),
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		Type:          req.ProductType,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
	}
	if err := h.Products.Create(ctx, &p); err != nil {
		return writeError(c, err)
	}
	d, err := h.Products.GetDetailByID(ctx, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toProductResp(*d))
}

// Update overwrites a product's mutable fields (admin only).
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req productPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil && *req.Price >= 0 {
		p.Price = *req.Price
	}
	if req.Stock != nil && *req.Stock >= 0 {
		p.Stock = *req.Stock
	}
	if req.ProductType != nil && *req.ProductType != "" {
		p.Type = *req.ProductType
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if err := h.Products.Update(ctx, p); err != nil {
		return writeError(c, err)
	}
	d, err := h.Products.GetDetailByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResp(*d))
}

// Delete removes a product (admin only).  Deleting an absent product
// succeeds silently.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Products.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
