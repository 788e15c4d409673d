package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// InventoryHandler handles HTTP requests for product operations.
type InventoryHandler struct {
	service ports.InventoryService
}

func NewInventoryHandler(service ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// --- Request / Response types ---

type createProductRequest struct {
	Name        string `json:"name"     validate:"required"`
	Category    string `json:"category" validate:"required"`
	Stock       int    `json:"stock"    validate:"gte=0"`
	MinStock    int    `json:"minStock" validate:"gte=0"`
	Unit        string `json:"unit"     validate:"required"`
	Price       string `json:"price"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
	Specs       string `json:"specs"`
	Description string `json:"description"`
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Stock       *int    `json:"stock"`
	MinStock    *int    `json:"minStock"`
	Unit        *string `json:"unit"`
	Price       *string `json:"price"`
	Icon        *string `json:"icon"`
	Image       *string `json:"image"`
	Specs       *string `json:"specs"`
	Description *string `json:"description"`
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type productResponse struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Stock       int        `json:"stock"`
	MinStock    int        `json:"minStock"`
	Unit        string     `json:"unit"`
	Price       string     `json:"price,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Image       string     `json:"image,omitempty"`
	Specs       string     `json:"specs,omitempty"`
	Description string     `json:"description,omitempty"`
	LowStock    bool       `json:"lowStock"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type listProductsResponse struct {
	Data  []productResponse `json:"data"`
	Total int               `json:"total"`
}

func toProductResponse(v ports.ProductView) productResponse {
	return productResponse{
		ID:          v.ID,
		Name:        v.Name,
		Category:    v.Category,
		Stock:       v.Stock,
		MinStock:    v.MinStock,
		Unit:        v.Unit,
		Price:       v.Price,
		Icon:        v.Icon,
		Image:       v.Image,
		Specs:       v.Specs,
		Description: v.Description,
		LowStock:    v.LowStock,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// List handles GET /v1/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listProductsResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/products [get]
func (h *InventoryHandler) List(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]productResponse, 0, len(views))
	for _, v := range views {
		data = append(data, toProductResponse(v))
	}
	return c.JSON(http.StatusOK, listProductsResponse{Data: data, Total: len(data)})
}

// Create handles POST /v1/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/products [post]
func (h *InventoryHandler) Create(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), ports.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        req.Unit,
		Price:       req.Price,
		Icon:        req.Icon,
		Image:       req.Image,
		Specs:       req.Specs,
		Description: req.Description,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(*view))
}

// Update handles PUT /v1/products/:id. Absent fields are left unchanged.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Product id"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/products/{id} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.Update(c.Request().Context(), id, ports.ProductUpdateInput{
		Name:        req.Name,
		Category:    req.Category,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        req.Unit,
		Price:       req.Price,
		Icon:        req.Icon,
		Image:       req.Image,
		Specs:       req.Specs,
		Description: req.Description,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*view))
}

// AdjustStock handles POST /v1/products/:id/stock. The delta may be negative
// and stock may go below zero.
//
// @Summary      Adjust product stock by a signed delta
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Product id"
// @Param        body  body      adjustStockRequest  true  "Signed stock delta"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/products/{id}/stock [post]
func (h *InventoryHandler) AdjustStock(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req adjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Delta == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "delta must be non-zero")
	}

	view, err := h.service.AdjustStock(c.Request().Context(), id, req.Delta, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*view))
}

// Delete handles DELETE /v1/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Product id"
// @Success      204  "no content"
// @Failure      404  {object}  errorResponse
// @Router       /v1/products/{id} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
