package handler

import (
	"math/rand/v2"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// StorefrontHandler serves the public shop surface: the catalog page and
// unauthenticated order intake. No auth claims are present on these routes;
// intake commits are attributed to the fixed "storefront" actor.
type StorefrontHandler struct {
	inventory ports.InventoryService
	quotes    ports.QuoteService
	orders    ports.OrderService
}

func NewStorefrontHandler(inventory ports.InventoryService, quotes ports.QuoteService, orders ports.OrderService) *StorefrontHandler {
	return &StorefrontHandler{inventory: inventory, quotes: quotes, orders: orders}
}

const storefrontActor = "storefront"

type catalogResponse struct {
	Products []productResponse `json:"products"`
	Quote    *quoteResponse    `json:"quote,omitempty"`
}

// Catalog handles GET /storefront/catalog. The quote shown is the active one,
// or a random one when none is marked active.
//
// @Summary      Public product catalog with the display quote
// @Tags         storefront
// @Produce      json
// @Success      200  {object}  catalogResponse
// @Failure      503  {object}  errorResponse
// @Router       /storefront/catalog [get]
func (h *StorefrontHandler) Catalog(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.inventory.List(ctx)
	if err != nil {
		return err
	}
	quotes, err := h.quotes.List(ctx)
	if err != nil {
		return err
	}

	resp := catalogResponse{Products: make([]productResponse, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	if q := pickQuote(quotes); q != nil {
		view := toQuoteResponse(*q)
		resp.Quote = &view
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateOrder handles POST /storefront/orders.
//
// @Summary      Place an order from the public shop
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /storefront/orders [post]
func (h *StorefrontHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.orders.Create(c.Request().Context(), toCreateOrderInput(req, storefrontActor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(*view))
}

// pickQuote returns the active quote, or a random one when none is active.
func pickQuote(quotes []ports.QuoteView) *ports.QuoteView {
	if len(quotes) == 0 {
		return nil
	}
	for i := range quotes {
		if quotes[i].Active {
			return &quotes[i]
		}
	}
	return &quotes[rand.IntN(len(quotes))]
}
