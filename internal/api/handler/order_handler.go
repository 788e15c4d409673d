package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /v1/orders.
//
// @Summary      List orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status (pending, ready, completed)"
// @Success      200     {object}  listOrdersResponse
// @Failure      401     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}

	data := make([]orderResponse, 0, len(views))
	for _, v := range views {
		data = append(data, toOrderResponse(v))
	}
	return c.JSON(http.StatusOK, listOrdersResponse{Data: data, Total: len(data)})
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(*view))
}

// Create handles POST /v1/orders.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), toCreateOrderInput(req, actor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(*view))
}

// ChangeStatus handles PATCH /v1/orders/:id/status. Marking an order completed
// also decrements the stock of each referenced product; if that second write
// fails the response carries a stockWarning instead of failing the request.
//
// @Summary      Change order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Order id"
// @Param        body  body      changeOrderStatusRequest  true  "New status"
// @Success      200   {object}  changeOrderStatusResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req changeOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.ChangeStatus(c.Request().Context(), id, req.Status, actor)
	if err != nil {
		return err
	}

	resp := changeOrderStatusResponse{Order: toOrderResponse(result.Order)}
	if result.StockUpdateFailed {
		resp.StockWarning = "order completed but stock update failed: " + result.StockUpdateError
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /v1/orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Order id"
// @Success      204  "no content"
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
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

// toCreateOrderInput maps the HTTP request to the service DTO.
func toCreateOrderInput(r createOrderRequest, actor string) ports.CreateOrderInput {
	items := make([]ports.OrderLineInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ports.OrderLineInput{Material: it.Material, Quantity: it.Quantity})
	}
	return ports.CreateOrderInput{
		CustomerName: r.CustomerName,
		Email:        r.Email,
		Phone:        r.Phone,
		Pickup:       r.Pickup,
		Message:      r.Message,
		Items:        items,
		Actor:        actor,
	}
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
