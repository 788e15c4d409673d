package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// QuoteHandler handles HTTP requests for display quote operations.
type QuoteHandler struct {
	service ports.QuoteService
}

func NewQuoteHandler(service ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

type createQuoteRequest struct {
	Text   string `json:"text"   validate:"required"`
	Author string `json:"author" validate:"required"`
}

type updateQuoteRequest struct {
	Text   *string `json:"text"`
	Author *string `json:"author"`
}

type quoteResponse struct {
	ID        int        `json:"id"`
	Text      string     `json:"text"`
	Author    string     `json:"author"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type listQuotesResponse struct {
	Data  []quoteResponse `json:"data"`
	Total int             `json:"total"`
}

func toQuoteResponse(v ports.QuoteView) quoteResponse {
	return quoteResponse{
		ID:        v.ID,
		Text:      v.Text,
		Author:    v.Author,
		Active:    v.Active,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// List handles GET /v1/quotes.
//
// @Summary      List display quotes
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listQuotesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/quotes [get]
func (h *QuoteHandler) List(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]quoteResponse, 0, len(views))
	for _, v := range views {
		data = append(data, toQuoteResponse(v))
	}
	return c.JSON(http.StatusOK, listQuotesResponse{Data: data, Total: len(data)})
}

// Create handles POST /v1/quotes.
//
// @Summary      Create a display quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createQuoteRequest  true  "Quote text and author"
// @Success      201   {object}  quoteResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/quotes [post]
func (h *QuoteHandler) Create(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Create(c.Request().Context(), req.Text, req.Author, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toQuoteResponse(*view))
}

// Update handles PUT /v1/quotes/:id.
//
// @Summary      Update a display quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Quote id"
// @Param        body  body      updateQuoteRequest  true  "Fields to change"
// @Success      200   {object}  quoteResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/quotes/{id} [put]
func (h *QuoteHandler) Update(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.Update(c.Request().Context(), id, ports.QuoteUpdateInput{
		Text:   req.Text,
		Author: req.Author,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuoteResponse(*view))
}

// Activate handles POST /v1/quotes/:id/activate. Exactly one quote is active
// afterwards; all others are deactivated in the same write.
//
// @Summary      Activate a display quote
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Quote id"
// @Success      200  {object}  quoteResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/quotes/{id}/activate [post]
func (h *QuoteHandler) Activate(c echo.Context) error {
	actor, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.service.Activate(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuoteResponse(*view))
}

// Delete handles DELETE /v1/quotes/:id.
//
// @Summary      Delete a display quote
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Quote id"
// @Success      204  "no content"
// @Failure      404  {object}  errorResponse
// @Router       /v1/quotes/{id} [delete]
func (h *QuoteHandler) Delete(c echo.Context) error {
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
