package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// AnalyticsHandler serves the dashboard's derived views: the customer table,
// the overview counters, and the analytics report.
type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

type customerSummaryResponse struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	OrderCount int       `json:"orderCount"`
	LastOrder  time.Time `json:"lastOrder"`
}

type listCustomersResponse struct {
	Data  []customerSummaryResponse `json:"data"`
	Total int                       `json:"total"`
}

type overviewResponse struct {
	TotalOrders   int `json:"totalOrders"`
	PendingOrders int `json:"pendingOrders"`
	LowStockItems int `json:"lowStockItems"`
}

type analyticsReportResponse struct {
	TopProduct      string `json:"topProduct"`
	AvgOrderSize    int    `json:"avgOrderSize"`
	UniqueCustomers int    `json:"uniqueCustomers"`
	FulfillmentRate int    `json:"fulfillmentRate"`
}

// Customers handles GET /v1/customers. The customer table is derived from
// order history, aggregated by email in first-seen order.
//
// @Summary      List customers derived from order history
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listCustomersResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/customers [get]
func (h *AnalyticsHandler) Customers(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	summaries, err := h.service.Customers(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]customerSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, customerSummaryResponse{
			Name:       s.Name,
			Email:      s.Email,
			Phone:      s.Phone,
			OrderCount: s.OrderCount,
			LastOrder:  s.LastOrder,
		})
	}
	return c.JSON(http.StatusOK, listCustomersResponse{Data: data, Total: len(data)})
}

// Overview handles GET /v1/analytics/overview.
//
// @Summary      Dashboard headline counters
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  overviewResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	stats, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overviewResponse{
		TotalOrders:   stats.TotalOrders,
		PendingOrders: stats.PendingOrders,
		LowStockItems: stats.LowStockItems,
	})
}

// Report handles GET /v1/analytics.
//
// @Summary      Analytics report over order history
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analyticsReportResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/analytics [get]
func (h *AnalyticsHandler) Report(c echo.Context) error {
	if _, _, err := ctxActor(c); err != nil {
		return err
	}

	report, err := h.service.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analyticsReportResponse{
		TopProduct:      report.TopProduct,
		AvgOrderSize:    report.AvgOrderSize,
		UniqueCustomers: report.UniqueCustomers,
		FulfillmentRate: report.FulfillmentRate,
	})
}
