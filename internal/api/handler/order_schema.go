package handler

import (
	"time"

	"github.com/atelier-studio/registry-api/internal/core/ports"
)

// errorResponse mirrors the envelope produced by the central error handler.
// Declared here so swagger annotations can reference it.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type orderItemRequest struct {
	Material string `json:"material" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerName string             `json:"customerName" validate:"required"`
	Email        string             `json:"email"        validate:"required,email"`
	Phone        string             `json:"phone"        validate:"required"`
	Pickup       string             `json:"pickup"       validate:"required"`
	Message      string             `json:"message"`
	Items        []orderItemRequest `json:"items"        validate:"required,min=1,dive"`
}

type changeOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending ready completed"`
}

type orderItemResponse struct {
	Material string `json:"material"`
	Quantity int    `json:"quantity"`
}

type orderResponse struct {
	ID           int                 `json:"id"`
	CustomerName string              `json:"customerName"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Pickup       string              `json:"pickup"`
	Message      string              `json:"message,omitempty"`
	Status       string              `json:"status"`
	Items        []orderItemResponse `json:"items"`
	Legacy       bool                `json:"legacy,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    *time.Time          `json:"updatedAt,omitempty"`
}

type listOrdersResponse struct {
	Data  []orderResponse `json:"data"`
	Total int             `json:"total"`
}

// changeOrderStatusResponse carries the updated order plus a warning when the
// follow-up stock write could not be persisted. The status change itself is
// already committed at that point.
type changeOrderStatusResponse struct {
	Order        orderResponse `json:"order"`
	StockWarning string        `json:"stockWarning,omitempty"`
}

func toOrderResponse(v ports.OrderView) orderResponse {
	items := make([]orderItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, orderItemResponse{Material: it.Material, Quantity: it.Quantity})
	}
	return orderResponse{
		ID:           v.ID,
		CustomerName: v.CustomerName,
		Email:        v.Email,
		Phone:        v.Phone,
		Pickup:       v.Pickup,
		Message:      v.Message,
		Status:       v.Status,
		Items:        items,
		Legacy:       v.Legacy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
