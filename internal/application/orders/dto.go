package orders

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one requested order line. Description and price
// default to the product's when a product is referenced.
type OrderItemRequest struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Description string           `json:"description" binding:"max=500"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID uuid.UUID          `json:"customer_id" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount   decimal.Decimal    `json:"discount"`
	TaxRate    decimal.Decimal    `json:"tax_rate"`
	Notes      string             `json:"notes" binding:"max=5000"`
	DueDate    *time.Time         `json:"due_date"`
}

// UpdateOrderRequest edits a draft order
type UpdateOrderRequest struct {
	Items    *[]OrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Discount *decimal.Decimal    `json:"discount"`
	TaxRate  *decimal.Decimal    `json:"tax_rate"`
	Notes    *string             `json:"notes" binding:"omitempty,max=5000"`
	DueDate  *time.Time          `json:"due_date"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft confirmed in_production ready shipped delivered cancelled"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	TenantID    uuid.UUID           `json:"tenant_id"`
	OrderNumber string              `json:"order_number"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	Items       []OrderItemResponse `json:"items"`
	Discount    decimal.Decimal     `json:"discount"`
	TaxRate     decimal.Decimal     `json:"tax_rate"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	TaxAmount   decimal.Decimal     `json:"tax_amount"`
	Total       decimal.Decimal     `json:"total"`
	Notes       string              `json:"notes"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	Status      string              `json:"status"`
	Overdue     bool                `json:"overdue"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *orders.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		}
	}
	return OrderResponse{
		ID:          o.ID,
		TenantID:    o.TenantID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Items:       items,
		Discount:    o.Discount,
		TaxRate:     o.TaxRate,
		Subtotal:    o.Subtotal,
		TaxAmount:   o.TaxAmount,
		Total:       o.Total,
		Notes:       o.Notes,
		DueDate:     o.DueDate,
		Status:      string(o.Status),
		Overdue:     o.IsOverdue(time.Now()),
		ConfirmedAt: o.ConfirmedAt,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Version:     o.Version,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(list []orders.Order) []OrderResponse {
	responses := make([]OrderResponse, len(list))
	for i := range list {
		responses[i] = ToOrderResponse(&list[i])
	}
	return responses
}
