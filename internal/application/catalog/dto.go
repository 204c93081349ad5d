package catalog

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCollectionRequest represents a request to create a collection
type CreateCollectionRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Description   string `json:"description" binding:"max=2000"`
	Season        string `json:"season" binding:"max=50"`
	CoverImageKey string `json:"cover_image_key" binding:"max=500"`
}

// UpdateCollectionRequest represents a partial collection update
type UpdateCollectionRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=2000"`
	Season        *string `json:"season" binding:"omitempty,max=50"`
	CoverImageKey *string `json:"cover_image_key" binding:"omitempty,max=500"`
}

// CollectionListFilter represents filter options for the collection list
type CollectionListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active archived"`
	Season   string `form:"season"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Season        string    `json:"season"`
	Status        string    `json:"status"`
	CoverImageKey string    `json:"cover_image_key"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// ToCollectionResponse converts a domain Collection to CollectionResponse
func ToCollectionResponse(c *catalog.Collection) CollectionResponse {
	return CollectionResponse{
		ID:            c.ID,
		TenantID:      c.TenantID,
		Name:          c.Name,
		Description:   c.Description,
		Season:        c.Season,
		Status:        string(c.Status),
		CoverImageKey: c.CoverImageKey,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
	}
}

// ToCollectionResponses converts a slice of domain Collections
func ToCollectionResponses(collections []catalog.Collection) []CollectionResponse {
	responses := make([]CollectionResponse, len(collections))
	for i := range collections {
		responses[i] = ToCollectionResponse(&collections[i])
	}
	return responses
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required,min=1,max=50"`
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	CollectionID *uuid.UUID      `json:"collection_id"`
	Category     string          `json:"category" binding:"max=100"`
	Material     string          `json:"material" binding:"max=100"`
	Finish       string          `json:"finish" binding:"max=100"`
	Dimensions   string          `json:"dimensions" binding:"max=100"`
	BasePrice    decimal.Decimal `json:"base_price"`
	LeadTimeDays int             `json:"lead_time_days" binding:"min=0"`
	Active       *bool           `json:"active"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string    `json:"name" binding:"omitempty,min=1,max=200"`
	CollectionID *uuid.UUID `json:"collection_id"`
	// ClearCollection removes the product from its collection
	ClearCollection bool             `json:"clear_collection"`
	Category        *string          `json:"category" binding:"omitempty,max=100"`
	Material        *string          `json:"material" binding:"omitempty,max=100"`
	Finish          *string          `json:"finish" binding:"omitempty,max=100"`
	Dimensions      *string          `json:"dimensions" binding:"omitempty,max=100"`
	BasePrice       *decimal.Decimal `json:"base_price"`
	LeadTimeDays    *int             `json:"lead_time_days" binding:"omitempty,min=0"`
	Active          *bool            `json:"active"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search       string     `form:"search"`
	CollectionID *uuid.UUID `form:"collection_id"`
	Category     string     `form:"category"`
	Active       *bool      `form:"active"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	CollectionID *uuid.UUID      `json:"collection_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Material     string          `json:"material"`
	Finish       string          `json:"finish"`
	Dimensions   string          `json:"dimensions"`
	BasePrice    decimal.Decimal `json:"base_price"`
	LeadTimeDays int             `json:"lead_time_days"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		CollectionID: p.CollectionID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Material:     p.Material,
		Finish:       p.Finish,
		Dimensions:   p.Dimensions,
		BasePrice:    p.BasePrice,
		LeadTimeDays: p.LeadTimeDays,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
