package catalog

import (
	"regexp"
	"strings"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,49}$`)

// Product is a sellable furniture piece
type Product struct {
	shared.TenantAggregateRoot
	CollectionID *uuid.UUID
	SKU          string
	Name         string
	Category     string
	Material     string
	Finish       string
	Dimensions   string
	BasePrice    decimal.Decimal
	LeadTimeDays int
	Active       bool
}

// NewProduct creates an active product
func NewProduct(tenantID uuid.UUID, sku, name string, basePrice decimal.Decimal) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if !skuPattern.MatchString(sku) {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, digits, '-' and '_'")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		BasePrice:           basePrice,
		Active:              true,
	}, nil
}

// SetSpecs sets the build specification
func (p *Product) SetSpecs(category, material, finish, dimensions string, leadTimeDays int) error {
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	p.Category = strings.TrimSpace(category)
	p.Material = strings.TrimSpace(material)
	p.Finish = strings.TrimSpace(finish)
	p.Dimensions = strings.TrimSpace(dimensions)
	p.LeadTimeDays = leadTimeDays
	p.IncrementVersion()
	return nil
}

// Rename changes the display name
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.IncrementVersion()
	return nil
}

// SetPrice changes the base price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	p.BasePrice = price
	p.IncrementVersion()
	return nil
}

// AssignCollection moves the product into a collection, or out when id is nil
func (p *Product) AssignCollection(id *uuid.UUID) {
	p.CollectionID = id
	p.IncrementVersion()
}

// SetActive toggles availability
func (p *Product) SetActive(active bool) {
	if p.Active == active {
		return
	}
	p.Active = active
	p.IncrementVersion()
}
