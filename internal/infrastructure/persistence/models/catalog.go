package models

import (
	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionModel is the persistence model for seasonal collections.
type CollectionModel struct {
	RootRow
	Name          string                   `gorm:"type:varchar(200);not null"`
	Description   string                   `gorm:"type:text;not null;default:''"`
	Season        string                   `gorm:"type:varchar(50);not null;default:''"`
	Status        catalog.CollectionStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	CoverImageKey string                   `gorm:"type:varchar(500);not null;default:''"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	c := &catalog.Collection{
		Name:          m.Name,
		Description:   m.Description,
		Season:        m.Season,
		Status:        m.Status,
		CoverImageKey: m.CoverImageKey,
	}
	m.loadRoot(&c.TenantAggregateRoot)
	return c
}

// CollectionModelFromDomain creates a model from a domain Collection.
func CollectionModelFromDomain(c *catalog.Collection) *CollectionModel {
	m := &CollectionModel{
		Name:          c.Name,
		Description:   c.Description,
		Season:        c.Season,
		Status:        c.Status,
		CoverImageKey: c.CoverImageKey,
	}
	m.storeRoot(c.TenantAggregateRoot)
	return m
}

// ProductModel is the persistence model for catalog products.
type ProductModel struct {
	RootRow
	CollectionID *uuid.UUID      `gorm:"type:uuid;index"`
	SKU          string          `gorm:"column:sku;type:varchar(64);not null"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     string          `gorm:"type:varchar(100);not null;default:''"`
	Material     string          `gorm:"type:varchar(100);not null;default:''"`
	Finish       string          `gorm:"type:varchar(100);not null;default:''"`
	Dimensions   string          `gorm:"type:varchar(100);not null;default:''"`
	BasePrice    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	LeadTimeDays int             `gorm:"not null;default:0"`
	Active       bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		CollectionID: m.CollectionID,
		SKU:          m.SKU,
		Name:         m.Name,
		Category:     m.Category,
		Material:     m.Material,
		Finish:       m.Finish,
		Dimensions:   m.Dimensions,
		BasePrice:    m.BasePrice,
		LeadTimeDays: m.LeadTimeDays,
		Active:       m.Active,
	}
	m.loadRoot(&p.TenantAggregateRoot)
	return p
}

// ProductModelFromDomain creates a model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
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
	}
	m.storeRoot(p.TenantAggregateRoot)
	return m
}
