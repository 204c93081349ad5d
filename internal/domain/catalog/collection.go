package catalog

import (
	"strings"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CollectionStatus represents the publication state of a collection
type CollectionStatus string

const (
	CollectionStatusDraft    CollectionStatus = "draft"
	CollectionStatusActive   CollectionStatus = "active"
	CollectionStatusArchived CollectionStatus = "archived"
)

// Collection groups products into a seasonal or thematic line
type Collection struct {
	shared.TenantAggregateRoot
	Name          string
	Description   string
	Season        string
	Status        CollectionStatus
	CoverImageKey string
}

// NewCollection creates a draft collection
func NewCollection(tenantID uuid.UUID, name, description, season string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}
	return &Collection{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		Season:              strings.TrimSpace(season),
		Status:              CollectionStatusDraft,
	}, nil
}

// Update updates the descriptive fields
func (c *Collection) Update(name, description, season, coverImageKey string) error {
	name = strings.TrimSpace(name)
	if err := validateCollectionName(name); err != nil {
		return err
	}
	if c.Status == CollectionStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived collections cannot be edited")
	}
	c.Name = name
	c.Description = description
	c.Season = strings.TrimSpace(season)
	c.CoverImageKey = coverImageKey
	c.IncrementVersion()
	return nil
}

// Activate publishes the collection
func (c *Collection) Activate() error {
	if c.Status == CollectionStatusActive {
		return nil
	}
	if c.Status == CollectionStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived collections cannot be reactivated")
	}
	c.Status = CollectionStatusActive
	c.IncrementVersion()
	return nil
}

// Archive retires the collection
func (c *Collection) Archive() error {
	if c.Status == CollectionStatusArchived {
		return nil
	}
	c.Status = CollectionStatusArchived
	c.IncrementVersion()
	return nil
}

func validateCollectionName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot exceed 200 characters")
	}
	return nil
}
