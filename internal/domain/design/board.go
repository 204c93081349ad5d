package design

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BoardStatus is the review state of a design board
type BoardStatus string

const (
	BoardStatusDraft    BoardStatus = "draft"
	BoardStatusShared   BoardStatus = "shared"
	BoardStatusApproved BoardStatus = "approved"
)

// Asset is an uploaded file pinned to a board
type Asset struct {
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	AddedAt     time.Time `json:"added_at"`
}

// Board collects inspiration images, drawings and material samples for a customer
type Board struct {
	shared.TenantAggregateRoot
	Name         string
	CustomerID   *uuid.UUID
	CollectionID *uuid.UUID
	Description  string
	Status       BoardStatus
	Assets       []Asset
	SharedAt     *time.Time
	ApprovedAt   *time.Time
}

// NewBoard creates a draft board
func NewBoard(tenantID uuid.UUID, name, description string, customerID, collectionID *uuid.UUID) (*Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Board name cannot be empty")
	}
	return &Board{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		CustomerID:          customerID,
		CollectionID:        collectionID,
		Status:              BoardStatusDraft,
		Assets:              []Asset{},
	}, nil
}

// Update edits the board's descriptive fields
func (b *Board) Update(name, description string, customerID, collectionID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Board name cannot be empty")
	}
	if b.Status == BoardStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Approved boards cannot be edited")
	}
	b.Name = name
	b.Description = description
	b.CustomerID = customerID
	b.CollectionID = collectionID
	b.IncrementVersion()
	return nil
}

// AssetKeyPrefix is the storage prefix for this board's files
func (b *Board) AssetKeyPrefix() string {
	return "design-boards/" + b.TenantID.String() + "/" + b.ID.String() + "/"
}

// OwnsKey reports whether key lives under this board's prefix
func (b *Board) OwnsKey(key string) bool {
	return strings.HasPrefix(key, b.AssetKeyPrefix())
}

// AddAsset pins an uploaded file
func (b *Board) AddAsset(asset Asset) error {
	if b.Status == BoardStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Approved boards cannot be edited")
	}
	if !b.OwnsKey(asset.Key) {
		return shared.NewDomainError("INVALID_ASSET_KEY", "Asset key does not belong to this board")
	}
	for _, a := range b.Assets {
		if a.Key == asset.Key {
			return shared.NewDomainError("ALREADY_EXISTS", "Asset already attached")
		}
	}
	if asset.AddedAt.IsZero() {
		asset.AddedAt = time.Now()
	}
	b.Assets = append(b.Assets, asset)
	b.IncrementVersion()
	return nil
}

// RemoveAsset unpins a file and returns it
func (b *Board) RemoveAsset(key string) (*Asset, error) {
	for i, a := range b.Assets {
		if a.Key == key {
			b.Assets = append(b.Assets[:i], b.Assets[i+1:]...)
			b.IncrementVersion()
			return &a, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Asset not found on board")
}

// FindAsset looks up an asset by key
func (b *Board) FindAsset(key string) (*Asset, bool) {
	for i := range b.Assets {
		if b.Assets[i].Key == key {
			return &b.Assets[i], true
		}
	}
	return nil, false
}

// Share makes the board visible to the customer
func (b *Board) Share() error {
	if b.Status != BoardStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft boards can be shared")
	}
	now := time.Now()
	b.Status = BoardStatusShared
	b.SharedAt = &now
	b.IncrementVersion()
	return nil
}

// Approve records customer sign-off
func (b *Board) Approve() error {
	if b.Status != BoardStatusShared {
		return shared.NewDomainError("INVALID_STATE", "Only shared boards can be approved")
	}
	now := time.Now()
	b.Status = BoardStatusApproved
	b.ApprovedAt = &now
	b.IncrementVersion()
	return nil
}
