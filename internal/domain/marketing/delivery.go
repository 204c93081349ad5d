package marketing

import (
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DeliveryStatus is the outcome of one SMS send
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery records a single recipient's send result
type Delivery struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	CampaignID uuid.UUID
	CustomerID *uuid.UUID
	Phone      string
	Status     DeliveryStatus
	ProviderID string
	Error      string
}

// NewDelivery creates a delivery record for a recipient
func NewDelivery(c *SMSCampaign, r Recipient, providerID string, err error) *Delivery {
	d := &Delivery{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   c.TenantID,
		CampaignID: c.ID,
		CustomerID: r.CustomerID,
		Phone:      r.Phone,
		Status:     DeliverySent,
		ProviderID: providerID,
	}
	if err != nil {
		d.Status = DeliveryFailed
		d.Error = err.Error()
	}
	return d
}
