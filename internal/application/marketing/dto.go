package marketing

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/marketing"
	"github.com/google/uuid"
)

// CreateCampaignRequest represents a request to create a draft campaign.
// Customers are resolved to their phone numbers; Phones are used as given.
type CreateCampaignRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=200"`
	Message     string      `json:"message" binding:"required,min=1,max=1600"`
	CustomerIDs []uuid.UUID `json:"customer_ids"`
	Phones      []string    `json:"phones" binding:"omitempty,dive,required,phone,max=32"`
}

// UpdateCampaignRequest edits a draft campaign. A non-nil recipient list
// replaces the current recipients.
type UpdateCampaignRequest struct {
	Name        *string      `json:"name" binding:"omitempty,min=1,max=200"`
	Message     *string      `json:"message" binding:"omitempty,min=1,max=1600"`
	CustomerIDs *[]uuid.UUID `json:"customer_ids"`
	Phones      *[]string    `json:"phones" binding:"omitempty,dive,required,phone,max=32"`
}

// CampaignListFilter represents filter options for the campaign list
type CampaignListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft sending completed failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DeliveryListFilter represents filter options for a campaign's delivery log
type DeliveryListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=sent failed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RecipientResponse is one campaign recipient
type RecipientResponse struct {
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Phone      string     `json:"phone"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID             uuid.UUID           `json:"id"`
	TenantID       uuid.UUID           `json:"tenant_id"`
	Name           string              `json:"name"`
	Message        string              `json:"message"`
	Recipients     []RecipientResponse `json:"recipients"`
	RecipientCount int                 `json:"recipient_count"`
	Status         string              `json:"status"`
	SentCount      int                 `json:"sent_count"`
	FailedCount    int                 `json:"failed_count"`
	StartedAt      *time.Time          `json:"started_at,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// DeliveryResponse is one recipient's send outcome
type DeliveryResponse struct {
	ID         uuid.UUID  `json:"id"`
	CampaignID uuid.UUID  `json:"campaign_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Phone      string     `json:"phone"`
	Status     string     `json:"status"`
	ProviderID string     `json:"provider_id,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToCampaignResponse converts a domain SMSCampaign to CampaignResponse
func ToCampaignResponse(c *marketing.SMSCampaign) CampaignResponse {
	recipients := make([]RecipientResponse, len(c.Recipients))
	for i, r := range c.Recipients {
		recipients[i] = RecipientResponse{CustomerID: r.CustomerID, Phone: r.Phone}
	}
	return CampaignResponse{
		ID:             c.ID,
		TenantID:       c.TenantID,
		Name:           c.Name,
		Message:        c.Message,
		Recipients:     recipients,
		RecipientCount: len(recipients),
		Status:         string(c.Status),
		SentCount:      c.SentCount,
		FailedCount:    c.FailedCount,
		StartedAt:      c.StartedAt,
		CompletedAt:    c.CompletedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// ToCampaignResponses converts a slice of domain campaigns
func ToCampaignResponses(list []marketing.SMSCampaign) []CampaignResponse {
	responses := make([]CampaignResponse, len(list))
	for i := range list {
		responses[i] = ToCampaignResponse(&list[i])
	}
	return responses
}

// ToDeliveryResponses converts delivery rows
func ToDeliveryResponses(list []marketing.Delivery) []DeliveryResponse {
	responses := make([]DeliveryResponse, len(list))
	for i, d := range list {
		responses[i] = DeliveryResponse{
			ID:         d.ID,
			CampaignID: d.CampaignID,
			CustomerID: d.CustomerID,
			Phone:      d.Phone,
			Status:     string(d.Status),
			ProviderID: d.ProviderID,
			Error:      d.Error,
			CreatedAt:  d.CreatedAt,
		}
	}
	return responses
}
