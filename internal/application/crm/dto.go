package crm

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a customer.
// The JSON field "name" is stored as client_name.
type CreateCustomerRequest struct {
	Name    string   `json:"name" binding:"required,min=1,max=200"`
	Email   string   `json:"email" binding:"omitempty,email,max=200"`
	Phone   string   `json:"phone" binding:"omitempty,phone,max=50"`
	Company string   `json:"company" binding:"max=200"`
	Address string   `json:"address" binding:"max=500"`
	Source  string   `json:"source" binding:"max=50"`
	Notes   string   `json:"notes" binding:"max=5000"`
	Tags    []string `json:"tags" binding:"max=20,dive,max=50"`
	Status  string   `json:"status" binding:"omitempty,oneof=lead active inactive churned"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name               *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Email              *string   `json:"email" binding:"omitempty,max=200"`
	Phone              *string   `json:"phone" binding:"omitempty,phone,max=50"`
	Company            *string   `json:"company" binding:"omitempty,max=200"`
	Address            *string   `json:"address" binding:"omitempty,max=500"`
	Source             *string   `json:"source" binding:"omitempty,max=50"`
	Notes              *string   `json:"notes" binding:"omitempty,max=5000"`
	Tags               *[]string `json:"tags"`
	Status             *string   `json:"status" binding:"omitempty,oneof=lead active inactive churned"`
	SupportTicketCount *int      `json:"support_ticket_count" binding:"omitempty,min=0"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=lead active inactive churned"`
	Source   string `form:"source"`
	Tag      string `form:"tag"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Company            string          `json:"company"`
	Address            string          `json:"address"`
	Status             string          `json:"status"`
	Source             string          `json:"source"`
	Tags               []string        `json:"tags"`
	Notes              string          `json:"notes"`
	SupportTicketCount int             `json:"support_ticket_count"`
	LastContactAt      *time.Time      `json:"last_contact_at,omitempty"`
	LifetimeValue      decimal.Decimal `json:"lifetime_value"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *crm.Customer) CustomerResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CustomerResponse{
		ID:                 c.ID,
		TenantID:           c.TenantID,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		Company:            c.Company,
		Address:            c.Address,
		Status:             string(c.Status),
		Source:             c.Source,
		Tags:               tags,
		Notes:              c.Notes,
		SupportTicketCount: c.SupportTicketCount,
		LastContactAt:      c.LastContactAt,
		LifetimeValue:      c.LifetimeValue,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		Version:            c.Version,
	}
}

// ToCustomerResponses converts a slice of domain Customers
func ToCustomerResponses(customers []crm.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// RecordContactRequest stamps a contact time; zero means now
type RecordContactRequest struct {
	ContactedAt *time.Time `json:"contacted_at"`
}

// CreateActivityRequest represents a request to log a customer activity
type CreateActivityRequest struct {
	Type       string     `json:"type" binding:"required,oneof=call email meeting note task"`
	Subject    string     `json:"subject" binding:"required,min=1,max=200"`
	Notes      string     `json:"notes" binding:"max=5000"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// ActivityListFilter represents filter options for a customer's activities
type ActivityListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=call email meeting note task"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	Type       string     `json:"type"`
	Subject    string     `json:"subject"`
	Notes      string     `json:"notes"`
	OccurredAt time.Time  `json:"occurred_at"`
	CreatedBy  *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToActivityResponse converts a domain Activity to ActivityResponse
func ToActivityResponse(a *crm.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Type:       string(a.Type),
		Subject:    a.Subject,
		Notes:      a.Notes,
		OccurredAt: a.OccurredAt,
		CreatedBy:  a.CreatedBy,
		CreatedAt:  a.CreatedAt,
	}
}

// ToActivityResponses converts a slice of domain Activities
func ToActivityResponses(activities []crm.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = ToActivityResponse(&activities[i])
	}
	return responses
}
