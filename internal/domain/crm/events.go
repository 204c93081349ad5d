package crm

import (
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeActivity = "Activity"
)

// Event type constants
const (
	EventTypeCustomerCreated       = "customer.created"
	EventTypeCustomerStatusChanged = "customer.status_changed"
	EventTypeActivityLogged        = "customer.activity_logged"
)

// CustomerCreatedEvent is published when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID      `json:"customer_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Status     CustomerStatus `json:"status"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Status:          c.Status,
	}
}

// Payload implements shared.PayloadEvent
func (e *CustomerCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"customer_id": e.CustomerID.String(),
		"name":        e.Name,
		"email":       e.Email,
		"phone":       e.Phone,
		"status":      string(e.Status),
	}
}

// CustomerStatusChangedEvent is published when a customer's lifecycle status changes
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID      `json:"customer_id"`
	Name       string         `json:"name"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	OldStatus  CustomerStatus `json:"old_status"`
	NewStatus  CustomerStatus `json:"new_status"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(c *Customer, old CustomerStatus) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerStatusChanged, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		OldStatus:       old,
		NewStatus:       c.Status,
	}
}

// Payload implements shared.PayloadEvent
func (e *CustomerStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"customer_id": e.CustomerID.String(),
		"name":        e.Name,
		"phone":       e.Phone,
		"email":       e.Email,
		"old_status":  string(e.OldStatus),
		"status":      string(e.NewStatus),
	}
}

// ActivityLoggedEvent is published when an activity is recorded for a customer
type ActivityLoggedEvent struct {
	shared.BaseDomainEvent
	ActivityID uuid.UUID    `json:"activity_id"`
	CustomerID uuid.UUID    `json:"customer_id"`
	Type       ActivityType `json:"type"`
	Subject    string       `json:"subject"`
}

// NewActivityLoggedEvent creates a new ActivityLoggedEvent
func NewActivityLoggedEvent(a *Activity) *ActivityLoggedEvent {
	return &ActivityLoggedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeActivityLogged, AggregateTypeActivity, a.ID, a.TenantID),
		ActivityID:      a.ID,
		CustomerID:      a.CustomerID,
		Type:            a.Type,
		Subject:         a.Subject,
	}
}

// Payload implements shared.PayloadEvent
func (e *ActivityLoggedEvent) Payload() map[string]any {
	return map[string]any{
		"activity_id": e.ActivityID.String(),
		"customer_id": e.CustomerID.String(),
		"type":        string(e.Type),
		"subject":     e.Subject,
	}
}
