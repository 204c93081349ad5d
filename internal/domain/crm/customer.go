package crm

import (
	"net/mail"
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents where a client sits in the sales lifecycle
type CustomerStatus string

const (
	CustomerStatusLead     CustomerStatus = "lead"
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusChurned  CustomerStatus = "churned"
)

// IsValid reports whether the status is a known value
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusLead, CustomerStatusActive, CustomerStatusInactive, CustomerStatusChurned:
		return true
	}
	return false
}

// Customer is a client of the workshop. It is the aggregate root of the CRM context.
type Customer struct {
	shared.TenantAggregateRoot
	Name               string
	Email              string
	Phone              string
	Company            string
	Address            string
	Status             CustomerStatus
	Source             string
	Tags               []string
	Notes              string
	SupportTicketCount int
	LastContactAt      *time.Time
	LifetimeValue      decimal.Decimal
}

// NewCustomer creates a new customer. New customers start as leads.
func NewCustomer(tenantID uuid.UUID, name, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		Status:              CustomerStatusLead,
		Tags:                []string{},
		LifetimeValue:       decimal.Zero,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Update replaces the editable profile fields
func (c *Customer) Update(name, email, phone, company, address, source, notes string, tags []string) error {
	name = strings.TrimSpace(name)
	if err := validateCustomerName(name); err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	c.Name = name
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Company = strings.TrimSpace(company)
	c.Address = address
	c.Source = source
	c.Notes = notes
	c.Tags = normalizeTags(tags)
	c.IncrementVersion()
	return nil
}

// ChangeStatus moves the customer to a new lifecycle status
func (c *Customer) ChangeStatus(status CustomerStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid customer status: "+string(status))
	}
	if c.Status == status {
		return nil
	}
	old := c.Status
	c.Status = status
	c.IncrementVersion()
	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, old))
	return nil
}

// RecordContact stamps the last time someone from the workshop reached the customer
func (c *Customer) RecordContact(at time.Time) {
	if c.LastContactAt != nil && c.LastContactAt.After(at) {
		return
	}
	c.LastContactAt = &at
	c.IncrementVersion()
}

// SetSupportTicketCount sets the open support ticket count
func (c *Customer) SetSupportTicketCount(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_TICKET_COUNT", "Support ticket count cannot be negative")
	}
	c.SupportTicketCount = count
	c.IncrementVersion()
	return nil
}

// AddLifetimeValue accumulates collected revenue for the customer
func (c *Customer) AddLifetimeValue(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	c.LifetimeValue = c.LifetimeValue.Add(amount)
	c.IncrementVersion()
}

// DaysSinceContact returns whole days since the last contact, or -1 if never contacted
func (c *Customer) DaysSinceContact(now time.Time) int {
	if c.LastContactAt == nil {
		return -1
	}
	return int(now.Sub(*c.LastContactAt).Hours() / 24)
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
