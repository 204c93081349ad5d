package marketing

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CampaignStatus is the send state of an SMS campaign
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusFailed    CampaignStatus = "failed"
)

// MaxMessageLength caps the template length (roughly ten SMS segments)
const MaxMessageLength = 1600

// Recipient is one addressee of a campaign. CustomerID is set when the phone
// was resolved from a customer record.
type Recipient struct {
	CustomerID *uuid.UUID     `json:"customer_id,omitempty"`
	Phone      string         `json:"phone"`
	Vars       map[string]any `json:"vars,omitempty"`
}

// SMSCampaign is a bulk SMS send to a list of recipients
type SMSCampaign struct {
	shared.TenantAggregateRoot
	Name        string
	Message     string
	Recipients  []Recipient
	Status      CampaignStatus
	SentCount   int
	FailedCount int
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewSMSCampaign creates a draft campaign
func NewSMSCampaign(tenantID uuid.UUID, name, message string, recipients []Recipient) (*SMSCampaign, error) {
	c := &SMSCampaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              CampaignStatusDraft,
	}
	if err := c.define(name, message, recipients); err != nil {
		return nil, err
	}
	return c, nil
}

// Update edits a draft campaign
func (c *SMSCampaign) Update(name, message string, recipients []Recipient) error {
	if c.Status != CampaignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft campaigns can be edited")
	}
	if err := c.define(name, message, recipients); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *SMSCampaign) define(name, message string, recipients []Recipient) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Campaign name cannot be empty")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return shared.NewDomainError("INVALID_MESSAGE", "Campaign message cannot be empty")
	}
	if len(message) > MaxMessageLength {
		return shared.NewDomainError("INVALID_MESSAGE", "Campaign message is too long")
	}
	c.Name = name
	c.Message = message
	c.Recipients = dedupeRecipients(recipients)
	return nil
}

// Start moves the campaign into sending
func (c *SMSCampaign) Start() error {
	if c.Status != CampaignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Campaign has already been sent")
	}
	if len(c.Recipients) == 0 {
		return shared.NewDomainError("INVALID_RECIPIENTS", "Campaign has no recipients")
	}
	now := time.Now()
	c.Status = CampaignStatusSending
	c.StartedAt = &now
	c.SentCount = 0
	c.FailedCount = 0
	c.IncrementVersion()
	return nil
}

// Finish records the final tallies. The campaign completes when at least one
// message went out.
func (c *SMSCampaign) Finish(sent, failed int) {
	now := time.Now()
	c.SentCount = sent
	c.FailedCount = failed
	c.CompletedAt = &now
	if sent > 0 {
		c.Status = CampaignStatusCompleted
	} else {
		c.Status = CampaignStatusFailed
	}
	c.IncrementVersion()
}

// Chunks splits the recipients into consecutive groups of at most size
func (c *SMSCampaign) Chunks(size int) [][]Recipient {
	if size <= 0 {
		size = len(c.Recipients)
	}
	var chunks [][]Recipient
	for start := 0; start < len(c.Recipients); start += size {
		end := start + size
		if end > len(c.Recipients) {
			end = len(c.Recipients)
		}
		chunks = append(chunks, c.Recipients[start:end])
	}
	return chunks
}

// NormalizePhone strips formatting characters, keeping a leading '+'
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dedupeRecipients(in []Recipient) []Recipient {
	seen := make(map[string]struct{}, len(in))
	out := make([]Recipient, 0, len(in))
	for _, r := range in {
		r.Phone = NormalizePhone(r.Phone)
		if len(strings.TrimPrefix(r.Phone, "+")) < 7 {
			continue
		}
		if _, ok := seen[r.Phone]; ok {
			continue
		}
		seen[r.Phone] = struct{}{}
		out = append(out, r)
	}
	return out
}
