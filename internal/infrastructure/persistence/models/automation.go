package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/automation"
	"github.com/furnitureops/backend/internal/domain/marketing"
	"github.com/furnitureops/backend/internal/domain/prediction"
	"github.com/google/uuid"
)

// RuleModel is the persistence model for automation rules.
type RuleModel struct {
	RootRow
	Name            string                 `gorm:"type:varchar(200);not null"`
	Description     string                 `gorm:"type:text;not null;default:''"`
	TriggerEvent    string                 `gorm:"type:varchar(100);not null;index"`
	Conditions      []automation.Condition `gorm:"type:jsonb;serializer:json"`
	Actions         []automation.Action    `gorm:"type:jsonb;serializer:json"`
	Priority        int                    `gorm:"not null;default:0"`
	Active          bool                   `gorm:"not null"`
	TriggerCount    int                    `gorm:"not null;default:0"`
	LastTriggeredAt *time.Time
}

// TableName returns the table name for GORM
func (RuleModel) TableName() string {
	return "automation_rules"
}

// ToDomain converts the persistence model to a domain Rule.
func (m *RuleModel) ToDomain() *automation.Rule {
	r := &automation.Rule{
		Name:            m.Name,
		Description:     m.Description,
		TriggerEvent:    m.TriggerEvent,
		Conditions:      m.Conditions,
		Actions:         m.Actions,
		Priority:        m.Priority,
		Active:          m.Active,
		TriggerCount:    m.TriggerCount,
		LastTriggeredAt: m.LastTriggeredAt,
	}
	if r.Conditions == nil {
		r.Conditions = []automation.Condition{}
	}
	if r.Actions == nil {
		r.Actions = []automation.Action{}
	}
	m.loadRoot(&r.TenantAggregateRoot)
	return r
}

// RuleModelFromDomain creates a model from a domain Rule.
func RuleModelFromDomain(r *automation.Rule) *RuleModel {
	m := &RuleModel{
		Name:            r.Name,
		Description:     r.Description,
		TriggerEvent:    r.TriggerEvent,
		Conditions:      r.Conditions,
		Actions:         r.Actions,
		Priority:        r.Priority,
		Active:          r.Active,
		TriggerCount:    r.TriggerCount,
		LastTriggeredAt: r.LastTriggeredAt,
	}
	if m.Conditions == nil {
		m.Conditions = []automation.Condition{}
	}
	if m.Actions == nil {
		m.Actions = []automation.Action{}
	}
	m.storeRoot(r.TenantAggregateRoot)
	return m
}

// ExecutionModel is the persistence model for the automation execution log.
type ExecutionModel struct {
	TenantRow
	RuleID       uuid.UUID                  `gorm:"type:uuid;not null;index"`
	RuleName     string                     `gorm:"type:varchar(200);not null"`
	TriggerEvent string                     `gorm:"type:varchar(100);not null"`
	ActionIndex  int                        `gorm:"not null"`
	ActionType   automation.ActionType      `gorm:"type:varchar(30);not null"`
	Status       automation.ExecutionStatus `gorm:"type:varchar(20);not null"`
	Error        string                     `gorm:"type:text;not null;default:''"`
	Output       map[string]any             `gorm:"type:jsonb;serializer:json"`
	Payload      map[string]any             `gorm:"type:jsonb;serializer:json"`
	DurationMS   int64                      `gorm:"column:duration_ms;not null;default:0"`
}

// TableName returns the table name for GORM
func (ExecutionModel) TableName() string {
	return "automation_executions"
}

// ToDomain converts the persistence model to a domain Execution.
func (m *ExecutionModel) ToDomain() *automation.Execution {
	e := &automation.Execution{
		TenantID:     m.TenantID,
		RuleID:       m.RuleID,
		RuleName:     m.RuleName,
		TriggerEvent: m.TriggerEvent,
		ActionIndex:  m.ActionIndex,
		ActionType:   m.ActionType,
		Status:       m.Status,
		Error:        m.Error,
		Output:       m.Output,
		Payload:      m.Payload,
		Duration:     time.Duration(m.DurationMS) * time.Millisecond,
	}
	m.loadEntity(&e.BaseEntity)
	return e
}

// ExecutionModelFromDomain creates a model from a domain Execution.
func ExecutionModelFromDomain(e *automation.Execution) *ExecutionModel {
	m := &ExecutionModel{
		RuleID:       e.RuleID,
		RuleName:     e.RuleName,
		TriggerEvent: e.TriggerEvent,
		ActionIndex:  e.ActionIndex,
		ActionType:   e.ActionType,
		Status:       e.Status,
		Error:        e.Error,
		Output:       e.Output,
		Payload:      e.Payload,
		DurationMS:   e.Duration.Milliseconds(),
	}
	m.storeEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	return m
}

// PredictionModel is the persistence model for stored AI predictions.
type PredictionModel struct {
	TenantRow
	Type        prediction.Type `gorm:"type:varchar(30);not null;index"`
	SubjectType string          `gorm:"type:varchar(50);not null;default:''"`
	SubjectID   *uuid.UUID      `gorm:"type:uuid;index"`
	Result      map[string]any  `gorm:"type:jsonb;serializer:json"`
	Confidence  float64         `gorm:"type:numeric(5,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PredictionModel) TableName() string {
	return "ai_predictions"
}

// ToDomain converts the persistence model to a domain Prediction.
func (m *PredictionModel) ToDomain() *prediction.Prediction {
	p := &prediction.Prediction{
		TenantID:    m.TenantID,
		Type:        m.Type,
		SubjectType: m.SubjectType,
		SubjectID:   m.SubjectID,
		Result:      m.Result,
		Confidence:  m.Confidence,
	}
	if p.Result == nil {
		p.Result = map[string]any{}
	}
	m.loadEntity(&p.BaseEntity)
	return p
}

// PredictionModelFromDomain creates a model from a domain Prediction.
func PredictionModelFromDomain(p *prediction.Prediction) *PredictionModel {
	m := &PredictionModel{
		Type:        p.Type,
		SubjectType: p.SubjectType,
		SubjectID:   p.SubjectID,
		Result:      p.Result,
		Confidence:  p.Confidence,
	}
	m.storeEntity(p.BaseEntity)
	m.TenantID = p.TenantID
	return m
}

// CampaignModel is the persistence model for SMS campaigns.
type CampaignModel struct {
	RootRow
	Name        string                   `gorm:"type:varchar(200);not null"`
	Message     string                   `gorm:"type:text;not null"`
	Recipients  []marketing.Recipient    `gorm:"type:jsonb;serializer:json"`
	Status      marketing.CampaignStatus `gorm:"type:varchar(20);not null;index"`
	SentCount   int                      `gorm:"not null;default:0"`
	FailedCount int                      `gorm:"not null;default:0"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (CampaignModel) TableName() string {
	return "sms_campaigns"
}

// ToDomain converts the persistence model to a domain SMSCampaign.
func (m *CampaignModel) ToDomain() *marketing.SMSCampaign {
	c := &marketing.SMSCampaign{
		Name:        m.Name,
		Message:     m.Message,
		Recipients:  m.Recipients,
		Status:      m.Status,
		SentCount:   m.SentCount,
		FailedCount: m.FailedCount,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
	if c.Recipients == nil {
		c.Recipients = []marketing.Recipient{}
	}
	m.loadRoot(&c.TenantAggregateRoot)
	return c
}

// CampaignModelFromDomain creates a model from a domain SMSCampaign.
func CampaignModelFromDomain(c *marketing.SMSCampaign) *CampaignModel {
	m := &CampaignModel{
		Name:        c.Name,
		Message:     c.Message,
		Recipients:  c.Recipients,
		Status:      c.Status,
		SentCount:   c.SentCount,
		FailedCount: c.FailedCount,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
	}
	if m.Recipients == nil {
		m.Recipients = []marketing.Recipient{}
	}
	m.storeRoot(c.TenantAggregateRoot)
	return m
}

// DeliveryModel is the persistence model for per-recipient SMS results.
type DeliveryModel struct {
	TenantRow
	CampaignID uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerID *uuid.UUID               `gorm:"type:uuid"`
	Phone      string                   `gorm:"type:varchar(50);not null"`
	Status     marketing.DeliveryStatus `gorm:"type:varchar(20);not null"`
	ProviderID string                   `gorm:"type:varchar(100);not null;default:''"`
	Error      string                   `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "sms_deliveries"
}

// ToDomain converts the persistence model to a domain Delivery.
func (m *DeliveryModel) ToDomain() *marketing.Delivery {
	d := &marketing.Delivery{
		TenantID:   m.TenantID,
		CampaignID: m.CampaignID,
		CustomerID: m.CustomerID,
		Phone:      m.Phone,
		Status:     m.Status,
		ProviderID: m.ProviderID,
		Error:      m.Error,
	}
	m.loadEntity(&d.BaseEntity)
	return d
}

// DeliveryModelFromDomain creates a model from a domain Delivery.
func DeliveryModelFromDomain(d *marketing.Delivery) *DeliveryModel {
	m := &DeliveryModel{
		CampaignID: d.CampaignID,
		CustomerID: d.CustomerID,
		Phone:      d.Phone,
		Status:     d.Status,
		ProviderID: d.ProviderID,
		Error:      d.Error,
	}
	m.storeEntity(d.BaseEntity)
	m.TenantID = d.TenantID
	return m
}
