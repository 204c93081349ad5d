package models

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/design"
	"github.com/furnitureops/backend/internal/domain/portal"
	"github.com/furnitureops/backend/internal/domain/tasks"
	"github.com/google/uuid"
)

// TaskModel is the persistence model for internal tasks.
type TaskModel struct {
	RootRow
	Title       string             `gorm:"type:varchar(255);not null"`
	Description string             `gorm:"type:text;not null;default:''"`
	Status      tasks.TaskStatus   `gorm:"type:varchar(20);not null;index"`
	Priority    tasks.TaskPriority `gorm:"type:varchar(20);not null"`
	AssigneeID  *uuid.UUID         `gorm:"type:uuid;index"`
	RelatedType string             `gorm:"type:varchar(50);not null;default:''"`
	RelatedID   *uuid.UUID         `gorm:"type:uuid"`
	DueDate     *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task.
func (m *TaskModel) ToDomain() *tasks.Task {
	t := &tasks.Task{
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		Priority:    m.Priority,
		AssigneeID:  m.AssigneeID,
		RelatedType: m.RelatedType,
		RelatedID:   m.RelatedID,
		DueDate:     m.DueDate,
		CompletedAt: m.CompletedAt,
	}
	m.loadRoot(&t.TenantAggregateRoot)
	return t
}

// TaskModelFromDomain creates a model from a domain Task.
func TaskModelFromDomain(t *tasks.Task) *TaskModel {
	m := &TaskModel{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssigneeID:  t.AssigneeID,
		RelatedType: t.RelatedType,
		RelatedID:   t.RelatedID,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
	}
	m.storeRoot(t.TenantAggregateRoot)
	return m
}

// ThreadModel is the persistence model for portal message threads.
type ThreadModel struct {
	RootRow
	CustomerID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderID          *uuid.UUID          `gorm:"type:uuid"`
	Subject          string              `gorm:"type:varchar(255);not null"`
	Status           portal.ThreadStatus `gorm:"type:varchar(20);not null"`
	LastMessageAt    time.Time           `gorm:"not null;index"`
	UnreadByStaff    int                 `gorm:"not null;default:0"`
	UnreadByCustomer int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ThreadModel) TableName() string {
	return "message_threads"
}

// ToDomain converts the persistence model to a domain MessageThread.
func (m *ThreadModel) ToDomain() *portal.MessageThread {
	t := &portal.MessageThread{
		CustomerID:       m.CustomerID,
		OrderID:          m.OrderID,
		Subject:          m.Subject,
		Status:           m.Status,
		LastMessageAt:    m.LastMessageAt,
		UnreadByStaff:    m.UnreadByStaff,
		UnreadByCustomer: m.UnreadByCustomer,
	}
	m.loadRoot(&t.TenantAggregateRoot)
	return t
}

// ThreadModelFromDomain creates a model from a domain MessageThread.
func ThreadModelFromDomain(t *portal.MessageThread) *ThreadModel {
	m := &ThreadModel{
		CustomerID:       t.CustomerID,
		OrderID:          t.OrderID,
		Subject:          t.Subject,
		Status:           t.Status,
		LastMessageAt:    t.LastMessageAt,
		UnreadByStaff:    t.UnreadByStaff,
		UnreadByCustomer: t.UnreadByCustomer,
	}
	m.storeRoot(t.TenantAggregateRoot)
	return m
}

// MessageModel is the persistence model for thread messages.
type MessageModel struct {
	TenantRow
	ThreadID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	SenderType     portal.SenderType `gorm:"type:varchar(20);not null"`
	SenderID       uuid.UUID         `gorm:"type:uuid;not null"`
	Body           string            `gorm:"type:text;not null"`
	AttachmentKeys []string          `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message.
func (m *MessageModel) ToDomain() *portal.Message {
	msg := &portal.Message{
		TenantID:       m.TenantID,
		ThreadID:       m.ThreadID,
		SenderType:     m.SenderType,
		SenderID:       m.SenderID,
		Body:           m.Body,
		AttachmentKeys: m.AttachmentKeys,
	}
	if msg.AttachmentKeys == nil {
		msg.AttachmentKeys = []string{}
	}
	m.loadEntity(&msg.BaseEntity)
	return msg
}

// MessageModelFromDomain creates a model from a domain Message.
func MessageModelFromDomain(msg *portal.Message) *MessageModel {
	m := &MessageModel{
		ThreadID:       msg.ThreadID,
		SenderType:     msg.SenderType,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		AttachmentKeys: msg.AttachmentKeys,
	}
	if m.AttachmentKeys == nil {
		m.AttachmentKeys = []string{}
	}
	m.storeEntity(msg.BaseEntity)
	m.TenantID = msg.TenantID
	return m
}

// BoardModel is the persistence model for design boards.
type BoardModel struct {
	RootRow
	Name         string             `gorm:"type:varchar(200);not null"`
	CustomerID   *uuid.UUID         `gorm:"type:uuid;index"`
	CollectionID *uuid.UUID         `gorm:"type:uuid;index"`
	Description  string             `gorm:"type:text;not null;default:''"`
	Status       design.BoardStatus `gorm:"type:varchar(20);not null"`
	Assets       []design.Asset     `gorm:"type:jsonb;serializer:json"`
	SharedAt     *time.Time
	ApprovedAt   *time.Time
}

// TableName returns the table name for GORM
func (BoardModel) TableName() string {
	return "design_boards"
}

// ToDomain converts the persistence model to a domain Board.
func (m *BoardModel) ToDomain() *design.Board {
	b := &design.Board{
		Name:         m.Name,
		CustomerID:   m.CustomerID,
		CollectionID: m.CollectionID,
		Description:  m.Description,
		Status:       m.Status,
		Assets:       m.Assets,
		SharedAt:     m.SharedAt,
		ApprovedAt:   m.ApprovedAt,
	}
	if b.Assets == nil {
		b.Assets = []design.Asset{}
	}
	m.loadRoot(&b.TenantAggregateRoot)
	return b
}

// BoardModelFromDomain creates a model from a domain Board.
func BoardModelFromDomain(b *design.Board) *BoardModel {
	m := &BoardModel{
		Name:         b.Name,
		CustomerID:   b.CustomerID,
		CollectionID: b.CollectionID,
		Description:  b.Description,
		Status:       b.Status,
		Assets:       b.Assets,
		SharedAt:     b.SharedAt,
		ApprovedAt:   b.ApprovedAt,
	}
	if m.Assets == nil {
		m.Assets = []design.Asset{}
	}
	m.storeRoot(b.TenantAggregateRoot)
	return m
}

// ReviewModel is the persistence model for factory reviews.
type ReviewModel struct {
	RootRow
	OrderID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	ScheduledAt time.Time            `gorm:"not null"`
	Reviewer    string               `gorm:"type:varchar(100);not null;default:''"`
	Location    string               `gorm:"type:varchar(200);not null;default:''"`
	Status      design.ReviewStatus  `gorm:"type:varchar(20);not null"`
	Findings    []design.Finding     `gorm:"type:jsonb;serializer:json"`
	Outcome     design.ReviewOutcome `gorm:"type:varchar(20);not null;default:''"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "factory_reviews"
}

// ToDomain converts the persistence model to a domain FactoryReview.
func (m *ReviewModel) ToDomain() *design.FactoryReview {
	r := &design.FactoryReview{
		OrderID:     m.OrderID,
		ScheduledAt: m.ScheduledAt,
		Reviewer:    m.Reviewer,
		Location:    m.Location,
		Status:      m.Status,
		Findings:    m.Findings,
		Outcome:     m.Outcome,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
	}
	if r.Findings == nil {
		r.Findings = []design.Finding{}
	}
	m.loadRoot(&r.TenantAggregateRoot)
	return r
}

// ReviewModelFromDomain creates a model from a domain FactoryReview.
func ReviewModelFromDomain(r *design.FactoryReview) *ReviewModel {
	m := &ReviewModel{
		OrderID:     r.OrderID,
		ScheduledAt: r.ScheduledAt,
		Reviewer:    r.Reviewer,
		Location:    r.Location,
		Status:      r.Status,
		Findings:    r.Findings,
		Outcome:     r.Outcome,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
	if m.Findings == nil {
		m.Findings = []design.Finding{}
	}
	m.storeRoot(r.TenantAggregateRoot)
	return m
}
