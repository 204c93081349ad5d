package portal

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/portal"
	"github.com/google/uuid"
)

// CreateThreadRequest opens a thread with its first message
type CreateThreadRequest struct {
	CustomerID     uuid.UUID  `json:"customer_id" binding:"required"`
	OrderID        *uuid.UUID `json:"order_id"`
	Subject        string     `json:"subject" binding:"required,min=1,max=300"`
	Body           string     `json:"body" binding:"required,min=1,max=10000"`
	SenderType     string     `json:"sender_type" binding:"omitempty,oneof=staff customer"`
	AttachmentKeys []string   `json:"attachment_keys" binding:"omitempty,max=10,dive,max=500"`
}

// PostMessageRequest appends a message to a thread
type PostMessageRequest struct {
	Body           string   `json:"body" binding:"required,min=1,max=10000"`
	SenderType     string   `json:"sender_type" binding:"omitempty,oneof=staff customer"`
	AttachmentKeys []string `json:"attachment_keys" binding:"omitempty,max=10,dive,max=500"`
}

// MarkReadRequest clears one side's unread counter
type MarkReadRequest struct {
	ReaderType string `json:"reader_type" binding:"required,oneof=staff customer"`
}

// ThreadListFilter represents filter options for the thread list
type ThreadListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=open closed"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ThreadID       uuid.UUID `json:"thread_id"`
	SenderType     string    `json:"sender_type"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	AttachmentKeys []string  `json:"attachment_keys"`
	CreatedAt      time.Time `json:"created_at"`
}

// ThreadResponse represents a thread in API responses
type ThreadResponse struct {
	ID               uuid.UUID         `json:"id"`
	TenantID         uuid.UUID         `json:"tenant_id"`
	CustomerID       uuid.UUID         `json:"customer_id"`
	OrderID          *uuid.UUID        `json:"order_id,omitempty"`
	Subject          string            `json:"subject"`
	Status           string            `json:"status"`
	LastMessageAt    time.Time         `json:"last_message_at"`
	UnreadByStaff    int               `json:"unread_by_staff"`
	UnreadByCustomer int               `json:"unread_by_customer"`
	Messages         []MessageResponse `json:"messages,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Version          int               `json:"version"`
}

// ToThreadResponse converts a domain MessageThread to ThreadResponse
func ToThreadResponse(th *portal.MessageThread) ThreadResponse {
	return ThreadResponse{
		ID:               th.ID,
		TenantID:         th.TenantID,
		CustomerID:       th.CustomerID,
		OrderID:          th.OrderID,
		Subject:          th.Subject,
		Status:           string(th.Status),
		LastMessageAt:    th.LastMessageAt,
		UnreadByStaff:    th.UnreadByStaff,
		UnreadByCustomer: th.UnreadByCustomer,
		CreatedAt:        th.CreatedAt,
		UpdatedAt:        th.UpdatedAt,
		Version:          th.Version,
	}
}

// ToThreadResponses converts a slice of domain threads
func ToThreadResponses(list []portal.MessageThread) []ThreadResponse {
	responses := make([]ThreadResponse, len(list))
	for i := range list {
		responses[i] = ToThreadResponse(&list[i])
	}
	return responses
}

// ToMessageResponse converts a domain Message to MessageResponse
func ToMessageResponse(m *portal.Message) MessageResponse {
	keys := m.AttachmentKeys
	if keys == nil {
		keys = []string{}
	}
	return MessageResponse{
		ID:             m.ID,
		ThreadID:       m.ThreadID,
		SenderType:     string(m.SenderType),
		SenderID:       m.SenderID,
		Body:           m.Body,
		AttachmentKeys: keys,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMessageResponses converts a slice of domain messages
func ToMessageResponses(list []portal.Message) []MessageResponse {
	responses := make([]MessageResponse, len(list))
	for i := range list {
		responses[i] = ToMessageResponse(&list[i])
	}
	return responses
}
