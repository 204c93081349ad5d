package portal

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ThreadStatus is the state of a conversation
type ThreadStatus string

const (
	ThreadStatusOpen   ThreadStatus = "open"
	ThreadStatusClosed ThreadStatus = "closed"
)

// SenderType identifies which side wrote a message
type SenderType string

const (
	SenderStaff    SenderType = "staff"
	SenderCustomer SenderType = "customer"
)

// IsValid reports whether the sender type is known
func (s SenderType) IsValid() bool {
	return s == SenderStaff || s == SenderCustomer
}

// MessageThread is a conversation between the workshop and a customer
type MessageThread struct {
	shared.TenantAggregateRoot
	CustomerID       uuid.UUID
	OrderID          *uuid.UUID
	Subject          string
	Status           ThreadStatus
	LastMessageAt    time.Time
	UnreadByStaff    int
	UnreadByCustomer int
}

// Message is one entry in a thread
type Message struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	ThreadID       uuid.UUID
	SenderType     SenderType
	SenderID       uuid.UUID
	Body           string
	AttachmentKeys []string
}

// NewThread opens a thread. The first message is posted separately with PostMessage.
func NewThread(tenantID, customerID uuid.UUID, subject string, orderID *uuid.UUID) (*MessageThread, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Thread subject cannot be empty")
	}
	th := &MessageThread{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		OrderID:             orderID,
		Subject:             subject,
		Status:              ThreadStatusOpen,
	}
	th.LastMessageAt = th.CreatedAt
	return th, nil
}

// PostMessage appends a message and bumps the other side's unread count.
// Posting to a closed thread reopens it.
func (th *MessageThread) PostMessage(senderType SenderType, senderID uuid.UUID, body string, attachmentKeys []string) (*Message, error) {
	if !senderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SENDER", "Sender type must be staff or customer")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}
	if attachmentKeys == nil {
		attachmentKeys = []string{}
	}

	msg := &Message{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       th.TenantID,
		ThreadID:       th.ID,
		SenderType:     senderType,
		SenderID:       senderID,
		Body:           body,
		AttachmentKeys: attachmentKeys,
	}

	switch senderType {
	case SenderStaff:
		th.UnreadByCustomer++
	case SenderCustomer:
		th.UnreadByStaff++
	}
	th.Status = ThreadStatusOpen
	th.LastMessageAt = msg.CreatedAt
	th.IncrementVersion()
	th.AddDomainEvent(NewMessagePostedEvent(th, msg))
	return msg, nil
}

// MarkRead clears the unread counter for the reading side
func (th *MessageThread) MarkRead(reader SenderType) error {
	switch reader {
	case SenderStaff:
		th.UnreadByStaff = 0
	case SenderCustomer:
		th.UnreadByCustomer = 0
	default:
		return shared.NewDomainError("INVALID_SENDER", "Reader type must be staff or customer")
	}
	th.IncrementVersion()
	return nil
}

// Close closes the thread
func (th *MessageThread) Close() {
	if th.Status == ThreadStatusClosed {
		return
	}
	th.Status = ThreadStatusClosed
	th.IncrementVersion()
}
