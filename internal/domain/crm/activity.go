package crm

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityType is the kind of interaction logged against a customer
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeNote    ActivityType = "note"
	ActivityTypeTask    ActivityType = "task"
)

// ActivityTypes lists the accepted activity types
var ActivityTypes = []ActivityType{
	ActivityTypeCall,
	ActivityTypeEmail,
	ActivityTypeMeeting,
	ActivityTypeNote,
	ActivityTypeTask,
}

// IsValid reports whether the type is one of ActivityTypes
func (t ActivityType) IsValid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Activity is a logged interaction with a customer
type Activity struct {
	shared.TenantAggregateRoot
	CustomerID uuid.UUID
	Type       ActivityType
	Subject    string
	Notes      string
	OccurredAt time.Time
}

// NewActivity creates an activity. occurredAt defaults to now when zero.
func NewActivity(tenantID, customerID uuid.UUID, activityType ActivityType, subject, notes string, occurredAt time.Time) (*Activity, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID is required")
	}
	if !activityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTIVITY_TYPE",
			"Activity type must be one of: call, email, meeting, note, task")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Activity subject cannot be empty")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	a := &Activity{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Type:                activityType,
		Subject:             subject,
		Notes:               notes,
		OccurredAt:          occurredAt,
	}
	a.AddDomainEvent(NewActivityLoggedEvent(a))
	return a, nil
}
