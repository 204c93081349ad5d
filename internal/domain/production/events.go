package production

import (
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeTracking is the aggregate type name for production tracking
const AggregateTypeTracking = "ProductionTracking"

// EventTypeStageChanged is published whenever an item changes stage
const EventTypeStageChanged = "production.stage_changed"

// StageChangedEvent is published when a tracked item moves stage
type StageChangedEvent struct {
	shared.BaseDomainEvent
	TrackingID  uuid.UUID `json:"tracking_id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductName string    `json:"product_name"`
	OldStage    Stage     `json:"old_stage"`
	NewStage    Stage     `json:"new_stage"`
	Progress    int       `json:"progress"`
}

// NewStageChangedEvent creates a new StageChangedEvent
func NewStageChangedEvent(t *Tracking, old Stage) *StageChangedEvent {
	return &StageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStageChanged, AggregateTypeTracking, t.ID, t.TenantID),
		TrackingID:      t.ID,
		OrderID:         t.OrderID,
		ProductName:     t.ProductName,
		OldStage:        old,
		NewStage:        t.Stage,
		Progress:        t.Progress,
	}
}

// Payload implements shared.PayloadEvent
func (e *StageChangedEvent) Payload() map[string]any {
	return map[string]any{
		"tracking_id":  e.TrackingID.String(),
		"order_id":     e.OrderID.String(),
		"product_name": e.ProductName,
		"old_stage":    string(e.OldStage),
		"stage":        string(e.NewStage),
		"progress":     e.Progress,
	}
}
