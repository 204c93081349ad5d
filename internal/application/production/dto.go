package production

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/google/uuid"
)

// AdvanceStageRequest moves a tracked item forward
type AdvanceStageRequest struct {
	Stage string `json:"stage" binding:"required,oneof=cutting assembly finishing upholstery quality_check completed"`
	Notes string `json:"notes" binding:"max=2000"`
}

// UpdateProgressRequest sets progress within the current stage
type UpdateProgressRequest struct {
	Progress int `json:"progress" binding:"min=0,max=100"`
}

// AssignRequest sets the responsible craftsperson or team
type AssignRequest struct {
	AssignedTo string `json:"assigned_to" binding:"max=200"`
}

// TrackingListFilter represents filter options for the tracking list
type TrackingListFilter struct {
	OrderID    *uuid.UUID `form:"order_id"`
	Stage      string     `form:"stage" binding:"omitempty,oneof=pending cutting assembly finishing upholstery quality_check completed"`
	AssignedTo string     `form:"assigned_to"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StageChangeResponse is one history entry
type StageChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// TrackingResponse represents a production tracking row in API responses
type TrackingResponse struct {
	ID             uuid.UUID             `json:"id"`
	TenantID       uuid.UUID             `json:"tenant_id"`
	OrderID        uuid.UUID             `json:"order_id"`
	ItemIndex      int                   `json:"item_index"`
	ProductName    string                `json:"product_name"`
	Quantity       int                   `json:"quantity"`
	Stage          string                `json:"stage"`
	Progress       int                   `json:"progress"`
	AssignedTo     string                `json:"assigned_to"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	StageEnteredAt time.Time             `json:"stage_entered_at"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	DueDate        *time.Time            `json:"due_date,omitempty"`
	Overdue        bool                  `json:"overdue"`
	Notes          string                `json:"notes"`
	History        []StageChangeResponse `json:"history"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Version        int                   `json:"version"`
}

// ToTrackingResponse converts a domain Tracking to TrackingResponse
func ToTrackingResponse(t *production.Tracking) TrackingResponse {
	history := make([]StageChangeResponse, len(t.History))
	for i, h := range t.History {
		history[i] = StageChangeResponse{
			From:      string(h.From),
			To:        string(h.To),
			ChangedAt: h.ChangedAt,
			ChangedBy: h.ChangedBy,
			Notes:     h.Notes,
		}
	}
	return TrackingResponse{
		ID:             t.ID,
		TenantID:       t.TenantID,
		OrderID:        t.OrderID,
		ItemIndex:      t.ItemIndex,
		ProductName:    t.ProductName,
		Quantity:       t.Quantity,
		Stage:          string(t.Stage),
		Progress:       t.Progress,
		AssignedTo:     t.AssignedTo,
		StartedAt:      t.StartedAt,
		StageEnteredAt: t.StageEnteredAt,
		CompletedAt:    t.CompletedAt,
		DueDate:        t.DueDate,
		Overdue:        t.IsOverdue(time.Now()),
		Notes:          t.Notes,
		History:        history,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Version:        t.Version,
	}
}

// ToTrackingResponses converts a slice of domain Trackings
func ToTrackingResponses(list []production.Tracking) []TrackingResponse {
	responses := make([]TrackingResponse, len(list))
	for i := range list {
		responses[i] = ToTrackingResponse(&list[i])
	}
	return responses
}
