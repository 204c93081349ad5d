package production

import (
	"fmt"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Stage is a step on the shop floor
type Stage string

const (
	StagePending      Stage = "pending"
	StageCutting      Stage = "cutting"
	StageAssembly     Stage = "assembly"
	StageFinishing    Stage = "finishing"
	StageUpholstery   Stage = "upholstery"
	StageQualityCheck Stage = "quality_check"
	StageCompleted    Stage = "completed"
)

// Stages lists the production stages in shop-floor order
var Stages = []Stage{
	StagePending,
	StageCutting,
	StageAssembly,
	StageFinishing,
	StageUpholstery,
	StageQualityCheck,
	StageCompleted,
}

// Index returns the position of the stage, or -1 if unknown
func (s Stage) Index() int {
	for i, v := range Stages {
		if v == s {
			return i
		}
	}
	return -1
}

// IsValid reports whether the stage is known
func (s Stage) IsValid() bool {
	return s.Index() >= 0
}

// Progress returns the percentage implied by reaching the stage
func (s Stage) Progress() int {
	idx := s.Index()
	if idx <= 0 {
		return 0
	}
	return idx * 100 / (len(Stages) - 1)
}

// StageChange is one entry in a tracking row's history
type StageChange struct {
	From      Stage     `json:"from"`
	To        Stage     `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Tracking follows one order item through production
type Tracking struct {
	shared.TenantAggregateRoot
	OrderID        uuid.UUID
	ItemIndex      int
	ProductName    string
	Quantity       int
	Stage          Stage
	Progress       int
	AssignedTo     string
	StartedAt      *time.Time
	StageEnteredAt time.Time
	CompletedAt    *time.Time
	DueDate        *time.Time
	Notes          string
	History        []StageChange
}

// NewTracking creates a pending tracking row for an order item
func NewTracking(tenantID, orderID uuid.UUID, itemIndex int, productName string, quantity int, dueDate *time.Time) (*Tracking, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	t := &Tracking{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		ItemIndex:           itemIndex,
		ProductName:         productName,
		Quantity:            quantity,
		Stage:               StagePending,
		DueDate:             dueDate,
		History:             []StageChange{},
	}
	t.StageEnteredAt = t.CreatedAt
	return t, nil
}

// AdvanceTo moves the item forward to next. Stages may be skipped but never revisited.
func (t *Tracking) AdvanceTo(next Stage, changedBy, notes string) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Unknown production stage: "+string(next))
	}
	if t.Stage == StageCompleted {
		return shared.NewDomainError("INVALID_STATE", "Production is already completed")
	}
	if next.Index() <= t.Stage.Index() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move from %s back to %s", t.Stage, next))
	}

	now := time.Now()
	old := t.Stage
	t.History = append(t.History, StageChange{From: old, To: next, ChangedAt: now, ChangedBy: changedBy, Notes: notes})
	t.Stage = next
	t.StageEnteredAt = now
	t.Progress = next.Progress()
	if t.StartedAt == nil {
		t.StartedAt = &now
	}
	if next == StageCompleted {
		t.CompletedAt = &now
	}
	if notes != "" {
		t.Notes = notes
	}
	t.IncrementVersion()
	t.AddDomainEvent(NewStageChangedEvent(t, old))
	return nil
}

// UpdateProgress sets progress within the current stage window
func (t *Tracking) UpdateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return shared.NewDomainError("INVALID_PROGRESS", "Progress must be between 0 and 100")
	}
	if t.Stage == StageCompleted {
		return shared.NewDomainError("INVALID_STATE", "Production is already completed")
	}
	if progress < t.Stage.Progress() {
		return shared.NewDomainError("INVALID_PROGRESS",
			fmt.Sprintf("Progress cannot be below %d%% at stage %s", t.Stage.Progress(), t.Stage))
	}
	t.Progress = progress
	t.IncrementVersion()
	return nil
}

// Assign sets the craftsperson or team responsible
func (t *Tracking) Assign(assignee string) {
	t.AssignedTo = assignee
	t.IncrementVersion()
}

// IsCompleted reports whether the item finished production
func (t *Tracking) IsCompleted() bool {
	return t.Stage == StageCompleted
}

// DaysInStage returns fractional days spent in the current stage
func (t *Tracking) DaysInStage(now time.Time) float64 {
	return now.Sub(t.StageEnteredAt).Hours() / 24
}

// IsOverdue reports whether an unfinished item passed its due date
func (t *Tracking) IsOverdue(now time.Time) bool {
	return !t.IsCompleted() && t.DueDate != nil && now.After(*t.DueDate)
}
