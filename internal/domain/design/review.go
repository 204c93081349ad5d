package design

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReviewStatus is the state of a factory review session
type ReviewStatus string

const (
	ReviewStatusScheduled  ReviewStatus = "scheduled"
	ReviewStatusInProgress ReviewStatus = "in_progress"
	ReviewStatusCompleted  ReviewStatus = "completed"
	ReviewStatusCancelled  ReviewStatus = "cancelled"
)

// Severity grades a review finding
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// IsValid reports whether the severity is known
func (s Severity) IsValid() bool {
	return s == SeverityMinor || s == SeverityMajor || s == SeverityCritical
}

// ReviewOutcome is the final decision of a review
type ReviewOutcome string

const (
	OutcomeApproved       ReviewOutcome = "approved"
	OutcomeReworkRequired ReviewOutcome = "rework_required"
)

// Finding is an issue noted during a review
type Finding struct {
	Item     string    `json:"item"`
	Severity Severity  `json:"severity"`
	Note     string    `json:"note"`
	NotedAt  time.Time `json:"noted_at"`
}

// FactoryReview is a walk-through of an order's pieces at the factory before dispatch
type FactoryReview struct {
	shared.TenantAggregateRoot
	OrderID     uuid.UUID
	ScheduledAt time.Time
	Reviewer    string
	Location    string
	Status      ReviewStatus
	Findings    []Finding
	Outcome     ReviewOutcome
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewFactoryReview schedules a review for an order
func NewFactoryReview(tenantID, orderID uuid.UUID, scheduledAt time.Time, reviewer, location string) (*FactoryReview, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID is required")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	return &FactoryReview{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		ScheduledAt:         scheduledAt,
		Reviewer:            strings.TrimSpace(reviewer),
		Location:            strings.TrimSpace(location),
		Status:              ReviewStatusScheduled,
		Findings:            []Finding{},
	}, nil
}

// Reschedule moves a scheduled review
func (r *FactoryReview) Reschedule(at time.Time, reviewer, location string) error {
	if r.Status != ReviewStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled reviews can be rescheduled")
	}
	if at.IsZero() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	r.ScheduledAt = at
	r.Reviewer = strings.TrimSpace(reviewer)
	r.Location = strings.TrimSpace(location)
	r.IncrementVersion()
	return nil
}

// Start begins the session
func (r *FactoryReview) Start() error {
	if r.Status != ReviewStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled reviews can be started")
	}
	now := time.Now()
	r.Status = ReviewStatusInProgress
	r.StartedAt = &now
	r.IncrementVersion()
	return nil
}

// AddFinding records an issue. Findings are only accepted while in progress.
func (r *FactoryReview) AddFinding(item string, severity Severity, note string) error {
	if r.Status != ReviewStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Findings can only be added to a review in progress")
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return shared.NewDomainError("INVALID_FINDING", "Finding item is required")
	}
	if !severity.IsValid() {
		return shared.NewDomainError("INVALID_SEVERITY", "Severity must be minor, major or critical")
	}
	r.Findings = append(r.Findings, Finding{Item: item, Severity: severity, Note: note, NotedAt: time.Now()})
	r.IncrementVersion()
	return nil
}

// HasCritical reports whether any critical finding was recorded
func (r *FactoryReview) HasCritical() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Complete closes the session. An empty outcome is derived from the findings.
func (r *FactoryReview) Complete(outcome ReviewOutcome) error {
	if r.Status != ReviewStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only reviews in progress can be completed")
	}
	switch outcome {
	case "":
		outcome = OutcomeApproved
		if r.HasCritical() {
			outcome = OutcomeReworkRequired
		}
	case OutcomeApproved, OutcomeReworkRequired:
	default:
		return shared.NewDomainError("INVALID_OUTCOME", "Outcome must be approved or rework_required")
	}
	now := time.Now()
	r.Outcome = outcome
	r.Status = ReviewStatusCompleted
	r.CompletedAt = &now
	r.IncrementVersion()
	return nil
}

// Cancel cancels a review that has not completed
func (r *FactoryReview) Cancel() error {
	if r.Status == ReviewStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed reviews cannot be cancelled")
	}
	r.Status = ReviewStatusCancelled
	r.IncrementVersion()
	return nil
}
