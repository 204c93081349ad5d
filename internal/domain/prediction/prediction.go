package prediction

import (
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type is the kind of prediction stored
type Type string

const (
	TypeRevenue   Type = "revenue"
	TypeChurn     Type = "churn"
	TypeDemand    Type = "demand"
	TypeLeadScore Type = "lead_score"
)

// Prediction is a stored heuristic result
type Prediction struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	Type        Type
	SubjectType string
	SubjectID   *uuid.UUID
	Result      map[string]any
	Confidence  float64
}

// NewPrediction creates a prediction row
func NewPrediction(tenantID uuid.UUID, typ Type, subjectType string, subjectID *uuid.UUID, result map[string]any, confidence float64) *Prediction {
	if result == nil {
		result = map[string]any{}
	}
	return &Prediction{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		Type:        typ,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Result:      result,
		Confidence:  confidence,
	}
}
