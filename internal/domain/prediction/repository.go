package prediction

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for prediction persistence
type Repository interface {
	Save(ctx context.Context, p *Prediction) error
	// FindAllForTenant supports filters: type, subject_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Prediction, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindLatest(ctx context.Context, tenantID uuid.UUID, typ Type, subjectID *uuid.UUID) (*Prediction, error)
}
