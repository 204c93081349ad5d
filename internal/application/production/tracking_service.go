package production

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrackingService handles shop-floor tracking use cases
type TrackingService struct {
	trackingRepo production.TrackingRepository
	orderRepo    orders.OrderRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(
	trackingRepo production.TrackingRepository,
	orderRepo orders.OrderRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TrackingService {
	return &TrackingService{
		trackingRepo: trackingRepo,
		orderRepo:    orderRepo,
		events:       events,
		logger:       logger,
	}
}

// GetByID retrieves a tracking row
func (s *TrackingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TrackingResponse, error) {
	t, err := s.trackingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTrackingResponse(t)
	return &resp, nil
}

// List retrieves a page of tracking rows
func (s *TrackingService) List(ctx context.Context, tenantID uuid.UUID, filter TrackingListFilter) ([]TrackingResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.Stage != "" {
		domainFilter.Filters["stage"] = filter.Stage
	}
	if filter.AssignedTo != "" {
		domainFilter.Filters["assigned_to"] = filter.AssignedTo
	}

	list, err := s.trackingRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.trackingRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTrackingResponses(list), total, nil
}

// ListByOrder returns every tracking row of an order
func (s *TrackingService) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]TrackingResponse, error) {
	list, err := s.trackingRepo.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return ToTrackingResponses(list), nil
}

// AdvanceStage moves an item forward. Once every item of the order has
// completed, the order is marked ready.
func (s *TrackingService) AdvanceStage(ctx context.Context, tenantID, id uuid.UUID, changedBy string, req AdvanceStageRequest) (*TrackingResponse, error) {
	t, err := s.trackingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.AdvanceTo(production.Stage(req.Stage), changedBy, req.Notes); err != nil {
		return nil, err
	}
	if err := s.trackingRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Production stage changed",
		zap.String("tracking_id", t.ID.String()),
		zap.String("order_id", t.OrderID.String()),
		zap.String("stage", string(t.Stage)))
	s.publish(ctx, t)

	if t.IsCompleted() {
		if err := s.completeOrderIfDone(ctx, tenantID, t.OrderID); err != nil {
			s.logger.Warn("Failed to mark order ready",
				zap.String("order_id", t.OrderID.String()),
				zap.Error(err))
		}
	}

	resp := ToTrackingResponse(t)
	return &resp, nil
}

// UpdateProgress sets progress within the current stage window
func (s *TrackingService) UpdateProgress(ctx context.Context, tenantID, id uuid.UUID, req UpdateProgressRequest) (*TrackingResponse, error) {
	t, err := s.trackingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.UpdateProgress(req.Progress); err != nil {
		return nil, err
	}
	if err := s.trackingRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTrackingResponse(t)
	return &resp, nil
}

// Assign sets who is responsible for the item
func (s *TrackingService) Assign(ctx context.Context, tenantID, id uuid.UUID, req AssignRequest) (*TrackingResponse, error) {
	t, err := s.trackingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	t.Assign(req.AssignedTo)
	if err := s.trackingRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTrackingResponse(t)
	return &resp, nil
}

func (s *TrackingService) completeOrderIfDone(ctx context.Context, tenantID, orderID uuid.UUID) error {
	rows, err := s.trackingRepo.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	for i := range rows {
		if !rows[i].IsCompleted() {
			return nil
		}
	}
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if order.Status != orders.OrderStatusInProduction {
		return nil
	}
	if err := order.MarkReady(); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}
	s.logger.Info("All items completed, order ready", zap.String("order_id", orderID.String()))
	s.publish(ctx, order)
	return nil
}

func (s *TrackingService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
