package design

import (
	"context"
	"errors"

	"github.com/furnitureops/backend/internal/domain/design"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService schedules and runs factory reviews
type ReviewService struct {
	reviewRepo design.ReviewRepository
	orderRepo  orders.OrderRepository
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo design.ReviewRepository, orderRepo orders.OrderRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// Create schedules a review for an existing order
func (s *ReviewService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_ORDER", "Order does not exist")
		}
		return nil, err
	}
	if order.Status == orders.OrderStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot review a cancelled order")
	}

	review, err := design.NewFactoryReview(tenantID, req.OrderID, req.ScheduledAt, req.Reviewer, req.Location)
	if err != nil {
		return nil, err
	}
	review.SetCreatedBy(actorID)
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Info("Factory review scheduled",
		zap.String("review_id", review.ID.String()),
		zap.String("order_id", review.OrderID.String()),
		zap.Time("scheduled_at", review.ScheduledAt))
	resp := ToReviewResponse(review)
	return &resp, nil
}

// GetByID retrieves a review by ID
func (s *ReviewService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReviewResponse(review)
	return &resp, nil
}

// List retrieves a page of reviews
func (s *ReviewService) List(ctx context.Context, tenantID uuid.UUID, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	list, err := s.reviewRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reviewRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReviewResponses(list), total, nil
}

// Update reschedules a review
func (s *ReviewService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateReviewRequest) (*ReviewResponse, error) {
	return s.apply(ctx, tenantID, id, func(r *design.FactoryReview) error {
		at, reviewer, location := r.ScheduledAt, r.Reviewer, r.Location
		if req.ScheduledAt != nil {
			at = *req.ScheduledAt
		}
		if req.Reviewer != nil {
			reviewer = *req.Reviewer
		}
		if req.Location != nil {
			location = *req.Location
		}
		return r.Reschedule(at, reviewer, location)
	})
}

// Delete removes a review that has not started
func (s *ReviewService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	review, err := s.reviewRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if review.Status == design.ReviewStatusInProgress || review.Status == design.ReviewStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Started reviews cannot be deleted")
	}
	return s.reviewRepo.DeleteForTenant(ctx, tenantID, id)
}

// Start begins a scheduled review
func (s *ReviewService) Start(ctx context.Context, tenantID, id uuid.UUID) (*ReviewResponse, error) {
	return s.apply(ctx, tenantID, id, (*design.FactoryReview).Start)
}

// AddFinding records an issue on a review in progress
func (s *ReviewService) AddFinding(ctx context.Context, tenantID, id uuid.UUID, req AddFindingRequest) (*ReviewResponse, error) {
	return s.apply(ctx, tenantID, id, func(r *design.FactoryReview) error {
		return r.AddFinding(req.Item, design.Severity(req.Severity), req.Note)
	})
}

// Complete closes a review with an outcome
func (s *ReviewService) Complete(ctx context.Context, tenantID, id uuid.UUID, req CompleteReviewRequest) (*ReviewResponse, error) {
	resp, err := s.apply(ctx, tenantID, id, func(r *design.FactoryReview) error {
		return r.Complete(design.ReviewOutcome(req.Outcome))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Factory review completed",
		zap.String("review_id", id.String()),
		zap.String("outcome", resp.Outcome),
		zap.Int("findings", len(resp.Findings)))
	return resp, nil
}

// Cancel cancels a review
func (s *ReviewService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*ReviewResponse, error) {
	return s.apply(ctx, tenantID, id, (*design.FactoryReview).Cancel)
}

func (s *ReviewService) apply(ctx context.Context, tenantID, id uuid.UUID, fn func(*design.FactoryReview) error) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(review); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(review)
	return &resp, nil
}
