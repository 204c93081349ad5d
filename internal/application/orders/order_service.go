package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/furnitureops/backend/internal/domain/catalog"
	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order use cases
type OrderService struct {
	orderRepo    orders.OrderRepository
	customerRepo crm.CustomerRepository
	productRepo  catalog.ProductRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo orders.OrderRepository,
	customerRepo crm.CustomerRepository,
	productRepo catalog.ProductRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a draft order for an existing customer
func (s *OrderService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return nil, err
	}

	items, err := s.resolveItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	order, err := orders.NewOrder(tenantID, req.CustomerID, items, req.Discount, req.TaxRate)
	if err != nil {
		return nil, err
	}
	order.SetDetails(req.Notes, req.DueDate)
	order.SetCreatedBy(actorID)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()))
	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves a page of orders
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	list, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(list), total, nil
}

// Update edits a draft order
func (s *OrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != orders.OrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft orders can be edited")
	}

	if req.Items != nil || req.Discount != nil || req.TaxRate != nil {
		items := order.Items
		if req.Items != nil {
			if items, err = s.resolveItems(ctx, tenantID, *req.Items); err != nil {
				return nil, err
			}
		}
		discount, taxRate := order.Discount, order.TaxRate
		if req.Discount != nil {
			discount = *req.Discount
		}
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		if err := order.UpdateLines(items, discount, taxRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil || req.DueDate != nil {
		notes, due := order.Notes, order.DueDate
		if req.Notes != nil {
			notes = *req.Notes
		}
		if req.DueDate != nil {
			due = req.DueDate
		}
		order.SetDetails(notes, due)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes a draft order
func (s *OrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if order.Status != orders.OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, id)
}

// Confirm confirms a draft order
func (s *OrderService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*orders.Order).Confirm)
}

// StartProduction moves a confirmed order into production and opens one
// tracking row per order item.
func (s *OrderService) StartProduction(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := order.StartProduction(); err != nil {
		return nil, err
	}

	rows := make([]*production.Tracking, 0, len(order.Items))
	for i, item := range order.Items {
		row, err := production.NewTracking(tenantID, order.ID, i, item.Description, item.Quantity, order.DueDate)
		if err != nil {
			return nil, err
		}
		row.CreatedBy = order.CreatedBy
		rows = append(rows, row)
	}
	if err := s.orderRepo.SaveWithTracking(ctx, order, rows); err != nil {
		return nil, fmt.Errorf("start production: %w", err)
	}
	s.logger.Info("Order moved to production",
		zap.String("order_id", order.ID.String()),
		zap.Int("tracked_items", len(rows)))
	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// MarkReady flags an order as ready to ship
func (s *OrderService) MarkReady(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*orders.Order).MarkReady)
}

// Ship records dispatch
func (s *OrderService) Ship(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*orders.Order).Ship)
}

// Deliver records delivery
func (s *OrderService) Deliver(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*orders.Order).Deliver)
}

// Cancel cancels an order that has not shipped
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, (*orders.Order).Cancel)
}

func (s *OrderService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*orders.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)))
	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// resolveItems fills description and unit price from the referenced product
func (s *OrderService) resolveItems(ctx context.Context, tenantID uuid.UUID, reqs []OrderItemRequest) ([]orders.OrderItem, error) {
	items := make([]orders.OrderItem, 0, len(reqs))
	for i, r := range reqs {
		item := orders.OrderItem{
			ProductID:   r.ProductID,
			Description: r.Description,
			Quantity:    r.Quantity,
		}
		if r.UnitPrice != nil {
			item.UnitPrice = *r.UnitPrice
		}
		if r.ProductID != nil {
			product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, *r.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Item %d: product does not exist", i+1))
				}
				return nil, err
			}
			if !product.Active {
				return nil, shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Item %d: product %s is not active", i+1, product.SKU))
			}
			if item.Description == "" {
				item.Description = product.Name
			}
			if r.UnitPrice == nil {
				item.UnitPrice = product.BasePrice
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
