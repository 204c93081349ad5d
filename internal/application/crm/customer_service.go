package crm

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer and activity use cases
type CustomerService struct {
	customerRepo crm.CustomerRepository
	activityRepo crm.ActivityRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo crm.CustomerRepository,
	activityRepo crm.ActivityRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		activityRepo: activityRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Email != "" {
		exists, err := s.customerRepo.ExistsByEmail(ctx, tenantID, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
		}
	}

	customer, err := crm.NewCustomer(tenantID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Email, req.Phone, req.Company, req.Address, req.Source, req.Notes, req.Tags); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := customer.ChangeStatus(crm.CustomerStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	customer.SetCreatedBy(actorID)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
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
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}
	if filter.Tag != "" {
		domainFilter.Filters["tag"] = filter.Tag
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" && *req.Email != customer.Email {
		exists, err := s.customerRepo.ExistsByEmail(ctx, tenantID, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
		}
	}

	name, email, phone := customer.Name, customer.Email, customer.Phone
	company, address, source, notes, tags := customer.Company, customer.Address, customer.Source, customer.Notes, customer.Tags
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Company != nil {
		company = *req.Company
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Source != nil {
		source = *req.Source
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if req.Tags != nil {
		tags = *req.Tags
	}
	if err := customer.Update(name, email, phone, company, address, source, notes, tags); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := customer.ChangeStatus(crm.CustomerStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.SupportTicketCount != nil {
		if err := customer.SetSupportTicketCount(*req.SupportTicketCount); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.customerRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// RecordContact stamps the customer's last contact time
func (s *CustomerService) RecordContact(ctx context.Context, tenantID, id uuid.UUID, req RecordContactRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	at := time.Now()
	if req.ContactedAt != nil && !req.ContactedAt.IsZero() {
		at = *req.ContactedAt
	}
	customer.RecordContact(at)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// LogActivity records an interaction and bumps the customer's last contact time
func (s *CustomerService) LogActivity(ctx context.Context, tenantID, actorID, customerID uuid.UUID, req CreateActivityRequest) (*ActivityResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	activity, err := crm.NewActivity(tenantID, customerID, crm.ActivityType(req.Type), req.Subject, req.Notes, occurredAt)
	if err != nil {
		return nil, err
	}
	activity.SetCreatedBy(actorID)

	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return nil, err
	}

	customer.RecordContact(activity.OccurredAt)
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to update last contact after activity",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publish(ctx, activity)

	resp := ToActivityResponse(activity)
	return &resp, nil
}

// ListActivities returns a customer's activities, newest first
func (s *CustomerService) ListActivities(ctx context.Context, tenantID, customerID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID); err != nil {
		return nil, 0, err
	}
	domainFilter := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, Filters: make(map[string]any)}.Normalize()
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	activities, err := s.activityRepo.FindByCustomer(ctx, tenantID, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.activityRepo.CountByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, 0, err
	}
	return ToActivityResponses(activities), total, nil
}

// DeleteActivity removes an activity
func (s *CustomerService) DeleteActivity(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.activityRepo.DeleteForTenant(ctx, tenantID, id)
}

func (s *CustomerService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
