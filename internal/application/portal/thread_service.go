package portal

import (
	"context"
	"errors"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/portal"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ThreadService handles customer portal messaging
type ThreadService struct {
	threadRepo   portal.ThreadRepository
	customerRepo crm.CustomerRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewThreadService creates a new ThreadService
func NewThreadService(
	threadRepo portal.ThreadRepository,
	customerRepo crm.CustomerRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ThreadService {
	return &ThreadService{
		threadRepo:   threadRepo,
		customerRepo: customerRepo,
		events:       events,
		logger:       logger,
	}
}

// CreateThread opens a thread and posts its first message
func (s *ThreadService) CreateThread(ctx context.Context, tenantID, actorID uuid.UUID, req CreateThreadRequest) (*ThreadResponse, error) {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")
		}
		return nil, err
	}
	th, err := portal.NewThread(tenantID, req.CustomerID, req.Subject, req.OrderID)
	if err != nil {
		return nil, err
	}
	th.SetCreatedBy(actorID)

	senderType, senderID := sender(th, req.SenderType, actorID)
	msg, err := th.PostMessage(senderType, senderID, req.Body, req.AttachmentKeys)
	if err != nil {
		return nil, err
	}
	if err := s.threadRepo.SaveWithMessage(ctx, th, msg); err != nil {
		return nil, err
	}
	s.logger.Info("Portal thread opened",
		zap.String("thread_id", th.ID.String()),
		zap.String("customer_id", th.CustomerID.String()))
	s.publish(ctx, th)

	resp := ToThreadResponse(th)
	resp.Messages = []MessageResponse{ToMessageResponse(msg)}
	return &resp, nil
}

// GetThread returns a thread with its messages
func (s *ThreadService) GetThread(ctx context.Context, tenantID, id uuid.UUID) (*ThreadResponse, error) {
	th, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	messages, err := s.threadRepo.FindMessages(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToThreadResponse(th)
	resp.Messages = ToMessageResponses(messages)
	return &resp, nil
}

// ListThreads retrieves a page of threads, most recent activity first
func (s *ThreadService) ListThreads(ctx context.Context, tenantID uuid.UUID, filter ThreadListFilter) ([]ThreadResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "last_message_at"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	list, err := s.threadRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.threadRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToThreadResponses(list), total, nil
}

// PostMessage appends a message. Posting to a closed thread reopens it.
func (s *ThreadService) PostMessage(ctx context.Context, tenantID, actorID, threadID uuid.UUID, req PostMessageRequest) (*MessageResponse, error) {
	th, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, threadID)
	if err != nil {
		return nil, err
	}
	senderType, senderID := sender(th, req.SenderType, actorID)
	msg, err := th.PostMessage(senderType, senderID, req.Body, req.AttachmentKeys)
	if err != nil {
		return nil, err
	}
	if err := s.threadRepo.SaveWithMessage(ctx, th, msg); err != nil {
		return nil, err
	}
	s.publish(ctx, th)
	resp := ToMessageResponse(msg)
	return &resp, nil
}

// MarkRead zeroes the reader's unread counter
func (s *ThreadService) MarkRead(ctx context.Context, tenantID, threadID uuid.UUID, req MarkReadRequest) (*ThreadResponse, error) {
	th, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, threadID)
	if err != nil {
		return nil, err
	}
	if err := th.MarkRead(portal.SenderType(req.ReaderType)); err != nil {
		return nil, err
	}
	if err := s.threadRepo.Save(ctx, th); err != nil {
		return nil, err
	}
	resp := ToThreadResponse(th)
	return &resp, nil
}

// Close closes a thread
func (s *ThreadService) Close(ctx context.Context, tenantID, threadID uuid.UUID) (*ThreadResponse, error) {
	th, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, threadID)
	if err != nil {
		return nil, err
	}
	th.Close()
	if err := s.threadRepo.Save(ctx, th); err != nil {
		return nil, err
	}
	resp := ToThreadResponse(th)
	return &resp, nil
}

func (s *ThreadService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// sender resolves who a message is from. Customer messages relayed by staff
// are attributed to the thread's customer.
func sender(th *portal.MessageThread, senderType string, actorID uuid.UUID) (portal.SenderType, uuid.UUID) {
	if portal.SenderType(senderType) == portal.SenderCustomer {
		return portal.SenderCustomer, th.CustomerID
	}
	return portal.SenderStaff, actorID
}
