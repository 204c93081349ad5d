package portal

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ThreadRepository defines the interface for thread and message persistence
type ThreadRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MessageThread, error)
	// FindAllForTenant supports filters: customer_id, status, order_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MessageThread, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindMessages returns a thread's messages oldest first
	FindMessages(ctx context.Context, tenantID, threadID uuid.UUID) ([]Message, error)
	Save(ctx context.Context, thread *MessageThread) error
	// SaveWithMessage persists the thread and a new message atomically
	SaveWithMessage(ctx context.Context, thread *MessageThread, msg *Message) error
}
