package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/furnitureops/backend/internal/application/finance"
	"github.com/furnitureops/backend/internal/application/orders"
	"github.com/furnitureops/backend/internal/application/tasks"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderTransitions is the part of the order service reachable from rules
type OrderTransitions interface {
	Confirm(ctx context.Context, tenantID, id uuid.UUID) (*orders.OrderResponse, error)
	MarkReady(ctx context.Context, tenantID, id uuid.UUID) (*orders.OrderResponse, error)
	Ship(ctx context.Context, tenantID, id uuid.UUID) (*orders.OrderResponse, error)
	Deliver(ctx context.Context, tenantID, id uuid.UUID) (*orders.OrderResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*orders.OrderResponse, error)
}

// InvoiceTransitions is the part of the invoice service reachable from rules
type InvoiceTransitions interface {
	Send(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoiceResponse, error)
	Void(ctx context.Context, tenantID, id uuid.UUID) (*finance.InvoiceResponse, error)
}

// TaskTransitions is the part of the task service reachable from rules
type TaskTransitions interface {
	Complete(ctx context.Context, tenantID, id uuid.UUID) (*tasks.TaskResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req tasks.UpdateTaskRequest) (*tasks.TaskResponse, error)
}

type statusFunc func(ctx context.Context, tenantID, id uuid.UUID) error

// ServiceRecordUpdater routes update_record actions to the owning service so
// domain rules and events apply as if a user made the change
type ServiceRecordUpdater struct {
	routes map[string]map[string]statusFunc
}

// NewServiceRecordUpdater builds the entity/status whitelist. Nil services
// leave their entity out.
func NewServiceRecordUpdater(orderSvc OrderTransitions, invoiceSvc InvoiceTransitions, taskSvc TaskTransitions) *ServiceRecordUpdater {
	routes := make(map[string]map[string]statusFunc)
	if orderSvc != nil {
		routes["order"] = map[string]statusFunc{
			"confirmed": drop(orderSvc.Confirm),
			"ready":     drop(orderSvc.MarkReady),
			"shipped":   drop(orderSvc.Ship),
			"delivered": drop(orderSvc.Deliver),
			"cancelled": drop(orderSvc.Cancel),
		}
	}
	if invoiceSvc != nil {
		routes["invoice"] = map[string]statusFunc{
			"sent": drop(invoiceSvc.Send),
			"void": drop(invoiceSvc.Void),
		}
	}
	if taskSvc != nil {
		routes["task"] = map[string]statusFunc{
			"done": drop(taskSvc.Complete),
			"in_progress": func(ctx context.Context, tenantID, id uuid.UUID) error {
				status := "in_progress"
				_, err := taskSvc.Update(ctx, tenantID, id, tasks.UpdateTaskRequest{Status: &status})
				return err
			},
			"cancelled": func(ctx context.Context, tenantID, id uuid.UUID) error {
				status := "cancelled"
				_, err := taskSvc.Update(ctx, tenantID, id, tasks.UpdateTaskRequest{Status: &status})
				return err
			},
		}
	}
	return &ServiceRecordUpdater{routes: routes}
}

// UpdateStatus implements RecordUpdater
func (u *ServiceRecordUpdater) UpdateStatus(ctx context.Context, tenantID uuid.UUID, entity string, id uuid.UUID, status string) error {
	statuses, ok := u.routes[entity]
	if !ok {
		return shared.NewDomainError("INVALID_ACTION", fmt.Sprintf("update_record does not support entity %q", entity))
	}
	fn, ok := statuses[status]
	if !ok {
		return shared.NewDomainError("INVALID_ACTION",
			fmt.Sprintf("update_record cannot set %s to %q (allowed: %v)", entity, status, keys(statuses)))
	}
	return fn(ctx, tenantID, id)
}

func drop[T any](fn func(context.Context, uuid.UUID, uuid.UUID) (T, error)) statusFunc {
	return func(ctx context.Context, tenantID, id uuid.UUID) error {
		_, err := fn(ctx, tenantID, id)
		return err
	}
}

func keys(m map[string]statusFunc) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
