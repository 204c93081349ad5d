package tasks

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/domain/tasks"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService handles task use cases
type TaskService struct {
	taskRepo tasks.TaskRepository
	logger   *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo tasks.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// Create creates a new task. actorID may be uuid.Nil for system-created tasks.
func (s *TaskService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	task, err := tasks.NewTask(tenantID, req.Title, req.Description, tasks.TaskPriority(req.Priority))
	if err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		if err := task.Update(task.Title, task.Description, task.Priority, req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.AssigneeID != nil {
		task.Assign(req.AssigneeID)
	}
	if req.RelatedType != "" && req.RelatedID != nil {
		task.RelateTo(req.RelatedType, *req.RelatedID)
	}
	task.SetCreatedBy(actorID)

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("Task created",
		zap.String("task_id", task.ID.String()),
		zap.String("priority", string(task.Priority)))
	resp := ToTaskResponse(task)
	return &resp, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// List retrieves a page of tasks
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, filter TaskListFilter) ([]TaskResponse, int64, error) {
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
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.AssigneeID != nil {
		domainFilter.Filters["assignee_id"] = *filter.AssigneeID
	}
	if filter.RelatedType != "" {
		domainFilter.Filters["related_type"] = filter.RelatedType
	}
	if filter.RelatedID != nil {
		domainFilter.Filters["related_id"] = *filter.RelatedID
	}

	list, err := s.taskRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.taskRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTaskResponses(list), total, nil
}

// Update applies a partial task update
func (s *TaskService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Description != nil || req.Priority != nil || req.DueDate != nil {
		title, description, priority, due := task.Title, task.Description, task.Priority, task.DueDate
		if req.Title != nil {
			title = *req.Title
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Priority != nil {
			priority = tasks.TaskPriority(*req.Priority)
		}
		if req.DueDate != nil {
			due = req.DueDate
		}
		if err := task.Update(title, description, priority, due); err != nil {
			return nil, err
		}
	}
	switch {
	case req.Unassign:
		task.Assign(nil)
	case req.AssigneeID != nil:
		task.Assign(req.AssigneeID)
	}
	if req.Status != nil {
		if err := task.SetStatus(tasks.TaskStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Complete marks a task done
func (s *TaskService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := task.Complete(); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("Task completed", zap.String("task_id", task.ID.String()))
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Delete deletes a task
func (s *TaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.taskRepo.DeleteForTenant(ctx, tenantID, id)
}
