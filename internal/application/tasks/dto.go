package tasks

import (
	"time"

	"github.com/furnitureops/backend/internal/domain/tasks"
	"github.com/google/uuid"
)

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=300"`
	Description string     `json:"description" binding:"max=5000"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	RelatedType string     `json:"related_type" binding:"omitempty,oneof=customer order invoice production design_board review thread"`
	RelatedID   *uuid.UUID `json:"related_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=300"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress done cancelled"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	// Unassign clears the assignee
	Unassign bool       `json:"unassign"`
	DueDate  *time.Time `json:"due_date"`
}

// TaskListFilter represents filter options for the task list
type TaskListFilter struct {
	Search      string     `form:"search"`
	Status      string     `form:"status" binding:"omitempty,oneof=todo in_progress done cancelled"`
	Priority    string     `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID `form:"assignee_id"`
	RelatedType string     `form:"related_type"`
	RelatedID   *uuid.UUID `form:"related_id"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	RelatedType string     `json:"related_type,omitempty"`
	RelatedID   *uuid.UUID `json:"related_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *tasks.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		TenantID:    t.TenantID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssigneeID:  t.AssigneeID,
		RelatedType: t.RelatedType,
		RelatedID:   t.RelatedID,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
}

// ToTaskResponses converts a slice of domain Tasks
func ToTaskResponses(list []tasks.Task) []TaskResponse {
	responses := make([]TaskResponse, len(list))
	for i := range list {
		responses[i] = ToTaskResponse(&list[i])
	}
	return responses
}
