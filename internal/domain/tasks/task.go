package tasks

import (
	"strings"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus is the progress state of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid reports whether the status is known
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority ranks urgency
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid reports whether the priority is known
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of follow-up work for staff
type Task struct {
	shared.TenantAggregateRoot
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  *uuid.UUID
	RelatedType string
	RelatedID   *uuid.UUID
	DueDate     *time.Time
	CompletedAt *time.Time
}

// NewTask creates a todo task. Priority defaults to medium.
func NewTask(tenantID uuid.UUID, title, description string, priority TaskPriority) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 300 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 300 characters")
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Invalid task priority: "+string(priority))
	}
	return &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Description:         description,
		Status:              TaskStatusTodo,
		Priority:            priority,
	}, nil
}

// Update edits the descriptive fields
func (t *Task) Update(title, description string, priority TaskPriority, dueDate *time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Invalid task priority: "+string(priority))
	}
	t.Title = title
	t.Description = description
	t.Priority = priority
	t.DueDate = dueDate
	t.IncrementVersion()
	return nil
}

// Assign sets or clears the assignee
func (t *Task) Assign(userID *uuid.UUID) {
	t.AssigneeID = userID
	t.IncrementVersion()
}

// RelateTo links the task to another record, e.g. ("order", id)
func (t *Task) RelateTo(entityType string, id uuid.UUID) {
	t.RelatedType = strings.ToLower(strings.TrimSpace(entityType))
	t.RelatedID = &id
}

// SetStatus moves the task. Done and cancelled tasks are closed.
func (t *Task) SetStatus(status TaskStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid task status: "+string(status))
	}
	if t.IsClosed() && status != t.Status {
		return shared.NewDomainError("INVALID_STATE", "Closed tasks cannot change status")
	}
	t.Status = status
	if status == TaskStatusDone {
		now := time.Now()
		t.CompletedAt = &now
	}
	t.IncrementVersion()
	return nil
}

// Complete marks the task done
func (t *Task) Complete() error {
	return t.SetStatus(TaskStatusDone)
}

// IsClosed reports whether the task is done or cancelled
func (t *Task) IsClosed() bool {
	return t.Status == TaskStatusDone || t.Status == TaskStatusCancelled
}
