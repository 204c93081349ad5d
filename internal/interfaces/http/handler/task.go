package handler

import (
	"github.com/furnitureops/backend/internal/application/tasks"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	BaseHandler
	taskService *tasks.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *tasks.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create godoc
// @ID           createTask
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body tasks.CreateTaskRequest true "Task"
// @Success      201 {object} APIResponse[tasks.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.caller(c)
	if !ok {
		return
	}
	var req tasks.CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, task)
}

// GetByID godoc
// @ID           getTask
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[tasks.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.taskService.GetByID)
}

// List godoc
// @ID           listTasks
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        search query string false "Title"
// @Param        status query string false "todo, in_progress, done or cancelled"
// @Param        priority query string false "low, medium, high or urgent"
// @Param        assignee_id query string false "Assignee" format(uuid)
// @Param        related_type query string false "Related record type"
// @Param        related_id query string false "Related record ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]tasks.TaskResponse]
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter tasks.TaskListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.taskService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateTask
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Param        request body tasks.UpdateTaskRequest true "Fields to change"
// @Success      200 {object} APIResponse[tasks.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tasks.UpdateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}

// Complete godoc
// @ID           completeTask
// @Summary      Complete a task
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[tasks.TaskResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	byID(&h.BaseHandler, c, h.taskService.Complete)
}

// Delete godoc
// @ID           deleteTask
// @Summary      Delete a task
// @Tags         tasks
// @Param        id path string true "Task ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.taskService.Delete)
}
