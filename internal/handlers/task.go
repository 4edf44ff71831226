package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-api/internal/dto"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks filtered, sorted and paginated via query params:
// page, limit, search, status (completed|incomplete), priority (0|1|2),
// sort_by (asc|desc).
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	switch c.Query("status") {
	case "completed":
		completed := true
		input.Completed = &completed
	case "incomplete":
		completed := false
		input.Completed = &completed
	case "":
	default:
		apierrors.BadRequest(c, "status must be completed or incomplete")
		return
	}

	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority, err := strconv.Atoi(priorityStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		input.Priority = &priority
	}

	switch c.Query("sort_by") {
	case "asc":
		input.Sort = repository.SortAsc
	case "desc":
		input.Sort = repository.SortDesc
	case "", "none":
		input.Sort = repository.SortNone
	default:
		apierrors.BadRequest(c, "sort_by must be asc, desc or none")
		return
	}

	page, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(page))
}

// CreateTask creates a new task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Completed   bool       `json:"completed"`
		Position    *int       `json:"position"`
		Priority    *int       `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Position:    req.Position,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update; absent fields are left unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		Completed    *bool      `json:"completed"`
		Position     *int       `json:"position"`
		Priority     *int       `json:"priority"`
		DueDate      *time.Time `json:"due_date"`
		ClearDueDate bool       `json:"clear_due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Completed:    req.Completed,
		Position:     req.Position,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task and returns its prior state.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// BulkUpdateTasks applies one action (complete, incomplete, delete) to a
// set of task IDs. IDs without a matching task are ignored.
func (h *TaskHandler) BulkUpdateTasks(c *gin.Context) {
	type BulkUpdateRequest struct {
		TaskIDs []uint64 `json:"task_ids"`
		Action  string   `json:"action"`
	}

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.taskService.BulkUpdate(services.BulkUpdateInput{
		IDs:    req.TaskIDs,
		Action: req.Action,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	if req.Action == services.BulkActionDelete {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Deleted %d tasks successfully", result.Affected),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Updated %d tasks successfully", result.Affected),
		"updated_tasks": dto.ToTaskDTOs(result.Updated),
	})
}

// ReorderTasks redistributes the existing positions of the given tasks
// according to the supplied order. Unlike the bulk endpoint, any unknown ID
// rejects the whole request.
func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	type ReorderRequest struct {
		TaskIDs []uint64 `json:"task_ids" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.Reorder(req.TaskIDs); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks reordered successfully",
	})
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNoTasksMatched):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrNoIDsProvided),
		errors.Is(err, services.ErrReorderMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidAction):
		apierrors.InvalidOperation(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
