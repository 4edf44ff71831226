package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidPriority = errors.New("priority must be 0, 1 or 2")
	ErrNoIDsProvided   = errors.New("at least one task ID is required")
	ErrInvalidAction   = errors.New("action must be one of: complete, incomplete, delete")
	ErrNoTasksMatched  = errors.New("no tasks found for the given IDs")
	ErrReorderMismatch = errors.New("some tasks not found")
)

// Bulk actions
const (
	BulkActionComplete   = "complete"
	BulkActionIncomplete = "incomplete"
	BulkActionDelete     = "delete"
)

// TaskService handles task business logic. Tasks are shared globally across
// authenticated users; authentication gates access but does not scope data.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Search    string
	Completed *bool
	Priority  *int
	Sort      repository.SortOrder
	Page      int
	Limit     int
}

// TaskPage is a paginated listing result.
type TaskPage struct {
	Tasks      []models.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListTasks returns tasks matching the filters with pagination metadata.
func (s *TaskService) ListTasks(input ListTasksInput) (*TaskPage, error) {
	if input.Page < constants.MinPage {
		input.Page = constants.MinPage
	}
	if input.Limit < 1 || input.Limit > constants.MaxPageSize {
		input.Limit = constants.DefaultPageSize
	}
	if input.Priority != nil && !validPriority(*input.Priority) {
		return nil, ErrInvalidPriority
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		Search:    input.Search,
		Completed: input.Completed,
		Priority:  input.Priority,
		Sort:      input.Sort,
		Page:      input.Page,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &TaskPage{
		Tasks:      tasks,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
	// Position places the task explicitly; when nil the task sorts last
	// (max existing position + 1, or 0 for an empty store).
	Position *int
	Priority *int
	DueDate  *time.Time
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	priority := constants.DefaultPriority
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		priority = *input.Priority
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		max, ok, err := s.taskRepo.MaxPosition()
		if err != nil {
			return nil, fmt.Errorf("failed to compute position: %w", err)
		}
		if ok {
			position = max + 1
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Position:    position,
		Priority:    priority,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a partial update: nil fields are left
// unchanged. ClearDueDate removes the due date explicitly since a nil
// DueDate already means "leave unchanged".
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Completed    *bool
	Position     *int
	Priority     *int
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateTask applies a partial update to an existing task
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Position != nil {
		task.Position = *input.Position
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task and returns its prior state
func (s *TaskService) DeleteTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

// BulkUpdateInput represents a uniform action over a set of task IDs
type BulkUpdateInput struct {
	IDs    []uint64
	Action string
}

// BulkUpdateResult reports what a bulk operation touched.
type BulkUpdateResult struct {
	// Affected counts rows actually changed or removed.
	Affected int64
	// Updated holds the post-update records for status actions; empty for
	// delete.
	Updated []models.Task
}

// BulkUpdate applies one action to every matched task. IDs with no matching
// row are silently ignored; only a fully empty match set is an error. Note
// the deliberate asymmetry with Reorder, which rejects the whole call when
// any ID is missing.
func (s *TaskService) BulkUpdate(input BulkUpdateInput) (*BulkUpdateResult, error) {
	if len(input.IDs) == 0 {
		return nil, ErrNoIDsProvided
	}

	switch input.Action {
	case BulkActionComplete, BulkActionIncomplete, BulkActionDelete:
	default:
		return nil, ErrInvalidAction
	}

	matched, err := s.taskRepo.FindByIDs(input.IDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	if len(matched) == 0 {
		return nil, ErrNoTasksMatched
	}

	if input.Action == BulkActionDelete {
		deleted, err := s.taskRepo.DeleteByIDs(input.IDs)
		if err != nil {
			return nil, fmt.Errorf("failed to delete tasks: %w", err)
		}
		return &BulkUpdateResult{Affected: deleted}, nil
	}

	completed := input.Action == BulkActionComplete
	updated, err := s.taskRepo.SetCompletedByIDs(input.IDs, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to update tasks: %w", err)
	}

	return &BulkUpdateResult{Affected: int64(len(updated)), Updated: updated}, nil
}

// Reorder redistributes the existing position values of the given tasks
// according to the caller-supplied order. The first ID in ids receives the
// smallest of the tasks' current positions, the second the next, and so on:
// a permutation of positions already in use, so tasks outside the set keep
// their relative placement and no new position values are allocated. If any
// ID has no matching task the whole operation is rejected and nothing
// changes.
func (s *TaskService) Reorder(ids []uint64) error {
	if len(ids) == 0 {
		return ErrNoIDsProvided
	}

	// Fetched in current (position, id) order; this sequence of position
	// values is what gets reassigned.
	targets, err := s.taskRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to find tasks: %w", err)
	}
	if len(targets) != len(ids) {
		return ErrReorderMismatch
	}

	assignments := make(map[uint64]int, len(ids))
	for i, id := range ids {
		assignments[id] = targets[i].Position
	}

	if err := s.taskRepo.UpdatePositions(assignments); err != nil {
		return fmt.Errorf("failed to reorder tasks: %w", err)
	}

	return nil
}

func validPriority(p int) bool {
	return p == constants.PriorityHigh || p == constants.PriorityMedium || p == constants.PriorityLow
}
