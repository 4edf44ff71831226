package repository

import (
	"github.com/yukikurage/todo-api/internal/models"
)

// SortOrder controls priority ordering in task listings.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskFilter holds filtering, sorting and pagination options for listing
// tasks. Filters combine conjunctively.
type TaskFilter struct {
	// Search matches the title as a case-insensitive substring.
	Search string
	// Completed filters on the completed flag when non-nil.
	Completed *bool
	// Priority filters on an exact priority when non-nil.
	Priority *int
	// Sort orders by priority (then position, then id) when asc or desc;
	// default ordering is position then id.
	Sort  SortOrder
	Page  int
	Limit int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by exact (case-sensitive) email match
	FindByEmail(email string) (*models.User, error)

	// UpdatePasswordHash overwrites the stored hash for a user
	UpdatePasswordHash(id uint64, hash string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks with filtering, sorting and pagination, and
	// returns the total match count before pagination.
	List(filter TaskFilter) ([]models.Task, int64, error)

	// MaxPosition returns the highest position value, or ok=false when the
	// store holds no tasks.
	MaxPosition() (position int, ok bool, err error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id uint64) error

	// FindByIDs returns the tasks matching ids ordered by position then id.
	FindByIDs(ids []uint64) ([]models.Task, error)

	// UpdatePositions applies the given id -> position assignments in a
	// single transaction.
	UpdatePositions(assignments map[uint64]int) error

	// SetCompletedByIDs sets the completed flag on all matching tasks and
	// returns the updated records.
	SetCompletedByIDs(ids []uint64, completed bool) ([]models.Task, error)

	// DeleteByIDs deletes all matching tasks and returns how many rows
	// were removed.
	DeleteByIDs(ids []uint64) (int64, error)
}
