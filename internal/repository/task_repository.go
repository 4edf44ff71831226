package repository

import (
	"database/sql"

	"github.com/yukikurage/todo-api/internal/database"
	"github.com/yukikurage/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering, sorting and pagination. The returned
// total is counted after filters and before pagination.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if filter.Search != "" {
		// LOWER on both sides keeps the substring match case-insensitive
		// across mysql and sqlite.
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	switch filter.Sort {
	case SortAsc:
		listQuery = listQuery.Order("priority ASC, position ASC, id ASC")
	case SortDesc:
		listQuery = listQuery.Order("priority DESC, position ASC, id ASC")
	default:
		listQuery = listQuery.Order("position ASC, id ASC")
	}

	listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.Limit))

	var tasks []models.Task
	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// MaxPosition returns the highest position value among stored tasks.
func (r *GormTaskRepository) MaxPosition() (int, bool, error) {
	var max sql.NullInt64
	err := r.db.Model(&models.Task{}).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, false, err
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// FindByIDs returns tasks matching ids in their current position order,
// with id as the tie-break.
func (r *GormTaskRepository) FindByIDs(ids []uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("id IN ?", ids).
		Order("position ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdatePositions applies id -> position assignments atomically. Tasks
// outside the map are untouched.
func (r *GormTaskRepository) UpdatePositions(assignments map[uint64]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for id, position := range assignments {
			if err := tx.Model(&models.Task{}).
				Where("id = ?", id).
				Update("position", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetCompletedByIDs sets the completed flag uniformly on matching tasks and
// returns them in their updated state. Ids without a matching row are
// ignored.
func (r *GormTaskRepository) SetCompletedByIDs(ids []uint64, completed bool) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("id IN ?", ids).
			Update("completed", completed).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).
			Order("position ASC, id ASC").
			Find(&tasks).Error
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteByIDs deletes matching tasks and reports how many rows went away.
func (r *GormTaskRepository) DeleteByIDs(ids []uint64) (int64, error) {
	result := r.db.Where("id IN ?", ids).Delete(&models.Task{})
	return result.RowsAffected, result.Error
}
