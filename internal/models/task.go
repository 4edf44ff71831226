package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Completed   bool           `gorm:"not null;default:false;index" json:"completed"`
	// Position defines the manual (drag and drop) ordering. Values are
	// relatively ordered only; neither contiguous nor unique.
	Position  int            `gorm:"not null;default:0;index" json:"position"`
	Priority  int            `gorm:"not null;default:1;index" json:"priority"`
	DueDate   *time.Time     `json:"due_date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
