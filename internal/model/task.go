package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority ranks a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category is the scheduling bucket of a task, orthogonal to completion.
type Category string

const (
	CategoryToday     Category = "Today"
	CategoryTomorrow  Category = "Tomorrow"
	CategoryUpcoming  Category = "Upcoming"
	CategoryThisWeek  Category = "This Week"
	CategoryLifeStuff Category = "Life Stuff"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryToday, CategoryTomorrow, CategoryUpcoming, CategoryThisWeek, CategoryLifeStuff}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DateLayout is the layout of date-only fields (deadline, invoice dates).
const DateLayout = "2006-01-02"

// Task represents a tracked work item.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Deadline    string    `json:"deadline" gorm:"size:10"`
	Priority    Priority  `json:"priority" gorm:"size:10;not null"`
	Category    Category  `json:"category" gorm:"size:20;not null;index"`
	Completed   bool      `json:"completed" gorm:"not null;default:false;index"`
	CreatedBy   uuid.UUID `json:"createdBy" gorm:"type:char(36);index"`
	// AssignedTo holds a user id; names are resolved before storage.
	AssignedTo string    `json:"assignedTo" gorm:"size:36;index"`
	DocLink    string    `json:"docLink,omitempty" gorm:"size:2048"`
	File       string    `json:"file,omitempty" gorm:"type:text"`
	Revision   uint      `json:"revision" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Revision == 0 {
		t.Revision = 1
	}
	return nil
}
