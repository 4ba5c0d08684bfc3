package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuickLink is a bookmarked URL shared with the team.
type QuickLink struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	URL         string    `json:"url" gorm:"size:2048;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (q *QuickLink) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
