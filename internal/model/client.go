package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a billing party. Invoices copy its details as free text and do
// not reference it by key.
type Client struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255"`
	Address   string    `json:"address,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BillTo renders the client as an invoice "bill to" block.
func (c *Client) BillTo() string {
	return strings.TrimSpace(c.Name + "\n" + c.Email + "\n" + c.Address)
}
