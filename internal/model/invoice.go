package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus represents the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusUnpaid InvoiceStatus = "unpaid"
)

// Invoice is a billing document. Subtotal, TaxAmount and Total are derived
// from Items and TaxRate and are recomputed on every write and read.
type Invoice struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	InvoiceNumber string          `json:"invoiceNumber" gorm:"size:64;index"`
	Date          string          `json:"date" gorm:"size:10"`
	DueDate       string          `json:"dueDate" gorm:"size:10"`
	BillFrom      string          `json:"billFrom" gorm:"type:text"`
	BillTo        string          `json:"billTo" gorm:"type:text"`
	Items         []InvoiceItem   `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(20,4);not null;default:0"`
	TaxRate       decimal.Decimal `json:"taxRate" gorm:"type:decimal(20,4);not null;default:0"`
	TaxAmount     decimal.Decimal `json:"taxAmount" gorm:"type:decimal(20,4);not null;default:0"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(20,4);not null;default:0"`
	Notes         string          `json:"notes" gorm:"type:text"`
	Status        InvoiceStatus   `json:"status" gorm:"size:10;not null;default:'unpaid';index"`
	CreatedBy     uuid.UUID       `json:"createdBy" gorm:"type:char(36);index"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceItem is one line of an invoice. Amount is always Quantity * Rate.
type InvoiceItem struct {
	InvoiceID   uuid.UUID       `json:"-" gorm:"type:char(36);primaryKey"`
	ID          string          `json:"id" gorm:"size:36;primaryKey"`
	Position    int             `json:"-" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(20,4);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
}
