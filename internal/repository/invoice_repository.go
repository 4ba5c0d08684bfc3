package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"teamdesk/internal/db"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

// InvoiceRepository defines invoice persistence operations. Items are always
// written together with the invoice row in one transaction.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	// List returns every invoice with its items, newest first.
	List(ctx context.Context) ([]model.Invoice, error)
	// Replace overwrites the invoice row and its whole item list.
	Replace(ctx context.Context, invoice *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceRepository struct {
	base
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(conn db.Connector) InvoiceRepository {
	return &invoiceRepository{base{conn: conn}}
}

func orderedItems(tx *gorm.DB) *gorm.DB {
	return tx.Order("position ASC")
}

// Create inserts the invoice and its items.
func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(invoice).Error; err != nil {
			return err
		}
		return insertItems(tx, invoice)
	}))
}

// FindByID finds an invoice by ID with its items in order.
func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var invoice model.Invoice
	if err := tx.Preload("Items", orderedItems).Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

// List lists invoices in descending creation order.
func (r *invoiceRepository) List(ctx context.Context) ([]model.Invoice, error) {
	tx, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var invoices []model.Invoice
	if err := tx.Preload("Items", orderedItems).Order("created_at DESC").Order("id DESC").Find(&invoices).Error; err != nil {
		return nil, translate(err)
	}
	return invoices, nil
}

// Replace overwrites the invoice and swaps its items wholesale.
func (r *invoiceRepository) Replace(ctx context.Context, invoice *model.Invoice) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]interface{}{
			"invoice_number": invoice.InvoiceNumber,
			"date":           invoice.Date,
			"due_date":       invoice.DueDate,
			"bill_from":      invoice.BillFrom,
			"bill_to":        invoice.BillTo,
			"subtotal":       invoice.Subtotal,
			"tax_rate":       invoice.TaxRate,
			"tax_amount":     invoice.TaxAmount,
			"total":          invoice.Total,
			"notes":          invoice.Notes,
			"status":         invoice.Status,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		return insertItems(tx, invoice)
	}))
}

// Delete removes the invoice and its items.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.session(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Invoice{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	}))
}

func insertItems(tx *gorm.DB, invoice *model.Invoice) error {
	if len(invoice.Items) == 0 {
		return nil
	}
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
	}
	return tx.Create(&invoice.Items).Error
}
