package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"teamdesk/internal/auth"
	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/invoicing"
	"teamdesk/internal/model"
	"teamdesk/internal/repository"
)

const invoiceDueAfter = 7 * 24 * time.Hour

// InvoiceItemInput is one submitted line item. Amount is always derived.
type InvoiceItemInput struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// InvoiceInput carries the editable fields of an invoice.
type InvoiceInput struct {
	InvoiceNumber string
	Date          string
	DueDate       string
	BillFrom      string
	BillTo        string
	// ClientID prefills BillTo when BillTo is empty.
	ClientID *uuid.UUID
	Items    []InvoiceItemInput
	TaxRate  decimal.Decimal
	Notes    string
	Status   model.InvoiceStatus
}

// InvoiceService defines invoice operations. Totals are recomputed by the
// invoicing engine on every write and every read.
type InvoiceService interface {
	// Preview computes the invoice Create would store without persisting it.
	Preview(ctx context.Context, session *auth.Session, in InvoiceInput) (*model.Invoice, error)
	Create(ctx context.Context, session *auth.Session, in InvoiceInput) (*model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, in InvoiceInput) (*model.Invoice, error)
	AddItem(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	RemoveItem(ctx context.Context, id uuid.UUID, itemID string) (*model.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	repo    repository.InvoiceRepository
	users   repository.UserRepository
	clients repository.ClientRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(repo repository.InvoiceRepository, users repository.UserRepository, clients repository.ClientRepository, logger *slog.Logger) InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceService{repo: repo, users: users, clients: clients, logger: logger, now: time.Now}
}

func (s *invoiceService) Preview(ctx context.Context, session *auth.Session, in InvoiceInput) (*model.Invoice, error) {
	return s.build(ctx, session, in)
}

func (s *invoiceService) Create(ctx context.Context, session *auth.Session, in InvoiceInput) (*model.Invoice, error) {
	invoice, err := s.build(ctx, session, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}
	s.logger.Info("invoice created",
		slog.String("invoice_id", invoice.ID.String()),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("total", invoice.Total.String()),
	)
	return s.Get(ctx, invoice.ID)
}

func (s *invoiceService) List(ctx context.Context) ([]model.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoicing.Apply(&invoices[i])
	}
	return invoices, nil
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoicing.Apply(invoice)
	return invoice, nil
}

// Update replaces every field and the whole item list. Defaults are not
// reapplied: an empty field stays empty.
func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, in InvoiceInput) (*model.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.ErrLastItem
	}
	status, err := invoiceStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if err := validDates(in.Date, in.DueDate); err != nil {
		return nil, err
	}
	billTo, err := s.billTo(ctx, in)
	if err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		ID:            id,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		Date:          in.Date,
		DueDate:       in.DueDate,
		BillFrom:      in.BillFrom,
		BillTo:        billTo,
		Items:         itemsFrom(in.Items),
		TaxRate:       in.TaxRate,
		Notes:         in.Notes,
		Status:        status,
	}
	return s.replace(ctx, invoice)
}

func (s *invoiceService) AddItem(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = invoicing.AddItem(invoice.Items)
	return s.replace(ctx, invoice)
}

func (s *invoiceService) RemoveItem(ctx context.Context, id uuid.UUID, itemID string) (*model.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := invoicing.RemoveItem(invoice.Items, itemID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return s.replace(ctx, invoice)
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("invoice deleted", slog.String("invoice_id", id.String()))
	return nil
}

func (s *invoiceService) replace(ctx context.Context, invoice *model.Invoice) (*model.Invoice, error) {
	invoicing.Apply(invoice)
	if err := invoicing.Validate(invoice); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, invoice); err != nil {
		return nil, err
	}
	return s.Get(ctx, invoice.ID)
}

// build turns in into a new invoice with defaults filled and totals applied.
func (s *invoiceService) build(ctx context.Context, session *auth.Session, in InvoiceInput) (*model.Invoice, error) {
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}
	status, err := invoiceStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	invoice := &model.Invoice{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		Date:          in.Date,
		DueDate:       in.DueDate,
		BillFrom:      in.BillFrom,
		Items:         itemsFrom(in.Items),
		TaxRate:       in.TaxRate,
		Notes:         in.Notes,
		Status:        status,
		CreatedBy:     session.UserID,
	}
	if invoice.InvoiceNumber == "" {
		invoice.InvoiceNumber = invoiceNumber(now)
	}
	if invoice.Date == "" {
		invoice.Date = now.Format(model.DateLayout)
	}
	if invoice.DueDate == "" {
		invoice.DueDate = now.Add(invoiceDueAfter).Format(model.DateLayout)
	}
	if err := validDates(invoice.Date, invoice.DueDate); err != nil {
		return nil, err
	}
	if len(invoice.Items) == 0 {
		invoice.Items = []model.InvoiceItem{invoicing.NewItem()}
	}

	if invoice.BillFrom == "" {
		user, err := s.users.FindByID(ctx, session.UserID.String())
		switch {
		case err == nil:
			invoice.BillFrom = user.Name + "\n" + user.Email
		case apperrors.KindOf(err) != apperrors.KindNotFound:
			return nil, err
		}
	}
	if invoice.BillTo, err = s.billTo(ctx, in); err != nil {
		return nil, err
	}

	invoicing.Apply(invoice)
	if err := invoicing.Validate(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) billTo(ctx context.Context, in InvoiceInput) (string, error) {
	if in.BillTo != "" || in.ClientID == nil {
		return in.BillTo, nil
	}
	client, err := s.clients.FindByID(ctx, *in.ClientID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return "", apperrors.Validationf("clientId: no client with id %s", in.ClientID)
		}
		return "", err
	}
	return client.BillTo(), nil
}

func itemsFrom(in []InvoiceItemInput) []model.InvoiceItem {
	items := make([]model.InvoiceItem, 0, len(in))
	for _, it := range in {
		items = append(items, model.InvoiceItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return items
}

func invoiceStatus(s model.InvoiceStatus) (model.InvoiceStatus, error) {
	switch s {
	case "":
		return model.InvoiceStatusUnpaid, nil
	case model.InvoiceStatusPaid, model.InvoiceStatusUnpaid:
		return s, nil
	}
	return "", apperrors.Validationf("status must be paid or unpaid, got %q", s)
}

func validDates(dates ...string) error {
	for _, d := range dates {
		if d == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return apperrors.Validationf("%q is not a date in YYYY-MM-DD form", d)
		}
	}
	return nil
}

// invoiceNumber derives a default number from the last six digits of the
// unix millisecond clock.
func invoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%06d", now.UnixMilli()%1000000)
}
