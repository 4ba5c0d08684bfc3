package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"teamdesk/internal/model"
	"teamdesk/internal/service"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceItemRequest is one submitted line item. amount is accepted and
// ignored; it is always quantity * rate.
type InvoiceItemRequest struct {
	ID          string           `json:"id,omitempty" validate:"max=36"`
	LegacyID    string           `json:"_id,omitempty" validate:"max=36" swaggerignore:"true"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty" swaggertype:"number"`
	Rate        decimal.Decimal  `json:"rate" swaggertype:"number"`
	Amount      json.RawMessage  `json:"amount,omitempty" swaggerignore:"true"`
}

// InvoiceRequest is the body of invoice create, update and preview. The
// derived totals are accepted and ignored.
type InvoiceRequest struct {
	ID            string               `json:"id,omitempty"`
	LegacyID      string               `json:"_id,omitempty"`
	InvoiceNumber string               `json:"invoiceNumber" validate:"max=64"`
	Date          string               `json:"date"`
	DueDate       string               `json:"dueDate"`
	BillFrom      string               `json:"billFrom"`
	BillTo        string               `json:"billTo"`
	ClientID      string               `json:"clientId,omitempty" validate:"omitempty,uuid"`
	Items         []InvoiceItemRequest `json:"items" validate:"dive"`
	TaxRate       decimal.Decimal      `json:"taxRate" swaggertype:"number"`
	Notes         string               `json:"notes"`
	Status        string               `json:"status" validate:"omitempty,oneof=paid unpaid"`
	Subtotal      json.RawMessage      `json:"subtotal,omitempty" swaggerignore:"true"`
	TaxAmount     json.RawMessage      `json:"taxAmount,omitempty" swaggerignore:"true"`
	Total         json.RawMessage      `json:"total,omitempty" swaggerignore:"true"`
	CreatedBy     string               `json:"createdBy,omitempty" swaggerignore:"true"`
	CreatedAt     json.RawMessage      `json:"createdAt,omitempty" swaggerignore:"true"`
	UpdatedAt     json.RawMessage      `json:"updatedAt,omitempty" swaggerignore:"true"`
}

func (r *InvoiceRequest) input() service.InvoiceInput {
	in := service.InvoiceInput{
		InvoiceNumber: r.InvoiceNumber,
		Date:          r.Date,
		DueDate:       r.DueDate,
		BillFrom:      r.BillFrom,
		BillTo:        r.BillTo,
		TaxRate:       r.TaxRate,
		Notes:         r.Notes,
		Status:        model.InvoiceStatus(r.Status),
		Items:         make([]service.InvoiceItemInput, 0, len(r.Items)),
	}
	if r.ClientID != "" {
		if id, err := uuid.Parse(r.ClientID); err == nil {
			in.ClientID = &id
		}
	}
	for _, it := range r.Items {
		item := service.InvoiceItemInput{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    decimal.NewFromInt(1),
			Rate:        it.Rate,
		}
		if item.ID == "" {
			item.ID = it.LegacyID
		}
		if it.Quantity != nil {
			item.Quantity = *it.Quantity
		}
		in.Items = append(in.Items, item)
	}
	return in
}

// ListInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Security SessionToken
// @Success 200 {array} model.Invoice
// @Failure 401 {object} errors.ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c echo.Context) error {
	invoices, err := h.invoiceService.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, invoices)
}

// GetInvoice godoc
// @Summary Get invoice
// @Tags invoices
// @Produce json
// @Security SessionToken
// @Param id path string true "Invoice ID"
// @Success 200 {object} model.Invoice
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// CreateInvoice godoc
// @Summary Create invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body InvoiceRequest true "Invoice"
// @Success 201 {object} model.Invoice
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req InvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.Create(c.Request().Context(), session, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

// PreviewInvoice godoc
// @Summary Compute an invoice without saving it
// @Tags invoices
// @Accept json
// @Produce json
// @Security SessionToken
// @Param request body InvoiceRequest true "Invoice"
// @Success 200 {object} model.Invoice
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /invoices/preview [post]
func (h *InvoiceHandler) PreviewInvoice(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req InvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoiceService.Preview(c.Request().Context(), session, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice godoc
// @Summary Replace invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security SessionToken
// @Param id path string true "Invoice ID"
// @Param request body InvoiceRequest true "Invoice"
// @Success 200 {object} model.Invoice
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req InvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := checkBodyID(id, req.ID, req.LegacyID); err != nil {
		return err
	}
	invoice, err := h.invoiceService.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// AddInvoiceItem godoc
// @Summary Append a blank line item
// @Tags invoices
// @Produce json
// @Security SessionToken
// @Param id path string true "Invoice ID"
// @Success 200 {object} model.Invoice
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /invoices/{id}/items [post]
func (h *InvoiceHandler) AddInvoiceItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.AddItem(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// RemoveInvoiceItem godoc
// @Summary Remove a line item
// @Description Removing the last remaining item is rejected.
// @Tags invoices
// @Produce json
// @Security SessionToken
// @Param id path string true "Invoice ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} model.Invoice
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /invoices/{id}/items/{itemId} [delete]
func (h *InvoiceHandler) RemoveInvoiceItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoiceService.RemoveItem(c.Request().Context(), id, c.Param("itemId"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice godoc
// @Summary Delete invoice
// @Tags invoices
// @Produce json
// @Security SessionToken
// @Param id path string true "Invoice ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.invoiceService.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "invoice deleted"})
}
