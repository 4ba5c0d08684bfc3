// Package invoicing computes invoice line amounts and totals. It performs no
// I/O and is shared by the live preview endpoint and the persistence path so
// the two can never disagree.
package invoicing

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

var hundred = decimal.NewFromInt(100)

// maxItemID is the width of the item id column.
const maxItemID = 36

// MaxScale is the number of decimal places stored for quantities, rates and
// the tax rate.
const MaxScale = 4

var (
	// Entered values keep at most 15 significant digits so they read back
	// unchanged from both decimal and floating point columns.
	maxEntered = decimal.New(1, 11)
	// Derived amounts must fit a decimal(20,4) column.
	maxDerived = decimal.New(1, 16)
)

// Field names an editable line item field.
type Field string

const (
	FieldDescription Field = "description"
	FieldQuantity    Field = "quantity"
	FieldRate        Field = "rate"
)

// ErrItemNotFound is returned when an item id is not part of the list.
var ErrItemNotFound = &apperrors.Error{Kind: apperrors.KindNotFound, Code: "ITEM_NOT_FOUND", Message: "invoice item not found"}

// Totals holds the derived amounts of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// NewItem returns a blank line item with quantity 1 and rate 0.
func NewItem() model.InvoiceItem {
	return model.InvoiceItem{
		ID:       uuid.NewString(),
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.Zero,
		Amount:   decimal.Zero,
	}
}

// RecomputeItem sets field to value and, for quantity or rate, recomputes
// the amount. Amount itself is not an editable field.
func RecomputeItem(item model.InvoiceItem, field Field, value interface{}) (model.InvoiceItem, error) {
	switch field {
	case FieldDescription:
		s, ok := value.(string)
		if !ok {
			return item, apperrors.Validationf("description must be text, got %T", value)
		}
		item.Description = s
		return item, nil
	case FieldQuantity, FieldRate:
		d, err := toDecimal(value)
		if err != nil {
			return item, apperrors.Validationf("%s: %v", field, err)
		}
		if err := checkEntered(string(field), d); err != nil {
			return item, err
		}
		if field == FieldQuantity {
			item.Quantity = d
		} else {
			item.Rate = d
		}
		return withAmount(item), nil
	default:
		return item, apperrors.Validationf("field %q is not editable", field)
	}
}

// ComputeTotals sums item amounts in list order and applies taxRate, a
// percentage.
func ComputeTotals(items []model.InvoiceItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	taxAmount := subtotal.Mul(taxRate).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// AddItem appends a blank item. The input slice is not modified.
func AddItem(items []model.InvoiceItem) []model.InvoiceItem {
	out := make([]model.InvoiceItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, NewItem())
}

// RemoveItem drops the item with the given id. Removing the last remaining
// item is rejected.
func RemoveItem(items []model.InvoiceItem, id string) ([]model.InvoiceItem, error) {
	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items, ErrItemNotFound
	}
	if len(items) <= 1 {
		return items, apperrors.ErrLastItem
	}
	out := make([]model.InvoiceItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), nil
}

// Normalize prepares items for display or storage: ids are assigned where
// missing, duplicated or too long, positions follow list order and every amount is
// recomputed. It returns the normalized copy and the matching totals.
func Normalize(items []model.InvoiceItem, taxRate decimal.Decimal) ([]model.InvoiceItem, Totals) {
	out := make([]model.InvoiceItem, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if _, dup := seen[it.ID]; it.ID == "" || len(it.ID) > maxItemID || dup {
			it.ID = uuid.NewString()
		}
		seen[it.ID] = struct{}{}
		it.Position = i
		out[i] = withAmount(it)
	}
	return out, ComputeTotals(out, taxRate)
}

// Apply normalizes the items of inv in place and stores the derived totals.
func Apply(inv *model.Invoice) {
	items, totals := Normalize(inv.Items, inv.TaxRate)
	inv.Items = items
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
}

// Validate reports the first value of inv that cannot be stored exactly.
// Entered values are limited to MaxScale decimal places and 15 significant
// digits; derived amounts must fit the amount columns. Call it after Apply.
func Validate(inv *model.Invoice) error {
	if err := checkEntered("taxRate", inv.TaxRate); err != nil {
		return err
	}
	for i, it := range inv.Items {
		if err := checkEntered(fmt.Sprintf("items[%d].quantity", i), it.Quantity); err != nil {
			return err
		}
		if err := checkEntered(fmt.Sprintf("items[%d].rate", i), it.Rate); err != nil {
			return err
		}
		if it.Amount.Abs().GreaterThanOrEqual(maxDerived) {
			return apperrors.Validationf("items[%d].amount is too large", i)
		}
	}
	if inv.Total.Abs().GreaterThanOrEqual(maxDerived) || inv.Subtotal.Abs().GreaterThanOrEqual(maxDerived) {
		return apperrors.Validation("invoice total is too large")
	}
	return nil
}

func checkEntered(name string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MaxScale)) {
		return apperrors.Validationf("%s allows at most %d decimal places", name, MaxScale)
	}
	if d.Abs().GreaterThanOrEqual(maxEntered) {
		return apperrors.Validationf("%s must be below %s", name, maxEntered.String())
	}
	return nil
}

func withAmount(item model.InvoiceItem) model.InvoiceItem {
	item.Amount = item.Quantity.Mul(item.Rate)
	return item
}

func toDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(v), nil
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported value type %T", value)
	}
}
