package invoicing

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

func item(id string, qty, rate int64) model.InvoiceItem {
	q, r := decimal.NewFromInt(qty), decimal.NewFromInt(rate)
	return model.InvoiceItem{ID: id, Quantity: q, Rate: r, Amount: q.Mul(r)}
}

func TestComputeTotals_EndToEndScenario(t *testing.T) {
	items := []model.InvoiceItem{item("a", 2, 100), item("b", 1, 50)}

	totals := ComputeTotals(items, decimal.NewFromInt(10))

	assert.True(t, decimal.NewFromInt(250).Equal(totals.Subtotal), "subtotal %s", totals.Subtotal)
	assert.True(t, decimal.NewFromInt(25).Equal(totals.TaxAmount), "taxAmount %s", totals.TaxAmount)
	assert.True(t, decimal.NewFromInt(275).Equal(totals.Total), "total %s", totals.Total)
}

func TestComputeTotals_PermutationInvariant(t *testing.T) {
	a := item("a", 3, 7)
	b := model.InvoiceItem{ID: "b", Quantity: decimal.RequireFromString("0.5"), Rate: decimal.RequireFromString("19.99")}
	b.Amount = b.Quantity.Mul(b.Rate)
	c := item("c", 0, 1000)

	rate := decimal.RequireFromString("7.5")
	orders := [][]model.InvoiceItem{{a, b, c}, {c, b, a}, {b, a, c}, {c, a, b}}
	first := ComputeTotals(orders[0], rate)
	for _, items := range orders[1:] {
		got := ComputeTotals(items, rate)
		assert.True(t, first.Subtotal.Equal(got.Subtotal))
		assert.True(t, first.Total.Equal(got.Total))
	}
}

func TestComputeTotals_ZeroTaxAndIdempotent(t *testing.T) {
	items := []model.InvoiceItem{item("a", 4, 25)}

	first := ComputeTotals(items, decimal.Zero)
	second := ComputeTotals(items, decimal.Zero)

	assert.True(t, first.Total.Equal(first.Subtotal))
	assert.True(t, first.TaxAmount.IsZero())
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TaxAmount.Equal(second.TaxAmount))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTotals_TotalIsSubtotalPlusTax(t *testing.T) {
	cases := []struct{ subtotal, rate string }{
		{"100", "0"}, {"33.33", "10"}, {"0", "25"}, {"1999.95", "17.5"}, {"10", "150"},
	}
	for _, tc := range cases {
		s := decimal.RequireFromString(tc.subtotal)
		r := decimal.RequireFromString(tc.rate)
		totals := ComputeTotals([]model.InvoiceItem{{ID: "x", Quantity: decimal.NewFromInt(1), Rate: s, Amount: s}}, r)
		want := s.Add(s.Mul(r).Div(decimal.NewFromInt(100)))
		assert.True(t, want.Equal(totals.Total), "%s @ %s%%: got %s want %s", tc.subtotal, tc.rate, totals.Total, want)
	}
}

func TestRecomputeItem(t *testing.T) {
	it := NewItem()
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, it.Rate.IsZero())
	assert.NotEmpty(t, it.ID)

	it, err := RecomputeItem(it, FieldRate, 40.0)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(it.Amount))

	it, err = RecomputeItem(it, FieldQuantity, "2.5")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(it.Amount))

	it, err = RecomputeItem(it, FieldQuantity, 0)
	require.NoError(t, err)
	assert.True(t, it.Amount.IsZero())

	before := it.Amount
	it, err = RecomputeItem(it, FieldDescription, "Design work")
	require.NoError(t, err)
	assert.Equal(t, "Design work", it.Description)
	assert.True(t, before.Equal(it.Amount))
}

func TestRecomputeItem_RejectsBadInput(t *testing.T) {
	it := NewItem()

	_, err := RecomputeItem(it, FieldRate, math.NaN())
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = RecomputeItem(it, Field("amount"), 10)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = RecomputeItem(it, FieldQuantity, "abc")
	assert.Error(t, err)

	_, err = RecomputeItem(it, FieldRate, "0.33333")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestValidate(t *testing.T) {
	dec := decimal.RequireFromString
	tests := []struct {
		name    string
		qty     string
		rate    string
		taxRate string
		wantErr bool
	}{
		{name: "four decimal places", qty: "3", rate: "0.3333", taxRate: "12.5"},
		{name: "trailing zeros beyond scale", qty: "1.50000", rate: "10", taxRate: "0"},
		{name: "largest entered value", qty: "1", rate: "99999999999.9999", taxRate: "0"},
		{name: "rate with five decimal places", qty: "1", rate: "0.33333", taxRate: "0", wantErr: true},
		{name: "tax rate with five decimal places", qty: "1", rate: "1", taxRate: "7.12345", wantErr: true},
		{name: "rate beyond fifteen digits", qty: "3", rate: "1234567890123456.7891", taxRate: "0", wantErr: true},
		{name: "negative rate beyond range", qty: "1", rate: "-100000000000", taxRate: "0", wantErr: true},
		{name: "amount overflows column", qty: "99999999999", rate: "99999999999", taxRate: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &model.Invoice{
				TaxRate: dec(tt.taxRate),
				Items:   []model.InvoiceItem{{ID: "a", Quantity: dec(tt.qty), Rate: dec(tt.rate)}},
			}
			Apply(inv)

			err := Validate(inv)
			if tt.wantErr {
				assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAddAndRemoveItem(t *testing.T) {
	items := []model.InvoiceItem{item("a", 1, 10)}

	items = AddItem(items)
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)

	items, err := RemoveItem(items, "a")
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = RemoveItem(items, items[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrLastItem)

	_, err = RemoveItem(items, "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestNormalize(t *testing.T) {
	items := []model.InvoiceItem{
		{ID: "", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100), Amount: decimal.NewFromInt(999)},
		{ID: "dup", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(50)},
		{ID: "dup", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(0)},
		{ID: strings.Repeat("x", 40), Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(0)},
	}

	out, totals := Normalize(items, decimal.NewFromInt(10))

	require.Len(t, out, 4)
	assert.NotEmpty(t, out[0].ID)
	assert.Equal(t, "dup", out[1].ID)
	assert.NotEqual(t, "dup", out[2].ID)
	assert.Len(t, out[3].ID, 36, "oversize ids are replaced")
	for i, it := range out {
		assert.Equal(t, i, it.Position)
	}
	assert.True(t, decimal.NewFromInt(200).Equal(out[0].Amount), "stale amount must be recomputed")
	assert.True(t, decimal.NewFromInt(275).Equal(totals.Total))
	assert.True(t, decimal.NewFromInt(999).Equal(items[0].Amount), "input is not modified")
}

func TestApply(t *testing.T) {
	inv := &model.Invoice{
		TaxRate: decimal.NewFromInt(10),
		Items:   []model.InvoiceItem{item("a", 2, 100), item("b", 1, 50)},
		Total:   decimal.NewFromInt(1),
	}

	Apply(inv)

	assert.True(t, decimal.NewFromInt(250).Equal(inv.Subtotal))
	assert.True(t, decimal.NewFromInt(25).Equal(inv.TaxAmount))
	assert.True(t, decimal.NewFromInt(275).Equal(inv.Total))
}
