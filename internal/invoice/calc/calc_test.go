package calc

import (
	"testing"

	"github.com/jayambe/books/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateWorkedExample(t *testing.T) {
	items := NormalizeLineItems([]domain.LineItemInput{
		{Description: "Widget", Quantity: 2, Rate: 100},
	})
	taxes := NormalizeTaxes([]domain.TaxLineInput{
		{Label: "GST", Percent: 18},
	})

	totals := Calculate(items, taxes)
	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 36.0, totals.TaxAmount)
	assert.Equal(t, 236.0, totals.Total)
}

func TestCalculateTaxesDoNotCompound(t *testing.T) {
	items := []domain.LineItem{{ID: "a", Description: "Work", Quantity: 1, Rate: 1000}}
	taxes := []domain.TaxLine{
		{ID: "t1", Label: "CGST", Percent: 9},
		{ID: "t2", Label: "SGST", Percent: 9},
	}

	totals := Calculate(items, taxes)
	// Each tax is computed against the original subtotal.
	assert.Equal(t, 1000.0, totals.Subtotal)
	assert.Equal(t, 180.0, totals.TaxAmount)
	assert.Equal(t, totals.Subtotal+totals.TaxAmount, totals.Total)
}

func TestCalculateEmpty(t *testing.T) {
	totals := Calculate(nil, nil)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.TaxAmount)
	assert.Zero(t, totals.Total)
}

func TestNormalizeLineItemDefaults(t *testing.T) {
	items := NormalizeLineItems([]domain.LineItemInput{{}})
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "Line Item", items[0].Description)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Zero(t, items[0].Rate)
}

func TestNormalizeAssignsUniqueIDs(t *testing.T) {
	items := NormalizeLineItems([]domain.LineItemInput{
		{Description: "A"},
		{Description: "B"},
	})
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestNormalizeTaxDefaults(t *testing.T) {
	taxes := NormalizeTaxes([]domain.TaxLineInput{{}})
	require.Len(t, taxes, 1)
	assert.NotEmpty(t, taxes[0].ID)
	assert.Equal(t, "Tax", taxes[0].Label)
	assert.Zero(t, taxes[0].Percent)
}
