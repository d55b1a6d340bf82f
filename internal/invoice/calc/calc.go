// Package calc normalizes invoice inputs and computes document totals.
// Everything here is pure; storage never enters.
package calc

import (
	"github.com/google/uuid"
	"github.com/jayambe/books/internal/invoice/domain"
)

// Totals are the frozen arithmetic results of an invoice at creation time.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// NormalizeLineItems assigns an opaque id to every line and applies
// defaults: blank description becomes "Line Item", a missing or zero
// quantity becomes 1, a missing rate becomes 0.
func NormalizeLineItems(inputs []domain.LineItemInput) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(inputs))
	for _, in := range inputs {
		item := domain.LineItem{
			ID:          uuid.NewString(),
			Description: in.Description,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
		}
		if item.Description == "" {
			item.Description = "Line Item"
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	return items
}

// NormalizeTaxes assigns an opaque id to every tax line and applies
// defaults: blank label becomes "Tax", a missing percent becomes 0.
func NormalizeTaxes(inputs []domain.TaxLineInput) []domain.TaxLine {
	taxes := make([]domain.TaxLine, 0, len(inputs))
	for _, in := range inputs {
		tax := domain.TaxLine{
			ID:      uuid.NewString(),
			Label:   in.Label,
			Percent: in.Percent,
		}
		if tax.Label == "" {
			tax.Label = "Tax"
		}
		taxes = append(taxes, tax)
	}
	return taxes
}

// Calculate computes subtotal, tax amount, and grand total. Every tax line
// is applied against the original subtotal, never against a running total.
func Calculate(items []domain.LineItem, taxes []domain.TaxLine) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Quantity * item.Rate
	}

	var taxAmount float64
	for _, tax := range taxes {
		taxAmount += subtotal * (tax.Percent / 100)
	}

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}
