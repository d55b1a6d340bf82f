// Package pdf renders printable bill documents.
package pdf

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the bill document renderer.
var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

// BillItem is one printed line of the items table.
type BillItem struct {
	Description string
	Quantity    float64
	Rate        float64
	Amount      float64
}

// BillTax is one printed tax line under the subtotal.
type BillTax struct {
	Label   string
	Percent float64
	Amount  float64
}

// BillData is everything the bill layout needs, pre-formatted by the caller.
type BillData struct {
	BusinessName  string
	InvoiceNumber string
	OrderID       string
	Date          string
	DueDate       string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Items    []BillItem
	Taxes    []BillTax
	Subtotal float64
	Total    float64

	Notes string
}

// Provider renders a bill document to bytes.
type Provider interface {
	GenerateBill(ctx context.Context, data BillData) ([]byte, error)
}

type provider struct{}

func New() Provider {
	return &provider{}
}
