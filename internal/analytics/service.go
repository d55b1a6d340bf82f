// Package analytics builds per-customer receivable rollups for export.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	InvoiceSvc invoicedomain.Service
	PaymentSvc paymentdomain.Service
}

type Service struct {
	log      *zap.Logger
	invoices invoicedomain.Service
	payments paymentdomain.Service
}

func NewService(p Params) *Service {
	return &Service{
		log:      p.Log.Named("analytics.service"),
		invoices: p.InvoiceSvc,
		payments: p.PaymentSvc,
	}
}

// CustomerRow is one exported rollup line.
type CustomerRow struct {
	Customer      string
	Email         string
	Phone         string
	TotalInvoiced float64
	TotalPaid     float64
	Outstanding   float64
	InvoiceCount  int
	LastInvoice   *time.Time
	LastPayment   *time.Time
}

// CustomerRollup aggregates invoices and payments by customer name.
// Customers are matched on the invoice name; payments carry their own
// name snapshot, so a relabeled invoice keeps its historical receipts
// grouped under the old name.
func (s *Service) CustomerRollup(ctx context.Context) ([]CustomerRow, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	byName := make(map[string]*CustomerRow)
	rowFor := func(name string) *CustomerRow {
		if name == "" {
			name = "Unknown"
		}
		if row, ok := byName[name]; ok {
			return row
		}
		row := &CustomerRow{Customer: name}
		byName[name] = row
		return row
	}

	for _, inv := range invoices {
		row := rowFor(inv.CustomerName)
		row.TotalInvoiced += inv.Total
		row.InvoiceCount++
		if row.Email == "" {
			row.Email = inv.CustomerEmail
		}
		if row.Phone == "" {
			row.Phone = inv.CustomerPhone
		}
		created := inv.CreatedAt
		if row.LastInvoice == nil || created.After(*row.LastInvoice) {
			row.LastInvoice = &created
		}
	}

	for _, payment := range payments {
		row := rowFor(payment.CustomerName)
		row.TotalPaid += payment.Amount
		created := payment.CreatedAt
		if row.LastPayment == nil || created.After(*row.LastPayment) {
			row.LastPayment = &created
		}
	}

	rows := make([]CustomerRow, 0, len(byName))
	for _, row := range byName {
		row.Outstanding = row.TotalInvoiced - row.TotalPaid
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Customer < rows[j].Customer })
	return rows, nil
}
