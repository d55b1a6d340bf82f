package analytics

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	invoiceservice "github.com/jayambe/books/internal/invoice/service"
	"github.com/jayambe/books/internal/numbering"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	paymentservice "github.com/jayambe/books/internal/payment/service"
	"github.com/jayambe/books/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAnalytics(t *testing.T) (*Service, invoicedomain.Service, paymentdomain.Service) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&invoicedomain.Invoice{},
		&paymentdomain.Payment{},
		&numbering.DocumentSequence{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	authority := numbering.NewAuthority(numbering.Params{DB: conn, Log: zap.NewNop()})
	invoices := invoiceservice.NewService(invoiceservice.ServiceParam{
		DB: conn, Log: zap.NewNop(), GenID: node, Numbering: authority,
	})
	payments := paymentservice.NewService(paymentservice.ServiceParam{
		DB: conn, Log: zap.NewNop(), GenID: node, Numbering: authority, InvoiceSvc: invoices,
	})
	svc := NewService(Params{Log: zap.NewNop(), InvoiceSvc: invoices, PaymentSvc: payments})
	return svc, invoices, payments
}

func TestCustomerRollup(t *testing.T) {
	svc, invoices, payments := setupAnalytics(t)
	ctx := context.Background()

	acme, err := invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerName:  "Acme Traders",
		CustomerEmail: "ops@acme.example",
		CustomerPhone: "+919876543210",
		LineItems:     []invoicedomain.LineItemInput{{Description: "Widget", Quantity: 2, Rate: 100}},
	})
	require.NoError(t, err)
	_, err = invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerName: "Acme Traders",
		LineItems:    []invoicedomain.LineItemInput{{Description: "Panel", Quantity: 1, Rate: 300}},
	})
	require.NoError(t, err)
	_, err = invoices.Create(ctx, invoicedomain.CreateInvoiceRequest{
		CustomerName: "Bharat Timber",
		LineItems:    []invoicedomain.LineItemInput{{Description: "Beam", Quantity: 4, Rate: 50}},
	})
	require.NoError(t, err)

	_, err = payments.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: acme.ID.String(),
		Amount:    150,
	})
	require.NoError(t, err)

	rows, err := svc.CustomerRollup(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme Traders", rows[0].Customer)
	assert.Equal(t, 500.0, rows[0].TotalInvoiced)
	assert.Equal(t, 150.0, rows[0].TotalPaid)
	assert.Equal(t, 350.0, rows[0].Outstanding)
	assert.Equal(t, 2, rows[0].InvoiceCount)
	assert.Equal(t, "ops@acme.example", rows[0].Email)
	assert.NotNil(t, rows[0].LastInvoice)
	assert.NotNil(t, rows[0].LastPayment)

	assert.Equal(t, "Bharat Timber", rows[1].Customer)
	assert.Equal(t, 200.0, rows[1].TotalInvoiced)
	assert.Zero(t, rows[1].TotalPaid)
	assert.Nil(t, rows[1].LastPayment)
}

func TestRenderCSV(t *testing.T) {
	rows := []CustomerRow{{
		Customer:      "Acme Traders",
		Email:         "ops@acme.example",
		Phone:         "+91 98765-43210",
		TotalInvoiced: 500,
		TotalPaid:     150,
		Outstanding:   350,
		InvoiceCount:  2,
	}}

	out, err := RenderCSV(rows, ',')
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Total Invoiced")
	assert.Contains(t, lines[1], "500.00")
	assert.Contains(t, lines[1], "350.00")
	// Phone is guarded against spreadsheet numeric collapse.
	assert.Contains(t, lines[1], `+919876543210`)
}

func TestDelimiterFor(t *testing.T) {
	assert.Equal(t, ',', DelimiterFor("comma"))
	assert.Equal(t, ';', DelimiterFor("semicolon"))
	assert.Equal(t, '\t', DelimiterFor("tab"))
	assert.Equal(t, '|', DelimiterFor("pipe"))
	assert.Equal(t, ',', DelimiterFor("anything"))
}
