package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	invoiceservice "github.com/jayambe/books/internal/invoice/service"
	"github.com/jayambe/books/internal/numbering"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	"github.com/jayambe/books/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	conn     *gorm.DB
	invoices invoicedomain.Service
	payments paymentdomain.Service
}

func setup(t *testing.T) fixture {
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
	payments := NewService(ServiceParam{
		DB: conn, Log: zap.NewNop(), GenID: node, Numbering: authority, InvoiceSvc: invoices,
	})
	return fixture{conn: conn, invoices: invoices, payments: payments}
}

func (f fixture) createInvoice(t *testing.T) invoicedomain.Invoice {
	t.Helper()
	inv, err := f.invoices.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		CustomerName: "Acme Traders",
		LineItems:    []invoicedomain.LineItemInput{{Description: "Widget", Quantity: 2, Rate: 100}},
		Taxes:        []invoicedomain.TaxLineInput{{Label: "GST", Percent: 18}},
	})
	require.NoError(t, err)
	return inv
}

func TestRecordPaymentLedgerWalk(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	first, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    100,
		Mode:      "upi",
		Tag:       "advance",
	})
	require.NoError(t, err)
	assert.Equal(t, "JA-RCPT-0001", first.ReceiptNumber)
	assert.Equal(t, inv.Number, first.InvoiceNumber)
	assert.Equal(t, "Acme Traders", first.CustomerName)
	assert.Equal(t, paymentdomain.ModeUPI, first.Mode)
	assert.Equal(t, paymentdomain.TagAdvance, first.Tag)

	after, err := f.invoices.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100.0, after.PaidToDate)
	assert.Equal(t, 136.0, after.BalanceDue)
	assert.Equal(t, invoicedomain.StatusDraft, after.Status)

	second, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    136,
	})
	require.NoError(t, err)
	assert.Equal(t, "JA-RCPT-0002", second.ReceiptNumber)

	settled, err := f.invoices.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 236.0, settled.PaidToDate)
	assert.Zero(t, settled.BalanceDue)
	assert.Equal(t, invoicedomain.StatusPaid, settled.Status)
}

func TestRecordPaymentInvalidAmountNoStateChange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	for _, amount := range []float64{0, -5} {
		_, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{
			InvoiceID: inv.ID.String(),
			Amount:    amount,
		})
		assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)
	}

	listed, err := f.payments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	after, err := f.invoices.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Zero(t, after.PaidToDate)
	assert.Equal(t, 236.0, after.BalanceDue)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: "987654321",
		Amount:    50,
	})
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)

	listed, err := f.payments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRecordPaymentCoercesUnknownModeAndTag(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	payment, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    10,
		Mode:      "barter",
		Tag:       "mystery",
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.ModeCash, payment.Mode)
	assert.Equal(t, paymentdomain.TagFinal, payment.Tag)
}

func TestRecordPaymentRoundsToTwoDecimals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	_, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{
		InvoiceID: inv.ID.String(),
		Amount:    33.333,
	})
	require.NoError(t, err)

	after, err := f.invoices.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 33.33, after.PaidToDate)
	assert.Equal(t, 202.67, after.BalanceDue)
}

func TestListPaymentsNewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	_, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{InvoiceID: inv.ID.String(), Amount: 10})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{InvoiceID: inv.ID.String(), Amount: 20})
	require.NoError(t, err)

	listed, err := f.payments.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 20.0, listed[0].Amount)
	assert.Equal(t, 10.0, listed[1].Amount)
}

func TestReconcileRepairsDriftedRunningTotal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	_, err := f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{InvoiceID: inv.ID.String(), Amount: 100})
	require.NoError(t, err)
	_, err = f.payments.Record(ctx, paymentdomain.RecordPaymentRequest{InvoiceID: inv.ID.String(), Amount: 36})
	require.NoError(t, err)

	// Simulate a drifted running total.
	require.NoError(t, f.conn.Model(&invoicedomain.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]any{"paid_to_date": 0, "balance_due": 236}).Error)

	repaired, err := f.payments.Reconcile(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 136.0, repaired.PaidToDate)
	assert.Equal(t, 100.0, repaired.BalanceDue)
	assert.Equal(t, invoicedomain.StatusDraft, repaired.Status)
}
