package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	"github.com/jayambe/books/internal/numbering"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	"github.com/jayambe/books/pkg/db/option"
	"github.com/jayambe/books/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Numbering  *numbering.Authority
	InvoiceSvc invoicedomain.Service
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	numbering *numbering.Authority
	invoices  invoicedomain.Service
	payments  repository.Repository[paymentdomain.Payment]
}

func NewService(p ServiceParam) paymentdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,

		numbering: p.Numbering,
		invoices:  p.InvoiceSvc,
		payments:  repository.ProvideStore[paymentdomain.Payment](p.DB),
	}
}

// Record validates the payment, then runs receipt numbering, the payment
// insert, and the invoice balance update in a single transaction so a
// payment can never exist without its balance effect.
func (s *Service) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (paymentdomain.Payment, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil {
		return paymentdomain.Payment{}, invoicedomain.ErrNotFound
	}

	if req.Amount <= 0 {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidAmount
	}

	mode := s.coerceMode(req.Mode)
	tag := s.coerceTag(req.Tag)

	var payment paymentdomain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		receiptNumber, err := s.numbering.NextTx(ctx, tx, numbering.ClassReceipt)
		if err != nil {
			return err
		}

		inv, err := s.invoices.ApplyPayment(ctx, tx, invoiceID, req.Amount)
		if err != nil {
			return err
		}

		payment = paymentdomain.Payment{
			ID:            s.genID.Generate(),
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.Number,
			CustomerName:  inv.CustomerName,
			ReceiptNumber: receiptNumber,
			Amount:        req.Amount,
			Mode:          mode,
			Tag:           tag,
			Note:          req.Note,
			CreatedAt:     time.Now().UTC(),
		}
		return s.payments.WithTrx(tx).Create(ctx, &payment)
	})
	if err != nil {
		if errors.Is(err, invoicedomain.ErrNotFound) {
			return paymentdomain.Payment{}, err
		}
		return paymentdomain.Payment{}, fmt.Errorf("record payment: %w", err)
	}

	s.log.Info("payment recorded",
		zap.String("receipt", payment.ReceiptNumber),
		zap.String("invoice", payment.InvoiceNumber),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

// List returns every payment, newest-created first.
func (s *Service) List(ctx context.Context) ([]paymentdomain.Payment, error) {
	rows, err := s.payments.Find(ctx, &paymentdomain.Payment{}, option.WithOrder("created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	payments := make([]paymentdomain.Payment, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		payments = append(payments, *row)
	}
	return payments, nil
}

// Reconcile restates the invoice's paid-to-date as the sum of its payment
// rows. The payment rows are the source of truth; the stored running total
// is derived state.
func (s *Service) Reconcile(ctx context.Context, invoiceID string) (invoicedomain.Invoice, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	var inv invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paid float64
		if err := tx.WithContext(ctx).
			Model(&paymentdomain.Payment{}).
			Where("invoice_id = ?", id).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&paid).Error; err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}

		restated, err := s.invoices.RestatePaidToDate(ctx, tx, id, paid)
		if err != nil {
			return err
		}
		inv = restated
		return nil
	})
	if err != nil {
		if errors.Is(err, invoicedomain.ErrNotFound) {
			return invoicedomain.Invoice{}, err
		}
		return invoicedomain.Invoice{}, fmt.Errorf("reconcile invoice: %w", err)
	}

	s.log.Info("invoice reconciled",
		zap.String("invoice", inv.Number),
		zap.Float64("paid_to_date", inv.PaidToDate),
	)
	return inv, nil
}

// Unknown modes and tags are substituted with defaults rather than rejected.
// The substitution is logged so it is never a silent normalization.
func (s *Service) coerceMode(raw string) paymentdomain.PaymentMode {
	mode := paymentdomain.PaymentMode(strings.TrimSpace(raw))
	switch mode {
	case paymentdomain.ModeCash, paymentdomain.ModeUPI, paymentdomain.ModeBankTransfer, paymentdomain.ModeCard:
		return mode
	}
	if raw != "" {
		s.log.Warn("unknown payment mode, defaulting to cash", zap.String("mode", raw))
	}
	return paymentdomain.ModeCash
}

func (s *Service) coerceTag(raw string) paymentdomain.PaymentTag {
	tag := paymentdomain.PaymentTag(strings.TrimSpace(raw))
	switch tag {
	case paymentdomain.TagAdvance, paymentdomain.TagFinal, paymentdomain.TagAdjustment:
		return tag
	}
	if raw != "" {
		s.log.Warn("unknown payment tag, defaulting to final", zap.String("tag", raw))
	}
	return paymentdomain.TagFinal
}
