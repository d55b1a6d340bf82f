package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jayambe/books/internal/invoice/calc"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	"github.com/jayambe/books/internal/money"
	"github.com/jayambe/books/internal/numbering"
	"github.com/jayambe/books/pkg/db/option"
	"github.com/jayambe/books/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Numbering *numbering.Authority
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	numbering *numbering.Authority
	invoices  repository.Repository[invoicedomain.Invoice]
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,

		numbering: p.Numbering,
		invoices:  repository.ProvideStore[invoicedomain.Invoice](p.DB),
	}
}

// Create normalizes the payload, freezes totals, assigns the next document
// number for the invoice type, and persists the row with a zero paid-to-date.
// Number assignment and insert share one transaction.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	invoiceType := invoicedomain.TypeFinal
	if req.Type == string(invoicedomain.TypeProforma) {
		invoiceType = invoicedomain.TypeProforma
	}

	items := calc.NormalizeLineItems(req.LineItems)
	taxes := calc.NormalizeTaxes(req.Taxes)
	totals := calc.Calculate(items, taxes)

	status := invoicedomain.StatusDraft
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status = invoicedomain.InvoiceStatus(trimmed)
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = "Walk-in Customer"
	}

	now := time.Now().UTC()
	inv := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		Type:          invoiceType,
		CustomerName:  customerName,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		DueDate:       req.DueDate,
		Status:        status,
		LineItems:     items,
		Taxes:         taxes,
		Subtotal:      totals.Subtotal,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		PaidToDate:    0,
		BalanceDue:    totals.Total,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.CreatedAt != nil {
		inv.CreatedAt = req.CreatedAt.UTC()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.numbering.NextTx(ctx, tx, classFor(invoiceType))
		if err != nil {
			return err
		}
		inv.Number = number
		return s.invoices.WithTrx(tx).Create(ctx, &inv)
	})
	if err != nil {
		return invoicedomain.Invoice{}, fmt.Errorf("persist invoice: %w", err)
	}

	s.log.Info("invoice created",
		zap.String("number", inv.Number),
		zap.String("type", string(inv.Type)),
		zap.Float64("total", inv.Total),
	)
	return inv, nil
}

// List returns every invoice, newest-created first.
func (s *Service) List(ctx context.Context) ([]invoicedomain.Invoice, error) {
	rows, err := s.invoices.Find(ctx, &invoicedomain.Invoice{}, option.WithOrder("created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	invoices := make([]invoicedomain.Invoice, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		invoices = append(invoices, *row)
	}
	return invoices, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	row, err := s.invoices.FindOne(ctx, &invoicedomain.Invoice{ID: invoiceID})
	if err != nil {
		return invoicedomain.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	if row == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return *row, nil
}

// ApplyPayment adds amount to paid-to-date inside the caller's transaction.
// Paid-to-date never decreases here; balance is floored at zero and a zero
// balance latches the status to paid.
func (s *Service) ApplyPayment(ctx context.Context, tx *gorm.DB, id snowflake.ID, amount float64) (invoicedomain.Invoice, error) {
	current, err := s.lockInvoice(ctx, tx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return s.restate(ctx, tx, current, current.PaidToDate+amount)
}

// RestatePaidToDate overwrites paid-to-date with the given absolute value.
// Used by reconciliation to repair a stored running total from payment rows.
func (s *Service) RestatePaidToDate(ctx context.Context, tx *gorm.DB, id snowflake.ID, paidToDate float64) (invoicedomain.Invoice, error) {
	current, err := s.lockInvoice(ctx, tx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return s.restate(ctx, tx, current, paidToDate)
}

func (s *Service) lockInvoice(ctx context.Context, tx *gorm.DB, id snowflake.ID) (invoicedomain.Invoice, error) {
	row, err := s.invoices.WithTrx(tx).FindOne(ctx, &invoicedomain.Invoice{ID: id})
	if err != nil {
		return invoicedomain.Invoice{}, fmt.Errorf("load invoice: %w", err)
	}
	if row == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return *row, nil
}

func (s *Service) restate(ctx context.Context, tx *gorm.DB, inv invoicedomain.Invoice, paidToDate float64) (invoicedomain.Invoice, error) {
	paid := money.Round2(paidToDate)
	balance := money.Round2(math.Max(inv.Total-paid, 0))

	status := inv.Status
	if balance <= 0 {
		status = invoicedomain.StatusPaid
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"paid_to_date": paid,
		"balance_due":  balance,
		"status":       status,
		"updated_at":   now,
	}
	if err := s.invoices.WithTrx(tx).Update(ctx, inv.ID.String(), updates); err != nil {
		return invoicedomain.Invoice{}, fmt.Errorf("update invoice balance: %w", err)
	}

	inv.PaidToDate = paid
	inv.BalanceDue = balance
	inv.Status = status
	inv.UpdatedAt = now
	return inv, nil
}

func classFor(t invoicedomain.InvoiceType) numbering.Class {
	if t == invoicedomain.TypeProforma {
		return numbering.ClassProforma
	}
	return numbering.ClassFinal
}
