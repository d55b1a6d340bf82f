// Package domain contains persistence models for recorded payments.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
)

// PaymentMode is the channel the money arrived through.
type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeUPI          PaymentMode = "upi"
	ModeBankTransfer PaymentMode = "bank_transfer"
	ModeCard         PaymentMode = "card"
)

// PaymentTag classifies the payment against the invoice lifecycle.
type PaymentTag string

const (
	TagAdvance    PaymentTag = "advance"
	TagFinal      PaymentTag = "final"
	TagAdjustment PaymentTag = "adjustment"
)

// Payment is an immutable receipt row. InvoiceNumber and CustomerName are
// snapshots taken at record time and are never re-synced with the invoice;
// they preserve what the receipt said historically.
type Payment struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID `gorm:"not null;index" json:"invoiceId"`
	InvoiceNumber string       `gorm:"type:text;not null" json:"invoiceNumber"`
	CustomerName  string       `gorm:"type:text" json:"customerName"`
	ReceiptNumber string       `gorm:"type:text;not null;uniqueIndex" json:"receiptNumber"`
	Amount        float64      `gorm:"not null" json:"amount"`
	Mode          PaymentMode  `gorm:"type:text;not null" json:"mode"`
	Tag           PaymentTag   `gorm:"type:text;not null" json:"tag"`
	Note          string       `gorm:"type:text" json:"note"`
	CreatedAt     time.Time    `gorm:"not null;index" json:"createdAt"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// RecordPaymentRequest carries the payment creation payload.
type RecordPaymentRequest struct {
	InvoiceID string  `json:"invoiceId"`
	Amount    float64 `json:"amount"`
	Mode      string  `json:"mode"`
	Tag       string  `json:"tag"`
	Note      string  `json:"note"`
}

type Service interface {
	Record(ctx context.Context, req RecordPaymentRequest) (Payment, error)
	List(ctx context.Context) ([]Payment, error)

	// Reconcile recomputes the invoice's paid-to-date from the sum of its
	// payment rows, repairing a stored running total that drifted.
	Reconcile(ctx context.Context, invoiceID string) (invoicedomain.Invoice, error)
}

var (
	// ErrInvalidAmount is returned when a payment amount is missing, zero,
	// or negative. Detected before any write.
	ErrInvalidAmount = errors.New("invalid_amount")
)
