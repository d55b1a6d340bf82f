package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// LineItemInput is the caller-supplied shape of a line item before
// normalization.
type LineItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// TaxLineInput is the caller-supplied shape of a tax line before
// normalization.
type TaxLineInput struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// CreateInvoiceRequest carries the invoice creation payload. Every field is
// optional; defaults follow the ledger rules.
type CreateInvoiceRequest struct {
	Type          string          `json:"type"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	DueDate       *time.Time      `json:"dueDate"`
	Status        string          `json:"status"`
	LineItems     []LineItemInput `json:"lineItems"`
	Taxes         []TaxLineInput  `json:"taxes"`
	Notes         string          `json:"notes"`
	CreatedAt     *time.Time      `json:"createdAt"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)

	// ApplyPayment adds amount to the invoice's paid-to-date inside the
	// caller's transaction and recomputes balance and status.
	ApplyPayment(ctx context.Context, tx *gorm.DB, id snowflake.ID, amount float64) (Invoice, error)

	// RestatePaidToDate overwrites paid-to-date with an absolute value,
	// recomputing balance and status. Used by payment reconciliation.
	RestatePaidToDate(ctx context.Context, tx *gorm.DB, id snowflake.ID, paidToDate float64) (Invoice, error)
}
