// Package domain contains persistence models for the invoice ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceType scopes document numbering. Orders are persisted as invoices
// of type final.
type InvoiceType string

const (
	TypeProforma InvoiceType = "proforma"
	TypeFinal    InvoiceType = "final"
)

// InvoiceStatus represents invoice lifecycle states. Callers may supply
// other initial values; only "paid" is assigned by the ledger itself.
type InvoiceStatus string

const (
	StatusDraft InvoiceStatus = "draft"
	StatusSent  InvoiceStatus = "sent"
	StatusPaid  InvoiceStatus = "paid"
)

// LineItem is a single billed line. Immutable once persisted.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// TaxLine applies a percentage uniformly against the invoice subtotal.
// Taxes never compound against each other.
type TaxLine struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// Invoice is the persisted ledger document. Subtotal, TaxAmount and Total
// are frozen at creation; PaidToDate and BalanceDue are mutated only by the
// payment recorder.
type Invoice struct {
	ID            snowflake.ID                  `gorm:"primaryKey" json:"id"`
	Number        string                        `gorm:"type:text;not null;uniqueIndex" json:"number"`
	Type          InvoiceType                   `gorm:"type:text;not null;index" json:"type"`
	CustomerName  string                        `gorm:"type:text;not null" json:"customerName"`
	CustomerEmail string                        `gorm:"type:text" json:"customerEmail"`
	CustomerPhone string                        `gorm:"type:text" json:"customerPhone"`
	DueDate       *time.Time                    `json:"dueDate,omitempty"`
	Status        InvoiceStatus                 `gorm:"type:text;not null;default:'draft'" json:"status"`
	LineItems     datatypes.JSONSlice[LineItem] `gorm:"type:json" json:"lineItems"`
	Taxes         datatypes.JSONSlice[TaxLine]  `gorm:"type:json" json:"taxes"`
	Subtotal      float64                       `gorm:"not null;default:0" json:"subtotal"`
	TaxAmount     float64                       `gorm:"not null;default:0" json:"taxAmount"`
	Total         float64                       `gorm:"not null;default:0" json:"total"`
	PaidToDate    float64                       `gorm:"not null;default:0" json:"paidToDate"`
	BalanceDue    float64                       `gorm:"not null;default:0" json:"balanceDue"`
	Notes         string                        `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time                     `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time                     `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
