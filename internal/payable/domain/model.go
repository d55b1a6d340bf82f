// Package domain contains persistence models for supplier payables.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PayableStatus values are advisory; the ledger does not enforce a state
// machine over them.
type PayableStatus string

const (
	StatusPending   PayableStatus = "pending"
	StatusScheduled PayableStatus = "scheduled"
	StatusPaid      PayableStatus = "paid"
)

// Payable is a supplier bill. It carries no cross-reference to invoices.
type Payable struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	BillNumber   string        `gorm:"type:text;not null;index" json:"billNumber"`
	SupplierName string        `gorm:"type:text;not null" json:"supplierName"`
	Amount       float64       `gorm:"not null;default:0" json:"amount"`
	DueDate      *time.Time    `json:"dueDate,omitempty"`
	Status       PayableStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt    time.Time     `gorm:"not null;index" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Payable) TableName() string { return "payables" }

// CreatePayableRequest carries the payable creation payload. A caller may
// supply its own bill number; otherwise one is assigned from the payable
// sequence.
type CreatePayableRequest struct {
	BillNumber   string     `json:"billNumber"`
	SupplierName string     `json:"supplierName"`
	Amount       float64    `json:"amount"`
	DueDate      *time.Time `json:"dueDate"`
	Status       string     `json:"status"`
}

type Service interface {
	Create(ctx context.Context, req CreatePayableRequest) (Payable, error)
	List(ctx context.Context) ([]Payable, error)
}
