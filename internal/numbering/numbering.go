// Package numbering assigns sequential document numbers per document class.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/jayambe/books/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides the numbering authority.
var Module = fx.Module("numbering", fx.Provide(NewAuthority))

// Class is a document numbering scope. Each class owns an independent
// sequence and prefix.
type Class string

const (
	ClassProforma Class = "invoice_proforma"
	ClassFinal    Class = "invoice_final"
	ClassReceipt  Class = "payment_receipt"
	ClassPayable  Class = "payable_bill"
)

// Prefix returns the document number prefix for the class.
func (c Class) Prefix() string {
	switch c {
	case ClassProforma:
		return "JA-PRO-"
	case ClassFinal:
		return "JA-INV-"
	case ClassReceipt:
		return "JA-RCPT-"
	case ClassPayable:
		return "JA-PAY-"
	default:
		return "JA-DOC-"
	}
}

const sequenceWidth = 4

// DocumentSequence is the per-class counter row. It is advanced inside the
// same transaction that inserts the numbered document, so two concurrent
// creations can never mint the same number and a rolled-back insert releases
// its number along with the row.
type DocumentSequence struct {
	Class     string `gorm:"primaryKey;type:text"`
	Value     int64  `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName sets the database table name.
func (DocumentSequence) TableName() string { return "document_sequences" }

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

// Authority mints sequential, zero-padded document numbers.
type Authority struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuthority(p Params) *Authority {
	return &Authority{
		db:  p.DB,
		log: p.Log.Named("numbering"),
	}
}

// Next advances the class sequence in its own transaction and returns the
// formatted number.
func (a *Authority) Next(ctx context.Context, class Class) (string, error) {
	var number string
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := a.NextTx(ctx, tx, class)
		if err != nil {
			return err
		}
		number = n
		return nil
	})
	return number, err
}

// NextTx advances the class sequence inside the caller's transaction.
// Storage failures propagate; a number is never defaulted.
func (a *Authority) NextTx(ctx context.Context, tx *gorm.DB, class Class) (string, error) {
	res := tx.WithContext(ctx).
		Model(&DocumentSequence{}).
		Where("class = ?", string(class)).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("advance sequence %s: %w", class, res.Error)
	}

	if res.RowsAffected == 0 {
		seq := DocumentSequence{Class: string(class), Value: 1}
		err := tx.WithContext(ctx).Create(&seq).Error
		if err == nil {
			return a.format(class, 1), nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return "", fmt.Errorf("initialize sequence %s: %w", class, err)
		}
		// Lost the race to create the first row; fall through to the update path.
		res = tx.WithContext(ctx).
			Model(&DocumentSequence{}).
			Where("class = ?", string(class)).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return "", fmt.Errorf("advance sequence %s: %w", class, res.Error)
		}
	}

	var seq DocumentSequence
	if err := tx.WithContext(ctx).First(&seq, "class = ?", string(class)).Error; err != nil {
		return "", fmt.Errorf("read sequence %s: %w", class, err)
	}
	return a.format(class, seq.Value), nil
}

func (a *Authority) format(class Class, value int64) string {
	return fmt.Sprintf("%s%0*d", class.Prefix(), sequenceWidth, value)
}
