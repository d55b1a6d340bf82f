package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jayambe/books/internal/numbering"
	payabledomain "github.com/jayambe/books/internal/payable/domain"
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
	payables  repository.Repository[payabledomain.Payable]
}

func NewService(p ServiceParam) payabledomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payable.service"),
		genID: p.GenID,

		numbering: p.Numbering,
		payables:  repository.ProvideStore[payabledomain.Payable](p.DB),
	}
}

// Create records a supplier bill. The payable sequence is consumed only
// when the caller did not supply a bill number.
func (s *Service) Create(ctx context.Context, req payabledomain.CreatePayableRequest) (payabledomain.Payable, error) {
	supplierName := strings.TrimSpace(req.SupplierName)
	if supplierName == "" {
		supplierName = "Supplier"
	}

	status := payabledomain.StatusPending
	if trimmed := strings.TrimSpace(req.Status); trimmed != "" {
		status = payabledomain.PayableStatus(trimmed)
	}

	now := time.Now().UTC()
	payable := payabledomain.Payable{
		ID:           s.genID.Generate(),
		BillNumber:   strings.TrimSpace(req.BillNumber),
		SupplierName: supplierName,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if payable.BillNumber == "" {
			number, err := s.numbering.NextTx(ctx, tx, numbering.ClassPayable)
			if err != nil {
				return err
			}
			payable.BillNumber = number
		}
		return s.payables.WithTrx(tx).Create(ctx, &payable)
	})
	if err != nil {
		return payabledomain.Payable{}, fmt.Errorf("persist payable: %w", err)
	}

	s.log.Info("payable created",
		zap.String("bill", payable.BillNumber),
		zap.String("supplier", payable.SupplierName),
		zap.Float64("amount", payable.Amount),
	)
	return payable, nil
}

// List returns every payable, newest-created first.
func (s *Service) List(ctx context.Context) ([]payabledomain.Payable, error) {
	rows, err := s.payables.Find(ctx, &payabledomain.Payable{}, option.WithOrder("created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}

	payables := make([]payabledomain.Payable, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		payables = append(payables, *row)
	}
	return payables, nil
}
