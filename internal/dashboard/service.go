// Package dashboard computes read-only rollups over the ledgers.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jayambe/books/internal/clock"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Metrics is the four-field dashboard aggregate.
type Metrics struct {
	TodayCollected   float64 `json:"todayCollected"`
	MTDCollected     float64 `json:"mtdCollected"`
	MTDInvoiced      float64 `json:"mtdInvoiced"`
	TotalReceivables float64 `json:"totalReceivables"`
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

// Metrics runs the four aggregate queries concurrently. They are mutually
// order-independent; a failure in any one fails the whole aggregate.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	now := s.clock.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var out Metrics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.sumPayments(gctx, &todayStart, &out.TodayCollected)
	})
	g.Go(func() error {
		return s.sumPayments(gctx, &monthStart, &out.MTDCollected)
	})
	g.Go(func() error {
		return s.sumInvoiceColumn(gctx, "total", &monthStart, &out.MTDInvoiced)
	})
	g.Go(func() error {
		return s.sumInvoiceColumn(gctx, "balance_due", nil, &out.TotalReceivables)
	})

	if err := g.Wait(); err != nil {
		return Metrics{}, fmt.Errorf("dashboard metrics: %w", err)
	}
	return out, nil
}

func (s *Service) sumPayments(ctx context.Context, since *time.Time, dest *float64) error {
	stmt := s.db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Select("COALESCE(SUM(amount), 0)")
	if since != nil {
		stmt = stmt.Where("created_at >= ?", *since)
	}
	return stmt.Scan(dest).Error
}

func (s *Service) sumInvoiceColumn(ctx context.Context, column string, since *time.Time, dest *float64) error {
	stmt := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column))
	if since != nil {
		stmt = stmt.Where("created_at >= ?", *since)
	}
	return stmt.Scan(dest).Error
}
