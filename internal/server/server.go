package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jayambe/books/internal/analytics"
	"github.com/jayambe/books/internal/config"
	"github.com/jayambe/books/internal/dashboard"
	"github.com/jayambe/books/internal/invoice"
	invoicedomain "github.com/jayambe/books/internal/invoice/domain"
	"github.com/jayambe/books/internal/payable"
	payabledomain "github.com/jayambe/books/internal/payable/domain"
	"github.com/jayambe/books/internal/payment"
	paymentdomain "github.com/jayambe/books/internal/payment/domain"
	"github.com/jayambe/books/internal/providers/pdf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	invoice.Module,
	payment.Module,
	payable.Module,
	dashboard.Module,
	analytics.Module,
	pdf.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

// NewEngine builds the gin engine with recovery, request logging, metrics,
// and error mapping middleware.
func NewEngine(cfg config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	startedAt := time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(startedAt).Seconds(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParam struct {
	fx.In

	Engine       *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	InvoiceSvc   invoicedomain.Service
	PaymentSvc   paymentdomain.Service
	PayableSvc   payabledomain.Service
	DashboardSvc *dashboard.Service
	AnalyticsSvc *analytics.Service
	PDF          pdf.Provider
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	invoiceSvc   invoicedomain.Service
	paymentSvc   paymentdomain.Service
	payableSvc   payabledomain.Service
	dashboardSvc *dashboard.Service
	analyticsSvc *analytics.Service
	pdf          pdf.Provider
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine: p.Engine,
		cfg:    p.Cfg,
		log:    p.Log.Named("http.server"),

		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		payableSvc:   p.PayableSvc,
		dashboardSvc: p.DashboardSvc,
		analyticsSvc: p.AnalyticsSvc,
		pdf:          p.PDF,
	}
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")

	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrderByID)

	api.POST("/payments", s.RecordPayment)
	api.GET("/payments", s.ListPayments)
	api.POST("/payments/:invoiceId/reconcile", s.ReconcileInvoice)

	api.POST("/payables", s.CreatePayable)
	api.GET("/payables", s.ListPayables)

	api.GET("/dashboard/metrics", s.GetDashboardMetrics)
	api.GET("/analytics/customers.csv", s.GetCustomerAnalyticsCSV)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
