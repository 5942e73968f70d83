// Package server exposes the HTTP surface: XML feed intake, catalog and
// registry CRUD, billing runs, the invoice archive and PDF reports.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	billingdomain "github.com/chapinas/facturacloud/internal/billing/domain"
	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/config"
	ingestdomain "github.com/chapinas/facturacloud/internal/ingest/domain"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	"github.com/chapinas/facturacloud/internal/observability/metrics"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	reportsdomain "github.com/chapinas/facturacloud/internal/reports/domain"
	"github.com/chapinas/facturacloud/internal/store"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(m.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(m *metrics.Metrics) *gin.Engine {
	return NewEngine(m)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	store       *store.Store
	catalogSvc  catalogdomain.Service
	registrySvc registrydomain.Service
	ledgerSvc   ledgerdomain.Service
	billingSvc  billingdomain.Service
	invoiceSvc  invoicedomain.Service
	ingestSvc   ingestdomain.Service
	reportsSvc  reportsdomain.Service
	obsMetrics  *metrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Store       *store.Store
	CatalogSvc  catalogdomain.Service
	RegistrySvc registrydomain.Service
	LedgerSvc   ledgerdomain.Service
	BillingSvc  billingdomain.Service
	InvoiceSvc  invoicedomain.Service
	IngestSvc   ingestdomain.Service
	ReportsSvc  reportsdomain.Service
	ObsMetrics  *metrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		store:       p.Store,
		catalogSvc:  p.CatalogSvc,
		registrySvc: p.RegistrySvc,
		ledgerSvc:   p.LedgerSvc,
		billingSvc:  p.BillingSvc,
		invoiceSvc:  p.InvoiceSvc,
		ingestSvc:   p.IngestSvc,
		reportsSvc:  p.ReportsSvc,
		obsMetrics:  p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	messages := api.Group("/messages")
	messages.POST("/configuration", s.IngestConfiguration)
	messages.POST("/consumption", s.IngestConsumption)

	api.POST("/resources", s.CreateResource)
	api.GET("/resources", s.ListResources)
	api.GET("/resources/:id", s.GetResource)
	api.DELETE("/resources/:id", s.DeleteResource)

	api.POST("/categories", s.CreateCategory)
	api.GET("/categories", s.ListCategories)
	api.GET("/categories/:id", s.GetCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)

	api.POST("/configurations", s.CreateConfiguration)
	api.GET("/configurations", s.ListConfigurations)
	api.GET("/configurations/:id", s.GetConfiguration)

	api.POST("/clients", s.CreateClient)
	api.GET("/clients", s.ListClients)
	api.GET("/clients/:nit", s.GetClient)
	api.DELETE("/clients/:nit", s.DeleteClient)
	api.GET("/clients/:nit/invoices", s.ListClientInvoices)

	api.POST("/instances", s.CreateInstance)
	api.GET("/instances", s.ListInstances)
	api.POST("/instances/cancel", s.CancelInstance)

	api.GET("/consumption", s.ListConsumption)

	api.POST("/billing/run", s.RunBilling)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:number", s.GetInvoice)

	api.GET("/analysis/categories", s.CategoryRevenue)
	api.GET("/analysis/resources", s.ResourceRevenue)

	reports := api.Group("/reports")
	reports.GET("/invoice/:number", s.InvoiceReport)
	reports.GET("/sales", s.SalesReport)

	api.GET("/data", s.DumpData)
	api.POST("/reset", s.Reset)
}
