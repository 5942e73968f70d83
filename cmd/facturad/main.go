package main

import (
	"go.uber.org/fx"

	"github.com/chapinas/facturacloud/internal/billing"
	"github.com/chapinas/facturacloud/internal/catalog"
	"github.com/chapinas/facturacloud/internal/config"
	"github.com/chapinas/facturacloud/internal/ingest"
	"github.com/chapinas/facturacloud/internal/invoice"
	"github.com/chapinas/facturacloud/internal/ledger"
	"github.com/chapinas/facturacloud/internal/logger"
	"github.com/chapinas/facturacloud/internal/observability/metrics"
	"github.com/chapinas/facturacloud/internal/registry"
	"github.com/chapinas/facturacloud/internal/reports"
	"github.com/chapinas/facturacloud/internal/server"
	"github.com/chapinas/facturacloud/internal/storage"
	"github.com/chapinas/facturacloud/internal/store"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		metrics.Module,
		storage.Module,
		store.Module,

		catalog.Module,
		registry.Module,
		ledger.Module,
		billing.Module,
		invoice.Module,
		ingest.Module,
		reports.Module,

		server.Module,
	)

	app.Run()
}
