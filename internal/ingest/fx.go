package ingest

import (
	"github.com/chapinas/facturacloud/internal/ingest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ingest.service",
	fx.Provide(service.New),
)
