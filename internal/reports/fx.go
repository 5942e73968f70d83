package reports

import (
	"github.com/chapinas/facturacloud/internal/reports/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reports.service",
	fx.Provide(service.New),
)
