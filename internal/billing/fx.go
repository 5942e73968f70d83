package billing

import (
	"github.com/chapinas/facturacloud/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.engine",
	fx.Provide(service.New),
)
