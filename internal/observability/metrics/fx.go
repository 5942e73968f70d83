package metrics

import (
	billingservice "github.com/chapinas/facturacloud/internal/billing/service"
	"github.com/chapinas/facturacloud/internal/store"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(
		New,
		func(m *Metrics) store.FlushObserver { return m },
		func(m *Metrics) billingservice.RunObserver { return m },
	),
)
