package bootstrap

import (
	"booking-core/internal/infra/metrics"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.NewPrometheus,
		func(p *metrics.Prometheus) shared.Metrics { return p },
	),
)
