package bootstrap

import (
	"log/slog"

	"booking-core/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logEffectiveConfig),
)

// logEffectiveConfig records which optional backends this instance runs with.
func logEffectiveConfig(cfg config.Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		"sweeper_enabled", cfg.Sweeper.Enabled,
		"sweeper_interval", cfg.Sweeper.Interval.String(),
		"distributed_lock", cfg.Redis.Addr != "",
		"amqp_notifications", cfg.AMQP.URL != "",
		"metrics_enabled", cfg.Metrics.Enabled,
		"default_tax_rate", cfg.Booking.DefaultTaxRate,
	)
}
