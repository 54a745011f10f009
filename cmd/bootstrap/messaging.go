package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/audit"
	"booking-core/internal/infra/messaging"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewNotifier,
		fx.Annotate(
			audit.NewSlogSink,
			fx.As(new(shared.AuditSink)),
		),
	),
)

func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.Notifier, error) {
	notifier, cleanup, err := messaging.Connect(cfg.AMQP, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return notifier, nil
}
