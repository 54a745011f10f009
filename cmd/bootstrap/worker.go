package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/lock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewOptionSweeper,
	),
	fx.Invoke(startOptionSweeper),
)

func NewOptionSweeper(sweeper commands.SweeperCommands, locker lock.Locker, cfg config.Config, logger *slog.Logger) *worker.OptionSweeper {
	return worker.NewOptionSweeper(sweeper, locker, cfg.Sweeper, logger)
}

// The side-effect drain runs after the sweeper stops, since fx stops hooks
// in reverse order.
func startOptionSweeper(lc fx.Lifecycle, w *worker.OptionSweeper, effects *commands.SideEffects, cfg config.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			effects.Wait()
			return nil
		},
	})

	if !cfg.Sweeper.Enabled {
		logger.Info("option sweeper disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return w.Stop(ctx)
		},
	})
}
