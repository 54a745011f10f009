package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/lock"
	"booking-core/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewLocker,
	),
)

// NewLocker falls back to a process-local lock when REDIS_ADDR is unset,
// which is only safe with a single instance.
func NewLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (lock.Locker, error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR not set, sweeper lock is process-local")
		return lock.LocalLocker{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return lock.NewRedisLocker(client), nil
}
