package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"booking-core/internal/infra/lock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
)

// OptionSweeper runs ExpireOptions on a fixed interval. Only the instance
// holding the lock sweeps in a given round; the lease outlives one interval
// so a slow sweep is not joined by a second instance.
type OptionSweeper struct {
	sweeper  commands.SweeperCommands
	locker   lock.Locker
	interval time.Duration
	lockKey  string
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewOptionSweeper(sweeper commands.SweeperCommands, locker lock.Locker, cfg config.SweeperConfig, logger *slog.Logger) *OptionSweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &OptionSweeper{
		sweeper:  sweeper,
		locker:   locker,
		interval: interval,
		lockKey:  cfg.LockKey,
		logger:   logger,
	}
}

func (w *OptionSweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.loop(ctx)
	w.logger.Info("option sweeper started", "interval", w.interval.String())
}

// Stop cancels the loop and waits for an in-flight round or ctx, whichever
// ends first.
func (w *OptionSweeper) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.once.Do(w.cancel)
	select {
	case <-w.done:
		w.logger.Info("option sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *OptionSweeper) loop(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps when the lock is free and reports whether it did.
func (w *OptionSweeper) RunOnce(ctx context.Context) bool {
	release, ok, err := w.locker.TryAcquire(ctx, w.lockKey, 2*w.interval)
	if err != nil {
		w.logger.Warn("sweeper lock unavailable", "error", err)
		return false
	}
	if !ok {
		w.logger.Debug("another instance holds the sweeper lock")
		return false
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			w.logger.Warn("failed to release sweeper lock", "error", err)
		}
	}()

	result, err := w.sweeper.ExpireOptions(ctx)
	if err != nil {
		w.logger.Error("option sweep failed", "error", err)
		return true
	}
	if result.Expired > 0 || result.Failed > 0 {
		w.logger.Info("option sweep finished",
			"checked", result.Checked,
			"expired", result.Expired,
			"failed", result.Failed)
	}
	return true
}
