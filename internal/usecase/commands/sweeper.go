package commands

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SweepResult struct {
	Checked int `json:"checked"`
	Expired int `json:"expired"`
	Failed  int `json:"failed"`
}

type SweeperCommands interface {
	// ExpireOptions expires one batch of lapsed holds and releases their rooms.
	// Safe to run concurrently with itself and with ConfirmOption.
	ExpireOptions(ctx context.Context) (SweepResult, error)
}

type sweeperUseCaseImpl struct {
	uow         shared.UnitOfWork
	effects     *SideEffects
	metrics     shared.Metrics
	batchSize   int
	concurrency int
	clock       clock.Clock
	logger      *slog.Logger
}

func NewSweeperUseCase(uow shared.UnitOfWork, effects *SideEffects, metrics shared.Metrics, cfg config.SweeperConfig, clk clock.Clock, logger *slog.Logger) SweeperCommands {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &sweeperUseCaseImpl{
		uow:         uow,
		effects:     effects,
		metrics:     metrics,
		batchSize:   batch,
		concurrency: concurrency,
		clock:       clk,
		logger:      logger,
	}
}

var systemActor = shared.Actor{}

func (uc *sweeperUseCaseImpl) ExpireOptions(ctx context.Context) (SweepResult, error) {
	started := time.Now()
	now := uc.clock.Now()

	var ids []uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, derr := tx.Reservations().ListExpiredOptionIDs(ctx, tx.DB(), now, uc.batchSize)
		if derr != nil {
			return derr
		}
		ids = found
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	var expired, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			ok, err := uc.expireOne(gctx, id, now)
			switch {
			case err != nil:
				failed.Add(1)
				uc.logger.Error("option expiry failed",
					"reservation_id", id,
					"error", err.Error())
			case ok:
				expired.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := SweepResult{
		Checked: len(ids),
		Expired: int(expired.Load()),
		Failed:  int(failed.Load()),
	}
	uc.metrics.OptionsExpired(result.Expired)
	uc.metrics.SweepCompleted(time.Since(started), result.Failed)
	if result.Checked > 0 {
		uc.logger.Info("option sweep finished",
			"checked", result.Checked,
			"expired", result.Expired,
			"failed", result.Failed)
	}
	return result, nil
}

// expireOne re-reads the hold under lock. Holds confirmed, cancelled or
// already expired since the listing are skipped.
func (uc *sweeperUseCaseImpl) expireOne(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	var res *reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res = nil
		loaded, derr := tx.Reservations().FindForUpdate(ctx, tx.DB(), id)
		if derr != nil {
			return derr
		}
		if !loaded.IsOptionExpired(now) {
			return nil
		}
		if derr = loaded.Expire(now); derr != nil {
			return derr
		}
		if derr = tx.Inventory().Release(ctx, tx.DB(), loaded.InventoryKey(), loaded.Stay(), loaded.Rooms()); derr != nil {
			return derr
		}
		if derr = tx.Reservations().Update(ctx, tx.DB(), loaded); derr != nil {
			return derr
		}
		res = loaded
		return nil
	})
	if err != nil || res == nil {
		return false, err
	}
	uc.effects.Dispatch(ctx, shared.EventOptionExpired, res, systemActor)
	return true, nil
}
