package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type LifecycleCommands interface {
	// ConfirmOption converts a live hold. A hold found past its deadline is
	// expired and released instead, and ErrOptionExpired is returned.
	ConfirmOption(ctx context.Context, id uuid.UUID, guest *GuestInput, actor shared.Actor) (*queries.ReservationView, error)
	Confirm(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string, actor shared.Actor) (*queries.ReservationView, error)
	CheckIn(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)
	CheckOut(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)
	MarkNoShow(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error)
}

type lifecycleUseCaseImpl struct {
	uow     shared.UnitOfWork
	effects *SideEffects
	metrics shared.Metrics
	clock   clock.Clock
	logger  *slog.Logger
}

func NewLifecycleUseCase(uow shared.UnitOfWork, effects *SideEffects, metrics shared.Metrics, clk clock.Clock, logger *slog.Logger) LifecycleCommands {
	return &lifecycleUseCaseImpl{uow: uow, effects: effects, metrics: metrics, clock: clk, logger: logger}
}

func (uc *lifecycleUseCaseImpl) ConfirmOption(ctx context.Context, id uuid.UUID, guest *GuestInput, actor shared.Actor) (*queries.ReservationView, error) {
	var confirmedGuest *reservation.Guest
	if guest != nil {
		g, err := reservation.NewGuest(guest.Name, guest.Email, guest.Phone, guest.Country, guest.SpecialRequests)
		if err != nil {
			return nil, err
		}
		confirmedGuest = &g
	}

	var (
		res     *reservation.Reservation
		expired bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = false
		loaded, derr := uc.load(ctx, tx, id, actor)
		if derr != nil {
			return derr
		}
		res = loaded
		now := uc.clock.Now()

		if res.IsOptionExpired(now) {
			// The hold lapsed before the sweeper saw it; settle it here so the
			// rooms go back on sale with this commit.
			if derr = res.Expire(now); derr != nil {
				return derr
			}
			if derr = tx.Inventory().Release(ctx, tx.DB(), res.InventoryKey(), res.Stay(), res.Rooms()); derr != nil {
				return derr
			}
			expired = true
			return uc.save(ctx, tx, res)
		}

		if derr = res.ConfirmOption(now, confirmedGuest); derr != nil {
			return derr
		}
		return uc.save(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}

	if expired {
		uc.metrics.OptionsExpired(1)
		uc.effects.Dispatch(ctx, shared.EventOptionExpired, res, actor)
		return nil, errs.Wrap(reservation.ErrOptionExpired, res.BookingReference())
	}

	uc.metrics.ReservationTransition(res.Status().String())
	uc.effects.Dispatch(ctx, shared.EventOptionConfirmed, res, actor)
	return queries.NewReservationView(res), nil
}

func (uc *lifecycleUseCaseImpl) Confirm(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	return uc.transition(ctx, id, actor, shared.EventReservationConfirmed, func(_ context.Context, _ shared.Tx, res *reservation.Reservation) error {
		return res.Confirm(uc.clock.Now())
	})
}

// Cancel releases held nights and reverses any agency commission booked for
// the reservation, all in the same unit of work.
func (uc *lifecycleUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID, reason string, actor shared.Actor) (*queries.ReservationView, error) {
	return uc.transition(ctx, id, actor, shared.EventReservationCancelled, func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		heldInventory := res.Status().HoldsInventory()
		now := uc.clock.Now()

		if err := res.Cancel(reason, now); err != nil {
			return err
		}
		if heldInventory {
			if err := tx.Inventory().Release(ctx, tx.DB(), res.InventoryKey(), res.Stay(), res.Rooms()); err != nil {
				return err
			}
		}
		if res.AgencyID() == nil {
			return nil
		}
		return uc.reverseCommission(ctx, tx, res, now)
	})
}

func (uc *lifecycleUseCaseImpl) CheckIn(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	return uc.transition(ctx, id, actor, shared.EventCheckedIn, func(_ context.Context, _ shared.Tx, res *reservation.Reservation) error {
		return res.CheckIn(uc.clock.Now())
	})
}

// CheckOut ends the stay. The nights stay sold.
func (uc *lifecycleUseCaseImpl) CheckOut(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	return uc.transition(ctx, id, actor, shared.EventCheckedOut, func(_ context.Context, _ shared.Tx, res *reservation.Reservation) error {
		return res.CheckOut(uc.clock.Now())
	})
}

// MarkNoShow puts the unused nights back on sale.
func (uc *lifecycleUseCaseImpl) MarkNoShow(ctx context.Context, id uuid.UUID, actor shared.Actor) (*queries.ReservationView, error) {
	return uc.transition(ctx, id, actor, shared.EventNoShow, func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
		if err := res.MarkNoShow(uc.clock.Now()); err != nil {
			return err
		}
		return tx.Inventory().Release(ctx, tx.DB(), res.InventoryKey(), res.Stay(), res.Rooms())
	})
}

type transitionFunc func(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error

func (uc *lifecycleUseCaseImpl) transition(ctx context.Context, id uuid.UUID, actor shared.Actor, eventType string, apply transitionFunc) (*queries.ReservationView, error) {
	var res *reservation.Reservation
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		loaded, derr := uc.load(ctx, tx, id, actor)
		if derr != nil {
			return derr
		}
		if derr = apply(ctx, tx, loaded); derr != nil {
			return derr
		}
		if derr = uc.save(ctx, tx, loaded); derr != nil {
			return derr
		}
		res = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ReservationTransition(res.Status().String())
	uc.effects.Dispatch(ctx, eventType, res, actor)
	uc.logger.Info("reservation transitioned",
		"reservation_id", res.ID(),
		"status", res.Status().String(),
		"version", res.Version())
	return queries.NewReservationView(res), nil
}

// load locks the reservation row; other tenants' reservations look missing.
func (uc *lifecycleUseCaseImpl) load(ctx context.Context, tx shared.Tx, id uuid.UUID, actor shared.Actor) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindForUpdate(ctx, tx.DB(), id)
	if err != nil {
		return nil, notFoundAs(err, ErrReservationNotFound)
	}
	if res.TenantID() != actor.TenantID {
		return nil, ErrReservationNotFound
	}
	return res, nil
}

func (uc *lifecycleUseCaseImpl) save(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
	if err := tx.Reservations().Update(ctx, tx.DB(), res); err != nil {
		if errs.Is(err, shared.ErrStaleVersion) {
			return ErrConcurrentUpdate
		}
		return err
	}
	return nil
}

func (uc *lifecycleUseCaseImpl) reverseCommission(ctx context.Context, tx shared.Tx, res *reservation.Reservation, now time.Time) error {
	booked, err := tx.Commissions().FindBooked(ctx, tx.DB(), res.ID())
	if err != nil {
		if errs.IsNotFound(err) {
			uc.logger.Warn("agency reservation has no booked commission entry",
				"reservation_id", res.ID())
			return nil
		}
		return err
	}
	reversal, err := booked.Reverse(now)
	if err != nil {
		return err
	}
	return tx.Commissions().Append(ctx, tx.DB(), reversal)
}
