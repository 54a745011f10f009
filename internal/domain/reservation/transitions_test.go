//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/errs"
	"booking-core/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reservationIn walks a fresh reservation into status through legal transitions.
func reservationIn(t *testing.T, status reservation.Status, now time.Time) *reservation.Reservation {
	t.Helper()
	b := builder.NewReservationBuilder().WithNow(now)
	switch status {
	case reservation.StatusOption, reservation.StatusOptionExpired:
		b.AsOption(24)
	case reservation.StatusPending:
		b.AsPending()
	}
	r := b.MustBuildDomain()

	switch status {
	case reservation.StatusCheckedIn:
		require.NoError(t, r.CheckIn(now))
	case reservation.StatusCheckedOut:
		require.NoError(t, r.CheckIn(now))
		require.NoError(t, r.CheckOut(now))
	case reservation.StatusCancelled:
		require.NoError(t, r.Cancel("test", now))
	case reservation.StatusNoShow:
		require.NoError(t, r.MarkNoShow(now))
	case reservation.StatusOptionExpired:
		require.NoError(t, r.Expire(now.Add(25*time.Hour)))
	}
	require.Equal(t, status, r.Status())
	return r
}

func TestTransitions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	all := []reservation.Status{
		reservation.StatusOption, reservation.StatusPending, reservation.StatusConfirmed,
		reservation.StatusCheckedIn, reservation.StatusCheckedOut, reservation.StatusCancelled,
		reservation.StatusNoShow, reservation.StatusOptionExpired,
	}

	actions := []struct {
		name    string
		allowed map[reservation.Status]reservation.Status
		apply   func(r *reservation.Reservation) error
	}{
		{
			name: "check in",
			allowed: map[reservation.Status]reservation.Status{
				reservation.StatusPending:   reservation.StatusCheckedIn,
				reservation.StatusConfirmed: reservation.StatusCheckedIn,
			},
			apply: func(r *reservation.Reservation) error { return r.CheckIn(now) },
		},
		{
			name: "check out",
			allowed: map[reservation.Status]reservation.Status{
				reservation.StatusCheckedIn: reservation.StatusCheckedOut,
			},
			apply: func(r *reservation.Reservation) error { return r.CheckOut(now) },
		},
		{
			name: "cancel",
			allowed: map[reservation.Status]reservation.Status{
				reservation.StatusOption:    reservation.StatusCancelled,
				reservation.StatusPending:   reservation.StatusCancelled,
				reservation.StatusConfirmed: reservation.StatusCancelled,
				reservation.StatusCheckedIn: reservation.StatusCancelled,
			},
			apply: func(r *reservation.Reservation) error { return r.Cancel("guest request", now) },
		},
		{
			name: "no show",
			allowed: map[reservation.Status]reservation.Status{
				reservation.StatusPending:   reservation.StatusNoShow,
				reservation.StatusConfirmed: reservation.StatusNoShow,
			},
			apply: func(r *reservation.Reservation) error { return r.MarkNoShow(now) },
		},
		{
			name: "confirm pending",
			allowed: map[reservation.Status]reservation.Status{
				reservation.StatusPending: reservation.StatusConfirmed,
			},
			apply: func(r *reservation.Reservation) error { return r.Confirm(now) },
		},
		{
			name: "confirm option",
			allowed: map[reservation.Status]reservation.Status{
				reservation.StatusOption: reservation.StatusConfirmed,
			},
			apply: func(r *reservation.Reservation) error { return r.ConfirmOption(now, nil) },
		},
	}

	for _, action := range actions {
		for _, from := range all {
			t.Run(action.name+" from "+from.String(), func(t *testing.T) {
				r := reservationIn(t, from, now)
				err := action.apply(r)

				to, ok := action.allowed[from]
				if ok {
					require.NoError(t, err)
					assert.Equal(t, to, r.Status())
					return
				}
				require.Error(t, err)
				assert.True(t, errs.IsConflict(err), "expected conflict, got %v", err)
				assert.Equal(t, from, r.Status())
			})
		}
	}
}

func TestOptionLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("confirm before expiry clears hold", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusOption, now)
		guest, err := reservation.NewGuest("Grace Hopper", "grace@example.com", "+100", "us", "")
		require.NoError(t, err)

		require.NoError(t, r.ConfirmOption(now.Add(23*time.Hour), &guest))

		assert.Equal(t, reservation.StatusConfirmed, r.Status())
		assert.Nil(t, r.OptionExpiresAt())
		assert.Equal(t, "Grace Hopper", r.Guest().Name)
		assert.Equal(t, "US", r.Guest().Country)
		require.NotNil(t, r.Timestamps().ConfirmedAt)
	})

	t.Run("confirm at expiry is rejected without state change", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusOption, now)

		err := r.ConfirmOption(now.Add(24*time.Hour), nil)

		require.ErrorIs(t, err, reservation.ErrOptionExpired)
		assert.True(t, errs.IsExpiredState(err))
		assert.Equal(t, reservation.StatusOption, r.Status())
		assert.NotNil(t, r.OptionExpiresAt())
	})

	t.Run("expire before deadline is rejected", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusOption, now)

		err := r.Expire(now.Add(time.Hour))

		require.ErrorIs(t, err, reservation.ErrOptionNotYetExpired)
		assert.Equal(t, reservation.StatusOption, r.Status())
	})

	t.Run("expire after deadline", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusOption, now)
		at := now.Add(30 * time.Hour)

		require.NoError(t, r.Expire(at))

		assert.Equal(t, reservation.StatusOptionExpired, r.Status())
		assert.Nil(t, r.OptionExpiresAt())
		require.NotNil(t, r.Timestamps().ExpiredAt)
		assert.Equal(t, at, *r.Timestamps().ExpiredAt)
		assert.True(t, r.Status().IsTerminal())
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("records reason and timestamp", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusConfirmed, now)

		require.NoError(t, r.Cancel("  change of plans ", now))

		require.NotNil(t, r.CancellationReason())
		assert.Equal(t, "change of plans", *r.CancellationReason())
		require.NotNil(t, r.Timestamps().CancelledAt)
	})

	t.Run("twice is already cancelled", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusCancelled, now)
		require.ErrorIs(t, r.Cancel("again", now), reservation.ErrAlreadyCancelled)
	})

	t.Run("reason too long", func(t *testing.T) {
		r := reservationIn(t, reservation.StatusConfirmed, now)
		long := make([]byte, 501)
		for i := range long {
			long[i] = 'x'
		}
		err := r.Cancel(string(long), now)
		require.ErrorIs(t, err, reservation.ErrReasonTooLong)
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
	})
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, reservation.StatusOption.HoldsInventory())
	assert.True(t, reservation.StatusCheckedIn.HoldsInventory())
	assert.False(t, reservation.StatusCheckedOut.HoldsInventory())
	assert.False(t, reservation.StatusOptionExpired.HoldsInventory())
	assert.False(t, reservation.Status("bogus").IsValid())
}
