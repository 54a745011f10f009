//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("expires only lapsed holds and is idempotent", func(t *testing.T) {
		f := newFixture(t, 5)
		short := f.option(t, 1, intPtr(1))
		long := f.option(t, 2, intPtr(48))
		f.book(t, f.input(1))
		f.requireAvailable(t, 1, 4)

		f.clock.Add(2 * time.Hour)
		first, err := f.sweeper.ExpireOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{Checked: 1, Expired: 1}, first)

		stored, _ := f.store.Reservation(short.ID)
		assert.Equal(t, reservation.StatusOptionExpired, stored.Status())
		stillHeld, _ := f.store.Reservation(long.ID)
		assert.Equal(t, reservation.StatusOption, stillHeld.Status())
		f.requireAvailable(t, 2, 3)

		second, err := f.sweeper.ExpireOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{}, second)
		f.requireAvailable(t, 2, 3)
	})

	t.Run("hold exactly at its deadline counts as expired", func(t *testing.T) {
		f := newFixture(t, 5)
		f.option(t, 1, intPtr(1))
		f.clock.Add(time.Hour)

		result, err := f.sweeper.ExpireOptions(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Expired)
		f.requireAvailable(t, 5, 0)
	})

	t.Run("confirmed holds are left alone", func(t *testing.T) {
		f := newFixture(t, 5)
		opt := f.option(t, 1, intPtr(1))
		_, err := f.lifecycle.ConfirmOption(ctx, opt.ID, nil, f.actor)
		require.NoError(t, err)
		f.clock.Add(2 * time.Hour)

		result, err := f.sweeper.ExpireOptions(ctx)

		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{}, result)
		f.requireAvailable(t, 4, 1)
	})

	t.Run("batch size bounds one sweep", func(t *testing.T) {
		f := newFixture(t, 10)
		for i := 0; i < 5; i++ {
			f.option(t, 1, intPtr(1))
		}
		f.clock.Add(2 * time.Hour)
		sweeper := commands.NewSweeperUseCase(f.store, f.effects, shared.NopMetrics{},
			config.SweeperConfig{BatchSize: 2, Concurrency: 2}, f.clock, discardLogger())

		first, err := sweeper.ExpireOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, first.Expired)

		for {
			next, err := sweeper.ExpireOptions(ctx)
			require.NoError(t, err)
			if next.Checked == 0 {
				break
			}
		}
		f.requireAvailable(t, 10, 0)
	})

	t.Run("publishes an expired event per hold", func(t *testing.T) {
		f := newFixture(t, 5)
		f.option(t, 1, intPtr(1))
		f.option(t, 1, intPtr(1))
		f.clock.Add(2 * time.Hour)

		_, err := f.sweeper.ExpireOptions(ctx)
		require.NoError(t, err)
		f.effects.Wait()

		expired := 0
		for _, typ := range f.notifier.Types() {
			if typ == shared.EventOptionExpired {
				expired++
			}
		}
		assert.Equal(t, 2, expired)
	})
}
