//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/money"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/builder"
	"booking-core/tests/common/memuow"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seed struct {
	store      *memuow.Store
	tenantID   uuid.UUID
	propertyID uuid.UUID
	roomTypeID uuid.UUID
	agencyID   uuid.UUID
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	s := &seed{
		store:      memuow.New(),
		tenantID:   uuid.New(),
		propertyID: uuid.New(),
		roomTypeID: uuid.New(),
		agencyID:   uuid.New(),
	}
	s.store.AddProperty(shared.PropertySnapshot{ID: s.propertyID, TenantID: s.tenantID, Active: true, Currency: "EUR"})
	s.store.AddRoomType(shared.RoomTypeSnapshot{ID: s.roomTypeID, PropertyID: s.propertyID, TotalRooms: 8})
	s.store.AddAgency(shared.AgencySnapshot{ID: s.agencyID, TenantID: s.tenantID, Active: true, DefaultRate: decimal.NewFromInt(10)})
	return s
}

func (s *seed) insert(t *testing.T, b *builder.ReservationBuilder, entries ...commission.Entry) *reservation.Reservation {
	t.Helper()
	res := b.WithTenantID(s.tenantID).WithProperty(s.propertyID, s.roomTypeID).
		With(func(b *builder.ReservationBuilder) { b.Reference = "BK-260101-" + uuid.NewString()[:6] }).
		MustBuildDomain()
	err := s.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().Create(ctx, tx.DB(), res); err != nil {
			return err
		}
		for _, e := range entries {
			if err := tx.Commissions().Append(ctx, tx.DB(), e); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	return res
}

func TestReservationQueries(t *testing.T) {
	s := newSeed(t)
	res := s.insert(t, builder.NewReservationBuilder())
	q := queries.NewReservationQueries(memuow.ReadStore{Store: s.store})
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		view, err := q.GetByID(ctx, s.tenantID, res.ID())
		require.NoError(t, err)
		assert.Equal(t, res.BookingReference(), view.BookingReference)
		assert.Equal(t, "2026-01-10", view.CheckIn)
		assert.Equal(t, "2026-01-12", view.CheckOut)
		assert.Equal(t, 2, view.Nights)
		assert.Equal(t, "100.00", view.TotalPrice)
	})

	t.Run("by reference", func(t *testing.T) {
		view, err := q.GetByReference(ctx, s.tenantID, res.BookingReference())
		require.NoError(t, err)
		byID, err := q.GetByID(ctx, s.tenantID, res.ID())
		require.NoError(t, err)

		if diff := cmp.Diff(byID, view, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("view mismatch (-by id +by reference):\n%s", diff)
		}
	})

	t.Run("other tenant", func(t *testing.T) {
		_, err := q.GetByID(ctx, uuid.New(), res.ID())
		require.ErrorIs(t, err, queries.ErrReservationNotFound)

		_, err = q.GetByReference(ctx, uuid.New(), res.BookingReference())
		require.ErrorIs(t, err, queries.ErrReservationNotFound)
	})

	t.Run("system lookup ignores tenant", func(t *testing.T) {
		view, err := q.GetByIDSystem(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, s.tenantID, view.TenantID)
	})
}

func TestStatsQueries(t *testing.T) {
	s := newSeed(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.insert(t, builder.NewReservationBuilder().WithRooms(2).WithPrice("200.00", "214.00"))
	s.insert(t, builder.NewReservationBuilder().AsOption(24))
	s.insert(t, builder.NewReservationBuilder().AsPending())

	agencyRes := builder.NewReservationBuilder().AsAgencyBooking(s.agencyID, "10").WithPrice("300.00", "321.00")
	booked := commission.NewBookedEntry(s.tenantID, s.agencyID, uuid.New(),
		money.MustFromString("300.00", "EUR"), money.MustFromString("30.00", "EUR"), now)
	reversed, err := booked.Reverse(now)
	require.NoError(t, err)
	second := commission.NewBookedEntry(s.tenantID, s.agencyID, uuid.New(),
		money.MustFromString("150.00", "EUR"), money.MustFromString("15.00", "EUR"), now)
	s.insert(t, agencyRes, booked, reversed, second)

	q := queries.NewStatsQueries(memuow.ReadStore{Store: s.store})
	ctx := context.Background()

	t.Run("property stats", func(t *testing.T) {
		stats, err := q.GetStats(ctx, s.tenantID, s.propertyID)
		require.NoError(t, err)

		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.ByStatus[reservation.StatusConfirmed.String()])
		assert.Equal(t, 1, stats.ByStatus[reservation.StatusPending.String()])
		assert.Equal(t, 1, stats.ActiveOptions)
		assert.Equal(t, (2+1+1)*2, stats.RoomNightsSold)
		assert.Equal(t, "600.00", stats.Revenue)
		assert.Equal(t, "EUR", stats.Currency)
	})

	t.Run("agency stats net reversals", func(t *testing.T) {
		stats, err := q.GetAgencyStats(ctx, s.tenantID, s.agencyID)
		require.NoError(t, err)

		assert.Equal(t, 1, stats.Bookings)
		assert.Equal(t, "150.00", stats.Revenue)
		assert.Equal(t, "15.00", stats.Commission)
	})

	t.Run("unknown property", func(t *testing.T) {
		_, err := q.GetStats(ctx, s.tenantID, uuid.New())
		require.ErrorIs(t, err, queries.ErrPropertyNotFound)
	})

	t.Run("agency of another tenant", func(t *testing.T) {
		_, err := q.GetAgencyStats(ctx, uuid.New(), s.agencyID)
		require.ErrorIs(t, err, queries.ErrAgencyNotFound)
	})
}

func TestInventoryQueries(t *testing.T) {
	s := newSeed(t)
	key := inventory.Key{PropertyID: s.propertyID, RoomTypeID: s.roomTypeID}
	night := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	s.store.SetInventory(key, inventory.Record{Date: night, Total: 8, Available: 5, Sold: 3})

	q := queries.NewInventoryQueries(memuow.ReadStore{Store: s.store})
	stay, err := inventory.NewStayRange(night, night.AddDate(0, 0, 2))
	require.NoError(t, err)

	days, err := q.GetAvailability(context.Background(), s.tenantID, key, stay)
	require.NoError(t, err)

	assert.Equal(t, []queries.InventoryDayView{
		{Date: "2026-01-10", Total: 8, Available: 5, Sold: 3},
		{Date: "2026-01-11", Total: 8, Available: 8},
	}, days)

	_, err = q.GetAvailability(context.Background(), uuid.New(), key, stay)
	require.ErrorIs(t, err, queries.ErrRoomTypeNotFound)
}
