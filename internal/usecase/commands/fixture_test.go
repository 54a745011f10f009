//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"
	"booking-core/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	baseNow  = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	checkIn  = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []shared.ReservationEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event shared.ReservationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) Types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAudit) Record(_ context.Context, action string, _ uuid.UUID, _ shared.Actor) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

type fixture struct {
	store     *memuow.Store
	clock     *clock.MockClock
	effects   *commands.SideEffects
	notifier  *recordingNotifier
	audit     *recordingAudit
	booking   commands.BookingCommands
	lifecycle commands.LifecycleCommands
	sweeper   commands.SweeperCommands
	queries   queries.ReservationQueries

	actor      shared.Actor
	propertyID uuid.UUID
	roomTypeID uuid.UUID
	ratePlanID uuid.UUID
	agencyID   uuid.UUID
	key        inventory.Key
}

func newFixture(t *testing.T, totalRooms int) *fixture {
	t.Helper()
	logger := discardLogger()

	f := &fixture{
		store:      memuow.New(),
		clock:      clock.NewMockClock(baseNow),
		notifier:   &recordingNotifier{},
		audit:      &recordingAudit{},
		actor:      shared.Actor{UserID: uuid.New(), TenantID: uuid.New()},
		propertyID: uuid.New(),
		roomTypeID: uuid.New(),
		ratePlanID: uuid.New(),
		agencyID:   uuid.New(),
	}
	f.key = inventory.Key{PropertyID: f.propertyID, RoomTypeID: f.roomTypeID}

	f.store.AddProperty(shared.PropertySnapshot{
		ID:       f.propertyID,
		TenantID: f.actor.TenantID,
		Name:     "Harbour View",
		Active:   true,
		Currency: "EUR",
	})
	f.store.AddRoomType(shared.RoomTypeSnapshot{
		ID:         f.roomTypeID,
		PropertyID: f.propertyID,
		Name:       "Double",
		TotalRooms: totalRooms,
	})
	f.store.AddAgency(shared.AgencySnapshot{
		ID:          f.agencyID,
		TenantID:    f.actor.TenantID,
		Name:        "Sunny Tours",
		Active:      true,
		DefaultRate: decimal.NewFromInt(10),
	})
	f.store.AddRates(f.ratePlanID, f.roomTypeID, checkIn, checkIn.AddDate(0, 1, 0), "50.00", "EUR")

	f.effects = commands.NewSideEffects(f.notifier, f.audit, logger)
	f.queries = queries.NewReservationQueries(memuow.ReadStore{Store: f.store})
	factory := reservation.NewFactory(f.clock, nil)
	metrics := shared.NopMetrics{}

	f.booking = commands.NewBookingUseCase(f.store, factory, f.queries, f.effects, metrics,
		config.BookingConfig{DefaultTaxRate: "7", DefaultOptionHours: 24}, f.clock, logger)
	f.lifecycle = commands.NewLifecycleUseCase(f.store, f.effects, metrics, f.clock, logger)
	f.sweeper = commands.NewSweeperUseCase(f.store, f.effects, metrics,
		config.SweeperConfig{BatchSize: 100, Concurrency: 4}, f.clock, logger)

	t.Cleanup(f.effects.Wait)
	return f
}

func (f *fixture) input(rooms int) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		PropertyID: f.propertyID,
		RoomTypeID: f.roomTypeID,
		RatePlanID: f.ratePlanID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Adults:     2,
		Rooms:      rooms,
		Guest:      &commands.GuestInput{Name: "Ada Lovelace", Email: "ada@example.com"},
	}
}

func (f *fixture) book(t *testing.T, in commands.CreateReservationInput) *queries.ReservationView {
	t.Helper()
	result, err := f.booking.CreateReservation(context.Background(), in, f.actor)
	require.NoError(t, err)
	return result.Reservation
}

func (f *fixture) option(t *testing.T, rooms int, hours *int) *queries.ReservationView {
	t.Helper()
	in := f.input(rooms)
	in.Guest = nil
	in.OptionHours = hours
	result, err := f.booking.CreateOption(context.Background(), in, f.actor)
	require.NoError(t, err)
	return result.Reservation
}

// nights returns the committed record for both nights of the default stay.
func (f *fixture) nights(t *testing.T) []inventory.Record {
	t.Helper()
	out := make([]inventory.Record, 0, 2)
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		rec, ok := f.store.Night(f.key, d)
		require.True(t, ok, "no inventory for %s", inventory.FormatDate(d))
		require.NoError(t, rec.Validate())
		out = append(out, rec)
	}
	return out
}

func (f *fixture) requireAvailable(t *testing.T, available, sold int) {
	t.Helper()
	for _, rec := range f.nights(t) {
		require.Equal(t, available, rec.Available, "available on %s", inventory.FormatDate(rec.Date))
		require.Equal(t, sold, rec.Sold, "sold on %s", inventory.FormatDate(rec.Date))
	}
}

func intPtr(v int) *int { return &v }

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
