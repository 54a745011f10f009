//go:build unit || integration

// Package memuow is an in-memory shared.UnitOfWork. Units of work run one at a
// time against a copy of the committed state, which is swapped in on success.
package memuow

import (
	"context"
	"sort"
	"sync"
	"time"

	"booking-core/internal/domain/commission"
	"booking-core/internal/domain/inventory"
	"booking-core/internal/domain/reservation"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type nightKey struct {
	key  inventory.Key
	date time.Time
}

type rateKey struct {
	ratePlanID uuid.UUID
	roomTypeID uuid.UUID
	date       time.Time
}

type state struct {
	inventory    map[nightKey]inventory.Record
	reservations map[uuid.UUID]reservation.Reservation
	entries      []commission.Entry
}

func (s *state) clone() *state {
	c := &state{
		inventory:    make(map[nightKey]inventory.Record, len(s.inventory)),
		reservations: make(map[uuid.UUID]reservation.Reservation, len(s.reservations)),
		entries:      append([]commission.Entry(nil), s.entries...),
	}
	for k, v := range s.inventory {
		c.inventory[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	return c
}

type Store struct {
	mu        sync.Mutex
	committed *state

	properties map[uuid.UUID]shared.PropertySnapshot
	roomTypes  map[uuid.UUID]shared.RoomTypeSnapshot
	agencies   map[uuid.UUID]shared.AgencySnapshot
	rates      map[rateKey]shared.NightlyRateSnapshot

	// FailAppend, when set, makes every commission append fail.
	FailAppend error
	// Commits counts successful units of work.
	Commits int
}

func New() *Store {
	return &Store{
		committed: &state{
			inventory:    map[nightKey]inventory.Record{},
			reservations: map[uuid.UUID]reservation.Reservation{},
		},
		properties: map[uuid.UUID]shared.PropertySnapshot{},
		roomTypes:  map[uuid.UUID]shared.RoomTypeSnapshot{},
		agencies:   map[uuid.UUID]shared.AgencySnapshot{},
		rates:      map[rateKey]shared.NightlyRateSnapshot{},
	}
}

func (s *Store) AddProperty(p shared.PropertySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[p.ID] = p
}

func (s *Store) AddRoomType(rt shared.RoomTypeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomTypes[rt.ID] = rt
}

func (s *Store) AddAgency(a shared.AgencySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agencies[a.ID] = a
}

// AddRates prices every night in [from, to) at price.
func (s *Store) AddRates(ratePlanID, roomTypeID uuid.UUID, from, to time.Time, price, currency string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := decimal.RequireFromString(price)
	for d := dateOnly(from); d.Before(dateOnly(to)); d = d.AddDate(0, 0, 1) {
		s.rates[rateKey{ratePlanID, roomTypeID, d}] = shared.NightlyRateSnapshot{Date: d, Price: p, Currency: currency}
	}
}

// SetInventory overwrites one night's counters.
func (s *Store) SetInventory(key inventory.Key, rec inventory.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.Date = dateOnly(rec.Date)
	s.committed.inventory[nightKey{key, rec.Date}] = rec
}

// Night returns the committed record, false when it was never created.
func (s *Store) Night(key inventory.Key, date time.Time) (inventory.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.committed.inventory[nightKey{key, dateOnly(date)}]
	return rec, ok
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.committed.reservations[id]
	if !ok {
		return nil, false
	}
	return &r, true
}

func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed.reservations)
}

func (s *Store) Entries() []commission.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]commission.Entry(nil), s.committed.entries...)
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.committed.clone()
	if err := fn(ctx, &memTx{store: s, st: work}); err != nil {
		return err
	}
	s.committed = work
	s.Commits++
	return nil
}

// CommandReads reads committed state; it must not be called from inside Within.
func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{store: s}
}

type memTx struct {
	store *Store
	st    *state
}

func (t *memTx) Inventory() shared.InventoryLedger           { return &ledger{tx: t} }
func (t *memTx) Reservations() shared.ReservationRepository { return &reservations{tx: t} }
func (t *memTx) Commissions() shared.CommissionLedger       { return &commissions{tx: t} }
func (t *memTx) Reads() shared.CommandReads                 { return &reads{store: t.store, st: t.st} }
func (t *memTx) DB() db.DBTX                                { return nil }

type ledger struct{ tx *memTx }

func (l *ledger) CheckAvailability(_ context.Context, _ db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) (inventory.Availability, error) {
	rt, ok := l.tx.store.roomTypes[key.RoomTypeID]
	if !ok || rt.PropertyID != key.PropertyID {
		return inventory.Availability{}, errs.Wrap(errs.ErrNotFound, "room type")
	}
	records := make([]inventory.Record, 0, stay.Nights())
	for _, d := range stay.Dates() {
		nk := nightKey{key, d}
		rec, ok := l.tx.st.inventory[nk]
		if !ok {
			rec = inventory.NewRecord(d, rt.TotalRooms)
			l.tx.st.inventory[nk] = rec
		}
		records = append(records, rec)
	}
	return inventory.Check(stay, records, rooms), nil
}

func (l *ledger) Debit(_ context.Context, _ db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) error {
	return l.apply(key, stay, func(r inventory.Record) (inventory.Record, error) { return r.Debit(rooms) })
}

func (l *ledger) Release(_ context.Context, _ db.DBTX, key inventory.Key, stay inventory.StayRange, rooms int) error {
	return l.apply(key, stay, func(r inventory.Record) (inventory.Record, error) { return r.Release(rooms) })
}

func (l *ledger) apply(key inventory.Key, stay inventory.StayRange, op func(inventory.Record) (inventory.Record, error)) error {
	for _, d := range stay.Dates() {
		nk := nightKey{key, d}
		rec, ok := l.tx.st.inventory[nk]
		if !ok {
			return errs.Wrap(inventory.ErrLedgerMismatch, inventory.FormatDate(d))
		}
		next, err := op(rec)
		if err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		l.tx.st.inventory[nk] = next
	}
	return nil
}

type reservations struct{ tx *memTx }

func (r *reservations) Create(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	for _, existing := range r.tx.st.reservations {
		if existing.BookingReference() == res.BookingReference() {
			return errs.Mark(errs.New("duplicate booking reference"), shared.ErrDuplicateBookingReference)
		}
		if res.IdempotencyKey() != nil && existing.IdempotencyKey() != nil &&
			existing.TenantID() == res.TenantID() && *existing.IdempotencyKey() == *res.IdempotencyKey() {
			return errs.Mark(errs.New("duplicate idempotency key"), shared.ErrDuplicateIdempotencyKey)
		}
	}
	r.tx.st.reservations[res.ID()] = *res
	return nil
}

func (r *reservations) FindForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.tx.st.reservations[id]
	if !ok {
		return nil, errs.Wrap(errs.ErrNotFound, "reservation")
	}
	return &res, nil
}

func (r *reservations) Update(_ context.Context, _ db.DBTX, res *reservation.Reservation) error {
	stored, ok := r.tx.st.reservations[res.ID()]
	if !ok {
		return errs.Wrap(errs.ErrNotFound, "reservation")
	}
	if stored.Version() != res.Version() {
		return errs.Mark(errs.New("version mismatch"), shared.ErrStaleVersion)
	}
	res.AdvanceVersion()
	r.tx.st.reservations[res.ID()] = *res
	return nil
}

func (r *reservations) ListExpiredOptionIDs(_ context.Context, _ db.DBTX, now time.Time, limit int) ([]uuid.UUID, error) {
	var due []reservation.Reservation
	for _, res := range r.tx.st.reservations {
		if res.IsOptionExpired(now) {
			due = append(due, res)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].OptionExpiresAt().Before(*due[j].OptionExpiresAt())
	})
	ids := make([]uuid.UUID, 0, len(due))
	for i, res := range due {
		if i == limit {
			break
		}
		ids = append(ids, res.ID())
	}
	return ids, nil
}

type commissions struct{ tx *memTx }

func (c *commissions) Append(_ context.Context, _ db.DBTX, entry commission.Entry) error {
	if c.tx.store.FailAppend != nil {
		return c.tx.store.FailAppend
	}
	for _, e := range c.tx.st.entries {
		if e.ReservationID == entry.ReservationID && e.Kind == entry.Kind {
			return errs.Wrap(errs.ErrConflict, "commission entry exists")
		}
	}
	c.tx.st.entries = append(c.tx.st.entries, entry)
	return nil
}

func (c *commissions) FindBooked(_ context.Context, _ db.DBTX, reservationID uuid.UUID) (*commission.Entry, error) {
	for _, e := range c.tx.st.entries {
		if e.ReservationID == reservationID && e.Kind == commission.KindBooked {
			found := e
			return &found, nil
		}
	}
	return nil, errs.Wrap(errs.ErrNotFound, "commission entry")
}

type reads struct {
	store *Store
	st    *state
}

func (r *reads) PropertyByID(_ context.Context, tenantID, propertyID uuid.UUID) (*shared.PropertySnapshot, error) {
	p, ok := r.store.properties[propertyID]
	if !ok || p.TenantID != tenantID {
		return nil, errs.Wrap(errs.ErrNotFound, "property")
	}
	return &p, nil
}

func (r *reads) RoomTypeByID(_ context.Context, propertyID, roomTypeID uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	rt, ok := r.store.roomTypes[roomTypeID]
	if !ok || rt.PropertyID != propertyID {
		return nil, errs.Wrap(errs.ErrNotFound, "room type")
	}
	return &rt, nil
}

func (r *reads) AgencyByID(_ context.Context, tenantID, agencyID uuid.UUID) (*shared.AgencySnapshot, error) {
	a, ok := r.store.agencies[agencyID]
	if !ok || a.TenantID != tenantID {
		return nil, errs.Wrap(errs.ErrNotFound, "agency")
	}
	return &a, nil
}

func (r *reads) NightlyRates(_ context.Context, lookup shared.RateLookup) ([]shared.NightlyRateSnapshot, error) {
	var out []shared.NightlyRateSnapshot
	for _, d := range lookup.Stay.Dates() {
		if rate, ok := r.store.rates[rateKey{lookup.Rate.RatePlanID, lookup.Rate.RoomTypeID, d}]; ok {
			out = append(out, rate)
		}
	}
	return out, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, tenantID uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	for _, res := range r.st.reservations {
		if res.TenantID() == tenantID && res.IdempotencyKey() != nil && *res.IdempotencyKey() == key {
			return &shared.IdempotencyRecord{
				Key:           key,
				ReservationID: res.ID(),
				RequestHash:   res.RequestHash(),
				Status:        res.Status().String(),
			}, nil
		}
	}
	return nil, errs.Wrap(errs.ErrNotFound, "idempotency key")
}

// lockedReads serves CommandReads outside a unit of work.
type lockedReads struct{ store *Store }

func (l *lockedReads) with() *reads {
	return &reads{store: l.store, st: l.store.committed}
}

func (l *lockedReads) PropertyByID(ctx context.Context, tenantID, propertyID uuid.UUID) (*shared.PropertySnapshot, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.with().PropertyByID(ctx, tenantID, propertyID)
}

func (l *lockedReads) RoomTypeByID(ctx context.Context, propertyID, roomTypeID uuid.UUID) (*shared.RoomTypeSnapshot, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.with().RoomTypeByID(ctx, propertyID, roomTypeID)
}

func (l *lockedReads) AgencyByID(ctx context.Context, tenantID, agencyID uuid.UUID) (*shared.AgencySnapshot, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.with().AgencyByID(ctx, tenantID, agencyID)
}

func (l *lockedReads) NightlyRates(ctx context.Context, lookup shared.RateLookup) ([]shared.NightlyRateSnapshot, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.with().NightlyRates(ctx, lookup)
}

func (l *lockedReads) IdempotencyByKey(ctx context.Context, tenantID uuid.UUID, key string) (*shared.IdempotencyRecord, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.with().IdempotencyByKey(ctx, tenantID, key)
}

// ReadStore adapts the store to the query-side read stores.
type ReadStore struct{ Store *Store }

var (
	_ queries.ReservationReadStore = ReadStore{}
	_ queries.StatsReadStore       = ReadStore{}
	_ queries.InventoryReadStore   = ReadStore{}
)

func (r ReadStore) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	if res, ok := r.Store.Reservation(id); ok {
		return res, nil
	}
	return nil, errs.Wrap(errs.ErrNotFound, "reservation")
}

func (r ReadStore) FindByReference(_ context.Context, tenantID uuid.UUID, reference string) (*reservation.Reservation, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	for _, res := range r.Store.committed.reservations {
		if res.TenantID() == tenantID && res.BookingReference() == reference {
			found := res
			return &found, nil
		}
	}
	return nil, errs.Wrap(errs.ErrNotFound, "reservation")
}

func (r ReadStore) PropertyStats(_ context.Context, tenantID, propertyID uuid.UUID) (*queries.PropertyStats, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	p, ok := r.Store.properties[propertyID]
	if !ok || p.TenantID != tenantID {
		return nil, errs.Wrap(errs.ErrNotFound, "property")
	}
	stats := &queries.PropertyStats{PropertyID: propertyID, ByStatus: map[string]int{}, Currency: p.Currency}
	revenue := decimal.Zero
	for _, res := range r.Store.committed.reservations {
		if res.PropertyID() != propertyID {
			continue
		}
		stats.Total++
		stats.ByStatus[res.Status().String()]++
		switch res.Status() {
		case reservation.StatusOption:
			stats.ActiveOptions++
		case reservation.StatusPending, reservation.StatusConfirmed, reservation.StatusCheckedIn, reservation.StatusCheckedOut:
			stats.RoomNightsSold += res.Rooms() * res.Nights()
			revenue = revenue.Add(res.TotalPrice().Amount())
		}
	}
	stats.Revenue = revenue.StringFixed(2)
	return stats, nil
}

func (r ReadStore) AgencyLedger(_ context.Context, tenantID, agencyID uuid.UUID) ([]commission.Entry, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	a, ok := r.Store.agencies[agencyID]
	if !ok || a.TenantID != tenantID {
		return nil, errs.Wrap(errs.ErrNotFound, "agency")
	}
	var out []commission.Entry
	for _, e := range r.Store.committed.entries {
		if e.AgencyID == agencyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r ReadStore) Snapshot(_ context.Context, tenantID uuid.UUID, key inventory.Key, stay inventory.StayRange) ([]inventory.Record, error) {
	r.Store.mu.Lock()
	defer r.Store.mu.Unlock()
	p, ok := r.Store.properties[key.PropertyID]
	rt, rtOK := r.Store.roomTypes[key.RoomTypeID]
	if !ok || !rtOK || p.TenantID != tenantID || rt.PropertyID != key.PropertyID {
		return nil, errs.Wrap(errs.ErrNotFound, "room type")
	}
	out := make([]inventory.Record, 0, stay.Nights())
	for _, d := range stay.Dates() {
		rec, ok := r.Store.committed.inventory[nightKey{key, d}]
		if !ok {
			rec = inventory.NewRecord(d, rt.TotalRooms)
		}
		out = append(out, rec)
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
