package queries

import (
	"context"

	"booking-core/internal/domain/commission"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound = errs.Category("property not found", errs.ErrNotFound)
	ErrAgencyNotFound   = errs.Category("agency not found", errs.ErrNotFound)
)

type PropertyStats struct {
	PropertyID     uuid.UUID      `json:"property_id"`
	Total          int            `json:"total_reservations"`
	ByStatus       map[string]int `json:"by_status"`
	ActiveOptions  int            `json:"active_options"`
	RoomNightsSold int            `json:"room_nights_sold"`
	Revenue        string         `json:"revenue"`
	Currency       string         `json:"currency"`
}

type AgencyStats struct {
	AgencyID   uuid.UUID `json:"agency_id"`
	Bookings   int       `json:"bookings"`
	Revenue    string    `json:"revenue"`
	Commission string    `json:"commission"`
}

type StatsQueries interface {
	GetStats(ctx context.Context, tenantID, propertyID uuid.UUID) (*PropertyStats, error)
	GetAgencyStats(ctx context.Context, tenantID, agencyID uuid.UUID) (*AgencyStats, error)
}

type StatsReadStore interface {
	PropertyStats(ctx context.Context, tenantID, propertyID uuid.UUID) (*PropertyStats, error)
	AgencyLedger(ctx context.Context, tenantID, agencyID uuid.UUID) ([]commission.Entry, error)
}

type statsQueriesImpl struct {
	store StatsReadStore
}

func NewStatsQueries(store StatsReadStore) StatsQueries {
	return &statsQueriesImpl{store: store}
}

func (q *statsQueriesImpl) GetStats(ctx context.Context, tenantID, propertyID uuid.UUID) (*PropertyStats, error) {
	stats, err := q.store.PropertyStats(ctx, tenantID, propertyID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return stats, nil
}

// GetAgencyStats sums the agency's commission ledger; reversals cancel bookings out.
func (q *statsQueriesImpl) GetAgencyStats(ctx context.Context, tenantID, agencyID uuid.UUID) (*AgencyStats, error) {
	entries, err := q.store.AgencyLedger(ctx, tenantID, agencyID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	totals := commission.Sum(entries)
	return &AgencyStats{
		AgencyID:   agencyID,
		Bookings:   totals.Bookings,
		Revenue:    totals.Revenue.StringFixed(2),
		Commission: totals.Commission.StringFixed(2),
	}, nil
}
