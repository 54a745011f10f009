//go:build integration

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Catalog is the property, room type, rate plan and agency a test books against.
type Catalog struct {
	TenantID   uuid.UUID
	PropertyID uuid.UUID
	RoomTypeID uuid.UUID
	RatePlanID uuid.UUID
	AgencyID   uuid.UUID
	Currency   string
}

type CatalogOptions struct {
	TotalRooms     int
	NightlyPrice   decimal.Decimal
	TaxRate        decimal.Decimal
	CommissionRate decimal.Decimal
	// Rates are loaded for every night in [RatesFrom, RatesTo).
	RatesFrom time.Time
	RatesTo   time.Time
}

func DefaultCatalogOptions(from time.Time) CatalogOptions {
	return CatalogOptions{
		TotalRooms:     5,
		NightlyPrice:   decimal.NewFromInt(100),
		TaxRate:        decimal.NewFromInt(10),
		CommissionRate: decimal.NewFromInt(10),
		RatesFrom:      from,
		RatesTo:        from.AddDate(0, 0, 30),
	}
}

func SeedCatalog(t *testing.T, db DBLike, opts CatalogOptions) Catalog {
	t.Helper()
	ctx := context.Background()

	c := Catalog{
		TenantID:   uuid.New(),
		PropertyID: uuid.New(),
		RoomTypeID: uuid.New(),
		RatePlanID: uuid.New(),
		AgencyID:   uuid.New(),
		Currency:   "EUR",
	}

	_, err := db.Exec(ctx, `INSERT INTO properties (id, tenant_id, name, currency, tax_rate) VALUES ($1, $2, $3, $4, $5)`,
		c.PropertyID, c.TenantID, "Seaside Hotel", c.Currency, opts.TaxRate)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO room_types (id, property_id, name, total_rooms) VALUES ($1, $2, $3, $4)`,
		c.RoomTypeID, c.PropertyID, "Double", opts.TotalRooms)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
INSERT INTO nightly_rates (property_id, room_type_id, rate_plan_id, stay_date, price, currency)
SELECT $1, $2, $3, d::date, $4, $5
FROM generate_series($6::date, $7::date - 1, interval '1 day') AS d`,
		c.PropertyID, c.RoomTypeID, c.RatePlanID, opts.NightlyPrice, c.Currency, opts.RatesFrom, opts.RatesTo)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO agencies (id, tenant_id, name, default_commission_rate) VALUES ($1, $2, $3, $4)`,
		c.AgencyID, c.TenantID, "Sunny Travel", opts.CommissionRate)
	require.NoError(t, err)

	return c
}

// InventoryRow reads one night of the ledger for assertions.
func InventoryRow(t *testing.T, db DBLike, c Catalog, date time.Time) (available, sold int) {
	t.Helper()
	err := db.QueryRow(context.Background(),
		`SELECT available_rooms, sold_rooms FROM inventory WHERE property_id = $1 AND room_type_id = $2 AND stay_date = $3`,
		c.PropertyID, c.RoomTypeID, date).Scan(&available, &sold)
	require.NoError(t, err)
	return available, sold
}
