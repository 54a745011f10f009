package components

import (
	"log/slog"

	"booking-core/internal/infra/db"
	"booking-core/internal/infra/readstore"
	"booking-core/internal/infra/uow"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Reservation
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		// Stats
		fx.Annotate(
			readstore.NewStatsReadStore,
			fx.As(new(queries.StatsReadStore)),
		),
		// Inventory
		fx.Annotate(
			readstore.NewInventoryReadStore,
			fx.As(new(queries.InventoryReadStore)),
		),
	),
)

// Repositories are built by the unit of work and reached through shared.Tx.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			NewUnitOfWork,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) *uow.PostgresUoW {
	return uow.NewPostgresUoW(pool, cfg.Booking, logger)
}

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
