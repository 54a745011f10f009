package components

import (
	"log/slog"

	"booking-core/internal/domain/reservation"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(clk clock.Clock) *reservation.Factory {
		return reservation.NewFactory(clk, reservation.RandomReferenceGenerator{})
	},
	commands.NewSideEffects,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
		commands.NewLifecycleUseCase,
		NewSweeperCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewStatsQueries,
		queries.NewInventoryQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewBookingCommands(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	reservationQueries queries.ReservationQueries,
	effects *commands.SideEffects,
	metrics shared.Metrics,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) commands.BookingCommands {
	return commands.NewBookingUseCase(uow, factory, reservationQueries, effects, metrics, cfg.Booking, clk, logger)
}

func NewSweeperCommands(
	uow shared.UnitOfWork,
	effects *commands.SideEffects,
	metrics shared.Metrics,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) commands.SweeperCommands {
	return commands.NewSweeperUseCase(uow, effects, metrics, cfg.Sweeper, clk, logger)
}
