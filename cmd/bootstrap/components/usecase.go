package components

import (
	"clinic-booking/internal/pkg/clock"
	"clinic-booking/internal/usecase/commands"
	"clinic-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	fx.Module("usecase/commands",
		fx.Provide(
			commands.NewBookingCommands,
		),
	),
	fx.Module("usecase/queries",
		fx.Provide(
			queries.NewVerificationQueries,
		),
	),
)
