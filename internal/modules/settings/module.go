package settings

import (
	"signal_bot/internal/modules/settings/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("settings",
		fx.Provide(
			service.NewStore,
		),
	)
}
