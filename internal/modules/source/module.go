package source

import (
	"signal_bot/internal/modules/source/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("source",
		fx.Provide(
			service.NewClient, // func(*config.Config) (*service.Client, error)
		),
	)
}
