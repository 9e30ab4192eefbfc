package console

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("console",
		fx.Provide(
			NewConsole,
		),
	)
}
