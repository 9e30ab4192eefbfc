package signal_log

import (
	"signal_bot/internal/modules/signal_log/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("signal_log",
		fx.Provide(
			service.NewWriter,
		),
	)
}
