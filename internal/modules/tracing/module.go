package tracing

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
)

// Module поднимает jaeger-трейсер, если задан tracing.host. Иначе работает noop-трейсер opentracing.
func Module() fx.Option {
	return fx.Module("tracing",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if cfg.Tracing.Host == "" {
				return nil
			}
			closer, err := tracing.InitTracer(tracing.Config{
				Service: "signals",
				Host:    cfg.Tracing.Host,
				Port:    cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			logger.Info("[TRACING] jaeger agent %s:%d", cfg.Tracing.Host, cfg.Tracing.Port)
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closer()
					return nil
				},
			})
			return nil
		}),
	)
}
