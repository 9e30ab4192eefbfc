package config

import (
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module регистрирует конфиг и поднимает логгер с уровнем из конфига.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
		fx.Invoke(func(cfg *Config) error {
			logger.SetServiceName("signals")
			return logger.Init(cfg.LogLevel)
		}),
	)
}
