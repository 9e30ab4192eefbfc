package postgres

import (
	"context"
	"fmt"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module даёт *db.PgTxManager. Без DSN журнал не нужен, отдаём nil.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					logger.Info("[POSTGRES] db_dsn is empty, relay journal disabled")
					return nil, nil
				}

				m, err := db.Connect(ctx, cfg.DB)
				if err != nil {
					return nil, fmt.Errorf("postgres: %w", err)
				}
				lc.Append(fx.StopHook(m.Close))
				return m, nil
			},
		),
	)
}
