package journal

import (
	"context"

	"signal_bot/internal/modules/journal/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(ctx context.Context, tm *db.PgTxManager) (runner.Journal, error) {
				if tm == nil {
					return service.Nop{}, nil
				}
				j := service.NewPg(tm)
				if err := j.EnsureSchema(ctx); err != nil {
					return nil, err
				}
				return j, nil
			},
		),
	)
}
