package auth

import (
	"signal_bot/internal/modules/auth/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("auth",
		fx.Provide(
			service.NewCredentialStore,
			service.NewAuthenticator,
		),
	)
}
