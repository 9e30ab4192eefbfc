package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"signal_bot/internal/console"
	"signal_bot/internal/modules/auth"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/journal"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/settings"
	"signal_bot/internal/modules/signal_log"
	"signal_bot/internal/modules/source"
	sourcesvc "signal_bot/internal/modules/source/service"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/modules/tracing"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

func main() {
	var (
		con *console.Console
		src *sourcesvc.Client
	)

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		tracing.Module(),
		postgres.Module(),
		journal.Module(),
		source.Module(),
		telegram.Module(),
		settings.Module(),
		auth.Module(),
		signal_log.Module(),
		runner.Module(),
		health.Module(),
		console.Module(),
		fx.Populate(&con, &src),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	code := run(con, src)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Error("[MAIN] stop: %v", err)
	}
	logger.Sync()
	os.Exit(code)
}

func run(con *console.Console, src *sourcesvc.Client) int {
	ctx := context.Background()

	under, err := src.Maintenance(ctx)
	if err != nil {
		logger.Warn("[MAIN] maintenance check: %v", err)
	}
	if under {
		fmt.Println("\n⚠️ Software is currently under maintenance.")
		fmt.Println("Please try again later or contact @Team_GrowUp for support.")
		return 1
	}

	if err := con.Run(ctx); err != nil {
		logger.Error("[MAIN] %v", err)
		return 1
	}
	return 0
}
