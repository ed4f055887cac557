package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"

	"github.com/gosom/lastrun/internal/app"
	"github.com/gosom/lastrun/internal/common"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg app.ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		panic(err)
	}

	logger := common.NewLogger(cfg.Debug)

	if err := app.RunServer(ctx, logger, cfg); err != nil {
		cancel()
		logger.Error().Err(err).Msg("exiting with error")
		os.Exit(app.ExitCode(err))
	}
}
