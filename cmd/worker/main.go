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

	var cfg app.WorkerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		panic(err)
	}

	logger := common.NewLogger(cfg.Debug)

	err := app.RunWorker(ctx, logger, cfg)
	if code := app.ExitCode(err); code != 0 {
		cancel()
		logger.Error().Err(err).Msg("exiting with error")
		os.Exit(code)
	}
}
