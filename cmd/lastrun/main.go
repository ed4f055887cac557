package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"

	"github.com/gosom/lastrun/internal/app"
	"github.com/gosom/lastrun/internal/common"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cliApp := &cli.App{
		Name:     "lastrun",
		HelpName: "redis heartbeat worker",
		Commands: []*cli.Command{
			workerTask(ctx),
			serverTask(ctx),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		cancel()
		os.Exit(app.ExitCode(err))
	}
}

// ============================================================================

func workerTask(ctx context.Context) *cli.Command {
	cmd := cli.Command{
		Name:  "worker",
		Usage: "writes a heartbeat timestamp to redis",
		Action: func(c *cli.Context) error {
			var cfg app.WorkerConfig
			if err := envconfig.Process("", &cfg); err != nil {
				return err
			}
			logger := common.NewLogger(cfg.Debug)
			err := app.RunWorker(ctx, logger, cfg)
			if app.ExitCode(err) != 0 {
				logger.Error().Err(err).Msg("exiting with error")
			}
			return err
		},
	}
	return &cmd
}

// ============================================================================

func serverTask(ctx context.Context) *cli.Command {
	cmd := cli.Command{
		Name:  "server",
		Usage: "starts the webserver",
		Action: func(c *cli.Context) error {
			var cfg app.ServerConfig
			if err := envconfig.Process("", &cfg); err != nil {
				return err
			}
			logger := common.NewLogger(cfg.Debug)
			if err := app.RunServer(ctx, logger, cfg); err != nil {
				logger.Error().Err(err).Msg("exiting with error")
				return err
			}
			return nil
		},
	}
	return &cmd
}
