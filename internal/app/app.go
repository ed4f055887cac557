// Package app wires the worker and server processes. The binaries under cmd/
// only read the environment and call into here.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gosom/lastrun/internal/metrics"
	"github.com/gosom/lastrun/internal/rest"
	"github.com/gosom/lastrun/internal/services/visits"
	"github.com/gosom/lastrun/internal/services/workers"
	"github.com/gosom/lastrun/internal/storage"
	"github.com/gosom/lastrun/internal/worker"
)

type WorkerConfig struct {
	Debug         bool          `envconfig:"DEBUG" default:"false"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	Interval      time.Duration `envconfig:"HEARTBEAT_INTERVAL" default:"10s"`
	RetryInterval time.Duration `envconfig:"RETRY_INTERVAL" default:"5s"`
	WriteTimeout  time.Duration `envconfig:"WRITE_TIMEOUT" default:"0s"`
	MetricsAddr   string        `envconfig:"METRICS_ADDR" default:""`
}

type ServerConfig struct {
	Addr     string        `envconfig:"ADDR" default:":3000"`
	Debug    bool          `envconfig:"DEBUG" default:"false"`
	RedisURL string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	Interval time.Duration `envconfig:"HEARTBEAT_INTERVAL" default:"10s"`
}

// ExitCode maps the error returned by RunWorker or RunServer to a process
// exit status. An unreachable store at startup is already logged by the
// worker and ends the process cleanly.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, worker.ErrStoreUnreachable) {
		return 0
	}
	return 1
}

func RunWorker(ctx context.Context, logger zerolog.Logger, cfg WorkerConfig) error {
	db, err := storage.New(storage.RedisConfig{
		URL:          cfg.RedisURL,
		PoolSize:     1,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)
	if len(cfg.MetricsAddr) > 0 {
		msrv, err := rest.New(rest.ServerConfig{
			Log:     logger,
			Addr:    cfg.MetricsAddr,
			Handler: metrics.Handler(reg),
		})
		if err != nil {
			return err
		}
		go func() {
			if err := msrv.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	w, err := worker.NewWorker(worker.WorkerConfig{
		Log:           logger,
		Store:         db,
		Interval:      cfg.Interval,
		RetryInterval: cfg.RetryInterval,
		WriteTimeout:  cfg.WriteTimeout,
		Metrics:       collector,
	})
	if err != nil {
		return err
	}
	return w.Start(ctx)
}

func RunServer(ctx context.Context, logger zerolog.Logger, cfg ServerConfig) error {
	// ----------------- redis stuff -----------------------------------
	db, err := storage.New(storage.RedisConfig{
		URL: cfg.RedisURL,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Redis connection error")
	} else {
		logger.Info().Msg("Connected to Redis")
	}

	// -----------------------------------------------------------------
	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)
	wSrv := workers.New(workers.WorkerServiceConfig{
		Log:        logger,
		DB:         db,
		HealthFreq: cfg.Interval,
	})
	vSrv := visits.New(visits.ServiceConfig{
		Log:     logger,
		DB:      db,
		Metrics: collector,
	})

	// -------------------------------------------------------------------
	router := rest.NewRouter(rest.RouterConfig{
		Log:       logger,
		WorkerSrv: wSrv,
		VisitSrv:  vSrv,
		Metrics:   metrics.Handler(reg),
	})
	srv, err := rest.New(rest.ServerConfig{
		Addr:    cfg.Addr,
		Log:     logger,
		Handler: router,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
