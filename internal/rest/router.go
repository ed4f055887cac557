package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/uptrace/bunrouter"

	"github.com/gosom/lastrun/internal/entities"
)

type WorkerService interface {
	UpSince(ctx context.Context) time.Time
	Status(ctx context.Context) (entities.WorkerStatus, error)
}

type VisitService interface {
	Visit(ctx context.Context) (int64, error)
}

type RouterConfig struct {
	Log       zerolog.Logger
	WorkerSrv WorkerService
	VisitSrv  VisitService
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
	Clock   func() time.Time
}

func NewRouter(cfg RouterConfig) *bunrouter.Router {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	router := bunrouter.New(
		bunrouter.WithNotFoundHandler(notFoundHandler),
	)

	g := router.Use(logHandler(cfg.Log), errorHandler)

	indexHandler := IndexHandler{
		log: cfg.Log,
	}
	g.GET("/", indexHandler.Get)

	healthHandler := HealthHandler{
		log:       cfg.Log,
		workerSrv: cfg.WorkerSrv,
		clock:     cfg.Clock,
	}
	g.GET("/health", healthHandler.Get)

	counterHandler := CounterHandler{
		log:      cfg.Log,
		visitSrv: cfg.VisitSrv,
	}
	g.GET("/counter", counterHandler.Get)

	if cfg.Metrics != nil {
		router.GET("/metrics", bunrouter.HTTPHandler(cfg.Metrics))
	}
	return router
}
