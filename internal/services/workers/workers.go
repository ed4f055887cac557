package workers

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/gosom/lastrun/internal/entities"
	"github.com/gosom/lastrun/internal/storage"
)

type Store interface {
	Ping(ctx context.Context) error
	GetLastRun(ctx context.Context) (string, error)
}

type WorkerServiceConfig struct {
	Log        zerolog.Logger
	DB         Store
	HealthFreq time.Duration
	Clock      func() time.Time
}

type workerService struct {
	log        zerolog.Logger
	db         Store
	healthFreq time.Duration
	clock      func() time.Time
	upSince    time.Time
}

func New(cfg WorkerServiceConfig) *workerService {
	if cfg.HealthFreq == 0 {
		cfg.HealthFreq = 10 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	ans := workerService{
		log:        cfg.Log,
		db:         cfg.DB,
		healthFreq: cfg.HealthFreq,
		clock:      cfg.Clock,
		upSince:    cfg.Clock().UTC(),
	}
	return &ans
}

func (o *workerService) UpSince(ctx context.Context) time.Time {
	return o.upSince
}

func (o *workerService) DbOk(ctx context.Context) bool {
	if err := o.db.Ping(ctx); err != nil {
		o.log.Debug().Err(err).Msg("redis ping failed")
		return false
	}
	return true
}

// Status reports the last heartbeat and whether it is fresh. A worker is
// alive when its last heartbeat is at most two heartbeat intervals old.
func (o *workerService) Status(ctx context.Context) (entities.WorkerStatus, error) {
	var ans entities.WorkerStatus
	ans.StoreAlive = o.DbOk(ctx)
	if !ans.StoreAlive {
		return ans, nil
	}
	v, err := o.db.GetLastRun(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ans, nil
	case err != nil:
		return ans, err
	}
	ans.LastRun = v
	t, err := entities.ParseTimestamp(v)
	if err != nil {
		o.log.Warn().Str("value", v).Msg("cannot parse worker last run")
		return ans, nil
	}
	ans.LastRunAt = t
	ans.Alive = o.clock().Sub(t) <= 2*o.healthFreq
	return ans, nil
}
