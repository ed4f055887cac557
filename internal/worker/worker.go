package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gosom/lastrun/internal/entities"
	"github.com/gosom/lastrun/internal/metrics"
)

const (
	DefaultInterval      = 10 * time.Second
	DefaultRetryInterval = 5 * time.Second
)

var (
	ErrStoreMissing     = errors.New("store is missing")
	ErrStoreUnreachable = errors.New("store unreachable")
)

// Store is the part of the key-value store the worker needs.
type Store interface {
	Ping(ctx context.Context) error
	SetHeartbeat(ctx context.Context, hb entities.Heartbeat) error
}

type State int32

const (
	Connecting State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Running:
		return "running"
	}
	return "unknown"
}

type WorkerConfig struct {
	Log   zerolog.Logger
	Store Store
	// Interval is the pause after a successful write.
	Interval time.Duration
	// RetryInterval is the pause after a failed cycle. Ignored when
	// RetryBackOff is set.
	RetryInterval time.Duration
	RetryBackOff  backoff.BackOff
	// WriteTimeout bounds a single write. Zero means no timeout.
	WriteTimeout time.Duration
	Metrics      metrics.Recorder
	Clock        func() time.Time
	Sleep        func(ctx context.Context, d time.Duration) error
}

type worker struct {
	name         string
	log          zerolog.Logger
	store        Store
	interval     time.Duration
	retry        backoff.BackOff
	writeTimeout time.Duration
	metrics      metrics.Recorder
	clock        func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
	state        atomic.Int32
}

func NewWorker(cfg WorkerConfig) (*worker, error) {
	if cfg.Store == nil {
		return nil, ErrStoreMissing
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.RetryBackOff == nil {
		cfg.RetryBackOff = backoff.NewConstantBackOff(cfg.RetryInterval)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleep
	}
	name := uuid.New().String()
	ans := &worker{
		name:         name,
		log:          cfg.Log.With().Str("worker", name).Logger(),
		store:        cfg.Store,
		interval:     cfg.Interval,
		retry:        cfg.RetryBackOff,
		writeTimeout: cfg.WriteTimeout,
		metrics:      cfg.Metrics,
		clock:        cfg.Clock,
		sleep:        cfg.Sleep,
	}
	return ans, nil
}

func (w *worker) Name() string {
	return w.name
}

func (w *worker) State() State {
	return State(w.state.Load())
}

func (w *worker) setState(s State) {
	w.state.Store(int32(s))
	w.metrics.StateChanged(s.String())
	w.log.Debug().Stringer("state", s).Msg("worker state")
}

// Start checks the store once and then writes heartbeats until ctx is done.
// A failed health check is returned wrapped in ErrStoreUnreachable; once
// running, Start only returns when ctx is cancelled.
func (w *worker) Start(ctx context.Context) error {
	w.log.Info().Msg("Worker starting...")
	w.setState(Connecting)
	if err := w.store.Ping(ctx); err != nil {
		w.log.Error().Err(err).Msg("Failed to connect to Redis")
		return fmt.Errorf("%w: %w", ErrStoreUnreachable, err)
	}
	w.log.Info().Msg("Connected to Redis")
	w.setState(Running)
	return w.run(ctx)
}
