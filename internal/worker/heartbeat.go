package worker

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gosom/lastrun/internal/entities"
)

func (w *worker) run(ctx context.Context) error {
	w.retry.Reset()
	for {
		err := w.beat(ctx)
		wait := w.interval
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			w.log.Error().Err(err).Msg("Error")
			w.metrics.HeartbeatFailed()
			wait = w.retry.NextBackOff()
			if wait == backoff.Stop {
				w.retry.Reset()
				wait = w.retry.NextBackOff()
			}
		} else {
			w.retry.Reset()
		}
		if err := w.sleep(ctx, wait); err != nil {
			break
		}
	}
	w.log.Info().Msg("worker stopped")
	return nil
}

// beat writes one heartbeat.
func (w *worker) beat(ctx context.Context) error {
	hb := entities.NewHeartbeat(w.clock())
	wctx := ctx
	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}
	if err := w.store.SetHeartbeat(wctx, hb); err != nil {
		return err
	}
	w.metrics.HeartbeatWritten(hb.Timestamp)
	w.log.Info().Str("timestamp", hb.Value()).Msg("Worker updated timestamp")
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
