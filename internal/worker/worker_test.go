package worker

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gosom/lastrun/internal/entities"
	"github.com/gosom/lastrun/internal/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	pingErr error
	fail    map[int]bool
	calls   int
	written []entities.Heartbeat
}

func (f *fakeStore) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeStore) SetHeartbeat(_ context.Context, hb entities.Heartbeat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[f.calls] {
		return errors.New("connection reset by peer")
	}
	f.written = append(f.written, hb)
	return nil
}

// recordSleep records the requested durations and cancels after n sleeps.
func recordSleep(n int, cancel context.CancelFunc, got *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*got = append(*got, d)
		if len(*got) >= n {
			cancel()
			return ctx.Err()
		}
		return nil
	}
}

func TestNewWorker(t *testing.T) {
	t.Run("store is mandatory", func(t *testing.T) {
		_, err := NewWorker(WorkerConfig{})
		require.ErrorIs(t, err, ErrStoreMissing)
	})

	t.Run("defaults", func(t *testing.T) {
		w, err := NewWorker(WorkerConfig{Store: &fakeStore{}})
		require.NoError(t, err)
		require.Equal(t, DefaultInterval, w.interval)
		require.Equal(t, DefaultRetryInterval, w.retry.NextBackOff())
		require.NotEmpty(t, w.Name())
		require.Equal(t, Connecting, w.State())
	})
}

func TestStartUnreachableStore(t *testing.T) {
	var buf bytes.Buffer
	store := &fakeStore{pingErr: errors.New("dial tcp: connection refused")}
	w, err := NewWorker(WorkerConfig{
		Log:   zerolog.New(&buf),
		Store: store,
	})
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.ErrorIs(t, err, ErrStoreUnreachable)
	require.Contains(t, err.Error(), "connection refused")
	require.Equal(t, Connecting, w.State())
	require.Zero(t, store.calls)
	require.Contains(t, buf.String(), "Failed to connect to Redis")
	require.NotContains(t, buf.String(), "Connected to Redis")
}

func TestStartCadence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	var sleeps []time.Duration
	store := &fakeStore{fail: map[int]bool{2: true, 3: true}}
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	tick := 0
	w, err := NewWorker(WorkerConfig{
		Log:   zerolog.New(&buf),
		Store: store,
		Clock: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
		Sleep: recordSleep(5, cancel, &sleeps),
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(ctx))
	require.Equal(t, Running, w.State())

	require.Equal(t, []time.Duration{
		10 * time.Second,
		5 * time.Second,
		5 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}, sleeps)

	require.Len(t, store.written, 3)
	for i := 1; i < len(store.written); i++ {
		require.True(t, !store.written[i].Timestamp.Before(store.written[i-1].Timestamp))
	}
	for _, hb := range store.written {
		require.Equal(t, entities.LastRunKey, hb.Key)
		_, err := entities.ParseTimestamp(hb.Value())
		require.NoError(t, err)
	}

	logs := buf.String()
	require.Contains(t, logs, "Worker starting...")
	require.Contains(t, logs, "Connected to Redis")
	require.Contains(t, logs, "Worker updated timestamp")
	require.Contains(t, logs, "connection reset by peer")
}

func TestWriteTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sleeps []time.Duration
	store := &blockingStore{}
	w, err := NewWorker(WorkerConfig{
		Log:          zerolog.Nop(),
		Store:        store,
		WriteTimeout: 10 * time.Millisecond,
		Sleep:        recordSleep(2, cancel, &sleeps),
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(ctx))
	require.Equal(t, []time.Duration{DefaultRetryInterval, DefaultRetryInterval}, sleeps)
}

type blockingStore struct{}

func (blockingStore) Ping(context.Context) error { return nil }

func (blockingStore) SetHeartbeat(ctx context.Context, _ entities.Heartbeat) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSleep(t *testing.T) {
	require.NoError(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}

func TestHeartbeatAgainstRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	db, err := storage.New(storage.RedisConfig{URL: "redis://" + mr.Addr(), PoolSize: 1})
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewWorker(WorkerConfig{
		Log:           zerolog.Nop(),
		Store:         db,
		Interval:      20 * time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	var first string
	require.Eventually(t, func() bool {
		v, err := mr.Get(entities.LastRunKey)
		if err != nil {
			return false
		}
		first = v
		return true
	}, 2*time.Second, 5*time.Millisecond)

	ts, err := entities.ParseTimestamp(first)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), ts, 5*time.Second)

	// store goes away and comes back, the worker keeps going
	mr.Close()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, mr.Restart())

	require.Eventually(t, func() bool {
		v, err := mr.Get(entities.LastRunKey)
		if err != nil {
			return false
		}
		next, err := entities.ParseTimestamp(v)
		return err == nil && next.After(ts)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
