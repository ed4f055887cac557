package common

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, false)

	logger.Info().Str("timestamp", "2024-05-01T12:00:00.000000").Msg("Worker updated timestamp")
	logger.Error().Err(errors.New("connection refused")).Msg("Error")
	logger.Debug().Msg("hidden")

	out := buf.String()
	require.Contains(t, out, "Worker updated timestamp")
	require.Contains(t, out, "timestamp=2024-05-01T12:00:00.000000")
	require.Contains(t, out, "connection refused")
	require.NotContains(t, out, "hidden")
	require.NotContains(t, out, "{")
	require.NotContains(t, out, "INF")
	require.NotContains(t, out, "ERR")
	require.NotContains(t, out, "level")
	require.Len(t, bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")), 2)
}

func TestNewLoggerToDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, true)
	logger.Debug().Msg("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestNewLoggerWritesStdout(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	logger := NewLogger(false)
	logger.Info().Msg("Connected to Redis")
	require.NoError(t, w.Close())
	os.Stdout = orig

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Contains(t, string(got), "Connected to Redis")
	require.NotContains(t, string(got), "level")
}
