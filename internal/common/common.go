package common

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewLogger writes plain text lines to stdout. Lines carry a timestamp, the
// message and any fields, but no level column.
func NewLogger(debug bool) zerolog.Logger {
	return NewLoggerTo(os.Stdout, debug)
}

func NewLoggerTo(w io.Writer, debug bool) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		TimeFormat:   time.RFC3339,
		PartsExclude: []string{zerolog.LevelFieldName},
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger
}
