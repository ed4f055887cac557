package entities

import (
	"time"
)

const (
	LastRunKey = "worker_last_run"
	VisitsKey  = "visit_counter"
)

// TimestampLayout is ISO-8601 local time without a zone designator,
// microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000"

type Heartbeat struct {
	Key       string
	Timestamp time.Time
}

func NewHeartbeat(t time.Time) Heartbeat {
	return Heartbeat{
		Key:       LastRunKey,
		Timestamp: t,
	}
}

func (h Heartbeat) Value() string {
	return FormatTimestamp(h.Timestamp)
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a heartbeat value back in the local time zone.
// Values carrying a zone offset (RFC3339) are accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err2 == nil {
		return t2, nil
	}
	if t3, err3 := time.Parse(time.RFC3339Nano, s); err3 == nil {
		return t3, nil
	}
	return time.Time{}, err
}

type WorkerStatus struct {
	LastRun    string
	LastRunAt  time.Time
	Alive      bool
	StoreAlive bool
}
