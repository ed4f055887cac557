package client

import (
	"fmt"
	"time"
)

type HttpError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e HttpError) Error() string {
	return fmt.Sprintf("StatusCode: %d Message: %s", e.StatusCode, e.Message)
}

type Health struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	ServerUpSince time.Time `json:"serverUpSince"`
	Redis         string    `json:"redis"`
	WorkerLastRun string    `json:"workerLastRun"`
	WorkerAlive   bool      `json:"workerAlive"`
}

func (h Health) RedisConnected() bool {
	return h.Redis == "connected"
}
