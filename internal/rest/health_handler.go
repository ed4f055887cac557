package rest

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/uptrace/bunrouter"
)

const (
	redisConnected    = "connected"
	redisDisconnected = "disconnected"
)

type HealthHandler struct {
	workerSrv WorkerService
	log       zerolog.Logger
	clock     func() time.Time
}

type HealthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	ServerUpSince time.Time `json:"serverUpSince"`
	Redis         string    `json:"redis"`
	WorkerLastRun string    `json:"workerLastRun"`
	WorkerAlive   bool      `json:"workerAlive"`
}

// Get always answers 200; the body tells what is reachable.
func (h *HealthHandler) Get(w http.ResponseWriter, r bunrouter.Request) error {
	ans := HealthResponse{
		Status:        "healthy",
		Timestamp:     h.clock().UTC(),
		ServerUpSince: h.workerSrv.UpSince(r.Context()),
		Redis:         redisDisconnected,
	}
	st, err := h.workerSrv.Status(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("cannot read worker status")
	}
	if st.StoreAlive {
		ans.Redis = redisConnected
	}
	ans.WorkerLastRun = st.LastRun
	ans.WorkerAlive = st.Alive
	return JSON(w, http.StatusOK, ans)
}
