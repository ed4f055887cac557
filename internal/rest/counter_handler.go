package rest

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/uptrace/bunrouter"
)

type CounterHandler struct {
	log      zerolog.Logger
	visitSrv VisitService
}

type CounterResponse struct {
	Visits int64 `json:"visits"`
}

func (h *CounterHandler) Get(w http.ResponseWriter, r bunrouter.Request) error {
	n, err := h.visitSrv.Visit(r.Context())
	if err != nil {
		// the store error is reported to the caller as is
		return HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    err.Error(),
		}
	}
	return JSON(w, http.StatusOK, CounterResponse{Visits: n})
}
