package rest

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/uptrace/bunrouter"
)

type IndexResponse struct {
	Message string `json:"message"`
}

type IndexHandler struct {
	log zerolog.Logger
}

func (h *IndexHandler) Get(w http.ResponseWriter, r bunrouter.Request) error {
	ans := IndexResponse{
		Message: "Hello from Docker Compose with caching!",
	}
	return JSON(w, http.StatusOK, ans)
}
