package rest

import (
	"errors"
	"net/http"

	"github.com/uptrace/bunrouter"
)

var ErrNotFound = errors.New("resource not found")

type HTTPError struct {
	StatusCode int `json:"-"`

	Message string `json:"error"`
}

func (e HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if errors.Is(err, ErrNotFound) {
		return HTTPError{
			StatusCode: http.StatusNotFound,
			Message:    "resource not found",
		}
	}
	return HTTPError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}
}

func errorHandler(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		err := next(w, req)
		if err != nil {
			httpErr := NewHTTPError(err)
			_ = JSON(w, httpErr.StatusCode, httpErr)
		}
		return err // return the err in case there other middlewares
	}
}

func notFoundHandler(w http.ResponseWriter, req bunrouter.Request) error {
	httpErr := NewHTTPError(ErrNotFound)
	return JSON(w, httpErr.StatusCode, httpErr)
}
