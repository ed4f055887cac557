package rest

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"
	"github.com/uptrace/bunrouter"
)

func JSON(w http.ResponseWriter, statusCode int, value any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if value == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(value)
}

func logHandler(log zerolog.Logger) func(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
		return func(w http.ResponseWriter, req bunrouter.Request) error {
			rec := NewResponseWriter(w)
			now := time.Now()
			err := next(rec.Wrapped, req)
			realIp, _ := getIP(req)
			statusCode := rec.StatusCode()
			ev := log.Debug()
			if err != nil || statusCode >= http.StatusInternalServerError {
				ev = log.Error().Err(err)
			}
			ev = ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("statusCode", statusCode).
				IPAddr("ip", realIp).
				Dur("duration", time.Since(now))
			ev.Msg(http.StatusText(statusCode))
			return err
		}
	}
}

type ResponseWriter struct {
	Wrapped    http.ResponseWriter
	statusCode int
}

func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	var rw ResponseWriter
	rw.Wrapped = httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(statusCode int) {
				if rw.statusCode == 0 {
					rw.statusCode = statusCode
				}
				next(statusCode)
			}
		},
	})
	return &rw
}

func (w *ResponseWriter) StatusCode() int {
	if w.statusCode != 0 {
		return w.statusCode
	}
	return http.StatusOK
}

// getIP prefers the proxy headers over RemoteAddr.
func getIP(r bunrouter.Request) (net.IP, error) {
	if netIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); netIP != nil {
		return netIP, nil
	}
	for _, ip := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if netIP := net.ParseIP(strings.TrimSpace(ip)); netIP != nil {
			return netIP, nil
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return nil, err
	}
	if netIP := net.ParseIP(host); netIP != nil {
		return netIP, nil
	}
	return nil, fmt.Errorf("no valid ip found in %q", r.RemoteAddr)
}
