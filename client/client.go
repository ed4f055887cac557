package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseUrl    string
	HttpClient HTTPClient
	Logf       func(format string, a ...any)
}

type LastRunAPI struct {
	baseUrl   string
	netClient HTTPClient
	logf      func(format string, a ...any)
}

func New(cfg Config) (*LastRunAPI, error) {
	if len(cfg.BaseUrl) == 0 {
		return nil, errors.New("BaseUrl is mandatory")
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}
	if cfg.HttpClient == nil {
		cfg.HttpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	ans := LastRunAPI{
		baseUrl:   strings.TrimRight(cfg.BaseUrl, "/"),
		netClient: cfg.HttpClient,
		logf:      cfg.Logf,
	}
	return &ans, nil
}

func (h *LastRunAPI) Health(ctx context.Context) (Health, error) {
	var ans Health
	err := h.get(ctx, "/health", &ans)
	return ans, err
}

// Visit increments the visit counter and returns the new value.
func (h *LastRunAPI) Visit(ctx context.Context) (int64, error) {
	var ans struct {
		Visits int64 `json:"visits"`
	}
	if err := h.get(ctx, "/counter", &ans); err != nil {
		return 0, err
	}
	return ans.Visits, nil
}

func (h *LastRunAPI) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.buildUrl(path), nil)
	if err != nil {
		return err
	}
	resp, err := h.netClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		e := HttpError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			h.logf("cannot decode error body for %s: %v", path, err)
		}
		e.StatusCode = resp.StatusCode
		return e
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (h *LastRunAPI) buildUrl(path string) string {
	return h.baseUrl + path
}
