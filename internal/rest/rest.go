package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type ServerConfig struct {
	Log             zerolog.Logger
	Addr            string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Handler         http.Handler
}

type server struct {
	log             zerolog.Logger
	srv             *http.Server
	shutdownTimeout time.Duration
}

// Run serves until ctx is done and then drains in flight requests.
func (s *server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().Msgf("Server running on %s", ln.Addr())
	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(ln)
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.log.Info().Msg("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	return nil
}

func New(cfg ServerConfig) (*server, error) {
	if cfg.Handler == nil {
		return nil, errors.New("please provide a Handler")
	}
	// put some sane defaults
	if len(cfg.Addr) == 0 {
		cfg.Addr = ":3000"
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = time.Second * 10
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = time.Second * 5
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = time.Second * 120
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = time.Second * 5
	}

	ans := server{
		log:             cfg.Log,
		shutdownTimeout: cfg.ShutdownTimeout,
		srv: &http.Server{
			Addr:         cfg.Addr,
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      cfg.Handler,
		},
	}
	return &ans, nil
}
