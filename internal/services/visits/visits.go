package visits

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Store interface {
	IncrVisits(ctx context.Context) (int64, error)
}

type Counter interface {
	VisitCounted()
}

type ServiceConfig struct {
	Log     zerolog.Logger
	DB      Store
	Metrics Counter
}

type service struct {
	log     zerolog.Logger
	db      Store
	metrics Counter
}

func New(cfg ServiceConfig) *service {
	return &service{
		log:     cfg.Log,
		db:      cfg.DB,
		metrics: cfg.Metrics,
	}
}

func (s *service) Visit(ctx context.Context) (int64, error) {
	n, err := s.db.IncrVisits(ctx)
	if err != nil {
		return 0, fmt.Errorf("incr visits: %w", err)
	}
	if s.metrics != nil {
		s.metrics.VisitCounted()
	}
	s.log.Debug().Int64("visits", n).Msg("visit counted")
	return n, nil
}
