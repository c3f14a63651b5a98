package workers

import (
	"context"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	logger.Info().Msg("creating new workers...")

	var ws []Worker
	if cfg.RateLimitPruneInterval > 0 && storages.RateLimits != nil {
		ws = append(ws, NewRateLimitJanitor(storages.RateLimits, cfg.RateLimitPruneInterval, logger))
	}

	return &Workers{workers: ws}
}

// Run starts every worker and waits for all of them. The first failure
// cancels the rest.
func (w *Workers) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		worker := worker
		g.Go(func() error {
			return worker.Run(gCtx)
		})
	}

	return g.Wait()
}
