package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
)

// RateLimitJanitor periodically removes rate-limit hits that fell out of the
// counting window.
type RateLimitJanitor struct {
	counters store.RateLimitStore
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

func NewRateLimitJanitor(counters store.RateLimitStore, interval time.Duration, logger *logger.Logger) *RateLimitJanitor {
	return &RateLimitJanitor{
		counters: counters,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

func (j *RateLimitJanitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.prune(ctx)
		}
	}
}

// prune errors are logged only; the next tick retries.
func (j *RateLimitJanitor) prune(ctx context.Context) {
	removed, err := j.counters.Prune(ctx, j.now())
	if err != nil {
		j.logger.Err(err).Str("func", "RateLimitJanitor.prune").Msg("failed to prune rate limit hits")
		return
	}
	if removed > 0 {
		j.logger.Debug().Int64("removed", removed).Msg("pruned rate limit hits")
	}
}
