// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/go-chi/httprate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
	headerRetryAfter         = "Retry-After"

	// counterTimeout bounds one store call; httprate gives the counter no
	// request context.
	counterTimeout = 2 * time.Second
)

var errRateLimitUnavailable = errors.New("rate limit counter unavailable")

// rollingCounter backs httprate with a [store.RateLimitStore]. The store
// counts the hits of the trailing window, so Get reports that count as the
// current window and zero for the previous one. httprate's weighted estimate
// then equals the exact rolling count.
type rollingCounter struct {
	hits store.RateLimitStore
	now  func() time.Time
}

func (c *rollingCounter) Config(int, time.Duration) {}

func (c *rollingCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *rollingCounter) IncrementBy(key string, _ time.Time, amount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
	defer cancel()

	return c.hits.Hit(ctx, key, c.now(), amount)
}

func (c *rollingCounter) Get(key string, _, _ time.Time) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
	defer cancel()

	hits, err := c.hits.Count(ctx, key, c.now())
	return hits, 0, err
}

// rateLimitStage limits requests under prefix per client address. The
// request after the max-th within one rolling window fails with 429.
type rateLimitStage struct {
	limiter *httprate.RateLimiter
	prefix  string
}

func newRateLimitStage(hits store.RateLimitStore, cfg config.RateLimit, now func() time.Time) *rateLimitStage {
	limiter := httprate.NewRateLimiter(cfg.Max, cfg.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return clientAddress(r), nil
		}),
		httprate.WithLimitCounter(&rollingCounter{hits: hits, now: now}),
		httprate.WithResponseHeaders(httprate.ResponseHeaders{
			Limit:      headerRateLimitLimit,
			Remaining:  headerRateLimitRemaining,
			Reset:      headerRateLimitReset,
			RetryAfter: headerRetryAfter,
		}),
		httprate.WithLimitHandler(func(_ http.ResponseWriter, r *http.Request) {
			failRequest(r, apperror.TooManyRequests(app.MsgTooManyRequests))
		}),
		httprate.WithErrorHandler(func(_ http.ResponseWriter, r *http.Request, err error) {
			logger.FromRequest(r).Err(err).Str("func", "rateLimitStage.Process").Msg("rate limit counter unavailable")
			failRequest(r, errRateLimitUnavailable)
		}),
	)

	return &rateLimitStage{
		limiter: limiter,
		prefix:  strings.TrimSuffix(cfg.PathPrefix, "/"),
	}
}

func (s *rateLimitStage) Process(x *Exchange) Outcome {
	if !hasPathPrefix(x.Request.URL.Path, s.prefix) {
		return Continue()
	}

	passed := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		x.Writer = w
		x.Request = r
	})

	x.err = nil
	s.limiter.Handler(next).ServeHTTP(x.Writer, x.Request)
	err := x.err
	x.err = nil

	switch {
	case passed:
		return Continue()
	case errors.Is(err, errRateLimitUnavailable):
		// Fail open: requests pass while the store is down.
		return Continue()
	case err != nil:
		return Fail(err)
	}

	return Respond()
}

// hasPathPrefix matches whole path segments: "/api" covers "/api" and
// "/api/v1" but not "/apidocs".
func hasPathPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// clientAddress is the host part of the remote address. A proxy-supplied
// address has already been applied to RemoteAddr by then.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
