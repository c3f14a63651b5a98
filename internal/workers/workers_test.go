// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/mock"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubWorker counts runs and returns err once ctx is done, or immediately
// when failFast is set.
type stubWorker struct {
	runs     atomic.Int32
	err      error
	failFast bool
}

func (s *stubWorker) Run(ctx context.Context) error {
	s.runs.Add(1)
	if s.failFast {
		return s.err
	}
	<-ctx.Done()
	return nil
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &stubWorker{}, &stubWorker{}, &stubWorker{}
	ws := &Workers{workers: []Worker{w1, w2, w3}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, ws.Run(ctx))
	for i, w := range []*stubWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.runs.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_FailureStopsOthers(t *testing.T) {
	failing := &stubWorker{failFast: true, err: assert.AnError}
	waiting := &stubWorker{}
	ws := &Workers{workers: []Worker{waiting, failing}}

	err := ws.Run(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int32(1), waiting.runs.Load())
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}
	assert.NoError(t, ws.Run(context.Background()))
}

func TestNewWorkers(t *testing.T) {
	storages := &store.Storages{RateLimits: store.NewMemoryRateLimitStore(time.Hour)}

	t.Run("janitor enabled", func(t *testing.T) {
		ws := NewWorkers(storages, config.Workers{RateLimitPruneInterval: time.Minute}, logger.Nop())
		require.Len(t, ws.workers, 1)
		assert.IsType(t, &RateLimitJanitor{}, ws.workers[0])
	})

	t.Run("zero interval disables janitor", func(t *testing.T) {
		ws := NewWorkers(storages, config.Workers{}, logger.Nop())
		assert.Empty(t, ws.workers)
	})
}

func TestRateLimitJanitor_Prune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("prunes with current time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		counters := mock.NewMockRateLimitStore(ctrl)
		counters.EXPECT().Prune(gomock.Any(), now).Return(int64(3), nil)

		j := NewRateLimitJanitor(counters, time.Minute, logger.Nop())
		j.now = func() time.Time { return now }
		j.prune(context.Background())
	})

	t.Run("store error is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		counters := mock.NewMockRateLimitStore(ctrl)
		counters.EXPECT().Prune(gomock.Any(), now).Return(int64(0), assert.AnError)

		j := NewRateLimitJanitor(counters, time.Minute, logger.Nop())
		j.now = func() time.Time { return now }
		j.prune(context.Background())
	})
}

func TestRateLimitJanitor_RunTicksUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	counters := mock.NewMockRateLimitStore(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	counters.EXPECT().Prune(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, time.Time) (int64, error) {
		cancel()
		return 0, nil
	}).MinTimes(1)

	j := NewRateLimitJanitor(counters, time.Millisecond, logger.Nop())

	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after cancellation")
	}
}
