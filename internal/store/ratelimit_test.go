// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimitStore_Count(t *testing.T) {
	s := NewMemoryRateLimitStore(time.Hour)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Hit(ctx, "10.0.0.1", now, 1))
	}
	require.NoError(t, s.Hit(ctx, "10.0.0.1", now, 2))
	require.NoError(t, s.Hit(ctx, "10.0.0.2", now, 1))

	hits, err := s.Count(ctx, "10.0.0.1", now)
	require.NoError(t, err)
	assert.Equal(t, 5, hits)

	hits, err = s.Count(ctx, "10.0.0.2", now)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)

	hits, err = s.Count(ctx, "10.0.0.3", now)
	require.NoError(t, err)
	assert.Zero(t, hits)
}

// Hits are counted over the trailing window, whatever hour boundary lies
// between them.
func TestMemoryRateLimitStore_RollingWindow(t *testing.T) {
	s := NewMemoryRateLimitStore(time.Hour)
	ctx := context.Background()
	first := time.Date(2026, 1, 1, 10, 59, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Hit(ctx, "10.0.0.1", first, 1))
	}

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{name: "just after the hour", at: time.Date(2026, 1, 1, 11, 1, 0, 0, time.UTC), want: 100},
		{name: "one second before expiry", at: first.Add(time.Hour - time.Second), want: 100},
		{name: "exactly one window later", at: first.Add(time.Hour), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Count(ctx, "10.0.0.1", tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hits)
		})
	}
}

func TestMemoryRateLimitStore_Concurrent(t *testing.T) {
	s := NewMemoryRateLimitStore(time.Hour)
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Hit(ctx, "10.0.0.1", now, 1)
			_, _ = s.Count(ctx, "10.0.0.1", now)
		}()
	}
	wg.Wait()

	hits, err := s.Count(ctx, "10.0.0.1", now)
	require.NoError(t, err)
	assert.Equal(t, 50, hits)
}

func TestMemoryRateLimitStore_Prune(t *testing.T) {
	s := NewMemoryRateLimitStore(time.Hour)
	now := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, s.Hit(ctx, "old", now.Add(-2*time.Hour), 1))
	require.NoError(t, s.Hit(ctx, "mixed", now.Add(-90*time.Minute), 1))
	require.NoError(t, s.Hit(ctx, "mixed", now.Add(-time.Minute), 1))
	require.NoError(t, s.Hit(ctx, "fresh", now, 1))

	removed, err := s.Prune(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)
	assert.Len(t, s.hits, 2)
	assert.NotContains(t, s.hits, "old")
	assert.Len(t, s.hits["mixed"], 1)
}

func TestPostgresRateLimitStore_Hit(t *testing.T) {
	db, mock := newTestDB(t)
	s := &postgresRateLimitStore{DB: db, window: time.Hour, logger: db.logger}
	at := time.Date(2026, 1, 1, 10, 15, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO rate_limit_hits \\(key,hit_at,hits\\) VALUES \\(\\$1,\\$2,\\$3\\)").
		WithArgs("10.0.0.1", at, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Hit(context.Background(), "10.0.0.1", at, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRateLimitStore_HitError(t *testing.T) {
	db, mock := newTestDB(t)
	s := &postgresRateLimitStore{DB: db, window: time.Hour, logger: db.logger}
	mock.ExpectExec("INSERT INTO rate_limit_hits").WillReturnError(errors.New("connection refused"))

	err := s.Hit(context.Background(), "10.0.0.1", time.Now(), 1)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestPostgresRateLimitStore_Count(t *testing.T) {
	db, mock := newTestDB(t)
	s := &postgresRateLimitStore{DB: db, window: time.Hour, logger: db.logger}
	now := time.Date(2026, 1, 1, 11, 1, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(hits\\), 0\\) FROM rate_limit_hits WHERE key = \\$1 AND hit_at > \\$2").
		WithArgs("10.0.0.1", now.Add(-time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(100))

	hits, err := s.Count(context.Background(), "10.0.0.1", now)
	require.NoError(t, err)
	assert.Equal(t, 100, hits)
}

func TestPostgresRateLimitStore_CountError(t *testing.T) {
	db, mock := newTestDB(t)
	s := &postgresRateLimitStore{DB: db, window: time.Hour, logger: db.logger}
	mock.ExpectQuery("SELECT COALESCE").WillReturnError(errors.New("connection refused"))

	_, err := s.Count(context.Background(), "10.0.0.1", time.Now())
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestPostgresRateLimitStore_Prune(t *testing.T) {
	db, mock := newTestDB(t)
	s := &postgresRateLimitStore{DB: db, window: time.Hour, logger: db.logger}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM rate_limit_hits WHERE hit_at <= \\$1").
		WithArgs(now.Add(-time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := s.Prune(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)
}
