package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
	sq "github.com/Masterminds/squirrel"
)

// postgresRateLimitStore shares the hit log between every instance
// connected to the same database.
type postgresRateLimitStore struct {
	*DB
	window time.Duration
	logger *logger.Logger
}

// NewPostgresRateLimitStore constructs a database-backed [RateLimitStore]
// counting over window.
func NewPostgresRateLimitStore(db *DB, window time.Duration, logger *logger.Logger) RateLimitStore {
	logger.Debug().Msg("creating postgres rate limit store")
	return &postgresRateLimitStore{
		DB:     db,
		window: window,
		logger: logger,
	}
}

func (s *postgresRateLimitStore) Hit(ctx context.Context, key string, at time.Time, n int) error {
	query, args, err := psql.Insert(rateLimitHitsTable).
		Columns("key", "hit_at", "hits").
		Values(key, at, n).
		ToSql()
	if err != nil {
		s.logger.Err(err).Str("func", "postgresRateLimitStore.Hit").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "postgresRateLimitStore.Hit").Msg("failed to record hit")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *postgresRateLimitStore) Count(ctx context.Context, key string, now time.Time) (int, error) {
	query, args, err := psql.Select("COALESCE(SUM(hits), 0)").
		From(rateLimitHitsTable).
		Where(sq.Eq{"key": key}).
		Where(sq.Gt{"hit_at": now.Add(-s.window)}).
		ToSql()
	if err != nil {
		s.logger.Err(err).Str("func", "postgresRateLimitStore.Count").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var hits int
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&hits); err != nil {
		s.logger.Err(err).Str("func", "postgresRateLimitStore.Count").Msg("failed to count hits")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return hits, nil
}

func (s *postgresRateLimitStore) Prune(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Delete(rateLimitHitsTable).Where(sq.LtOrEq{"hit_at": now.Add(-s.window)}).ToSql()
	if err != nil {
		log.Err(err).Str("func", "postgresRateLimitStore.Prune").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "postgresRateLimitStore.Prune").Msg("failed to prune hits")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return removed, nil
}
