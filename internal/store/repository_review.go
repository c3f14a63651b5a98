package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
	sq "github.com/Masterminds/squirrel"
)

// reviewRepository is the PostgreSQL-backed implementation of
// [ReviewRepository].
//
// Writes run in a transaction together with the recalculation of the
// reviewed tour's ratingsQuantity and ratingsAverage, so the aggregate never
// drifts from the reviews it summarizes.
type reviewRepository struct {
	*DB
	logger *logger.Logger
}

// NewReviewRepository constructs a [ReviewRepository].
func NewReviewRepository(db *DB, logger *logger.Logger) ReviewRepository {
	logger.Debug().Msg("creating review repository")
	return &reviewRepository{
		DB:     db,
		logger: logger,
	}
}

func scanReview(row sq.RowScanner) (models.Review, error) {
	var (
		review   models.Review
		userName sql.NullString
	)

	err := row.Scan(
		&review.ID,
		&review.Review,
		&review.Rating,
		&review.TourID,
		&review.UserID,
		&userName,
		&review.CreatedAt,
	)
	if err != nil {
		return models.Review{}, err
	}
	review.UserName = userName.String

	return review, nil
}

func selectReviews() sq.SelectBuilder {
	return psql.Select(reviewColumns...).
		From(reviewsTable + " r").
		LeftJoin(usersTable + " u ON u.id = r.user_id")
}

// recalculateRatings refreshes the ratings of tourID from its reviews. A
// tour without reviews falls back to the default average.
func recalculateRatings(ctx context.Context, tx execer, tourID string) error {
	builder := psql.Update(toursTable).
		Set("ratings_quantity", sq.Expr("(SELECT count(*) FROM "+reviewsTable+" WHERE tour_id = ?)", tourID)).
		Set("ratings_average", sq.Expr(
			"(SELECT coalesce(round(avg(rating)::numeric, 1), ?) FROM "+reviewsTable+" WHERE tour_id = ?)",
			models.DefaultRatingsAverage, tourID,
		)).
		Where(sq.Eq{"id": tourID})

	err := execAffectingOne(ctx, tx, "recalculateRatings", builder)
	if errors.Is(err, ErrNotFound) {
		// tour already gone, nothing to keep in sync
		return nil
	}

	return err
}

func (r *reviewRepository) queryOne(ctx context.Context, q queryRower, funcName string, builder sq.Sqlizer, field, value string) (models.Review, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.Review{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	review, err := scanReview(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, ErrNotFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to query review")
		return models.Review{}, classifyPostgresError(err, field, value)
	}

	return review, nil
}

// Create stores review and updates the tour's ratings.
//
// Error handling:
//   - a second review of the same tour by the same user → [*DuplicateError]
//   - an unknown tour or user → [ErrReferenceNotFound]
func (r *reviewRepository) Create(ctx context.Context, review models.Review) (models.Review, error) {
	if err := checkID(review.TourID); err != nil {
		return models.Review{}, &CastError{Field: "tour", Value: review.TourID}
	}
	if err := checkID(review.UserID); err != nil {
		return models.Review{}, &CastError{Field: "user", Value: review.UserID}
	}

	var created models.Review
	err := r.inTx(ctx, "reviewRepository.Create", func(tx *sql.Tx) error {
		insert := psql.Insert(reviewsTable).
			Columns("id", "review", "rating", "tour_id", "user_id").
			Values(review.ID, review.Review, review.Rating, review.TourID, review.UserID)

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "reviewRepository.Create").Msg("failed to insert review")
			return classifyPostgresError(fmt.Errorf("%w: %w", ErrExecutingStatement, err), "review", review.TourID)
		}

		if err = recalculateRatings(ctx, tx, review.TourID); err != nil {
			return err
		}

		created, err = r.queryOne(ctx, tx, "reviewRepository.Create", selectReviews().Where(sq.Eq{"r.id": review.ID}), "id", review.ID)
		return err
	})
	if err != nil {
		return models.Review{}, err
	}

	return created, nil
}

func (r *reviewRepository) Get(ctx context.Context, id string) (models.Review, error) {
	if err := checkID(id); err != nil {
		return models.Review{}, err
	}

	return r.queryOne(ctx, r.DB, "reviewRepository.Get", selectReviews().Where(sq.Eq{"r.id": id}), "id", id)
}

// List returns reviews narrowed by features, newest first by default.
func (r *reviewRepository) List(ctx context.Context, features models.QueryFeatures) ([]models.Review, error) {
	log := logger.FromContext(ctx)

	query, args, err := ApplyQueryFeatures(selectReviews(), features, reviewFilterColumns, "r.created_at DESC", "r.id").ToSql()
	if err != nil {
		log.Err(err).Str("func", "reviewRepository.List").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "reviewRepository.List").Msg("failed to execute query for listing reviews")
		return nil, classifyPostgresError(fmt.Errorf("%w: %w", ErrExecutingQuery, err), "query", describeFilters(features))
	}
	defer rows.Close()

	reviews := make([]models.Review, 0, 16)
	for rows.Next() {
		review, scanErr := scanReview(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "reviewRepository.List").Msg("failed to scan review row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "reviewRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return reviews, nil
}

// Update changes the text or rating of a review and refreshes the ratings
// of its tour.
func (r *reviewRepository) Update(ctx context.Context, id string, update models.ReviewUpdate) (models.Review, error) {
	if err := checkID(id); err != nil {
		return models.Review{}, err
	}

	set := make(map[string]any, 2)
	if update.Review != nil {
		set["review"] = *update.Review
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if len(set) == 0 {
		return models.Review{}, ErrNothingToUpdate
	}

	var updated models.Review
	err := r.inTx(ctx, "reviewRepository.Update", func(tx *sql.Tx) error {
		tourID, err := returningTourID(ctx, tx, "reviewRepository.Update",
			psql.Update(reviewsTable).SetMap(set).Where(sq.Eq{"id": id}).Suffix("RETURNING tour_id"))
		if err != nil {
			return err
		}

		if err = recalculateRatings(ctx, tx, tourID); err != nil {
			return err
		}

		updated, err = r.queryOne(ctx, tx, "reviewRepository.Update", selectReviews().Where(sq.Eq{"r.id": id}), "id", id)
		return err
	})
	if err != nil {
		return models.Review{}, err
	}

	return updated, nil
}

// Delete removes a review and refreshes the ratings of its tour.
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	return r.inTx(ctx, "reviewRepository.Delete", func(tx *sql.Tx) error {
		tourID, err := returningTourID(ctx, tx, "reviewRepository.Delete",
			psql.Delete(reviewsTable).Where(sq.Eq{"id": id}).Suffix("RETURNING tour_id"))
		if err != nil {
			return err
		}

		return recalculateRatings(ctx, tx, tourID)
	})
}

func returningTourID(ctx context.Context, tx *sql.Tx, funcName string, builder sq.Sqlizer) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var tourID string
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&tourID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to execute statement")
		return "", classifyPostgresError(fmt.Errorf("%w: %w", ErrExecutingStatement, err), "rating", "")
	}

	return tourID, nil
}
