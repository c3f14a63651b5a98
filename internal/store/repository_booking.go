// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

type bookingRepository struct {
	*DB
	logger *logger.Logger
}

// NewBookingRepository constructs a [BookingRepository].
func NewBookingRepository(db *DB, logger *logger.Logger) BookingRepository {
	logger.Debug().Msg("creating booking repository")
	return &bookingRepository{
		DB:     db,
		logger: logger,
	}
}

func scanBooking(row sq.RowScanner) (models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TourID,
		&booking.UserID,
		&booking.Price,
		&booking.Paid,
		&booking.CreatedAt,
	)
	return booking, err
}

func (r *bookingRepository) queryOne(ctx context.Context, funcName string, builder sq.Sqlizer, field, value string) (models.Booking, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.Booking{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	booking, err := scanBooking(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, ErrNotFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to query booking")
		return models.Booking{}, classifyPostgresError(err, field, value)
	}

	return booking, nil
}

func (r *bookingRepository) queryMany(ctx context.Context, funcName string, builder sq.Sqlizer, describe string) ([]models.Booking, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute query for listing bookings")
		return nil, classifyPostgresError(fmt.Errorf("%w: %w", ErrExecutingQuery, err), "query", describe)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0, 8)
	for rows.Next() {
		booking, scanErr := scanBooking(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan booking row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return bookings, nil
}

// Create stores booking. An unknown tour or user yields
// [ErrReferenceNotFound].
func (r *bookingRepository) Create(ctx context.Context, booking models.Booking) (models.Booking, error) {
	if err := checkID(booking.TourID); err != nil {
		return models.Booking{}, &CastError{Field: "tour", Value: booking.TourID}
	}
	if err := checkID(booking.UserID); err != nil {
		return models.Booking{}, &CastError{Field: "user", Value: booking.UserID}
	}

	builder := psql.Insert(bookingsTable).
		Columns("id", "tour_id", "user_id", "price", "paid").
		Values(booking.ID, booking.TourID, booking.UserID, booking.Price, booking.Paid).
		Suffix("RETURNING " + joinColumns(bookingColumns))

	return r.queryOne(ctx, "bookingRepository.Create", builder, "id", booking.ID)
}

func (r *bookingRepository) Get(ctx context.Context, id string) (models.Booking, error) {
	if err := checkID(id); err != nil {
		return models.Booking{}, err
	}

	builder := psql.Select(bookingColumns...).From(bookingsTable).Where(sq.Eq{"id": id})
	return r.queryOne(ctx, "bookingRepository.Get", builder, "id", id)
}

func (r *bookingRepository) List(ctx context.Context, features models.QueryFeatures) ([]models.Booking, error) {
	builder := ApplyQueryFeatures(psql.Select(bookingColumns...).From(bookingsTable), features, bookingFilterColumns, "created_at DESC", "id")
	return r.queryMany(ctx, "bookingRepository.List", builder, describeFilters(features))
}

// ListByUser returns every booking of userID, oldest first.
func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if err := checkID(userID); err != nil {
		return nil, err
	}

	builder := psql.Select(bookingColumns...).
		From(bookingsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "id")
	return r.queryMany(ctx, "bookingRepository.ListByUser", builder, "")
}

func (r *bookingRepository) Update(ctx context.Context, id string, update models.BookingUpdate) (models.Booking, error) {
	if err := checkID(id); err != nil {
		return models.Booking{}, err
	}

	set := make(map[string]any, 2)
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Paid != nil {
		set["paid"] = *update.Paid
	}
	if len(set) == 0 {
		return models.Booking{}, ErrNothingToUpdate
	}

	builder := psql.Update(bookingsTable).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(bookingColumns))

	return r.queryOne(ctx, "bookingRepository.Update", builder, "id", id)
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	return execAffectingOne(ctx, r.DB, "bookingRepository.Delete", psql.Delete(bookingsTable).Where(sq.Eq{"id": id}))
}
