// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBookingID = "018f3c2a-7b1e-7c4d-9a2b-3c4d5e6f7a8e"

func newTestBookingRepo(t *testing.T) (*bookingRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &bookingRepository{DB: db, logger: db.logger}, mock
}

func sampleBooking() models.Booking {
	return models.Booking{
		ID:        testBookingID,
		TourID:    testTourID,
		UserID:    testUserID,
		Price:     497,
		Paid:      true,
		CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func bookingRows(bookings ...models.Booking) *sqlmock.Rows {
	rows := sqlmock.NewRows(bookingColumns)
	for _, b := range bookings {
		rows.AddRow(b.ID, b.TourID, b.UserID, b.Price, b.Paid, b.CreatedAt)
	}
	return rows
}

func TestBookingRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newTestBookingRepo(t)
		booking := sampleBooking()

		mock.ExpectQuery("INSERT INTO bookings \\(id,tour_id,user_id,price,paid\\) VALUES \\(\\$1,\\$2,\\$3,\\$4,\\$5\\) RETURNING").
			WithArgs(booking.ID, booking.TourID, booking.UserID, booking.Price, booking.Paid).
			WillReturnRows(bookingRows(booking))

		created, err := repo.Create(context.Background(), booking)
		require.NoError(t, err)
		assert.Equal(t, booking, created)
	})

	t.Run("unknown tour", func(t *testing.T) {
		repo, mock := newTestBookingRepo(t)
		mock.ExpectQuery("INSERT INTO bookings").WillReturnError(pgError(pgerrcode.ForeignKeyViolation, ""))

		_, err := repo.Create(context.Background(), sampleBooking())
		assert.ErrorIs(t, err, ErrReferenceNotFound)
	})

	t.Run("malformed user id", func(t *testing.T) {
		repo, _ := newTestBookingRepo(t)
		booking := sampleBooking()
		booking.UserID = "nobody"

		_, err := repo.Create(context.Background(), booking)

		var castErr *CastError
		require.True(t, errors.As(err, &castErr))
		assert.Equal(t, "user", castErr.Field)
	})
}

func TestBookingRepository_ListByUser(t *testing.T) {
	repo, mock := newTestBookingRepo(t)
	mock.ExpectQuery("SELECT .+ FROM bookings WHERE user_id = \\$1 ORDER BY created_at, id").
		WithArgs(testUserID).
		WillReturnRows(bookingRows(sampleBooking()))

	bookings, err := repo.ListByUser(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, []models.Booking{sampleBooking()}, bookings)
}

func TestBookingRepository_Update(t *testing.T) {
	t.Run("nothing to update", func(t *testing.T) {
		repo, _ := newTestBookingRepo(t)
		_, err := repo.Update(context.Background(), testBookingID, models.BookingUpdate{})
		assert.ErrorIs(t, err, ErrNothingToUpdate)
	})

	t.Run("paid", func(t *testing.T) {
		repo, mock := newTestBookingRepo(t)
		paid := false
		booking := sampleBooking()
		booking.Paid = paid

		mock.ExpectQuery("UPDATE bookings SET paid = \\$1 WHERE id = \\$2").
			WithArgs(paid, testBookingID).
			WillReturnRows(bookingRows(booking))

		updated, err := repo.Update(context.Background(), testBookingID, models.BookingUpdate{Paid: &paid})
		require.NoError(t, err)
		assert.False(t, updated.Paid)
	})
}

func TestBookingRepository_Get_NotFound(t *testing.T) {
	repo, mock := newTestBookingRepo(t)
	mock.ExpectQuery("SELECT .+ FROM bookings WHERE id = \\$1").WillReturnRows(bookingRows())

	_, err := repo.Get(context.Background(), testBookingID)
	assert.ErrorIs(t, err, ErrNotFound)
}
