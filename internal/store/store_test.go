package store

import (
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

const (
	testUserID   = "018f3c2a-7b1e-7c4d-9a2b-3c4d5e6f7a8b"
	testTourID   = "018f3c2a-7b1e-7c4d-9a2b-3c4d5e6f7a8c"
	testReviewID = "018f3c2a-7b1e-7c4d-9a2b-3c4d5e6f7a8d"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &DB{DB: db, logger: logger.Nop()}, mock
}

func pgError(code, detail string) error {
	return &pgconn.PgError{Code: code, Detail: detail}
}

// nullable turns an optional column value into what the driver would yield.
func nullable[T any](v *T) driver.Value {
	if v == nil {
		return nil
	}
	return *v
}
