package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID    = "0190a6e4-7c1a-7b7e-8a55-2f3c7f1e9d11"
	testTourID    = "0190a6e4-7c1a-7b7e-8a55-2f3c7f1e9d10"
	testReviewID  = "0190a6e4-7c1a-7b7e-8a55-2f3c7f1e9d12"
	testBookingID = "0190a6e4-7c1a-7b7e-8a55-2f3c7f1e9d13"
	testPassword  = "pass1234"
	testBaseURL   = "https://natours.example"
)

var (
	errStorage = errors.New("storage error")

	testPasswordHash = sync.OnceValue(func() string {
		hash, err := utils.HashPassword(testPassword)
		if err != nil {
			panic(err)
		}
		return hash
	})
)

// fixedIDs returns the same id on every call.
type fixedIDs string

func (f fixedIDs) Generate() string {
	return string(f)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// requireOperational asserts that err carries an operational error with the
// given status code and message.
func requireOperational(t *testing.T, err error, statusCode int, message string) {
	t.Helper()

	opErr, ok := apperror.As(err)
	require.True(t, ok, "expected an operational error, got %v", err)
	assert.Equal(t, statusCode, opErr.StatusCode())
	assert.Equal(t, message, opErr.Message())
}
