package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPostgresError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unique violation with detail",
			err:  pgError(pgerrcode.UniqueViolation, "Key (email)=(jonas@example.com) already exists."),
			want: &DuplicateError{Field: "email", Value: "jonas@example.com"},
		},
		{
			name: "unique violation without detail",
			err:  pgError(pgerrcode.UniqueViolation, ""),
			want: &DuplicateError{Field: "name", Value: "The Forest Hiker"},
		},
		{
			name: "wrapped invalid text",
			err:  fmt.Errorf("%w: %w", ErrExecutingQuery, pgError(pgerrcode.InvalidTextRepresentation, "")),
			want: &CastError{Field: "name", Value: "The Forest Hiker"},
		},
		{
			name: "invalid datetime",
			err:  pgError(pgerrcode.InvalidDatetimeFormat, ""),
			want: &CastError{Field: "name", Value: "The Forest Hiker"},
		},
		{
			name: "foreign key",
			err:  pgError(pgerrcode.ForeignKeyViolation, ""),
			want: ErrReferenceNotFound,
		},
		{
			name: "other server error",
			err:  pgError(pgerrcode.DeadlockDetected, ""),
			want: pgError(pgerrcode.DeadlockDetected, ""),
		},
		{
			name: "not a server error",
			err:  plain,
			want: plain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPostgresError(tt.err, "name", "The Forest Hiker"))
		})
	}
}

func TestPostgresError(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, postgresError(fmt.Errorf("wrapped: %w", pgError(pgerrcode.UniqueViolation, ""))))
	assert.Empty(t, postgresError(errors.New("boom")))
}
