package store

import (
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueDetail matches the DETAIL of a unique_violation, e.g.
// `Key (email)=(jonas@example.com) already exists.`
var uniqueDetail = regexp.MustCompile(`^Key \((.+?)\)=\((.*)\) already exists\.?$`)

// postgresError returns the SQLSTATE code of err, or "" when err does not
// come from the server.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// classifyPostgresError maps driver errors onto the typed store errors.
// field and value describe the input being written or looked up and are used
// when the server does not name them itself.
//
//   - 23505 unique_violation         → *DuplicateError
//   - 22P02 invalid_text_representation,
//     22007 invalid_datetime_format  → *CastError
//   - 23503 foreign_key_violation    → ErrReferenceNotFound
//
// Any other error is returned unchanged.
func classifyPostgresError(err error, field, value string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if m := uniqueDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			return &DuplicateError{Field: m[1], Value: m[2]}
		}
		return &DuplicateError{Field: field, Value: value}
	case pgerrcode.InvalidTextRepresentation, pgerrcode.InvalidDatetimeFormat:
		return &CastError{Field: field, Value: value}
	case pgerrcode.ForeignKeyViolation:
		return ErrReferenceNotFound
	}

	return err
}
