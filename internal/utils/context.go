// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, token hashing,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"

	"github.com/MKhiriev/go-tour-booking/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// RequestContextCtxKey is the key under which the pipeline stores the
// per-request [models.RequestContext].
var RequestContextCtxKey = contextKey("requestContext")

// WithRequestContext returns a child context carrying rc.
//
// Stages never mutate the stored value: they read it, derive a new one with
// the models.RequestContext With* methods and store the result again.
func WithRequestContext(ctx context.Context, rc models.RequestContext) context.Context {
	return context.WithValue(ctx, RequestContextCtxKey, rc)
}

// GetRequestContext retrieves the request context stored by the pipeline.
//
// Returns the stored value and an ok flag:
//   - ok == true: value is found and has the correct type
//   - ok == false: value is missing; the zero RequestContext is returned
func GetRequestContext(ctx context.Context) (models.RequestContext, bool) {
	rc, ok := ctx.Value(RequestContextCtxKey).(models.RequestContext)
	return rc, ok
}

// GetPrincipalFromContext returns the authenticated principal, if a guard
// attached one.
func GetPrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	rc, ok := GetRequestContext(ctx)
	if !ok {
		return models.Principal{}, false
	}

	return rc.Principal()
}
