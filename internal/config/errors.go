package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrUnknownRunMode indicates a run mode other than development or production.
	ErrUnknownRunMode = errors.New("unknown run mode")
	// ErrInvalidAuthConfigs indicates a missing JWT secret or a non-positive
	// token or cookie lifetime.
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidStorageConfigs indicates an empty DSN or a DSN whose password
	// placeholder was never substituted.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidRateLimitConfigs indicates a non-positive ceiling or window,
	// or an unknown counter backend.
	ErrInvalidRateLimitConfigs = errors.New("invalid rate limit configuration")
	// ErrInvalidMailConfigs indicates an unknown mail transport.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
)
