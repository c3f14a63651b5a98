// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the guards when reading the "Authorization"
// header. Callers can match against them with [errors.Is].
var (
	// ErrInvalidAuthorizationHeader is returned when the header is present
	// but does not use the Bearer scheme.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the Bearer scheme carries no token.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
