// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package apperror defines the operational error taxonomy of the API.
//
// An [OperationalError] is an anticipated failure that is safe to describe to
// the caller: bad input, authentication and authorization failures, missing
// resources, rate limiting. Every other error reaching the HTTP error handler
// is treated as a programmer or infrastructure fault and is never described
// to clients in production.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Status classes carried in every error response.
const (
	StatusFail  = "fail"
	StatusError = "error"
)

// OperationalError is an error constructed by this taxonomy. It is created at
// the point a precondition fails and is never mutated afterwards.
type OperationalError struct {
	message    string
	statusCode int
	status     string
	cause      error
	stack      string
}

// callerSkip makes [Stack] start at the caller of an exported constructor.
const callerSkip = 4

// New returns an operational error with the given HTTP status code.
func New(statusCode int, message string) *OperationalError {
	return newError(callerSkip, statusCode, message, nil)
}

// Newf is like [New] but formats the message.
func Newf(statusCode int, format string, args ...any) *OperationalError {
	return newError(callerSkip, statusCode, fmt.Sprintf(format, args...), nil)
}

// Wrap returns an operational error that keeps cause reachable through
// [errors.Unwrap]. It is used when a backend error is translated.
func Wrap(cause error, statusCode int, message string) *OperationalError {
	return newError(callerSkip, statusCode, message, cause)
}

// BadRequest returns a 400 operational error.
func BadRequest(message string) *OperationalError {
	return newError(callerSkip, http.StatusBadRequest, message, nil)
}

// Unauthenticated returns a 401 operational error.
func Unauthenticated(message string) *OperationalError {
	return newError(callerSkip, http.StatusUnauthorized, message, nil)
}

// Forbidden returns a 403 operational error.
func Forbidden(message string) *OperationalError {
	return newError(callerSkip, http.StatusForbidden, message, nil)
}

// NotFound returns a 404 operational error.
func NotFound(message string) *OperationalError {
	return newError(callerSkip, http.StatusNotFound, message, nil)
}

// TooManyRequests returns a 429 operational error.
func TooManyRequests(message string) *OperationalError {
	return newError(callerSkip, http.StatusTooManyRequests, message, nil)
}

// Internal returns a 500 operational error. Its message is shown to
// clients, so it must not describe internals.
func Internal(message string) *OperationalError {
	return newError(callerSkip, http.StatusInternalServerError, message, nil)
}

func newError(skip, statusCode int, message string, cause error) *OperationalError {
	return &OperationalError{
		message:    message,
		statusCode: statusCode,
		status:     StatusClass(statusCode),
		cause:      cause,
		stack:      Stack(skip),
	}
}

// Error implements error.
func (e *OperationalError) Error() string {
	return e.message
}

// Unwrap returns the translated backend error, if any.
func (e *OperationalError) Unwrap() error {
	return e.cause
}

// Message is the client-facing message.
func (e *OperationalError) Message() string {
	return e.message
}

// StatusCode is the HTTP status code of the response.
func (e *OperationalError) StatusCode() int {
	return e.statusCode
}

// Status is "fail" for 4xx codes and "error" otherwise.
func (e *OperationalError) Status() string {
	return e.status
}

// IsOperational is always true for errors of this type.
func (e *OperationalError) IsOperational() bool {
	return true
}

// StackTrace is the call stack captured at construction.
func (e *OperationalError) StackTrace() string {
	return e.stack
}

// As finds the first [OperationalError] in err's chain.
func As(err error) (*OperationalError, bool) {
	var opErr *OperationalError
	if errors.As(err, &opErr) {
		return opErr, true
	}

	return nil, false
}

// StatusClass maps an HTTP status code to its status class.
func StatusClass(statusCode int) string {
	if statusCode >= 400 && statusCode < 500 {
		return StatusFail
	}

	return StatusError
}

// Stack formats the current goroutine's call stack, skipping the given
// number of frames (0 is runtime.Callers itself).
func Stack(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return b.String()
}
