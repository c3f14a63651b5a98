package service

import "errors"

// Credential failures. The HTTP error normalizer translates both into 401
// responses with distinct messages.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token is expired")
)

var (
	ErrTokenCreationFailed = errors.New("token creation failed")
	ErrPasswordHashing     = errors.New("password hashing failed")
	ErrComposingEmail      = errors.New("error composing email")
)
