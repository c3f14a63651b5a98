package adapter

import "errors"

var (
	// ErrUnknownTransport is returned by NewMailer for an unsupported
	// mail transport name.
	ErrUnknownTransport = errors.New("unknown mail transport")

	// ErrMailDelivery wraps every failure to hand an email over to its
	// transport.
	ErrMailDelivery = errors.New("mail delivery failed")

	// ErrPaymentProvider wraps errors reported by the payment provider.
	ErrPaymentProvider = errors.New("payment provider error")

	// ErrInvalidSignature is returned when a webhook payload does not match
	// its signature header.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrIgnoredEvent is returned for well-formed webhook events the service
	// does not act upon.
	ErrIgnoredEvent = errors.New("ignored webhook event")
)

// HTTP API errors, mapped from response status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("remote server error")
)
