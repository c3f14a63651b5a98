// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound integrations of the tour-booking
// service: transactional mail and card payments.
//
// [Mailer] hides the mail transport. Three implementations ship with the
// package: plain SMTP for development ([NewSMTPMailer]), the SendGrid HTTP
// API for production ([NewSendGridMailer]) and a RabbitMQ job queue consumed
// by a separate delivery worker ([NewQueueMailer]). [NewMailer] picks one
// from configuration.
//
// [PaymentGateway] hides the payment provider. The Stripe implementation
// creates hosted checkout sessions and verifies webhook signatures over the
// raw request body.
//
// Error values defined in errors.go let callers stay provider-agnostic with
// [errors.Is] (e.g. [ErrInvalidSignature] for a forged webhook).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-tour-booking/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Mailer delivers one composed email.
type Mailer interface {
	Send(ctx context.Context, email models.Email) error
}

// PaymentGateway talks to the card payment provider.
type PaymentGateway interface {
	// CreateCheckoutSession opens a hosted checkout page for one tour.
	CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error)

	// ParseWebhook verifies signature over the exact bytes of payload and
	// extracts a completed checkout. Events of any other type yield
	// [ErrIgnoredEvent].
	ParseWebhook(payload []byte, signature string) (models.CheckoutCompleted, error)
}
