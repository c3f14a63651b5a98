// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Booking is a paid reservation of a tour by a user.
type Booking struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tour"`
	UserID    string    `json:"user"`
	Price     float64   `json:"price"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingInput is the payload used by administrators to create a booking.
type BookingInput struct {
	TourID string  `json:"tour" validate:"required,uuid"`
	UserID string  `json:"user" validate:"required,uuid"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	Paid   *bool   `json:"paid,omitempty"`
}

// BookingUpdate is a partial update of a booking.
type BookingUpdate struct {
	Price *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Paid  *bool    `json:"paid,omitempty"`
}

// CheckoutRequest describes a payment-provider checkout for one tour.
type CheckoutRequest struct {
	Tour          Tour
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	ImageURL      string
}

// CheckoutSession is the provider-side checkout created for a tour.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutCompleted is the normalized payload of a successful checkout
// delivered through the payment webhook.
type CheckoutCompleted struct {
	TourID        string
	CustomerEmail string
	Price         float64
}
