// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Review is a user's rating of a tour. A user may review a tour only once.
type Review struct {
	ID        string    `json:"id"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	TourID    string    `json:"tour"`
	UserID    string    `json:"user"`
	UserName  string    `json:"userName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewInput is the payload used to create a review. TourID and UserID
// default to the nested route parameter and the caller.
type ReviewInput struct {
	Review string `json:"review" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	TourID string `json:"tour" validate:"required,uuid"`
	UserID string `json:"user" validate:"required,uuid"`
}

// ReviewUpdate is a partial update of a review.
type ReviewUpdate struct {
	Review *string `json:"review,omitempty" validate:"omitempty,min=1"`
	Rating *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}
