// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// Difficulty levels accepted for a tour.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// DefaultRatingsAverage is assigned to tours without reviews.
const DefaultRatingsAverage = 4.5

// Location is a geographic point with a human-readable address.
type Location struct {
	Lat         float64 `json:"lat" validate:"min=-90,max=90"`
	Lng         float64 `json:"lng" validate:"min=-180,max=180"`
	Address     string  `json:"address,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Tour is a bookable trip.
type Tour struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Duration        int         `json:"duration"`
	MaxGroupSize    int         `json:"maxGroupSize"`
	Difficulty      string      `json:"difficulty"`
	RatingsAverage  float64     `json:"ratingsAverage"`
	RatingsQuantity int         `json:"ratingsQuantity"`
	Price           float64     `json:"price"`
	PriceDiscount   *float64    `json:"priceDiscount,omitempty"`
	Summary         string      `json:"summary"`
	Description     string      `json:"description,omitempty"`
	ImageCover      string      `json:"imageCover"`
	Images          []string    `json:"images"`
	StartDates      []time.Time `json:"startDates"`
	SecretTour      bool        `json:"-"`
	StartLocation   Location    `json:"startLocation"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// DurationWeeks is the tour duration expressed in weeks.
func (t Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// TourInput is the payload used to create a tour.
type TourInput struct {
	Name          string      `json:"name" validate:"required,min=10,max=40"`
	Duration      int         `json:"duration" validate:"required,gt=0"`
	MaxGroupSize  int         `json:"maxGroupSize" validate:"required,gt=0"`
	Difficulty    string      `json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price         float64     `json:"price" validate:"required,gt=0"`
	PriceDiscount *float64    `json:"priceDiscount,omitempty" validate:"omitempty,ltfield=Price"`
	Summary       string      `json:"summary" validate:"required"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"imageCover" validate:"required"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"startDates"`
	SecretTour    bool        `json:"secretTour"`
	StartLocation Location    `json:"startLocation"`
}

// Tour converts the input into a tour with defaults applied.
func (in TourInput) Tour() Tour {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	dates := in.StartDates
	if dates == nil {
		dates = []time.Time{}
	}

	return Tour{
		Name:           in.Name,
		Slug:           Slugify(in.Name),
		Duration:       in.Duration,
		MaxGroupSize:   in.MaxGroupSize,
		Difficulty:     in.Difficulty,
		RatingsAverage: DefaultRatingsAverage,
		Price:          in.Price,
		PriceDiscount:  in.PriceDiscount,
		Summary:        strings.TrimSpace(in.Summary),
		Description:    strings.TrimSpace(in.Description),
		ImageCover:     in.ImageCover,
		Images:         images,
		StartDates:     dates,
		SecretTour:     in.SecretTour,
		StartLocation:  in.StartLocation,
	}
}

// TourUpdate is a partial update of a tour. Nil fields are left untouched.
type TourUpdate struct {
	Name          *string      `json:"name,omitempty" validate:"omitempty,min=10,max=40"`
	Duration      *int         `json:"duration,omitempty" validate:"omitempty,gt=0"`
	MaxGroupSize  *int         `json:"maxGroupSize,omitempty" validate:"omitempty,gt=0"`
	Difficulty    *string      `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64     `json:"price,omitempty" validate:"omitempty,gt=0"`
	PriceDiscount *float64     `json:"priceDiscount,omitempty" validate:"omitempty,gte=0"`
	Summary       *string      `json:"summary,omitempty"`
	Description   *string      `json:"description,omitempty"`
	ImageCover    *string      `json:"imageCover,omitempty"`
	Images        []string     `json:"images,omitempty"`
	StartDates    []time.Time  `json:"startDates,omitempty"`
	SecretTour    *bool        `json:"secretTour,omitempty"`
	StartLocation *Location    `json:"startLocation,omitempty"`
}

// TourStats is one row of the tour statistics report, grouped by difficulty.
type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// MonthlyPlan lists the tours starting in one month of a year.
type MonthlyPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"numTourStarts"`
	Tours         []string `json:"tours"`
}

// TourDistance is the distance from a reference point to a tour start.
type TourDistance struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// Slugify converts a name into a lower-case, dash separated URL slug.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
