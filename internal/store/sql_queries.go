// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"

	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	sq "github.com/Masterminds/squirrel"
)

// Table names.
const (
	usersTable         = "users"
	toursTable         = "tours"
	reviewsTable       = "reviews"
	bookingsTable      = "bookings"
	rateLimitHitsTable = "rate_limit_hits"
)

// Column lists in scan order.
var (
	userColumns = []string{
		"id", "name", "email", "photo", "role", "password_hash",
		"password_changed_at", "password_reset_token", "password_reset_expires",
		"active", "created_at",
	}

	tourColumns = []string{
		"id", "name", "slug", "duration", "max_group_size", "difficulty",
		"ratings_average", "ratings_quantity", "price", "price_discount",
		"summary", "description", "image_cover", "images", "start_dates",
		"secret_tour", "start_location_lat", "start_location_lng",
		"start_location_address", "start_location_description", "created_at",
	}

	reviewColumns = []string{
		"r.id", "r.review", "r.rating", "r.tour_id", "r.user_id", "u.name", "r.created_at",
	}

	bookingColumns = []string{
		"id", "tour_id", "user_id", "price", "paid", "created_at",
	}
)

// Query-string field name to column, per resource. Fields missing here
// cannot be filtered or sorted on.
var (
	userFilterColumns = map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
	}

	tourFilterColumns = map[string]string{
		"id":              "id",
		"name":            "name",
		"slug":            "slug",
		"duration":        "duration",
		"maxGroupSize":    "max_group_size",
		"difficulty":      "difficulty",
		"ratingsAverage":  "ratings_average",
		"ratingsQuantity": "ratings_quantity",
		"price":           "price",
		"priceDiscount":   "price_discount",
		"createdAt":       "created_at",
	}

	reviewFilterColumns = map[string]string{
		"id":        "r.id",
		"review":    "r.review",
		"rating":    "r.rating",
		"tour":      "r.tour_id",
		"user":      "r.user_id",
		"createdAt": "r.created_at",
	}

	bookingFilterColumns = map[string]string{
		"id":        "id",
		"tour":      "tour_id",
		"user":      "user_id",
		"price":     "price",
		"paid":      "paid",
		"createdAt": "created_at",
	}
)

// haversineMeters is the great-circle distance in meters between a tour's
// start location and the point bound to its three placeholders (lat, lat, lng).
const haversineMeters = `(2 * 6378100 * asin(sqrt(
	power(sin(radians(start_location_lat - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(start_location_lat)) *
	power(sin(radians(start_location_lng - ?) / 2), 2))))`

// ApplyQueryFeatures narrows builder with the filters, sort order and
// pagination of features. columns whitelists the query-string fields;
// unknown fields are ignored. defaultSort is used when no valid sort key is
// given. Rows are always tie-broken by idColumn so that equal queries return
// equal pages.
func ApplyQueryFeatures(builder sq.SelectBuilder, features models.QueryFeatures, columns map[string]string, defaultSort, idColumn string) sq.SelectBuilder {
	for _, f := range features.Filters {
		col, ok := columns[f.Field]
		if !ok || len(f.Values) == 0 {
			continue
		}

		value := f.Values[len(f.Values)-1]
		switch f.Op {
		case models.OpGt:
			builder = builder.Where(sq.Gt{col: value})
		case models.OpGte:
			builder = builder.Where(sq.GtOrEq{col: value})
		case models.OpLt:
			builder = builder.Where(sq.Lt{col: value})
		case models.OpLte:
			builder = builder.Where(sq.LtOrEq{col: value})
		default:
			if len(f.Values) > 1 {
				builder = builder.Where(sq.Eq{col: f.Values})
			} else {
				builder = builder.Where(sq.Eq{col: value})
			}
		}
	}

	orderBy := make([]string, 0, len(features.Sort)+1)
	for _, key := range features.Sort {
		dir := "ASC"
		if strings.HasPrefix(key, "-") {
			dir = "DESC"
			key = key[1:]
		}
		if col, ok := columns[key]; ok {
			orderBy = append(orderBy, col+" "+dir)
		}
	}
	if len(orderBy) == 0 {
		orderBy = append(orderBy, defaultSort)
	}
	orderBy = append(orderBy, idColumn)

	builder = builder.OrderBy(orderBy...)

	page, limit := features.Page, features.Limit
	if page < 1 {
		page = models.DefaultPage
	}
	if limit < 1 {
		limit = models.DefaultLimit
	}

	return builder.
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))
}

// describeFilters renders the filters of features as they appeared in the
// query string. Used to name the offending input when a filter value cannot
// be cast.
func describeFilters(features models.QueryFeatures) string {
	parts := make([]string, 0, len(features.Filters))
	for _, f := range features.Filters {
		key := f.Field
		if f.Op != models.OpEq {
			key += "[" + string(f.Op) + "]"
		}
		parts = append(parts, key+"="+strings.Join(f.Values, ","))
	}

	return strings.Join(parts, "&")
}

// checkID rejects identifiers that are not UUIDs before they reach the
// database.
func checkID(id string) error {
	if !utils.IsValidUUID(id) {
		return &CastError{Field: "id", Value: id}
	}
	return nil
}
