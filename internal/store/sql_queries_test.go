// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"testing"

	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyQueryFeatures(t *testing.T) {
	features := models.QueryFeatures{
		Filters: []models.Filter{
			{Field: "duration", Op: models.OpGte, Values: []string{"5"}},
			{Field: "difficulty", Op: models.OpEq, Values: []string{"easy", "medium"}},
			{Field: "secretTour", Op: models.OpEq, Values: []string{"true"}},
			{Field: "price", Op: models.OpLt, Values: []string{"1500"}},
		},
		Sort:  []string{"-price", "bogus", "ratingsAverage"},
		Page:  2,
		Limit: 10,
	}

	query, args, err := ApplyQueryFeatures(psql.Select("id").From(toursTable), features, tourFilterColumns, "created_at DESC", "id").ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE duration >= $1 AND difficulty IN ($2,$3) AND price < $4")
	assert.Contains(t, query, "ORDER BY price DESC, ratings_average ASC, id")
	assert.Contains(t, query, "LIMIT 10 OFFSET 10")
	assert.NotContains(t, query, "secret")
	assert.Equal(t, []any{"5", "easy", "medium", "1500"}, args)
}

func TestApplyQueryFeatures_Defaults(t *testing.T) {
	query, args, err := ApplyQueryFeatures(psql.Select("id").From(toursTable), models.QueryFeatures{}, tourFilterColumns, "created_at DESC", "id").ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "ORDER BY created_at DESC, id")
	assert.Contains(t, query, "LIMIT 100 OFFSET 0")
	assert.Empty(t, args)
}

func TestDescribeFilters(t *testing.T) {
	features := models.QueryFeatures{Filters: []models.Filter{
		{Field: "duration", Op: models.OpGte, Values: []string{"abc"}},
		{Field: "difficulty", Op: models.OpEq, Values: []string{"easy", "medium"}},
	}}

	assert.Equal(t, "duration[gte]=abc&difficulty=easy,medium", describeFilters(features))
}

func TestCheckID(t *testing.T) {
	require.NoError(t, checkID(testTourID))

	err := checkID("not-a-uuid")
	var castErr *CastError
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, "id", castErr.Field)
	assert.Equal(t, "not-a-uuid", castErr.Value)
}
