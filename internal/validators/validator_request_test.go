package validators

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() models.SignupRequest {
	return models.SignupRequest{
		Name:            "Jonas",
		Email:           "jonas@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
}

func TestRequestValidator_Valid(t *testing.T) {
	v := NewRequestValidator()

	req := validSignup()
	assert.NoError(t, v.Validate(context.Background(), req))
	assert.NoError(t, v.Validate(context.Background(), &req))
}

func TestRequestValidator_FieldMessages(t *testing.T) {
	discount := 500.0

	tests := []struct {
		name      string
		input     any
		wantField string
		wantMsg   string
	}{
		{
			name:      "custom required message",
			input:     models.SignupRequest{Email: "a@b.io", Password: "pass1234", PasswordConfirm: "pass1234"},
			wantField: "name",
			wantMsg:   "Please tell us your name!",
		},
		{
			name: "passwords differ",
			input: func() models.SignupRequest {
				r := validSignup()
				r.PasswordConfirm = "different1"
				return r
			}(),
			wantField: "passwordConfirm",
			wantMsg:   "Passwords are not the same!",
		},
		{
			name: "invalid email",
			input: func() models.SignupRequest {
				r := validSignup()
				r.Email = "not-an-email"
				return r
			}(),
			wantField: "email",
			wantMsg:   "Please provide a valid email",
		},
		{
			name: "short password",
			input: func() models.SignupRequest {
				r := validSignup()
				r.Password, r.PasswordConfirm = "short", "short"
				return r
			}(),
			wantField: "password",
			wantMsg:   "password must have more or equal then 8 characters",
		},
		{
			name:      "rating out of range",
			input:     models.ReviewInput{Review: "Great", Rating: 6, TourID: "0190a6e4-7c1a-7b7e-8a55-2f3c7f1e9d10", UserID: "0190a6e4-7c1a-7b7e-8a55-2f3c7f1e9d11"},
			wantField: "rating",
			wantMsg:   "rating must be less or equal then 5",
		},
		{
			name: "difficulty enum",
			input: models.TourInput{
				Name: "The Forest Hiker", Duration: 5, MaxGroupSize: 25, Difficulty: "extreme",
				Price: 397, Summary: "Breathtaking hike", ImageCover: "tour-1-cover.jpg",
			},
			wantField: "difficulty",
			wantMsg:   "difficulty is either: easy, medium, difficult",
		},
		{
			name: "discount above price",
			input: models.TourInput{
				Name: "The Forest Hiker", Duration: 5, MaxGroupSize: 25, Difficulty: "easy",
				Price: 397, PriceDiscount: &discount, Summary: "Breathtaking hike", ImageCover: "tour-1-cover.jpg",
			},
			wantField: "priceDiscount",
			wantMsg:   "priceDiscount (500) should be below Price",
		},
	}

	v := NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.input)
			require.Error(t, err)

			var ve ValidationErrors
			require.True(t, errors.As(err, &ve), "expected ValidationErrors, got %T", err)
			require.Len(t, ve, 1)
			assert.Equal(t, tt.wantField, ve[0].Field)
			assert.Equal(t, tt.wantMsg, ve[0].Message)
		})
	}
}

func TestRequestValidator_JoinsMessages(t *testing.T) {
	err := NewRequestValidator().Validate(context.Background(), models.SignupRequest{})

	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve, 4)
	assert.Equal(t,
		"Please tell us your name!. Please provide your email. Please provide a password. Please confirm your password",
		ve.Error())
}

func TestRequestValidator_Partial(t *testing.T) {
	req := models.SignupRequest{Email: "jonas@example.com"}

	err := NewRequestValidator().Validate(context.Background(), req, "Email")

	assert.NoError(t, err)
}

func TestRequestValidator_UnsupportedType(t *testing.T) {
	err := NewRequestValidator().Validate(context.Background(), 42)

	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidationErrors_Messages(t *testing.T) {
	ve := ValidationErrors{{Field: "a", Message: "first"}, {Field: "b", Message: "second"}}

	assert.Equal(t, []string{"first", "second"}, ve.Messages())
	assert.Equal(t, "first. second", ve.Error())
}
