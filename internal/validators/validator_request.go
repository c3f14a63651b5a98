package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// customMessages overrides the generated message for a specific rule,
// keyed by "<Struct>.<Field>.<tag>".
var customMessages = map[string]string{
	"SignupRequest.Name.required":                   "Please tell us your name!",
	"SignupRequest.Email.required":                  "Please provide your email",
	"SignupRequest.Password.required":               "Please provide a password",
	"SignupRequest.PasswordConfirm.required":        "Please confirm your password",
	"SignupRequest.PasswordConfirm.eqfield":         "Passwords are not the same!",
	"ResetPasswordRequest.PasswordConfirm.eqfield":  "Passwords are not the same!",
	"UpdatePasswordRequest.PasswordConfirm.eqfield": "Passwords are not the same!",
	"TourInput.Name.required":                       "A tour must have a name",
	"TourInput.Duration.required":                   "A tour must have a duration",
	"TourInput.MaxGroupSize.required":               "A tour must have a group size",
	"TourInput.Difficulty.required":                 "A tour must have a difficulty",
	"TourInput.Price.required":                      "A tour must have a price",
	"TourInput.Summary.required":                    "A tour must have a description",
	"TourInput.ImageCover.required":                 "A tour must have a cover image",
	"ReviewInput.Review.required":                   "Review can not be empty!",
	"ReviewInput.TourID.required":                   "Review must belong to a tour.",
	"ReviewInput.UserID.required":                   "Review must belong to a user",
	"BookingInput.TourID.required":                  "Booking must belong to a Tour!",
	"BookingInput.UserID.required":                  "Booking must belong to a User!",
	"BookingInput.Price.required":                   "Booking must have a price.",
}

// RequestValidator implements [Validator] on top of go-playground/validator
// using the `validate` struct tags of the request models.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator constructs a RequestValidator. Field names in
// messages are taken from the `json` tags.
func NewRequestValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &RequestValidator{validate: v}
}

// Validate checks obj (a struct or a pointer to one). When fields are given
// only those Go field names are checked.
//
// Rule failures are returned as [ValidationErrors]; non-struct input yields
// [ErrUnsupportedType].
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := customMessages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return msg
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please provide %s", field)
	case "email":
		return "Please provide a valid email"
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "oneof":
		return fmt.Sprintf("%s is either: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min", "max", "gt", "gte", "lt", "lte":
		return boundMessage(fe)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s (%v) should be below %s", field, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func boundMessage(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String

	var relation string
	switch fe.Tag() {
	case "min", "gte":
		relation = "more or equal then"
	case "max", "lte":
		relation = "less or equal then"
	case "gt":
		relation = "more than"
	case "lt":
		relation = "less than"
	}

	if isText {
		return fmt.Sprintf("%s must have %s %s characters", field, relation, fe.Param())
	}
	return fmt.Sprintf("%s must be %s %s", field, relation, fe.Param())
}
