package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/service"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/validators"
)

// translateError maps backend errors with a client-safe meaning onto
// operational errors. Operational errors and unknown errors are returned
// unchanged.
func translateError(err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}

	var castErr *store.CastError
	if errors.As(err, &castErr) {
		return apperror.Wrap(err, http.StatusBadRequest, fmt.Sprintf(app.MsgInvalidFieldFmt, castErr.Field, castErr.Value))
	}

	var dupErr *store.DuplicateError
	if errors.As(err, &dupErr) {
		return apperror.Wrap(err, http.StatusBadRequest, fmt.Sprintf(app.MsgDuplicateFieldFmt, dupErr.Value))
	}

	var validationErrs validators.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperror.Wrap(err, http.StatusBadRequest, app.MsgInvalidInputPrefix+" "+validationErrs.Error())
	}

	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return apperror.Wrap(err, http.StatusUnauthorized, app.MsgInvalidToken)
	case errors.Is(err, service.ErrExpiredToken):
		return apperror.Wrap(err, http.StatusUnauthorized, app.MsgExpiredToken)
	}

	return err
}
