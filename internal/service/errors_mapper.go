// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/adapter"
	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/store"
)

// mapStoreError translates repository errors a client may see into
// operational errors. Cast and duplicate errors are left untouched for the
// HTTP error normalizer.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrReferenceNotFound):
		return apperror.Wrap(err, http.StatusNotFound, app.MsgNoDocumentFound)
	}

	return err
}

// mapPaymentError translates payment gateway errors.
func mapPaymentError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrInvalidSignature):
		return apperror.Wrap(err, http.StatusBadRequest, app.MsgInvalidSignature)
	}

	return err
}
