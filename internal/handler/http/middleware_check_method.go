// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
)

// routeNotFound is the fallback for unmatched paths. It is also chi's
// MethodNotAllowed handler, so an unsupported method answers 404 too.
func routeNotFound(_ http.ResponseWriter, r *http.Request) {
	failRequest(r, apperror.NotFound(fmt.Sprintf(app.MsgRouteNotFoundFmt, r.RequestURI)))
}
