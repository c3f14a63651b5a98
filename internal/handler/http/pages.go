package http

import (
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

// alertMessages are shown on top of a page selected by ?alert=.
var alertMessages = map[string]string{
	"booking": "Your booking was successful! Please check your email for a confirmation. If your booking doesn't show up here immediately, please come back later.",
}

func (h *Handler) overviewPage(w http.ResponseWriter, r *http.Request) error {
	tours, err := h.services.TourService.List(r.Context(), models.QueryFeatures{Page: models.DefaultPage, Limit: models.DefaultLimit})
	if err != nil {
		return err
	}

	return h.renderPage(w, r, viewOverview, viewData{Title: "All Tours", Tours: tours})
}

func (h *Handler) tourPage(w http.ResponseWriter, r *http.Request) error {
	tour, err := h.services.TourService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return err
	}

	reviews, err := h.services.ReviewService.List(r.Context(), tour.ID, models.QueryFeatures{Page: models.DefaultPage, Limit: models.DefaultLimit})
	if err != nil {
		return err
	}

	return h.renderPage(w, r, viewTour, viewData{Title: tour.Name + " Tour", Tour: &tour, Reviews: reviews})
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) error {
	return h.renderPage(w, r, viewLogin, viewData{Title: "Log into your account"})
}

func (h *Handler) accountPage(w http.ResponseWriter, r *http.Request) error {
	return h.renderPage(w, r, viewAccount, viewData{Title: "Your account"})
}

func (h *Handler) myToursPage(w http.ResponseWriter, r *http.Request) error {
	principal, _ := utils.GetPrincipalFromContext(r.Context())
	tours, err := h.services.BookingService.MyTours(r.Context(), principal.ID)
	if err != nil {
		return err
	}

	return h.renderPage(w, r, viewOverview, viewData{Title: "My Tours", Tours: tours})
}

// submitUserData handles the account settings form.
func (h *Handler) submitUserData(w http.ResponseWriter, r *http.Request) error {
	var req models.UpdateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	principal, _ := utils.GetPrincipalFromContext(r.Context())
	user, err := h.services.UserService.UpdateMe(r.Context(), principal.ID, req)
	if err != nil {
		return err
	}

	return h.renderPage(w, r, viewAccount, viewData{Title: "Your account", User: &user})
}

// renderPage fills in the signed-in user and the alert before rendering.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page string, data viewData) error {
	if data.User == nil {
		if rc, ok := utils.GetRequestContext(r.Context()); ok {
			if user, ok := rc.Account(); ok {
				data.User = &user
			}
		}
	}
	data.Alert = alertMessages[r.URL.Query().Get("alert")]

	return h.views.render(w, http.StatusOK, page, data)
}
