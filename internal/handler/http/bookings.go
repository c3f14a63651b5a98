package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

const stripeSignatureHeader = "Stripe-Signature"

func (h *Handler) checkoutSession(w http.ResponseWriter, r *http.Request) error {
	rc, _ := utils.GetRequestContext(r.Context())
	user, _ := rc.Account()

	session, err := h.services.BookingService.CheckoutSession(r.Context(), chi.URLParam(r, "tourID"), user, h.baseURL(r))
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.CheckoutResponse{Status: models.StatusSuccess, Session: session}, http.StatusOK)
	return nil
}

// webhookCheckout receives payment provider events. The body is read as
// the exact bytes the provider signed.
func (h *Handler) webhookCheckout(w http.ResponseWriter, r *http.Request) error {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("error reading webhook payload: %w", err)
	}

	if err := h.services.BookingService.HandleWebhook(r.Context(), payload, r.Header.Get(stripeSignatureHeader)); err != nil {
		return err
	}

	h.writeJSON(w, r, models.WebhookAck{Received: true}, http.StatusOK)
	return nil
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) error {
	features := models.ParseQueryFeatures(r.URL.Query())
	bookings, err := h.services.BookingService.List(r.Context(), features)
	if err != nil {
		return err
	}

	return writeList(h, w, r, bookings, features.Fields)
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) error {
	var input models.BookingInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	booking, err := h.services.BookingService.Create(r.Context(), input)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(booking), http.StatusCreated)
	return nil
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) error {
	booking, err := h.services.BookingService.Get(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(booking), http.StatusOK)
	return nil
}

func (h *Handler) updateBooking(w http.ResponseWriter, r *http.Request) error {
	var update models.BookingUpdate
	if err := decodeJSON(r, &update); err != nil {
		return err
	}

	booking, err := h.services.BookingService.Update(r.Context(), chi.URLParam(r, "bookingID"), update)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(booking), http.StatusOK)
	return nil
}

func (h *Handler) deleteBooking(w http.ResponseWriter, r *http.Request) error {
	if err := h.services.BookingService.Delete(r.Context(), chi.URLParam(r, "bookingID")); err != nil {
		return err
	}

	h.writeJSON(w, r, nil, http.StatusNoContent)
	return nil
}
