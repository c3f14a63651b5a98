package http

import (
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

// Review routes are served both at /api/v1/reviews and nested under
// /api/v1/tours/{tourID}/reviews. The nested form scopes lists and
// defaults the tour of new reviews.

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) error {
	features := models.ParseQueryFeatures(r.URL.Query())
	reviews, err := h.services.ReviewService.List(r.Context(), chi.URLParam(r, "tourID"), features)
	if err != nil {
		return err
	}

	return writeList(h, w, r, reviews, features.Fields)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) error {
	var input models.ReviewInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	principal, _ := utils.GetPrincipalFromContext(r.Context())
	review, err := h.services.ReviewService.Create(r.Context(), input, chi.URLParam(r, "tourID"), principal)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(review), http.StatusCreated)
	return nil
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) error {
	review, err := h.services.ReviewService.Get(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(review), http.StatusOK)
	return nil
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) error {
	var update models.ReviewUpdate
	if err := decodeJSON(r, &update); err != nil {
		return err
	}

	review, err := h.services.ReviewService.Update(r.Context(), chi.URLParam(r, "reviewID"), update)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(review), http.StatusOK)
	return nil
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) error {
	if err := h.services.ReviewService.Delete(r.Context(), chi.URLParam(r, "reviewID")); err != nil {
		return err
	}

	h.writeJSON(w, r, nil, http.StatusNoContent)
	return nil
}
