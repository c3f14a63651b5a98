package http

import (
	"net/http"

	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

// topToursQuery is the query behind /top-5-cheap.
var topToursQuery = map[string]string{
	"limit":  "5",
	"sort":   "-ratingsAverage,price",
	"fields": "name,price,ratingsAverage,summary,difficulty",
}

// topTours lists the five best rated tours, cheapest first on ties.
func (h *Handler) topTours(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	for k, v := range topToursQuery {
		query.Set(k, v)
	}
	r.URL.RawQuery = query.Encode()

	return h.listTours(w, r)
}

func (h *Handler) listTours(w http.ResponseWriter, r *http.Request) error {
	features := models.ParseQueryFeatures(r.URL.Query())
	tours, err := h.services.TourService.List(r.Context(), features)
	if err != nil {
		return err
	}

	return writeList(h, w, r, tours, features.Fields)
}

func (h *Handler) getTour(w http.ResponseWriter, r *http.Request) error {
	tour, err := h.services.TourService.Get(r.Context(), chi.URLParam(r, "tourID"))
	if err != nil {
		return err
	}

	doc, err := project(tour, models.ParseQueryFeatures(r.URL.Query()).Fields)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(doc), http.StatusOK)
	return nil
}

func (h *Handler) createTour(w http.ResponseWriter, r *http.Request) error {
	var input models.TourInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	tour, err := h.services.TourService.Create(r.Context(), input)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(tour), http.StatusCreated)
	return nil
}

func (h *Handler) updateTour(w http.ResponseWriter, r *http.Request) error {
	var update models.TourUpdate
	if err := decodeJSON(r, &update); err != nil {
		return err
	}

	tour, err := h.services.TourService.Update(r.Context(), chi.URLParam(r, "tourID"), update)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(tour), http.StatusOK)
	return nil
}

func (h *Handler) deleteTour(w http.ResponseWriter, r *http.Request) error {
	if err := h.services.TourService.Delete(r.Context(), chi.URLParam(r, "tourID")); err != nil {
		return err
	}

	h.writeJSON(w, r, nil, http.StatusNoContent)
	return nil
}

func (h *Handler) tourStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.services.TourService.Stats(r.Context())
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewListResponse(stats), http.StatusOK)
	return nil
}

func (h *Handler) monthlyPlan(w http.ResponseWriter, r *http.Request) error {
	plan, err := h.services.TourService.MonthlyPlan(r.Context(), chi.URLParam(r, "year"))
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewListResponse(plan), http.StatusOK)
	return nil
}

func (h *Handler) toursWithin(w http.ResponseWriter, r *http.Request) error {
	tours, err := h.services.TourService.Within(r.Context(),
		chi.URLParam(r, "distance"), chi.URLParam(r, "latlng"), chi.URLParam(r, "unit"))
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewListResponse(tours), http.StatusOK)
	return nil
}

func (h *Handler) tourDistances(w http.ResponseWriter, r *http.Request) error {
	distances, err := h.services.TourService.Distances(r.Context(), chi.URLParam(r, "latlng"), chi.URLParam(r, "unit"))
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewListResponse(distances), http.StatusOK)
	return nil
}
