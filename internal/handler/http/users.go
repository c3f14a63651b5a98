package http

import (
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) error {
	principal, _ := utils.GetPrincipalFromContext(r.Context())
	return h.writeUser(w, r, principal.ID)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) error {
	var req models.UpdateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	principal, _ := utils.GetPrincipalFromContext(r.Context())
	user, err := h.services.UserService.UpdateMe(r.Context(), principal.ID, req)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) error {
	principal, _ := utils.GetPrincipalFromContext(r.Context())
	if err := h.services.UserService.DeleteMe(r.Context(), principal.ID); err != nil {
		return err
	}

	h.writeJSON(w, r, nil, http.StatusNoContent)
	return nil
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) error {
	features := models.ParseQueryFeatures(r.URL.Query())
	users, err := h.services.UserService.List(r.Context(), features)
	if err != nil {
		return err
	}

	return writeList(h, w, r, users, features.Fields)
}

// createUser exists so admins get a pointer to signup.
func (h *Handler) createUser(_ http.ResponseWriter, _ *http.Request) error {
	return apperror.Internal(app.MsgUseSignup)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) error {
	return h.writeUser(w, r, chi.URLParam(r, "userID"))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) error {
	var update models.UserUpdate
	if err := decodeJSON(r, &update); err != nil {
		return err
	}

	user, err := h.services.UserService.Update(r.Context(), chi.URLParam(r, "userID"), update)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(user), http.StatusOK)
	return nil
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) error {
	if err := h.services.UserService.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		return err
	}

	h.writeJSON(w, r, nil, http.StatusNoContent)
	return nil
}

func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, id string) error {
	user, err := h.services.UserService.Get(r.Context(), id)
	if err != nil {
		return err
	}

	doc, err := project(user, models.ParseQueryFeatures(r.URL.Query()).Fields)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewDocumentResponse(doc), http.StatusOK)
	return nil
}

// writeList writes a projected list envelope.
func writeList[T any](h *Handler, w http.ResponseWriter, r *http.Request, docs []T, fields []string) error {
	projected, err := projectAll(docs, fields)
	if err != nil {
		return err
	}

	h.writeJSON(w, r, models.NewListResponse(projected), http.StatusOK)
	return nil
}
