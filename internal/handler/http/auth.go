package http

import (
	"net/http"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) error {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	session, err := h.services.AuthService.Signup(r.Context(), req, h.baseURL(r))
	if err != nil {
		return err
	}

	logger.FromRequest(r).Info().Str("user_id", session.User.ID).Msg("user signed up")
	h.sendSession(w, r, session, http.StatusCreated)
	return nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	session, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		return err
	}

	logger.FromRequest(r).Debug().Str("user_id", session.User.ID).Msg("user successfully logged in")
	h.sendSession(w, r, session, http.StatusOK)
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	revokeCookie(w, r)
	h.writeJSON(w, r, models.MessageResponse{Status: models.StatusSuccess}, http.StatusOK)
	return nil
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), req, h.baseURL(r)); err != nil {
		return err
	}

	h.writeJSON(w, r, models.MessageResponse{Status: models.StatusSuccess, Message: app.MsgTokenSentToEmail}, http.StatusOK)
	return nil
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) error {
	var req models.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	session, err := h.services.AuthService.ResetPassword(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		return err
	}

	h.sendSession(w, r, session, http.StatusOK)
	return nil
}

func (h *Handler) updateMyPassword(w http.ResponseWriter, r *http.Request) error {
	var req models.UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	principal, _ := utils.GetPrincipalFromContext(r.Context())
	session, err := h.services.AuthService.UpdatePassword(r.Context(), principal.ID, req)
	if err != nil {
		return err
	}

	h.sendSession(w, r, session, http.StatusOK)
	return nil
}
