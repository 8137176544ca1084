package usershandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timecard/internal/domain/core"
	"timecard/internal/platform/requestctx"
	"timecard/internal/transport/http/api"
	"timecard/internal/transport/http/middleware"
)

type Handler struct {
	Users *core.Service
}

func NewHandler(users *core.Service) *Handler {
	return &Handler{Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", h.HandleMe)
		r.Patch("/me/password", h.HandleChangePassword)
		r.Patch("/me/email", h.HandleChangeEmail)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManager)
			r.Get("/", h.HandleList)
			r.Delete("/{id}", h.HandleDelete)
		})
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type changeEmailRequest struct {
	Email *string `json:"email"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.Users.Get(r.Context(), user.TenantID, user.UserID)
	if errors.Is(err, core.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load user", requestID)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	users, err := h.Users.List(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to list users", requestID)
		return
	}
	api.Success(w, users, requestID)
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	err := h.Users.ChangePassword(r.Context(), user.TenantID, user.UserID, payload.CurrentPassword, payload.NewPassword)
	switch {
	case err == nil:
		api.Success(w, map[string]string{"status": "password_changed"}, requestID)
	case errors.Is(err, core.ErrWrongPassword):
		api.Fail(w, http.StatusBadRequest, "wrong_password", err.Error(), requestID)
	case errors.Is(err, core.ErrPasswordTooShort), errors.Is(err, core.ErrPasswordWeak):
		api.Fail(w, http.StatusBadRequest, "weak_password", err.Error(), requestID)
	case errors.Is(err, core.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to change password", requestID)
	}
}

func (h *Handler) HandleChangeEmail(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload changeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	if err := h.Users.UpdateEmail(r.Context(), user.TenantID, user.UserID, payload.Email); err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to update email", requestID)
		return
	}
	api.Success(w, map[string]string{"status": "email_updated"}, requestID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	targetID := chi.URLParam(r, "id")

	err := h.Users.Delete(r.Context(), user.TenantID, user.UserID, targetID)
	switch {
	case err == nil:
		api.Success(w, map[string]string{"status": "deleted"}, requestID)
	case errors.Is(err, core.ErrSelfDelete):
		api.Fail(w, http.StatusBadRequest, "self_delete", err.Error(), requestID)
	case errors.Is(err, core.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to delete user", requestID)
	}
}
