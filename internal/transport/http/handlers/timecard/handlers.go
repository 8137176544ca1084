package timecardhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timecard/internal/domain/attendance"
	"timecard/internal/domain/core"
	"timecard/internal/domain/timesheet"
	"timecard/internal/platform/requestctx"
	"timecard/internal/transport/http/api"
	"timecard/internal/transport/http/middleware"
	"timecard/internal/transport/http/shared"
)

type Handler struct {
	Attendance *attendance.Service
	Timesheet  *timesheet.Service
	Users      *core.Service
}

func NewHandler(att *attendance.Service, ts *timesheet.Service, users *core.Service) *Handler {
	return &Handler{Attendance: att, Timesheet: ts, Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timecard", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/status", h.HandleStatus)
		r.Get("/summary", h.HandleSummary)
		r.Post("/clock-in", h.HandleClockIn)
		r.Post("/clock-out", h.HandleClockOut)
		r.Post("/break/start", h.HandleBreakStart)
		r.Post("/break/end", h.HandleBreakEnd)
		r.Post("/cancel", h.HandleCancel)
	})
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	state, err := h.Attendance.State(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load status", requestID)
		return
	}
	today, err := h.Timesheet.Today(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load status", requestID)
		return
	}

	api.Success(w, map[string]any{"state": state, "today": today}, requestID)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	year, month, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be in YYYY-MM format", requestID)
		return
	}

	summary, err := h.Timesheet.Monthly(r.Context(), user.TenantID, user.UserID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load summary", requestID)
		return
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) HandleClockIn(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.Users.Get(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load user", requestID)
		return
	}

	state, err := h.Attendance.ClockIn(r.Context(), user.TenantID, user.UserID, profile.Name)
	if err != nil {
		h.failTransition(w, err, requestID)
		return
	}
	api.Success(w, state, requestID)
}

func (h *Handler) HandleClockOut(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	profile, err := h.Users.Get(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load user", requestID)
		return
	}

	state, err := h.Attendance.ClockOut(r.Context(), user.TenantID, user.UserID, profile.Name)
	if err != nil {
		h.failTransition(w, err, requestID)
		return
	}
	api.Success(w, state, requestID)
}

func (h *Handler) HandleBreakStart(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	state, err := h.Attendance.BreakStart(r.Context(), user.UserID)
	if err != nil {
		h.failTransition(w, err, requestID)
		return
	}
	api.Success(w, state, requestID)
}

func (h *Handler) HandleBreakEnd(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	state, err := h.Attendance.BreakEnd(r.Context(), user.UserID)
	if err != nil {
		h.failTransition(w, err, requestID)
		return
	}
	api.Success(w, state, requestID)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	state, err := h.Attendance.Cancel(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		h.failTransition(w, err, requestID)
		return
	}
	api.Success(w, state, requestID)
}

func (h *Handler) failTransition(w http.ResponseWriter, err error, requestID string) {
	var tooEarly *attendance.TooEarlyError
	switch {
	case errors.As(err, &tooEarly):
		api.Fail(w, http.StatusBadRequest, "too_early", tooEarly.Error(), requestID)
	case errors.Is(err, attendance.ErrNoShift):
		api.Fail(w, http.StatusBadRequest, "no_shift", "no shift registered for today", requestID)
	case errors.Is(err, attendance.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "action not allowed in the current state", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "attendance update failed", requestID)
	}
}
