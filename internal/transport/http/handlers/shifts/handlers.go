package shiftshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timecard/internal/domain/shifts"
	"timecard/internal/platform/clock"
	"timecard/internal/platform/requestctx"
	"timecard/internal/transport/http/api"
	"timecard/internal/transport/http/middleware"
	"timecard/internal/transport/http/shared"
)

type Handler struct {
	Shifts *shifts.Service
}

func NewHandler(svc *shifts.Service) *Handler {
	return &Handler{Shifts: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleCalendar)
		r.Put("/{date}", h.HandleUpsert)
		r.Delete("/{date}", h.HandleDelete)
	})
}

type upsertRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be a date", requestID)
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be a date", requestID)
		return
	}
	if from.IsZero() || to.IsZero() {
		now := h.Shifts.Clock.Now().In(clock.Zone)
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, clock.Zone)
		to = from.AddDate(0, 1, -1)
	}

	events, err := h.Shifts.Calendar(r.Context(), user.UserID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load shifts", requestID)
		return
	}
	api.Success(w, events, requestID)
}

func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	date, err := shared.ParseDate(chi.URLParam(r, "date"))
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format", requestID)
		return
	}

	var payload upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	start, err := parseShiftTime(date, payload.Start)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_time", "start must be HH:MM or RFC3339", requestID)
		return
	}
	end, err := parseShiftTime(date, payload.End)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_time", "end must be HH:MM or RFC3339", requestID)
		return
	}
	if !clock.SameDate(start, date) {
		api.Fail(w, http.StatusBadRequest, "date_mismatch", "start must fall on the date in the path", requestID)
		return
	}
	// An end earlier than the start on the same date is an overnight
	// shift ending the next day.
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	shift, created, err := h.Shifts.Upsert(r.Context(), user.TenantID, user.UserID, start, end)
	switch {
	case err == nil:
	case errors.Is(err, shifts.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "shift start must be before its end", requestID)
		return
	case errors.Is(err, shifts.ErrPastDate):
		api.Fail(w, http.StatusBadRequest, "past_date", "cannot register a shift in the past", requestID)
		return
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to save shift", requestID)
		return
	}

	if created {
		api.Created(w, shift.Event(), requestID)
		return
	}
	api.Success(w, shift.Event(), requestID)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	date, err := shared.ParseDate(chi.URLParam(r, "date"))
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format", requestID)
		return
	}

	err = h.Shifts.Delete(r.Context(), user.UserID, date)
	switch {
	case err == nil:
		api.Success(w, map[string]string{"status": "deleted"}, requestID)
	case errors.Is(err, shifts.ErrNothingToDelete):
		// A missing shift is a no-op, not a failure.
		api.Success(w, map[string]string{"status": "nothing_to_delete"}, requestID)
	case errors.Is(err, shifts.ErrPastDate):
		api.Fail(w, http.StatusBadRequest, "past_date", "cannot remove a shift in the past", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to delete shift", requestID)
	}
}

func parseShiftTime(date time.Time, raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.In(clock.Zone), nil
	}
	parsed, err := time.ParseInLocation("15:04", raw, clock.Zone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, clock.Zone), nil
}
