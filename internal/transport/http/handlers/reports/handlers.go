package reportshandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timecard/internal/domain/core"
	"timecard/internal/domain/reports"
	"timecard/internal/platform/clock"
	"timecard/internal/platform/requestctx"
	"timecard/internal/transport/http/api"
	"timecard/internal/transport/http/middleware"
	"timecard/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
	Users   *core.Service
}

func NewHandler(svc *reports.Service, users *core.Service) *Handler {
	return &Handler{Reports: svc, Users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/shift-table", h.HandleShiftTable)
		r.Get("/timesheet.csv", h.HandleTimesheetCSV)
		r.Get("/timesheet.pdf", h.HandleTimesheetPDF)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireManager)
			r.Get("/job-runs", h.HandleJobRuns)
		})
	})
}

func (h *Handler) HandleShiftTable(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	year, month, ok := h.monthParam(w, r, requestID)
	if !ok {
		return
	}

	table, err := h.Reports.MonthlyShiftTable(r.Context(), user.TenantID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to build shift table", requestID)
		return
	}
	api.Success(w, table, requestID)
}

func (h *Handler) HandleTimesheetCSV(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	year, month, ok := h.monthParam(w, r, requestID)
	if !ok {
		return
	}

	data, err := h.Reports.TimesheetCSV(r.Context(), user.TenantID, user.UserID, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to build timesheet", requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="timesheet-%04d-%02d.csv"`, year, int(month)))
	_, _ = w.Write(data)
}

func (h *Handler) HandleTimesheetPDF(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	year, month, ok := h.monthParam(w, r, requestID)
	if !ok {
		return
	}

	profile, err := h.Users.Get(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load user", requestID)
		return
	}

	data, err := h.Reports.TimesheetPDF(r.Context(), user.TenantID, user.UserID, profile.Name, year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to build timesheet", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="timesheet-%04d-%02d.pdf"`, year, int(month)))
	_, _ = w.Write(data)
}

func (h *Handler) HandleJobRuns(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	runs, err := h.Reports.Store.ListJobRuns(r.Context(), user.TenantID, r.URL.Query().Get("jobType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to list job runs", requestID)
		return
	}
	api.Success(w, runs, requestID)
}

func (h *Handler) monthParam(w http.ResponseWriter, r *http.Request, requestID string) (int, time.Month, bool) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		now := h.Reports.Clock.Now().In(clock.Zone)
		return now.Year(), now.Month(), true
	}
	year, month, err := shared.ParseMonth(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be in YYYY-MM format", requestID)
		return 0, 0, false
	}
	return year, month, true
}
