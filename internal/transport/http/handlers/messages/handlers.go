package messageshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timecard/internal/domain/messages"
	"timecard/internal/platform/requestctx"
	"timecard/internal/transport/http/api"
	"timecard/internal/transport/http/middleware"
	"timecard/internal/transport/http/shared"
)

type Handler struct {
	Messages *messages.Service
}

func NewHandler(svc *messages.Service) *Handler {
	return &Handler{Messages: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleList)
		r.Get("/unread-count", h.HandleUnreadCount)
		r.Post("/direct", h.HandleSendDirect)
		r.Post("/broadcast", h.HandleSendBroadcast)
		r.Delete("/{id}", h.HandleDeleteBroadcast)
	})
}

type directRequest struct {
	RecipientID string  `json:"recipientId"`
	Content     string  `json:"content"`
	Attachment  *string `json:"attachment,omitempty"`
}

type broadcastRequest struct {
	Content    string  `json:"content"`
	Attachment *string `json:"attachment,omitempty"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	list, unread, err := h.Messages.List(r.Context(), user.TenantID, user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load messages", requestID)
		return
	}
	api.Success(w, map[string]any{"messages": list, "unread": unread}, requestID)
}

func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	count, err := h.Messages.UnreadCount(r.Context(), user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to count messages", requestID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, requestID)
}

func (h *Handler) HandleSendDirect(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload directRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	err := h.Messages.SendDirect(r.Context(), user.TenantID, user.UserID, payload.RecipientID, payload.Content, payload.Attachment)
	switch {
	case err == nil:
		api.Created(w, map[string]string{"status": "sent"}, requestID)
	case errors.Is(err, messages.ErrEmptyContent):
		api.Fail(w, http.StatusBadRequest, "empty_content", err.Error(), requestID)
	case errors.Is(err, messages.ErrUnknownUser):
		api.Fail(w, http.StatusNotFound, "unknown_recipient", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to send message", requestID)
	}
}

func (h *Handler) HandleSendBroadcast(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	err := h.Messages.SendBroadcast(r.Context(), user.TenantID, user.UserID, payload.Content, payload.Attachment)
	switch {
	case err == nil:
		api.Created(w, map[string]string{"status": "sent"}, requestID)
	case errors.Is(err, messages.ErrEmptyContent):
		api.Fail(w, http.StatusBadRequest, "empty_content", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to send broadcast", requestID)
	}
}

func (h *Handler) HandleDeleteBroadcast(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	messageID := chi.URLParam(r, "id")

	err := h.Messages.DeleteBroadcast(r.Context(), user.TenantID, user.UserID, messageID)
	switch {
	case err == nil:
		api.Success(w, map[string]string{"status": "deleted"}, requestID)
	case errors.Is(err, messages.ErrNotYourMessage):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to delete broadcast", requestID)
	}
}
