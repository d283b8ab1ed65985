package handler

import (
	"log/slog"
	"net/http"

	"plaza/internal/domain/models"
	"plaza/internal/domain/services"
	"plaza/internal/httputil"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
	logger              *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService services.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List returns the caller's notifications, newest first
// GET /api/notifications?unread=true&limit=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := httputil.GetActor(r)

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notificationService.List(r.Context(), *actor, unreadOnly, queryInt(r, "limit", 0))
	if err != nil {
		handleError(w, err)
		return
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	httputil.RespondJSON(w, http.StatusOK, notifications)
}

// MarkRead stamps one of the caller's notifications read
// POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "notification ID")
	if !ok {
		return
	}

	actor := httputil.GetActor(r)

	if err := h.notificationService.MarkRead(r.Context(), *actor, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
