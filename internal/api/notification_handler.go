package api

import (
	"net/http"

	"github.com/stackit-qa/stackit-api/internal/api/shared"
	"github.com/stackit-qa/stackit-api/internal/service"
)

// NotificationHandler handles notification inbox API requests.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler with the given
// dependencies.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List handles GET /notifications. With ?unread=true only unread
// notifications come back.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	profileID, ok := getProfileIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var err error
	var notifications interface{}
	if r.URL.Query().Get("unread") == "true" {
		notifications, err = h.notificationService.ListUnread(r.Context(), profileID)
	} else {
		notifications, err = h.notificationService.ListAll(r.Context(), profileID)
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	profileID, ok := getProfileIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	count, err := h.notificationService.CountUnread(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UnreadCountResponse{Unread: count})
}

// MarkRead handles POST /notifications/{notificationID}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	profileID, notificationID, ok := requireProfileAndPathUUID(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), notificationID, profileID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	profileID, ok := getProfileIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	updated, err := h.notificationService.MarkAllRead(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MarkAllReadResponse{Updated: updated})
}
