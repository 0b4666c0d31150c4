package notifier

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sauportal/notifier/pkg/directory"
	"github.com/sauportal/notifier/pkg/email"
	"github.com/sauportal/notifier/pkg/logger"
	"github.com/sauportal/notifier/pkg/notifications"
)

// handlers carries the module's collaborators. Constructed by Router.
type handlers struct {
	dispatcher *notifications.Dispatcher
	emails     *email.Service
	logger     *slog.Logger
}

// createNotificationRequest mirrors the public creation API.
type createNotificationRequest struct {
	Users            []string `json:"users"`
	Groups           []string `json:"groups"`
	Title            string   `json:"title"`
	Message          string   `json:"message"`
	Priority         bool     `json:"priority"`
	ShortDescription string   `json:"shortDescription"`
	NotifyType       string   `json:"notifyType"`
	NotificationType string   `json:"notificationType"`
}

// sendEmailRequest mirrors the public email API.
type sendEmailRequest struct {
	To        []string       `json:"to"`
	Subject   string         `json:"subject"`
	Text      string         `json:"text,omitempty"`
	HTML      string         `json:"html,omitempty"`
	Template  string         `json:"template,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
	ReplyTo   string         `json:"replyTo,omitempty"`
	CTALink   string         `json:"ctaLink,omitempty"`
}

// postNotification handles POST /notifications. Returns 201 with the
// created records; a request naming a group while group expansion is
// disabled fails with 501 and persists nothing.
func (h *handlers) postNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.dispatcher.CreateNotifications(r.Context(), notifications.CreateRequest{
		Users:            req.Users,
		Groups:           req.Groups,
		Title:            req.Title,
		Message:          req.Message,
		Priority:         req.Priority,
		ShortDescription: req.ShortDescription,
		Channel:          notifications.Channel(req.NotifyType),
		Type:             notifications.Type(req.NotificationType),
	})
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrGroupsDisabled):
			writeError(w, http.StatusNotImplemented, "group notifications are disabled")
		case errors.Is(err, directory.ErrGroupLookupFailed):
			writeError(w, http.StatusBadGateway, "group resolution failed")
		default:
			h.logger.ErrorContext(r.Context(), "Failed to create notifications", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create notifications")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// getNotifications handles GET /notifications?userId=.
func (h *handlers) getNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	list, err := h.dispatcher.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list notifications",
			logger.UserID(userID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// getAndMarkAsRead handles GET /notifications/{notificationId}: fetching a
// single notification marks it read in the same operation.
func (h *handlers) getAndMarkAsRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationId")

	notif, err := h.dispatcher.GetAndMarkAsRead(r.Context(), id)
	if err != nil {
		h.respondReadStateError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, notif)
}

// markAsRead handles POST /notifications/mark-as-read/{notificationId}.
func (h *handlers) markAsRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationId")

	notif, err := h.dispatcher.MarkAsRead(r.Context(), id)
	if err != nil {
		h.respondReadStateError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, notif)
}

// markAsUnread handles POST /notifications/mark-as-unread/{notificationId}.
func (h *handlers) markAsUnread(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationId")

	notif, err := h.dispatcher.MarkAsUnread(r.Context(), id)
	if err != nil {
		h.respondReadStateError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, notif)
}

func (h *handlers) respondReadStateError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, notifications.ErrNotificationNotFound) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "Failed to update notification read state",
		logger.NotificationID(id), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to update notification")
}

// postEmail handles POST /emails. The message is validated synchronously and
// handed to the asynchronous delivery pipeline; 202 means accepted, not
// delivered.
func (h *handlers) postEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg := email.Message{
		To:        req.To,
		Subject:   req.Subject,
		Text:      req.Text,
		HTML:      req.HTML,
		Template:  req.Template,
		Variables: req.Variables,
		ReplyTo:   req.ReplyTo,
		CTALink:   req.CTALink,
	}

	if err := h.emails.Validate(msg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.emails.SendAsync(r.Context(), msg)
	w.WriteHeader(http.StatusAccepted)
}
