package notifier

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sauportal/notifier/pkg/logger"
)

// streamNotifications handles GET /notifications/stream?userId= as a
// server-sent events stream. On connect the client receives the current
// notification list, then a fresh snapshot every time the user's
// notifications change.
func (h *handlers) streamNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	sub := h.dispatcher.Subscribe(r.Context(), userID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Initial snapshot so the client does not wait for the first change.
	if list, err := h.dispatcher.ListForUser(r.Context(), userID); err == nil {
		writeSSE(w, list)
		flusher.Flush()
	} else {
		h.logger.WarnContext(r.Context(), "Failed to load initial notification list",
			logger.UserID(userID), logger.Error(err))
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-sub.Receive(r.Context()):
			if !open {
				return
			}
			if err := writeSSE(w, msg.Data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
