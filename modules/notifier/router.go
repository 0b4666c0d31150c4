package notifier

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/sauportal/notifier/pkg/email"
	"github.com/sauportal/notifier/pkg/notifications"
)

// RouterOptions configures the notifier module's HTTP surface.
type RouterOptions struct {
	// Dispatcher handles notification creation, listing, and read state.
	// Required.
	Dispatcher *notifications.Dispatcher

	// Emails handles direct email sending. Optional; when nil the /emails
	// endpoint is not mounted.
	Emails *email.Service

	// Logger for request-scoped errors. Defaults to slog.Default().
	Logger *slog.Logger
}

// Router builds the notifier module router.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/api", notifier.Router(notifier.RouterOptions{
//	    Dispatcher: dispatcher,
//	    Emails:     mailer,
//	}))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &handlers{
		dispatcher: opts.Dispatcher,
		emails:     opts.Emails,
		logger:     log,
	}

	r := chi.NewRouter()

	r.Route("/notifications", func(n chi.Router) {
		n.Post("/", h.postNotification)
		n.Get("/", h.getNotifications)
		n.Get("/stream", h.streamNotifications)
		n.Post("/mark-as-read/{notificationId}", h.markAsRead)
		n.Post("/mark-as-unread/{notificationId}", h.markAsUnread)
		n.Get("/{notificationId}", h.getAndMarkAsRead)
	})

	if opts.Emails != nil {
		r.Post("/emails", h.postEmail)
	}

	return r
}
