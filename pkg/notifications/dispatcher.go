package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sauportal/notifier/pkg/broadcast"
	"github.com/sauportal/notifier/pkg/email"
	"github.com/sauportal/notifier/pkg/email/templates"
	"github.com/sauportal/notifier/pkg/logger"
)

// DirectoryResolver is the dispatcher's view of the external directory.
type DirectoryResolver interface {
	// ResolveGroup expands a group identifier into member user ids.
	// Failures surface to the caller.
	ResolveGroup(ctx context.Context, groupID string) ([]string, error)

	// ResolveEmail looks up a user's email, best effort.
	ResolveEmail(ctx context.Context, userID string) (string, bool)
}

// Emailer hands a composed message to the asynchronous email pipeline.
type Emailer interface {
	SendAsync(ctx context.Context, msg email.Message)
}

// CreateRequest is one notification creation intent. Users and Groups merge
// into the recipient set; all other fields are copied onto every created
// record.
type CreateRequest struct {
	Users            []string
	Groups           []string
	Title            string
	Message          string
	Priority         bool
	ShortDescription string
	Channel          Channel
	Type             Type
}

// Dispatcher is the dispatch pipeline: it resolves recipients, persists one
// notification per recipient, pushes the refreshed list to each user's
// topic, and schedules email delivery for channel policies that include it.
type Dispatcher struct {
	storage     Storage
	broadcaster broadcast.Broadcaster[[]Notification]
	directory   DirectoryResolver
	emails      Emailer
	logger      *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithEmailer wires the asynchronous email pipeline. Without it, channel
// policies that include email fall back to push only.
func WithEmailer(e Emailer) DispatcherOption {
	return func(d *Dispatcher) {
		d.emails = e
	}
}

// NewDispatcher creates a dispatcher. Storage and broadcaster are required;
// the directory is required for group expansion and email address lookup.
func NewDispatcher(storage Storage, broadcaster broadcast.Broadcaster[[]Notification], directory DirectoryResolver, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		storage:     storage,
		broadcaster: broadcaster,
		directory:   directory,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateNotifications persists one notification per resolved recipient and
// returns the created records.
//
// Group ids are expanded before any row is persisted; a group resolution
// failure fails the whole request with zero rows written. An empty resolved
// recipient set yields an empty result, not an error. All records of one
// request share a single ReceivedAt timestamp.
//
// Each row is broadcast to its user's topic immediately after its save, so
// a push subscriber always observes a list that includes the new row. Email
// delivery, when the channel policy asks for it, is registered as an
// after-commit effect: it fires only once the whole batch is durably
// written, and never when the unit of work is rolled back. Email failures
// are logged, not propagated - a push-delivered notification is never undone
// by a failing email.
func (d *Dispatcher) CreateNotifications(ctx context.Context, req CreateRequest) ([]Notification, error) {
	userIDs, err := d.resolveRecipients(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []Notification{}, nil
	}

	// One timestamp for the whole batch.
	receivedAt := time.Now().UTC()

	created := make([]Notification, 0, len(userIDs))
	err = RunInUnitOfWork(ctx, func(ctx context.Context) error {
		for _, userID := range userIDs {
			notif := Notification{
				ID:               uuid.New().String(),
				UserID:           userID,
				Title:            req.Title,
				Message:          req.Message,
				ShortDescription: req.ShortDescription,
				Priority:         req.Priority,
				Type:             req.Type,
				Channel:          req.Channel,
				ReceivedAt:       receivedAt,
			}

			if err := d.storage.Create(ctx, notif); err != nil {
				return fmt.Errorf("store notification for user %s: %w", userID, err)
			}

			d.broadcastList(ctx, userID)

			if notif.Channel.IncludesEmail() && d.emails != nil {
				saved := notif
				AfterCommit(ctx, func(ctx context.Context) {
					d.sendEmail(ctx, saved)
				})
			}

			created = append(created, notif)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// resolveRecipients merges direct user ids with the expansion of every
// group id and deduplicates the result. Stable order is not guaranteed
// beyond first-seen order.
func (d *Dispatcher) resolveRecipients(ctx context.Context, req CreateRequest) ([]string, error) {
	seen := make(map[string]struct{}, len(req.Users))
	resolved := make([]string, 0, len(req.Users))

	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		resolved = append(resolved, id)
	}

	for _, id := range req.Users {
		add(id)
	}

	for _, groupID := range req.Groups {
		if groupID == "" {
			continue
		}
		members, err := d.directory.ResolveGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		for _, id := range members {
			add(id)
		}
	}

	return resolved, nil
}

// broadcastList pushes the user's refreshed notification list to their
// topic. Best effort: failures are logged, never propagated.
func (d *Dispatcher) broadcastList(ctx context.Context, userID string) {
	list, err := d.storage.ListByUser(ctx, userID)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to load notification list for broadcast",
			logger.UserID(userID),
			logger.Error(err),
		)
		return
	}
	if err := d.broadcaster.Broadcast(ctx, userID, broadcast.Message[[]Notification]{Data: list}); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to broadcast notification list",
			logger.UserID(userID),
			logger.Error(err),
		)
	}
}

// sendEmail composes and hands off the email for one notification. Runs
// after commit; all failures end here, logged.
func (d *Dispatcher) sendEmail(ctx context.Context, notif Notification) {
	address, ok := d.directory.ResolveEmail(ctx, notif.UserID)
	if !ok {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "No email address found, skipping email delivery",
			logger.UserID(notif.UserID),
			logger.NotificationID(notif.ID),
		)
		return
	}

	subject := notif.Title
	if subject == "" {
		subject = "Notification"
	}

	d.emails.SendAsync(ctx, email.Message{
		To:       []string{address},
		Subject:  subject,
		Template: templates.TemplateGeneric,
		Variables: templates.DefaultVariables(templates.Content{
			Title:            notif.Title,
			ShortDescription: notif.ShortDescription,
			Message:          notif.Message,
			Kind:             string(notif.Type),
		}),
		Tag: "notification",
	})

	d.logger.LogAttrs(ctx, slog.LevelInfo, "Scheduled email for notification",
		logger.UserID(notif.UserID),
		logger.NotificationID(notif.ID),
	)
}

// MarkAsRead stamps the notification's read timestamp with the current time
// and returns the updated record.
func (d *Dispatcher) MarkAsRead(ctx context.Context, id string) (*Notification, error) {
	now := time.Now().UTC()
	return d.storage.SetReadAt(ctx, id, &now)
}

// MarkAsUnread clears the notification's read timestamp and returns the
// updated record.
func (d *Dispatcher) MarkAsUnread(ctx context.Context, id string) (*Notification, error) {
	return d.storage.SetReadAt(ctx, id, nil)
}

// GetAndMarkAsRead retrieves a notification and marks it read in one
// operation, returning the updated record.
func (d *Dispatcher) GetAndMarkAsRead(ctx context.Context, id string) (*Notification, error) {
	return d.MarkAsRead(ctx, id)
}

// ListForUser returns all notifications owned by the user, newest first.
func (d *Dispatcher) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	return d.storage.ListByUser(ctx, userID)
}

// Subscribe opens a live feed of the user's notification list. The
// subscription lives until the context is cancelled.
func (d *Dispatcher) Subscribe(ctx context.Context, userID string) broadcast.Subscriber[[]Notification] {
	return d.broadcaster.Subscribe(ctx, userID)
}
