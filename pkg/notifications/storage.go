package notifications

import (
	"context"
	"errors"
	"time"
)

// ErrNotificationNotFound is returned when a notification id does not exist.
// Single-record operations report absence through this sentinel rather than
// panicking or inventing empty records.
var ErrNotificationNotFound = errors.New("notification not found")

// Storage handles notification persistence and retrieval. The record is
// keyed by its opaque id, with a secondary lookup by owning user id.
type Storage interface {
	// Create stores a new notification.
	Create(ctx context.Context, notif Notification) error

	// Get retrieves a single notification by id.
	Get(ctx context.Context, id string) (*Notification, error)

	// ListByUser returns all notifications owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)

	// SetReadAt updates the read timestamp of a single notification as one
	// atomic read-modify-write and returns the updated record. A nil readAt
	// marks the notification unread. Returns ErrNotificationNotFound when
	// the id does not exist; no write occurs in that case.
	SetReadAt(ctx context.Context, id string, readAt *time.Time) (*Notification, error)

	// Delete removes a notification. The dispatch pipeline never deletes;
	// this exists for administrative use.
	Delete(ctx context.Context, id string) error
}
