package notifications

import (
	"time"
)

// Type classifies a notification; it selects default template copy for the
// email channel.
type Type string

const (
	TypeInfo     Type = "info"
	TypeWarning  Type = "warning"
	TypeCongrats Type = "congrats"
	TypeNone     Type = "none"
)

// Channel is the delivery policy of a notification: push only, email only,
// or both. It is fixed at creation.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelAll   Channel = "all"
)

// IncludesEmail reports whether the policy requires an email delivery.
func (c Channel) IncludesEmail() bool {
	return c == ChannelEmail || c == ChannelAll
}

// IncludesPush reports whether the policy requires a push delivery.
// An unset channel defaults to push.
func (c Channel) IncludesPush() bool {
	return c == ChannelPush || c == ChannelAll || c == ""
}

// Notification is the unit of delivery. One record exists per resolved
// recipient; all records created from one request share a ReceivedAt
// timestamp. ID, Channel and Type are assigned at creation and never change;
// only ReadAt is mutated afterwards, by the mark-as-read/unread operations.
type Notification struct {
	ID               string     `json:"id" bson:"_id"`
	UserID           string     `json:"user_id" bson:"user_id"`
	Title            string     `json:"title,omitempty" bson:"title,omitempty"`
	Message          string     `json:"message" bson:"message"`
	ShortDescription string     `json:"short_description,omitempty" bson:"short_description,omitempty"`
	Priority         bool       `json:"priority" bson:"priority"`
	Type             Type       `json:"notification_type" bson:"notification_type"`
	Channel          Channel    `json:"notify_type" bson:"notify_type"`
	ReceivedAt       time.Time  `json:"received_at" bson:"received_at"`
	ReadAt           *time.Time `json:"read_at,omitempty" bson:"read_at,omitempty"`
}

// IsRead reports whether the notification has been marked as read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
