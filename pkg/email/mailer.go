package email

import (
	"context"
	"fmt"
	"regexp"
)

// EmailSender is the outbound mail transport. One call delivers one physical
// email to one recipient.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents one physical email handed to the transport.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`            // Email address of the recipient
	Subject  string `json:"subject"`            // Subject of the email
	BodyHTML string `json:"body_html"`          // HTML body of the email
	BodyText string `json:"body_text"`          // Plain-text alternative body
	ReplyTo  string `json:"reply_to,omitempty"` // Optional reply-to override
	Tag      string `json:"tag,omitempty"`      // Optional grouping tag
}

// emailRegex is a pragmatic address check, not full RFC 5322 validation.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks that the params describe a sendable email.
func (p SendEmailParams) Validate() error {
	if p.SendTo == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if !emailRegex.MatchString(p.SendTo) {
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	}
	if p.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if p.BodyHTML == "" {
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	if p.ReplyTo != "" && !emailRegex.MatchString(p.ReplyTo) {
		return fmt.Errorf("%w: ReplyTo must be a valid email address", ErrInvalidParams)
	}
	return nil
}
