package email

import "errors"

var (
	// ErrNoRecipients means the message had an empty recipient list.
	// Failed fast, no transport attempt is made.
	ErrNoRecipients = errors.New("email.errors.no_recipients")

	// ErrNoContent means neither html, template nor text was supplied.
	// This is a caller configuration error, failed fast with no attempt.
	ErrNoContent = errors.New("email.errors.no_content")

	// ErrInvalidParams marks transport-level parameter validation failures.
	ErrInvalidParams = errors.New("email.errors.invalid_params")

	// ErrInvalidConfig marks sender construction failures.
	ErrInvalidConfig = errors.New("email.errors.invalid_config")

	// ErrFailedToSendEmail wraps transport delivery failures.
	ErrFailedToSendEmail = errors.New("email.errors.failed_to_send_email")

	// ErrDeliveryFailed is returned after the retry budget is exhausted.
	ErrDeliveryFailed = errors.New("email.errors.delivery_failed")
)
