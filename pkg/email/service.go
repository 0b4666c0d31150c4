package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sauportal/notifier/pkg/email/templates"
	"github.com/sauportal/notifier/pkg/logger"
)

// Message is one logical email to one or more recipients.
// Content resolution follows the resolver precedence: raw HTML wins over a
// named template, which wins over a <pre>-wrapped text body.
type Message struct {
	To        []string
	Subject   string
	Text      string
	HTML      string
	Template  string
	Variables map[string]any
	ReplyTo   string
	CTALink   string
	Tag       string
}

// Service composes and delivers emails through an EmailSender transport,
// retrying the whole delivery a bounded number of times with exponential
// backoff.
type Service struct {
	sender   EmailSender
	resolver *templates.Resolver
	attempts int
	backoff  BackoffStrategy
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRetryAttempts sets the total attempt budget (first try included).
func WithRetryAttempts(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithBackoff sets the backoff strategy between attempts.
func WithBackoff(strategy BackoffStrategy) ServiceOption {
	return func(s *Service) {
		if strategy != nil {
			s.backoff = strategy
		}
	}
}

// NewService creates an email service on top of the given transport.
// Defaults: 3 attempts total, exponential backoff starting at 1.5s.
func NewService(sender EmailSender, resolver *templates.Resolver, opts ...ServiceOption) *Service {
	s := &Service{
		sender:   sender,
		resolver: resolver,
		attempts: 3,
		backoff:  DefaultBackoffStrategy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate performs the fail-fast checks without touching the transport:
// recipient list present, addresses well-formed, and content resolvable.
// The HTTP layer uses it to reject a message before accepting it for
// asynchronous delivery.
func (s *Service) Validate(msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	for _, addr := range msg.To {
		if !emailRegex.MatchString(addr) {
			return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidParams, addr)
		}
	}
	if msg.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if _, _, err := s.resolver.Resolve(templates.Request{
		HTML:      msg.HTML,
		Template:  msg.Template,
		Text:      msg.Text,
		Variables: msg.Variables,
		CTALink:   msg.CTALink,
	}); err != nil {
		if errors.Is(err, templates.ErrNoContent) {
			return fmt.Errorf("%w: %w", ErrNoContent, err)
		}
		return err
	}
	return nil
}

// Send composes the message and delivers one physical email per recipient.
//
// An empty recipient list and unresolvable content fail fast without any
// transport attempt. Transport failures retry the whole delivery as a unit,
// up to the attempt budget; within one attempt the first failing recipient
// aborts the remaining ones, and the next attempt re-runs the full recipient
// loop, so recipients already delivered to may receive duplicates
// (at-least-once delivery).
func (s *Service) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	html, text, err := s.resolver.Resolve(templates.Request{
		HTML:      msg.HTML,
		Template:  msg.Template,
		Text:      msg.Text,
		Variables: msg.Variables,
		CTALink:   msg.CTALink,
	})
	if err != nil {
		if errors.Is(err, templates.ErrNoContent) {
			return fmt.Errorf("%w: %w", ErrNoContent, err)
		}
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			delay := s.backoff.NextInterval(attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := s.deliver(ctx, msg, html, text); err != nil {
			lastErr = err
			s.logger.LogAttrs(ctx, slog.LevelWarn, "Email delivery attempt failed",
				logger.Attempt(attempt),
				slog.String("subject", msg.Subject),
				logger.Error(err),
			)
			continue
		}
		return nil
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, s.attempts, lastErr)
}

// SendAsync delivers the message off the caller's goroutine. The caller's
// context only contributes values; cancelling the triggering request does not
// cancel an in-flight retry sequence. Terminal failures are logged, never
// returned.
func (s *Service) SendAsync(ctx context.Context, msg Message) {
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Send(detached, msg); err != nil {
			s.logger.LogAttrs(detached, slog.LevelError, "Email delivery failed permanently",
				slog.String("subject", msg.Subject),
				slog.Int("recipients", len(msg.To)),
				logger.Error(err),
			)
		}
	}()
}

// Wait blocks until all asynchronous sends have finished. Intended for
// graceful shutdown and tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) deliver(ctx context.Context, msg Message, html, text string) error {
	for _, recipient := range msg.To {
		params := SendEmailParams{
			SendTo:   recipient,
			Subject:  msg.Subject,
			BodyHTML: templates.InjectRecipient(html, recipient),
			BodyText: templates.InjectRecipient(text, recipient),
			ReplyTo:  msg.ReplyTo,
			Tag:      msg.Tag,
		}
		if err := s.sender.SendEmail(ctx, params); err != nil {
			return fmt.Errorf("send to %s: %w", recipient, err)
		}
	}
	return nil
}
