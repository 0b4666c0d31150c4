// Package email composes and delivers outbound mail for the notifier
// service.
//
// The EmailSender interface is the physical transport: one call, one
// recipient, one email. Two implementations ship with the package - a
// Postmark client for production and DevSender, which writes emails to disk
// for local development.
//
// Service sits on top of a transport and owns composition and delivery
// semantics: content resolution through the templates subpackage, the
// per-recipient send loop, and a bounded retry of the whole delivery with
// exponential backoff (default 3 attempts, 1.5s initial delay, doubling).
// SendAsync runs a delivery off the caller's goroutine; the dispatch pipeline
// uses it so an email never blocks or fails the request that triggered it.
//
// Failure taxonomy: ErrNoRecipients and ErrNoContent fail fast with no
// transport attempt; transport errors are retried and surface as
// ErrDeliveryFailed once the attempt budget is exhausted.
package email
