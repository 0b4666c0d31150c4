// Package notifications is the dispatch core of the notifier service.
//
// A Notification is the unit of delivery: one record per resolved recipient,
// persisted through the Storage interface (in-memory and MongoDB
// implementations ship with the package). The Dispatcher orchestrates the
// pipeline described by the service's API:
//
//	request -> resolve recipients (users + group expansion via directory)
//	        -> persist one row per recipient (one shared ReceivedAt)
//	        -> broadcast the refreshed list to each user's topic
//	        -> after commit: compose + hand off email, when the channel
//	           policy includes it
//
// Ordering guarantees: a user's push broadcast always reflects the list
// after that user's row was persisted; the email effect runs only after the
// whole batch committed, and never when the unit of work rolled back.
// Delivery beyond persistence is best effort - broadcast and email failures
// are logged and absorbed, they never fail the creation request. Group
// resolution failures, by contrast, fail the request before anything is
// written.
//
// Read-state mutations (mark as read/unread) are single atomic per-row
// updates; absence is reported as ErrNotificationNotFound.
package notifications
