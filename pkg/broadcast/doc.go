// Package broadcast provides a topic-keyed publish/subscribe primitive used
// to push notification updates to connected clients.
//
// The dispatcher publishes a user's refreshed notification list on a topic
// named after the user id; transport layers (the SSE stream handler) hold a
// Subscriber on that topic for as long as the client stays connected.
//
// Two implementations are provided:
//
//   - MemoryBroadcaster: in-process, non-blocking, drops messages for slow
//     consumers. Suitable for single-instance deployments and tests.
//   - RedisBroadcaster: Redis pub/sub backed, for multi-instance deployments
//     where the subscriber may be connected to a different process than the
//     one that dispatched the notification.
//
// Delivery is best effort in both cases: the durable notification record is
// the source of truth, the broadcast only tells live clients to refresh.
package broadcast
