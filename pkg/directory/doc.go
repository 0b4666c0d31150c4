// Package directory resolves user and group identities against the external
// directory service.
//
// The client attaches a bearer credential to every call, obtained through
// the OAuth2 client-credentials flow; the token source caches tokens until
// they expire. Two lookups are exposed with deliberately different failure
// contracts:
//
//   - ResolveGroup surfaces every failure, because notification fan-out
//     depends on the completeness of the member set.
//   - ResolveEmail is best effort and reports "no email" on any failure, so
//     an unreachable directory never blocks push delivery.
//
// Group expansion sits behind a feature flag checked before any network
// call.
package directory
