// Package kv is the storefront's key/value persistence layer.
//
// A Store holds opaque JSON text under string keys. Two stores ship:
// Memory, for tests and throwaway sessions, and SQLite, a single-table
// database opened with the same pragmas and migration scheme as any other
// local SQLite file the tool writes.
//
// The Adapter sits between the domain packages and a Store. It encodes and
// decodes JSON and never returns errors: a failed read yields the caller's
// default and a failed write is logged and dropped. Persistence is a
// convenience in the storefront, never a reason to fail a cart operation.
//
// # Keys
//
//   - cartItems: the cart lines
//   - recentlyViewed: product IDs, most recent first
//   - lastOrder: the most recent confirmed order
package kv
