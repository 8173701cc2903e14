// Package cache holds the client's in-process stores: a bounded keyed cache
// with optional TTL, a bounded keyless sequence with optional sorted reads,
// and a single-slot call memoizer for short-lived request windows.
//
// All stores are scope-owned and purely in-memory. They never return errors;
// absence is reported as a missing value. Eviction is silent.
//
// Components:
//   - Cache[K,V]: map-backed store, oldest-inserted evicted on overflow,
//     lazy TTL expiry (stale entries are hidden on read, not swept).
//   - Sequence[V]: append-only bounded history; reads can be sorted by an
//     injected comparison without disturbing insertion order.
//   - Memoizer: per-operation result slot; repeated calls inside the window
//     return the prior result without re-invoking the operation.
package cache
