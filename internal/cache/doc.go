// Package cache provides the multi-index in-memory cache (C2) and the
// underlying TTL cache primitive it builds on.
//
// Index holds three views over the same record set:
//   - ById: sync.Map keyed by minted identifier, read on every GET by ID.
//   - HandleSeen: sync.Map keyed by apelido, claimed atomically with
//     LoadOrStore so two concurrent writers racing the same handle can
//     never both win.
//   - BySearch: a lazily-expiring TTL cache (Cache/Cacher below) keyed by
//     raw search term, capped at a short TTL since search results
//     go stale the moment a new record is ingested.
//
// Cache/Cacher is a general-purpose thread-safe TTL map with lazy
// expiration and a background cleanup goroutine; Index is the only
// consumer in this module, via BySearch.
package cache
