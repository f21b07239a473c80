// Package storage provides the in-memory storage engine for lorikv.
//
// Architecture:
//
//   - Store: the authoritative key space, a type-tagged map owning string,
//     list, and sorted-set values outright
//   - Expiry heap: an advisory min-heap of (timestamp, key copy) bookkeeping
//     entries with no ownership link to the key space
//   - Sweeper: periodic active eviction that drains due heap entries,
//     reconciling staleness by re-lookup and timestamp equality
//
// Expired keys are also evicted passively: every accessor checks the entry's
// own expiry before touching the value, so a key reads as absent the moment
// its TTL elapses whether or not a sweep has run.
package storage
