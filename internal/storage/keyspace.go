package storage

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

// ErrWrongType is returned when a command's expected type does not match the
// type a key holds. The offending operation performs no mutation.
var ErrWrongType = errors.New("storage: operation against a key holding the wrong kind of value")

// MemberScore is one (member, score) pair for sorted-set writes.
type MemberScore struct {
	Member string
	Score  float64
}

// Store is the authoritative key space. It owns every entry and its value
// structure outright, evicts expired keys passively on access, and keeps a
// separate advisory min-heap of expiry bookkeeping entries drained by
// SweepExpired.
//
// A single mutex serializes all access: commands execute one at a time and the
// value structures themselves carry no locking.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	expiry  expiryHeap

	clock   func() time.Time
	onEvict func(active bool)
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the time source. Used by tests for deterministic expiry.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithEvictionHook registers a callback invoked once per evicted key; active
// is true for sweep evictions and false for passive ones.
func WithEvictionHook(hook func(active bool)) Option {
	return func(s *Store) {
		s.onEvict = hook
	}
}

// NewStore creates an empty key space.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// nowMillis returns the current time in Unix milliseconds.
func (s *Store) nowMillis() int64 {
	return s.clock().UnixMilli()
}

// lookupLive returns the entry for key, or nil if the key is absent. A present
// entry whose expiry has elapsed is deleted first (passive eviction) and
// reported as absent. Callers must hold s.mu.
func (s *Store) lookupLive(key string, nowMs int64) *entry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if e.expired(nowMs) {
		delete(s.entries, key)
		if s.onEvict != nil {
			s.onEvict(false)
		}
		return nil
	}
	return e
}

// Set stores a string value under key, creating the entry or replacing the
// existing value and type in place. The previous expiry is unconditionally
// overwritten: ttl > 0 sets a fresh expiry and pushes a new bookkeeping entry
// onto the heap (any prior heap entry for the key is left to go stale), ttl <= 0
// clears it.
func (s *Store) Set(key, val string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}

	e.value = stringValue(val)
	e.expiresAt = 0

	if ttl > 0 {
		at := s.nowMillis() + ttl.Milliseconds()
		e.expiresAt = at
		heap.Push(&s.expiry, expiryEntry{at: at, key: key})
	}
}

// Get returns the string stored under key. ok is false if the key is absent
// or passively evicted; ErrWrongType is returned if the key holds a non-string.
func (s *Store) Get(key string) (val string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLive(key, s.nowMillis())
	if e == nil {
		return "", false, nil
	}
	if e.kind != KindString {
		return "", false, ErrWrongType
	}
	return e.str, true, nil
}

// RPush appends values to the list under key, creating an empty list (with no
// TTL) if the key is absent. It returns the new list length.
func (s *Store) RPush(key string, values ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLive(key, s.nowMillis())
	if e == nil {
		e = &entry{value: listValue()}
		s.entries[key] = e
	} else if e.kind != KindList {
		return 0, ErrWrongType
	}
	return e.list.RPush(values...), nil
}

// LRange returns the list elements with indices in [start, stop] (inclusive,
// negative indices resolved from the tail). An absent key yields an empty
// result.
func (s *Store) LRange(key string, start, stop int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLive(key, s.nowMillis())
	if e == nil {
		return nil, nil
	}
	if e.kind != KindList {
		return nil, ErrWrongType
	}
	return e.list.Range(start, stop), nil
}

// ZAdd adds or updates members in the sorted set under key, creating the set
// if the key is absent. It returns the number of members that were newly
// added; score updates of existing members do not count.
func (s *Store) ZAdd(key string, members []MemberScore) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLive(key, s.nowMillis())
	if e == nil {
		e = &entry{value: zsetValue()}
		s.entries[key] = e
	} else if e.kind != KindZSet {
		return 0, ErrWrongType
	}

	added := 0
	for _, m := range members {
		if e.zset.Add(m.Score, m.Member) {
			added++
		}
	}
	return added, nil
}

// ZRem removes members from the sorted set under key and returns how many
// were present. An absent key yields zero.
func (s *Store) ZRem(key string, members ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLive(key, s.nowMillis())
	if e == nil {
		return 0, nil
	}
	if e.kind != KindZSet {
		return 0, ErrWrongType
	}

	removed := 0
	for _, m := range members {
		if e.zset.Remove(m) {
			removed++
		}
	}
	return removed, nil
}

// ZRange returns the sorted-set members with ranks in [start, stop]
// (inclusive, negative indices resolved from the tail) in ascending rank
// order. An absent key yields an empty result.
func (s *Store) ZRange(key string, start, stop int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLive(key, s.nowMillis())
	if e == nil {
		return nil, nil
	}
	if e.kind != KindZSet {
		return nil, ErrWrongType
	}
	return e.zset.RangeByRank(start, stop), nil
}

// Keys returns the number of keys currently held, including entries whose
// expiry has elapsed but which have not been evicted yet.
func (s *Store) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// PendingExpiries returns the number of bookkeeping entries in the expiry
// heap, stale ones included.
func (s *Store) PendingExpiries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry.Len()
}

// SweepExpired drains every due bookkeeping entry from the expiry heap. A
// popped entry is stale when its key is gone or the key's live expiry no
// longer equals the popped timestamp (the key was overwritten or its TTL
// changed); stale entries are discarded with no effect. A timestamp match is a
// valid expiration and deletes the key. This is the only path that frees
// bookkeeping entries.
func (s *Store) SweepExpired() (expired, stale int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	for s.expiry.Len() > 0 {
		if s.expiry[0].at > now {
			break
		}
		due := heap.Pop(&s.expiry).(expiryEntry)

		e, ok := s.entries[due.key]
		if !ok || e.expiresAt != due.at {
			stale++
			continue
		}
		delete(s.entries, due.key)
		if s.onEvict != nil {
			s.onEvict(true)
		}
		expired++
	}
	return expired, stale
}
