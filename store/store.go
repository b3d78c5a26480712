package store

import (
	"sync"
	"time"
)

// Store is the shared, process-wide key-space. Every command runs under
// mu, the single global lock described in SPEC_FULL.md §5: container
// operations (HASH/SET/QUEUE mutation) are not individually atomic, and
// several commands (GETSET, RPOPLPUSH, INCR*) touch more than one field,
// so the whole command body must be serialized.
type Store struct {
	mu         sync.Mutex
	kv         map[string]*Value
	expiry     map[string]time.Time
	expiryHeap ttlHeap
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		kv:     make(map[string]*Value),
		expiry: make(map[string]time.Time),
	}
}

// check implements spec.md §4.2's type-enforcement step: lazily expire,
// then verify (or create) the key as the expected kind, optionally
// requiring a scalar subtype for KV values.
func (s *Store) check(kind ValueKind, key string, createIfMissing bool, scalarKind *ScalarKind) (*Value, error) {
	now := time.Now()
	if s.checkExpired(key, now) {
		s.expireNow(key)
	}

	v, ok := s.kv[key]
	if !ok {
		if !createIfMissing {
			return nil, nil
		}
		v = s.createEmpty(kind)
		s.kv[key] = v
		return v, nil
	}

	if v.Kind != kind {
		return nil, cmdErrorf("wrong type: expected %s, key %q is %s", kind, key, v.Kind)
	}
	if scalarKind != nil && v.Scalar.Kind != *scalarKind {
		return nil, cmdErrorf("wrong value type for key %q", key)
	}
	return v, nil
}

func (s *Store) createEmpty(kind ValueKind) *Value {
	switch kind {
	case KindKV:
		return newKV(BytesScalar(nil))
	case KindHash:
		return newHash()
	case KindSet:
		return newSet()
	case KindQueue:
		return newQueue()
	default:
		panic("store: unknown value kind")
	}
}

// exists reports whether key is present and unexpired, lazily deleting it
// if its TTL has passed. Mirrors original_source's kv_exists/check_expired
// pair, generalized across all four kinds.
func (s *Store) exists(key string) bool {
	now := time.Now()
	if s.checkExpired(key, now) {
		s.expireNow(key)
		return false
	}
	_, ok := s.kv[key]
	return ok
}

// Len returns the total number of live keys (LEN).
func (s *Store) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var n int64
	for key := range s.kv {
		if !s.checkExpired(key, now) {
			n++
		}
	}
	return n
}

// Flush drops every key and returns the count dropped (FLUSH / FLUSHALL
// — the spec treats both as "drop everything"; FLUSHALL additionally
// clears the TTL index, which FLUSH also does here since a dangling
// expiry on an absent key would violate invariant 2).
func (s *Store) Flush() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.kv))
	s.kv = make(map[string]*Value)
	s.expiry = make(map[string]time.Time)
	s.expiryHeap = nil
	return n
}

// FlushAll is an alias for Flush, kept distinct so the dispatcher table
// can name both FLUSH and FLUSHALL per spec.md §4.2/§4.2 admin section.
func (s *Store) FlushAll() int64 {
	return s.Flush()
}
