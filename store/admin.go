package store

import "time"

// Expire attaches a TTL of n seconds to an existing key (absolute expiry
// = now + n). Returns false if the key does not exist.
func (s *Store) Expire(key string, seconds int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(key) {
		return false
	}
	s.setExpiry(key, time.Now().Add(time.Duration(seconds)*time.Second))
	return true
}
