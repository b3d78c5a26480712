package store

import "time"

// Get returns the key's scalar value, or (Scalar{}, false) if absent or
// expired.
func (s *Store) Get(key string) (Scalar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(key) {
		return Scalar{}, false
	}
	v := s.kv[key]
	if v.Kind != KindKV {
		return Scalar{}, false
	}
	return v.Scalar, true
}

// Set stores a scalar at key, clearing any existing TTL (spec.md §3/§4.2:
// "Setting a key's scalar via SET clears any existing TTL").
func (s *Store) Set(key string, val Scalar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, val)
}

func (s *Store) setLocked(key string, val Scalar) {
	s.unexpire(key)
	s.kv[key] = newKV(val)
}

// SetNX sets key only if it does not already exist (and is not expired).
// Returns true if the key was created.
func (s *Store) SetNX(key string, val Scalar) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exists(key) {
		return false
	}
	s.setLocked(key, val)
	return true
}

// SetEX sets key and attaches a TTL of seconds, clearing then re-adding
// the TTL in that exact order (spec.md §9 "Open question": kv_setex
// clears via kv_set and then re-adds it; order matters).
func (s *Store) SetEX(key string, val Scalar, seconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, val)
	s.setExpiry(key, time.Now().Add(time.Duration(seconds)*time.Second))
}

// Append concatenates arg onto the existing scalar, or behaves as Set if
// key is absent. Returns the resulting scalar, or an error if the payload
// types cannot be combined.
func (s *Store) Append(key string, arg Scalar) (Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(key) {
		s.setLocked(key, arg)
		return arg, nil
	}

	v := s.kv[key]
	if v.Kind != KindKV {
		return Scalar{}, cmdErrorf("wrong type: expected KV, key %q is %s", key, v.Kind)
	}

	combined, err := combineScalars(v.Scalar, arg)
	if err != nil {
		return Scalar{}, err
	}
	v.Scalar = combined
	return combined, nil
}

// combineScalars implements APPEND's natural concatenation/addition: byte
// strings concatenate, numeric types add. Mixing incompatible subtypes
// (e.g. appending bytes onto an integer) is rejected.
func combineScalars(base, arg Scalar) (Scalar, error) {
	if base.Kind != arg.Kind {
		return Scalar{}, &CommandError{Message: errIncompatible.Error()}
	}
	switch base.Kind {
	case ScalarBytes:
		out := make([]byte, 0, len(base.Bytes)+len(arg.Bytes))
		out = append(out, base.Bytes...)
		out = append(out, arg.Bytes...)
		return BytesScalar(out), nil
	case ScalarInt:
		return IntScalar(base.Int + arg.Int), nil
	case ScalarFloat:
		return FloatScalar(base.Float + arg.Float), nil
	default:
		return Scalar{}, &CommandError{Message: errIncompatible.Error()}
	}
}

// Delete removes key if present, returning whether it existed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(key)
}

func (s *Store) deleteLocked(key string) bool {
	if !s.exists(key) {
		return false
	}
	delete(s.kv, key)
	delete(s.expiry, key)
	return true
}

// Exists reports whether key is live.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists(key)
}

// GetSet atomically replaces key's scalar and returns the previous value
// (if any). GETSET does not clear-then-reset a TTL the way SET does in
// the source; it simply overwrites the stored Value in place, which
// leaves any existing TTL as-is, matching original_source's kv_getset
// (it never calls unexpire).
func (s *Store) GetSet(key string, val Scalar) (Scalar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orig Scalar
	var ok bool
	if s.exists(key) {
		orig = s.kv[key].Scalar
		ok = true
	}
	s.kv[key] = newKV(val)
	return orig, ok
}

// Pop removes key and returns its scalar, if present.
func (s *Store) Pop(key string) (Scalar, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(key) {
		return Scalar{}, false
	}
	v := s.kv[key]
	delete(s.kv, key)
	delete(s.expiry, key)
	return v.Scalar, true
}

// incr implements INCR/DECR/INCRBY/DECRBY: absent keys are treated as 0
// and created as numeric; existing keys must already be numeric.
func (s *Store) incr(key string, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(key) {
		v := s.kv[key]
		if v.Kind != KindKV || v.Scalar.Kind != ScalarInt {
			return 0, cmdErrorf("wrong value type for key %q", key)
		}
		v.Scalar.Int += n
		return v.Scalar.Int, nil
	}
	s.unexpire(key)
	s.kv[key] = newKV(IntScalar(n))
	return n, nil
}

func (s *Store) Incr(key string) (int64, error)             { return s.incr(key, 1) }
func (s *Store) Decr(key string) (int64, error)              { return s.incr(key, -1) }
func (s *Store) IncrBy(key string, n int64) (int64, error)   { return s.incr(key, n) }
func (s *Store) DecrBy(key string, n int64) (int64, error)   { return s.incr(key, -n) }

// MGet returns the scalar for each key, or (Scalar{}, false) for any that
// are absent/expired/non-KV.
func (s *Store) MGet(keys []string) [](struct {
	Val Scalar
	Ok  bool
}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]struct {
		Val Scalar
		Ok  bool
	}, len(keys))
	for i, k := range keys {
		if s.exists(k) {
			if v := s.kv[k]; v.Kind == KindKV {
				out[i].Val, out[i].Ok = v.Scalar, true
			}
		}
	}
	return out
}

// MSet sets every key/value pair, clearing TTLs as Set does.
func (s *Store) MSet(pairs map[string]Scalar) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, v := range pairs {
		s.setLocked(k, v)
		n++
	}
	return n
}

// MSetEX sets every pair then attaches the same TTL to each, per
// kv_msetex's clear-then-set order within MSet itself.
func (s *Store) MSetEX(pairs map[string]Scalar, seconds int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Now().Add(time.Duration(seconds) * time.Second)
	var n int64
	for k, v := range pairs {
		s.setLocked(k, v)
		s.setExpiry(k, exp)
		n++
	}
	return n
}

// MDelete deletes each key and returns the count actually removed.
func (s *Store) MDelete(keys []string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, k := range keys {
		if s.deleteLocked(k) {
			n++
		}
	}
	return n
}

// MPop pops each key, returning its scalar (or not-ok) per key.
func (s *Store) MPop(keys []string) [](struct {
	Val Scalar
	Ok  bool
}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]struct {
		Val Scalar
		Ok  bool
	}, len(keys))
	for i, k := range keys {
		if s.exists(k) {
			v := s.kv[k]
			if v.Kind == KindKV {
				out[i].Val, out[i].Ok = v.Scalar, true
			}
			delete(s.kv, k)
			delete(s.expiry, k)
		}
	}
	return out
}
