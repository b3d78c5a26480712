package store

// HSet sets a single field on the hash at key (creating it if absent).
// Returns true if the field was newly created.
func (s *Store) HSet(key, field string, val Scalar) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, true, nil)
	if err != nil {
		return false, err
	}
	return v.hset(field, val), nil
}

// HSetNX sets field only if it does not already exist on the hash.
func (s *Store) HSetNX(key, field string, val Scalar) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, true, nil)
	if err != nil {
		return false, err
	}
	if _, ok := v.hget(field); ok {
		return false, nil
	}
	v.hset(field, val)
	return true, nil
}

// HGet returns a single field's value.
func (s *Store) HGet(key, field string) (Scalar, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return Scalar{}, false, err
	}
	if v == nil {
		return Scalar{}, false, nil
	}
	val, ok := v.hget(field)
	return val, ok, nil
}

// HMGet returns a field -> (value, ok) mapping; missing fields are ok=false
// so the dispatcher can encode them as wire null.
func (s *Store) HMGet(key string, fields []string) (map[string]struct {
	Val Scalar
	Ok  bool
}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct {
		Val Scalar
		Ok  bool
	}, len(fields))
	for _, f := range fields {
		if v == nil {
			out[f] = struct {
				Val Scalar
				Ok  bool
			}{}
			continue
		}
		val, ok := v.hget(f)
		out[f] = struct {
			Val Scalar
			Ok  bool
		}{Val: val, Ok: ok}
	}
	return out, nil
}

// HMSet sets multiple fields at once.
func (s *Store) HMSet(key string, fields map[string]Scalar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, true, nil)
	if err != nil {
		return err
	}
	for f, val := range fields {
		v.hset(f, val)
	}
	return nil
}

// HDel removes fields from the hash, returning the count actually
// removed.
func (s *Store) HDel(key string, fields []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	var n int64
	for _, f := range fields {
		if v.hdel(f) {
			n++
		}
	}
	return n, nil
}

// HExists reports whether field exists on the hash at key.
func (s *Store) HExists(key, field string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	_, ok := v.hget(field)
	return ok, nil
}

// HKeys returns the hash's field names in insertion order.
func (s *Store) HKeys(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	out := make([]string, len(v.fields))
	for i, kv := range v.fields {
		out[i] = kv.field
	}
	return out, nil
}

// HVals returns the hash's values in insertion order.
func (s *Store) HVals(key string) ([]Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	out := make([]Scalar, len(v.fields))
	for i, kv := range v.fields {
		out[i] = kv.val
	}
	return out, nil
}

// HGetAll returns the hash's fields and values in insertion order.
func (s *Store) HGetAll(key string) ([]string, []Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return nil, nil, err
	}
	if v == nil {
		return nil, nil, nil
	}
	fields := make([]string, len(v.fields))
	vals := make([]Scalar, len(v.fields))
	for i, kv := range v.fields {
		fields[i] = kv.field
		vals[i] = kv.val
	}
	return fields, vals, nil
}

// HLen returns the number of fields in the hash at key.
func (s *Store) HLen(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return int64(len(v.fields)), nil
}

// HIncrBy increments a numeric field by n, treating a missing field as 0.
func (s *Store) HIncrBy(key, field string, n int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindHash, key, true, nil)
	if err != nil {
		return 0, err
	}
	cur, ok := v.hget(field)
	if !ok {
		cur = IntScalar(0)
	} else if cur.Kind != ScalarInt {
		return 0, cmdErrorf("wrong value type for field %q of key %q", field, key)
	}
	next := IntScalar(cur.Int + n)
	v.hset(field, next)
	return next.Int, nil
}
