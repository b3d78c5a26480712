package store

// LPush prepends items to the queue at key (creating it if absent),
// returning the resulting length.
func (s *Store) LPush(key string, items []Scalar) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, true, nil)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		v.queue = append([]Scalar{item}, v.queue...)
	}
	return int64(len(v.queue)), nil
}

// RPush appends items to the queue at key (creating it if absent),
// returning the resulting length.
func (s *Store) RPush(key string, items []Scalar) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, true, nil)
	if err != nil {
		return 0, err
	}
	v.queue = append(v.queue, items...)
	return int64(len(v.queue)), nil
}

// LPop removes and returns the leftmost item.
func (s *Store) LPop(key string) (Scalar, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return Scalar{}, false, err
	}
	if v == nil || len(v.queue) == 0 {
		return Scalar{}, false, nil
	}
	item := v.queue[0]
	v.queue = v.queue[1:]
	return item, true, nil
}

// RPop removes and returns the rightmost item.
func (s *Store) RPop(key string) (Scalar, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return Scalar{}, false, err
	}
	if v == nil || len(v.queue) == 0 {
		return Scalar{}, false, nil
	}
	n := len(v.queue)
	item := v.queue[n-1]
	v.queue = v.queue[:n-1]
	return item, true, nil
}

// LRem removes up to count occurrences of value from the queue at key
// (all occurrences if count <= 0), returning the number removed.
func (s *Store) LRem(key string, value Scalar, count int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	target := value.raw()
	out := v.queue[:0:0]
	var removed int64
	for _, item := range v.queue {
		if item.raw() == target && (count <= 0 || removed < count) {
			removed++
			continue
		}
		out = append(out, item)
	}
	v.queue = out
	return removed, nil
}

// LLen returns the length of the queue at key.
func (s *Store) LLen(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return int64(len(v.queue)), nil
}

// LIndex returns the item at index (supporting negative indices counted
// from the end), or (Scalar{}, false) if out of range rather than
// failing, per spec.md §4.2.
func (s *Store) LIndex(key string, index int64) (Scalar, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return Scalar{}, false, err
	}
	if v == nil {
		return Scalar{}, false, nil
	}
	i := normalizeIndex(index, len(v.queue))
	if i < 0 || i >= len(v.queue) {
		return Scalar{}, false, nil
	}
	return v.queue[i], true, nil
}

// LRange returns items in the half-open range [start, end), clamped to
// the queue bounds.
func (s *Store) LRange(key string, start, end int64) ([]Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	n := len(v.queue)
	lo := clampIndex(normalizeIndex(start, n), n)
	hi := clampIndex(normalizeIndex(end, n), n)
	if lo >= hi {
		return nil, nil
	}
	out := make([]Scalar, hi-lo)
	copy(out, v.queue[lo:hi])
	return out, nil
}

// LSet overwrites the item at index, returning false (rather than
// failing) if index is out of range.
func (s *Store) LSet(key string, index int64, val Scalar) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	i := normalizeIndex(index, len(v.queue))
	if i < 0 || i >= len(v.queue) {
		return false, nil
	}
	v.queue[i] = val
	return true, nil
}

// LTrim reassigns the queue to the half-open [start, end) slice, per
// spec.md §9's open question: ltrim reassigns rather than mutating in
// place, so callers must not hold aliases to the old backing slice.
func (s *Store) LTrim(key string, start, end int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	n := len(v.queue)
	lo := clampIndex(normalizeIndex(start, n), n)
	hi := clampIndex(normalizeIndex(end, n), n)
	if lo >= hi {
		v.queue = nil
		return nil
	}
	trimmed := make([]Scalar, hi-lo)
	copy(trimmed, v.queue[lo:hi])
	v.queue = trimmed
	return nil
}

// RPopLPush atomically pops the right end of src and pushes it to the
// left end of dest. If src is empty, returns (Scalar{}, false, nil) and
// does not create dest (spec.md §4.2).
func (s *Store) RPopLPush(src, dest string) (Scalar, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcV, err := s.check(KindQueue, src, false, nil)
	if err != nil {
		return Scalar{}, false, err
	}
	if srcV == nil || len(srcV.queue) == 0 {
		return Scalar{}, false, nil
	}

	destV, err := s.check(KindQueue, dest, true, nil)
	if err != nil {
		return Scalar{}, false, err
	}

	n := len(srcV.queue)
	item := srcV.queue[n-1]
	srcV.queue = srcV.queue[:n-1]
	destV.queue = append([]Scalar{item}, destV.queue...)
	return item, true, nil
}

// LFlush drops the queue at key entirely, returning the length it had.
func (s *Store) LFlush(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindQueue, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	n := int64(len(v.queue))
	delete(s.kv, key)
	delete(s.expiry, key)
	return n, nil
}

func normalizeIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	return int(i)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
