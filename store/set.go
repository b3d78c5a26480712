package store

// SAdd adds members to the set at key (creating it if absent), returning
// the number of members actually added (duplicates don't count twice).
func (s *Store) SAdd(key string, members []Scalar) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindSet, key, true, nil)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, m := range members {
		if v.sadd(m) {
			n++
		}
	}
	return n, nil
}

// SCard returns the number of members in the set at key (0 if absent).
func (s *Store) SCard(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindSet, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return int64(len(v.set)), nil
}

// setView returns the live member set at key, or an empty set if absent.
func (s *Store) setView(key string) (*Value, error) {
	v, err := s.check(KindSet, key, false, nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return newSet(), nil
	}
	return v, nil
}

// SDiff returns the set-difference of the named keys' members: everything
// in the first key not present in any of the rest.
func (s *Store) SDiff(keys []string) ([]Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAlgebra(keys, diffOp)
}

// SInter returns the intersection of all named keys' members.
func (s *Store) SInter(keys []string) ([]Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAlgebra(keys, interOp)
}

// SUnion returns the union of all named keys' members.
func (s *Store) SUnion(keys []string) ([]Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setAlgebra(keys, unionOp)
}

type setOp int

const (
	diffOp setOp = iota
	interOp
	unionOp
)

func (s *Store) setAlgebra(keys []string, op setOp) ([]Scalar, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	first, err := s.setView(keys[0])
	if err != nil {
		return nil, err
	}
	result := make(map[string]Scalar, len(first.set))
	for k, v := range first.set {
		result[k] = v
	}

	for _, key := range keys[1:] {
		other, err := s.setView(key)
		if err != nil {
			return nil, err
		}
		switch op {
		case diffOp:
			for k := range other.set {
				delete(result, k)
			}
		case interOp:
			for k := range result {
				if _, ok := other.set[k]; !ok {
					delete(result, k)
				}
			}
		case unionOp:
			for k, v := range other.set {
				result[k] = v
			}
		}
	}

	out := make([]Scalar, 0, len(result))
	for _, v := range result {
		out = append(out, v)
	}
	return out, nil
}

// storeResult implements the *STORE family: the computed set is written
// to dest, replacing any prior value there regardless of dest's previous
// kind (spec.md §4.2: "the overwrite of dest is the one allowed type
// transition for a key name, implemented as delete-then-create").
func (s *Store) storeResult(dest string, members []Scalar) int64 {
	delete(s.kv, dest)
	delete(s.expiry, dest)
	v := newSet()
	for _, m := range members {
		v.sadd(m)
	}
	s.kv[dest] = v
	return int64(len(v.set))
}

func (s *Store) SDiffStore(dest string, keys []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, err := s.setAlgebra(keys, diffOp)
	if err != nil {
		return 0, err
	}
	return s.storeResult(dest, members), nil
}

func (s *Store) SInterStore(dest string, keys []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, err := s.setAlgebra(keys, interOp)
	if err != nil {
		return 0, err
	}
	return s.storeResult(dest, members), nil
}

func (s *Store) SUnionStore(dest string, keys []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, err := s.setAlgebra(keys, unionOp)
	if err != nil {
		return 0, err
	}
	return s.storeResult(dest, members), nil
}

// SIsMember reports whether member is in the set at key.
func (s *Store) SIsMember(key string, member Scalar) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindSet, key, false, nil)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	_, ok := v.set[member.raw()]
	return ok, nil
}

// SMembers returns all members of the set at key.
func (s *Store) SMembers(key string) ([]Scalar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindSet, key, false, nil)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	out := make([]Scalar, 0, len(v.set))
	for _, m := range v.set {
		out = append(out, m)
	}
	return out, nil
}

// SPop removes and returns an arbitrary member of the set at key.
func (s *Store) SPop(key string) (Scalar, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindSet, key, false, nil)
	if err != nil {
		return Scalar{}, false, err
	}
	if v == nil || len(v.set) == 0 {
		return Scalar{}, false, nil
	}
	for k, m := range v.set {
		delete(v.set, k)
		return m, true, nil
	}
	return Scalar{}, false, nil
}

// SRem removes members from the set at key, returning the count removed.
func (s *Store) SRem(key string, members []Scalar) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.check(KindSet, key, false, nil)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	var n int64
	for _, m := range members {
		if v.srem(m) {
			n++
		}
	}
	return n, nil
}
