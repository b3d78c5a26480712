package store

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"time"
)

// snapshotEntry is the gob-friendly shape of one key: gob cannot encode
// the store's private idx/fields pairing directly in a way that preserves
// order across versions, so each container kind gets its own explicit,
// order-preserving field(s) in the entry. Grounded
// in other_examples/messdev072-multithreaded-redis's store_serialize.go,
// which gob-encodes a parallel SerializedValue struct per entry rather
// than the live Value type.
type snapshotEntry struct {
	Key    string
	Kind   ValueKind
	Scalar Scalar // KindKV

	HashFields []string // KindHash
	HashVals   []Scalar

	SetMembers []Scalar // KindSet

	Queue []Scalar // KindQueue
}

func init() {
	gob.Register(snapshotEntry{})
}

// toSnapshot converts the live store into gob-ready entries. The TTL
// index is intentionally omitted per spec.md §4.4: "the TTL index may be
// omitted by this snapshot format, in which case restored keys are
// immortal until reassigned".
func (s *Store) toSnapshot() []snapshotEntry {
	entries := make([]snapshotEntry, 0, len(s.kv))
	for key, v := range s.kv {
		e := snapshotEntry{Key: key, Kind: v.Kind}
		switch v.Kind {
		case KindKV:
			e.Scalar = v.Scalar
		case KindHash:
			e.HashFields = make([]string, len(v.fields))
			e.HashVals = make([]Scalar, len(v.fields))
			for i, kv := range v.fields {
				e.HashFields[i] = kv.field
				e.HashVals[i] = kv.val
			}
		case KindSet:
			e.SetMembers = make([]Scalar, 0, len(v.set))
			for _, m := range v.set {
				e.SetMembers = append(e.SetMembers, m)
			}
		case KindQueue:
			e.Queue = append([]Scalar(nil), v.queue...)
		}
		entries = append(entries, e)
	}
	return entries
}

func entryToValue(e snapshotEntry) *Value {
	switch e.Kind {
	case KindKV:
		return newKV(e.Scalar)
	case KindHash:
		v := newHash()
		for i, f := range e.HashFields {
			v.hset(f, e.HashVals[i])
		}
		return v
	case KindSet:
		v := newSet()
		for _, m := range e.SetMembers {
			v.sadd(m)
		}
		return v
	case KindQueue:
		v := newQueue()
		v.queue = append([]Scalar(nil), e.Queue...)
		return v
	default:
		return newKV(Scalar{})
	}
}

// Save atomically writes the current key-space to path: it encodes to a
// temp file in the same directory, then os.Rename's over the destination,
// so a reader of path never observes a partially-written snapshot
// (spec.md §4.4).
func (s *Store) Save(path string) error {
	s.mu.Lock()
	entries := s.toSnapshot()
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return cmdErrorf("save failed: %s", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".goradieschen-snapshot-*")
	if err != nil {
		return cmdErrorf("save failed: %s", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return cmdErrorf("save failed: %s", err)
	}
	if err := tmp.Close(); err != nil {
		return cmdErrorf("save failed: %s", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return cmdErrorf("save failed: %s", err)
	}
	return nil
}

// Restore replaces the current store with the snapshot at path. Returns
// (false, nil) if the file does not exist, per spec.md §4.4.
func (s *Store) Restore(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, cmdErrorf("restore failed: %s", err)
	}

	var entries []snapshotEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return false, cmdErrorf("restore failed: %s", err)
	}

	kv := make(map[string]*Value, len(entries))
	for _, e := range entries {
		kv[e.Key] = entryToValue(e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv = kv
	s.expiry = make(map[string]time.Time)
	s.expiryHeap = nil
	return true, nil
}

// Merge copies every key present in the snapshot at path but absent from
// the live store; in-memory keys win on conflict. Returns (false, nil) if
// the file does not exist.
func (s *Store) Merge(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, cmdErrorf("merge failed: %s", err)
	}

	var entries []snapshotEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return false, cmdErrorf("merge failed: %s", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if s.exists(e.Key) {
			continue
		}
		s.kv[e.Key] = entryToValue(e)
	}
	return true, nil
}
