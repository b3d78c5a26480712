// Package store implements the typed key-space: scalar, hash, set and
// queue values, their per-command semantics, and the TTL index.
package store

import "fmt"

// ValueKind tags the datatype of a stored value. Once a key is created
// with a given Kind, it keeps that Kind until deleted.
type ValueKind uint8

const (
	KindKV ValueKind = iota
	KindHash
	KindSet
	KindQueue
)

func (k ValueKind) String() string {
	switch k {
	case KindKV:
		return "KV"
	case KindHash:
		return "HASH"
	case KindSet:
		return "SET"
	case KindQueue:
		return "QUEUE"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// ScalarKind tags the payload subtype of a KV value or a container
// element (HASH field, SET member, QUEUE item).
type ScalarKind uint8

const (
	ScalarBytes ScalarKind = iota
	ScalarInt
	ScalarFloat
)

// Scalar is the leaf payload: a byte string, an integer, or a float.
// Exactly one of Bytes/Int/Float is meaningful, selected by Kind.
type Scalar struct {
	Kind  ScalarKind
	Bytes []byte
	Int   int64
	Float float64
}

func BytesScalar(b []byte) Scalar { return Scalar{Kind: ScalarBytes, Bytes: b} }
func IntScalar(n int64) Scalar    { return Scalar{Kind: ScalarInt, Int: n} }
func FloatScalar(f float64) Scalar { return Scalar{Kind: ScalarFloat, Float: f} }

// raw returns a canonical byte-string form used as a SET/HASH member key
// and for structural comparisons.
func (s Scalar) raw() string {
	switch s.Kind {
	case ScalarBytes:
		return string(s.Bytes)
	case ScalarInt:
		return fmt.Sprintf("%d", s.Int)
	case ScalarFloat:
		return fmt.Sprintf("%g", s.Float)
	default:
		return ""
	}
}

// hkv is an ordered (field, scalar) pair, used so HASH preserves
// insertion order the way a Python dict (and the wire %-tag) expects.
type hkv struct {
	field string
	val   Scalar
}

// Value is the tagged union stored at one key.
type Value struct {
	Kind ValueKind

	// KindKV
	Scalar Scalar

	// KindHash: insertion-ordered field -> scalar. idx maps field name to
	// its position in fields for O(1) lookup/update without losing order.
	fields []hkv
	idx    map[string]int

	// KindSet: unordered. Keyed by the scalar's canonical raw form.
	set map[string]Scalar

	// KindQueue: insertion-ordered, double-ended.
	queue []Scalar
}

func newHash() *Value {
	return &Value{Kind: KindHash, idx: make(map[string]int)}
}

func newSet() *Value {
	return &Value{Kind: KindSet, set: make(map[string]Scalar)}
}

func newQueue() *Value {
	return &Value{Kind: KindQueue}
}

func newKV(s Scalar) *Value {
	return &Value{Kind: KindKV, Scalar: s}
}

func (v *Value) hget(field string) (Scalar, bool) {
	i, ok := v.idx[field]
	if !ok {
		return Scalar{}, false
	}
	return v.fields[i].val, true
}

func (v *Value) hset(field string, val Scalar) bool {
	if i, ok := v.idx[field]; ok {
		v.fields[i].val = val
		return false
	}
	v.idx[field] = len(v.fields)
	v.fields = append(v.fields, hkv{field: field, val: val})
	return true
}

func (v *Value) hdel(field string) bool {
	i, ok := v.idx[field]
	if !ok {
		return false
	}
	v.fields = append(v.fields[:i], v.fields[i+1:]...)
	delete(v.idx, field)
	for j := i; j < len(v.fields); j++ {
		v.idx[v.fields[j].field] = j
	}
	return true
}

func (v *Value) sadd(s Scalar) bool {
	key := s.raw()
	if _, ok := v.set[key]; ok {
		return false
	}
	v.set[key] = s
	return true
}

func (v *Value) srem(s Scalar) bool {
	key := s.raw()
	if _, ok := v.set[key]; !ok {
		return false
	}
	delete(v.set, key)
	return true
}
