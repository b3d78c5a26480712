package protocol

import "github.com/nullkey/goradieschen/store"

// toScalar converts a decoded request argument into a store.Scalar. Bulk
// byte strings and text strings both become scalars (bytes), matching
// the source's untyped argv; an integer-tagged argument becomes a
// numeric scalar so commands like INCRBY can be sent either as a bulk
// string "5" or as a wire integer.
func toScalar(v Value) store.Scalar {
	switch v.Kind {
	case KindBulk:
		return store.BytesScalar(v.Bytes)
	case KindText:
		return store.BytesScalar([]byte(v.Text))
	case KindInteger:
		if v.IsFloat {
			return store.FloatScalar(v.Float)
		}
		return store.IntScalar(v.Int)
	default:
		return store.BytesScalar(toBytes(v))
	}
}

// toBytes extracts the raw byte form of an argument regardless of its
// wire tag, used for command names and keys which are always treated as
// opaque byte strings.
func toBytes(v Value) []byte {
	switch v.Kind {
	case KindBulk:
		return v.Bytes
	case KindText:
		return []byte(v.Text)
	case KindSimpleString, KindError:
		return []byte(v.Str)
	default:
		return nil
	}
}

// fromScalar renders a store.Scalar back as a wire Value.
func fromScalar(s store.Scalar) Value {
	switch s.Kind {
	case store.ScalarInt:
		return Integer(s.Int)
	case store.ScalarFloat:
		return FloatValue(s.Float)
	default:
		return BulkBytes(s.Bytes)
	}
}
