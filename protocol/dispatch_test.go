package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullkey/goradieschen/store"
)

func bulk(s string) Value { return BulkBytes([]byte(s)) }

func call(t *testing.T, s *store.Store, parts ...string) Value {
	t.Helper()
	argv := make([]Value, len(parts))
	for i, p := range parts {
		argv[i] = bulk(p)
	}
	reply, err := Dispatch(s, argv)
	require.NoError(t, err)
	return reply
}

func TestScenarioScalarAppendLen(t *testing.T) {
	s := store.NewStore()
	assert.Equal(t, int64(1), call(t, s, "SET", "a", "hello").Int)
	assert.Equal(t, []byte("hello"), call(t, s, "GET", "a").Bytes)
	assert.Equal(t, []byte("hello world"), call(t, s, "APPEND", "a", " world").Bytes)
	assert.Equal(t, int64(1), call(t, s, "LEN").Int)
}

func TestScenarioIncrDecr(t *testing.T) {
	s := store.NewStore()
	assert.Equal(t, int64(1), call(t, s, "INCR", "ctr").Int)
	assert.Equal(t, int64(6), call(t, s, "INCRBY", "ctr", "5").Int)
	assert.Equal(t, int64(5), call(t, s, "DECR", "ctr").Int)
	assert.Equal(t, int64(1), call(t, s, "SET", "ctr", "x").Int)

	argv := []Value{bulk("INCR"), bulk("ctr")}
	reply, err := Dispatch(s, argv)
	require.NoError(t, err)
	assert.Equal(t, KindError, reply.Kind)
}

func TestScenarioSetAlgebra(t *testing.T) {
	s := store.NewStore()
	assert.Equal(t, int64(3), call(t, s, "SADD", "s", "a", "b", "c").Int)
	assert.Equal(t, int64(3), call(t, s, "SADD", "t", "b", "c", "d").Int)

	inter := call(t, s, "SINTER", "s", "t")
	assert.Len(t, inter.Set, 2)

	assert.Equal(t, int64(1), call(t, s, "SDIFFSTORE", "u", "s", "t").Int)

	members := call(t, s, "SMEMBERS", "u")
	require.Len(t, members.Set, 1)
	assert.Equal(t, []byte("a"), members.Set[0].Bytes)
}

func TestScenarioHash(t *testing.T) {
	s := store.NewStore()
	assert.Equal(t, int64(1), call(t, s, "HSET", "h", "f1", "v1").Int)
	assert.Equal(t, int64(3), call(t, s, "HINCRBY", "h", "n", "3").Int)

	got := call(t, s, "HMGET", "h", "f1", "missing")
	require.Len(t, got.Dict, 2)
	assert.Equal(t, []byte("v1"), got.Dict[0].Val.Bytes)
	assert.True(t, got.Dict[1].Val.Null)
}

func TestScenarioQueue(t *testing.T) {
	s := store.NewStore()
	assert.Equal(t, int64(3), call(t, s, "RPUSH", "q", "x", "y", "z").Int)

	rng := call(t, s, "LRANGE", "q", "0", "2")
	require.Len(t, rng.Array, 2)
	assert.Equal(t, []byte("x"), rng.Array[0].Bytes)
	assert.Equal(t, []byte("y"), rng.Array[1].Bytes)

	assert.Equal(t, int64(1), call(t, s, "RPOPLPUSH", "q", "q2").Int)
	assert.Equal(t, []byte("z"), call(t, s, "LPOP", "q2").Bytes)
}

func TestScenarioSetexExpiry(t *testing.T) {
	s := store.NewStore()
	assert.Equal(t, int64(1), call(t, s, "SETEX", "e", "v", "1").Int)
	time.Sleep(1100 * time.Millisecond)
	assert.True(t, call(t, s, "GET", "e").Null)
}

func TestDispatchUnrecognizedCommand(t *testing.T) {
	s := store.NewStore()
	reply, err := Dispatch(s, []Value{bulk("NOPE")})
	require.NoError(t, err)
	assert.Equal(t, KindError, reply.Kind)
}

func TestDispatchQuitSignal(t *testing.T) {
	s := store.NewStore()
	reply, err := Dispatch(s, []Value{bulk("QUIT")})
	require.ErrorIs(t, err, store.ErrClientQuit)
	assert.Equal(t, int64(1), reply.Int)
}

func TestDispatchShutdownSignal(t *testing.T) {
	s := store.NewStore()
	reply, err := Dispatch(s, []Value{bulk("SHUTDOWN")})
	require.ErrorIs(t, err, store.ErrShutdown)
	assert.Equal(t, int64(1), reply.Int)
}

func TestParseRequestInlineFallback(t *testing.T) {
	argv := ParseRequest(bulk("PING"))
	require.Len(t, argv, 1)
	assert.Equal(t, []byte("PING"), argv[0].Bytes)
}

// TestDispatchShortCommandsDoNotPanic exercises every command with fewer
// arguments than it needs (a bare "GET" with no key, a bare "SET" with
// no key or value, ...). None of these must panic; each must come back
// as a wire error reply.
func TestDispatchShortCommandsDoNotPanic(t *testing.T) {
	names := []string{
		"GET", "SET", "SETNX", "SETEX", "APPEND", "DELETE", "EXISTS",
		"GETSET", "POP", "INCR", "DECR", "INCRBY", "DECRBY",
		"SADD", "SCARD", "SDIFF", "SDIFFSTORE", "SINTER", "SINTERSTORE",
		"SISMEMBER", "SMEMBERS", "SPOP", "SREM", "SUNION", "SUNIONSTORE",
		"HSET", "HSETNX", "HGET", "HMGET", "HMSET", "HDEL", "HEXISTS",
		"HKEYS", "HVALS", "HGETALL", "HLEN", "HINCRBY",
		"LPUSH", "RPUSH", "LPOP", "RPOP", "LREM", "LLEN", "LINDEX",
		"LRANGE", "LSET", "LTRIM", "RPOPLPUSH", "LFLUSH",
		"EXPIRE", "SAVE", "RESTORE", "MERGE",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s := store.NewStore()
			reply, err := Dispatch(s, []Value{bulk(name)})
			require.NoError(t, err)
			assert.Equal(t, KindError, reply.Kind)
		})
	}
}

// TestDispatchRecoversFromPanic verifies the Dispatch-level recover()
// catches any unhandled panic from a command handler and turns it into
// a generic wire error reply instead of crashing the process.
func TestDispatchRecoversFromPanic(t *testing.T) {
	s := store.NewStore()
	commands["__TEST_PANIC__"] = func(s *store.Store, args []Value) (Value, error) {
		panic("boom")
	}
	defer delete(commands, "__TEST_PANIC__")

	reply, err := Dispatch(s, []Value{bulk("__TEST_PANIC__")})
	require.NoError(t, err)
	assert.Equal(t, KindError, reply.Kind)
}
