package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeStickiness(t *testing.T) {
	s := NewStore()
	s.Set("k", BytesScalar([]byte("x")))

	_, err := s.HSet("k", "f", BytesScalar([]byte("v")))
	require.Error(t, err)

	_, err = s.SAdd("k", []Scalar{BytesScalar([]byte("m"))})
	require.Error(t, err)

	_, err = s.LPush("k", []Scalar{BytesScalar([]byte("m"))})
	require.Error(t, err)

	val, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("x"), val.Bytes)
}

func TestSizeMonotonicity(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Set(string(rune('a'+i)), IntScalar(int64(i)))
	}
	assert.Equal(t, int64(5), s.Len())

	deleted := s.Delete("a")
	assert.True(t, deleted)
	assert.Equal(t, int64(4), s.Len())
}

func TestSetAlgebra(t *testing.T) {
	s := NewStore()
	_, err := s.SAdd("s", []Scalar{BytesScalar([]byte("a")), BytesScalar([]byte("b")), BytesScalar([]byte("c"))})
	require.NoError(t, err)
	_, err = s.SAdd("t", []Scalar{BytesScalar([]byte("b")), BytesScalar([]byte("c")), BytesScalar([]byte("d"))})
	require.NoError(t, err)

	inter, err := s.SInter([]string{"s", "t"})
	require.NoError(t, err)
	assert.ElementsMatch(t, rawStrings(inter), []string{"b", "c"})

	n, err := s.SDiffStore("u", []string{"s", "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	members, err := s.SMembers("u")
	require.NoError(t, err)
	assert.ElementsMatch(t, rawStrings(members), []string{"a"})

	union, err := s.SUnion([]string{"s", "t"})
	require.NoError(t, err)
	assert.ElementsMatch(t, rawStrings(union), []string{"a", "b", "c", "d"})
}

func rawStrings(scalars []Scalar) []string {
	out := make([]string, len(scalars))
	for i, sc := range scalars {
		out[i] = string(sc.Bytes)
	}
	return out
}

func TestTTLCorrectness(t *testing.T) {
	s := NewStore()
	s.SetEX("k", BytesScalar([]byte("v")), 1)

	val, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val.Bytes)

	time.Sleep(1100 * time.Millisecond)
	assert.False(t, s.Exists("k"))
}

func TestExpiryClearsOnSet(t *testing.T) {
	s := NewStore()
	s.SetEX("k", BytesScalar([]byte("v")), 1)
	s.Set("k", BytesScalar([]byte("w")))
	time.Sleep(1100 * time.Millisecond)

	val, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("w"), val.Bytes)
}

func TestIncrDecr(t *testing.T) {
	s := NewStore()
	n, err := s.Incr("ctr")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.IncrBy("ctr", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	n, err = s.Decr("ctr")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	s.Set("ctr", BytesScalar([]byte("x")))
	_, err = s.Incr("ctr")
	require.Error(t, err)
}

func TestAppend(t *testing.T) {
	s := NewStore()
	s.Set("a", BytesScalar([]byte("hello")))
	v, err := s.Append("a", BytesScalar([]byte(" world")))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), v.Bytes)
}

func TestHashCommands(t *testing.T) {
	s := NewStore()
	created, err := s.HSet("h", "f1", BytesScalar([]byte("v1")))
	require.NoError(t, err)
	assert.True(t, created)

	n, err := s.HIncrBy("h", "n", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := s.HMGet("h", []string{"f1", "missing"})
	require.NoError(t, err)
	assert.True(t, got["f1"].Ok)
	assert.Equal(t, []byte("v1"), got["f1"].Val.Bytes)
	assert.False(t, got["missing"].Ok)
}

func TestQueueCommands(t *testing.T) {
	s := NewStore()
	n, err := s.RPush("q", []Scalar{BytesScalar([]byte("x")), BytesScalar([]byte("y")), BytesScalar([]byte("z"))})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rng, err := s.LRange("q", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, rawStrings(rng))

	item, ok, err := s.RPopLPush("q", "q2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("z"), item.Bytes)

	popped, ok, err := s.LPop("q2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("z"), popped.Bytes)
}

func TestRPopLPushEmptySourceDoesNotCreateDest(t *testing.T) {
	s := NewStore()
	_, ok, err := s.RPopLPush("missing", "dest")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Exists("dest"))
}

func TestLIndexLSetOutOfRange(t *testing.T) {
	s := NewStore()
	_, err := s.RPush("q", []Scalar{IntScalar(1), IntScalar(2)})
	require.NoError(t, err)

	_, ok, err := s.LIndex("q", 10)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.LSet("q", 10, IntScalar(9))
	require.NoError(t, err)
	assert.False(t, ok)
}
