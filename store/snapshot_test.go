package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRestoreRoundTrip(t *testing.T) {
	s := NewStore()
	s.Set("a", BytesScalar([]byte("hello")))
	_, err := s.HSet("h", "f1", BytesScalar([]byte("v1")))
	require.NoError(t, err)
	_, err = s.SAdd("s", []Scalar{BytesScalar([]byte("x")), BytesScalar([]byte("y"))})
	require.NoError(t, err)
	_, err = s.RPush("q", []Scalar{IntScalar(1), IntScalar(2)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snap.bin")
	require.NoError(t, s.Save(path))

	restored := NewStore()
	ok, err := restored.Restore(path)
	require.NoError(t, err)
	require.True(t, ok)

	v, got := restored.Get("a")
	require.True(t, got)
	assert.Equal(t, []byte("hello"), v.Bytes)

	hv, hok, err := restored.HGet("h", "f1")
	require.NoError(t, err)
	require.True(t, hok)
	assert.Equal(t, []byte("v1"), hv.Bytes)

	members, err := restored.SMembers("s")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	items, err := restored.LRange("q", 0, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].Int)
}

func TestRestoreNonexistentPath(t *testing.T) {
	s := NewStore()
	ok, err := s.Restore(filepath.Join(t.TempDir(), "missing.bin"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMergeKeepsInMemoryKeysOnConflict(t *testing.T) {
	s := NewStore()
	s.Set("a", BytesScalar([]byte("from-snapshot")))
	s.Set("b", BytesScalar([]byte("from-snapshot")))
	path := filepath.Join(t.TempDir(), "snap.bin")
	require.NoError(t, s.Save(path))

	live := NewStore()
	live.Set("a", BytesScalar([]byte("live-value")))

	ok, err := live.Merge(path)
	require.NoError(t, err)
	require.True(t, ok)

	v, got := live.Get("a")
	require.True(t, got)
	assert.Equal(t, []byte("live-value"), v.Bytes)

	v, got = live.Get("b")
	require.True(t, got)
	assert.Equal(t, []byte("from-snapshot"), v.Bytes)
}

func TestMergeNonexistentPath(t *testing.T) {
	s := NewStore()
	ok, err := s.Merge(filepath.Join(t.TempDir(), "missing.bin"))
	require.NoError(t, err)
	assert.False(t, ok)
}
