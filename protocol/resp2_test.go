package protocol

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, v))
	got, err := Decode(bufio.NewReader(&buf))
	require.NoError(t, err)
	return got
}

func TestRoundTripSimpleString(t *testing.T) {
	got := roundTrip(t, SimpleString("OK"))
	assert.Equal(t, KindSimpleString, got.Kind)
	assert.Equal(t, "OK", got.Str)
}

func TestRoundTripError(t *testing.T) {
	got := roundTrip(t, ErrorValue("ERR boom"))
	assert.Equal(t, KindError, got.Kind)
	assert.Equal(t, "ERR boom", got.Str)
}

func TestRoundTripInteger(t *testing.T) {
	got := roundTrip(t, Integer(-456))
	assert.Equal(t, KindInteger, got.Kind)
	assert.Equal(t, int64(-456), got.Int)
}

func TestRoundTripFloat(t *testing.T) {
	got := roundTrip(t, FloatValue(3.14159))
	assert.Equal(t, KindInteger, got.Kind)
	assert.True(t, got.IsFloat)
	assert.InDelta(t, 3.14159, got.Float, 1e-9)
}

func TestRoundTripBulkBytes(t *testing.T) {
	got := roundTrip(t, BulkBytes([]byte("hello world")))
	assert.Equal(t, []byte("hello world"), got.Bytes)
}

func TestRoundTripNullBulk(t *testing.T) {
	got := roundTrip(t, NullBulk())
	assert.True(t, got.Null)
}

func TestRoundTripText(t *testing.T) {
	got := roundTrip(t, TextString("café"))
	assert.Equal(t, KindText, got.Kind)
	assert.Equal(t, "café", got.Text)
}

func TestRoundTripJSON(t *testing.T) {
	got := roundTrip(t, JSONValue(map[string]any{"a": float64(1)}))
	assert.Equal(t, KindJSON, got.Kind)
	assert.Equal(t, map[string]any{"a": float64(1)}, got.JSONVal)
}

func TestRoundTripArray(t *testing.T) {
	v := Array([]Value{BulkBytes([]byte("a")), Integer(2), NullBulk()})
	got := roundTrip(t, v)
	require.Len(t, got.Array, 3)
	assert.Equal(t, []byte("a"), got.Array[0].Bytes)
	assert.Equal(t, int64(2), got.Array[1].Int)
	assert.True(t, got.Array[2].Null)
}

func TestRoundTripNestedArray(t *testing.T) {
	inner := Array([]Value{TextString("x"), TextString("y")})
	v := Array([]Value{BulkBytes([]byte("outer")), inner})
	got := roundTrip(t, v)
	require.Len(t, got.Array, 2)
	require.Len(t, got.Array[1].Array, 2)
	assert.Equal(t, "y", got.Array[1].Array[1].Text)
}

func TestRoundTripDict(t *testing.T) {
	v := Dict([]DictPair{
		{Key: TextString("f1"), Val: BulkBytes([]byte("v1"))},
		{Key: TextString("missing"), Val: NullBulk()},
	})
	got := roundTrip(t, v)
	require.Len(t, got.Dict, 2)
	assert.Equal(t, "f1", got.Dict[0].Key.Text)
	assert.Equal(t, []byte("v1"), got.Dict[0].Val.Bytes)
	assert.True(t, got.Dict[1].Val.Null)
}

func TestRoundTripSet(t *testing.T) {
	v := SetOf([]Value{BulkBytes([]byte("a")), BulkBytes([]byte("b"))})
	got := roundTrip(t, v)
	require.Len(t, got.Set, 2)
}

func TestDecodeEOFOnEmptyStream(t *testing.T) {
	_, err := Decode(bufio.NewReader(strings.NewReader("")))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeUnknownTagIsLenient(t *testing.T) {
	got, err := Decode(bufio.NewReader(strings.NewReader("PING\r\n")))
	require.NoError(t, err)
	assert.Equal(t, KindBulk, got.Kind)
	assert.Equal(t, []byte("PING"), got.Bytes)
}

func TestDecodeArrayOfBulkStrings(t *testing.T) {
	input := "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n"
	got, err := Decode(bufio.NewReader(strings.NewReader(input)))
	require.NoError(t, err)
	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Array, 3)
	assert.Equal(t, []byte("SET"), got.Array[0].Bytes)
	assert.Equal(t, []byte("value"), got.Array[2].Bytes)
}
