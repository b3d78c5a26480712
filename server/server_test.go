package server

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nullkey/goradieschen/protocol"
	"github.com/nullkey/goradieschen/store"
)

func startTestServer(t *testing.T) (addr string, cancel context.CancelFunc) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr = ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := store.NewStore()
	errCh := make(chan error, 1)
	go func() {
		errCh <- Start(ctx, Config{Addr: addr, MaxClients: 8}, s)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, dialErr := net.Dial("tcp", addr)
		if dialErr == nil {
			conn.Close()
			return addr, cancel
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server never became reachable")
	return "", cancel
}

func TestServerSetGetRoundTrip(t *testing.T) {
	addr, cancel := startTestServer(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)

	require.NoError(t, protocol.Encode(conn, protocol.Array([]protocol.Value{
		protocol.BulkBytes([]byte("SET")),
		protocol.BulkBytes([]byte("k")),
		protocol.BulkBytes([]byte("v")),
	})))
	reply, err := protocol.Decode(reader)
	require.NoError(t, err)
	require.Equal(t, int64(1), reply.Int)

	require.NoError(t, protocol.Encode(conn, protocol.Array([]protocol.Value{
		protocol.BulkBytes([]byte("GET")),
		protocol.BulkBytes([]byte("k")),
	})))
	reply, err = protocol.Decode(reader)
	require.NoError(t, err)
	require.Equal(t, []byte("v"), reply.Bytes)
}

func TestServerQuitClosesConnection(t *testing.T) {
	addr, cancel := startTestServer(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)

	require.NoError(t, protocol.Encode(conn, protocol.Array([]protocol.Value{
		protocol.BulkBytes([]byte("QUIT")),
	})))
	reply, err := protocol.Decode(reader)
	require.NoError(t, err)
	require.Equal(t, int64(1), reply.Int)

	_, err = protocol.Decode(reader)
	require.Error(t, err)
}

// TestServerSurvivesShortCommand sends a bare GET with no key argument
// over the wire and confirms the connection gets back a wire error reply
// (rather than the server process going down) and keeps serving the rest
// of the connection afterward.
func TestServerSurvivesShortCommand(t *testing.T) {
	addr, cancel := startTestServer(t)
	defer cancel()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	reader := bufio.NewReader(conn)

	require.NoError(t, protocol.Encode(conn, protocol.Array([]protocol.Value{
		protocol.BulkBytes([]byte("GET")),
	})))
	reply, err := protocol.Decode(reader)
	require.NoError(t, err)
	require.Equal(t, protocol.KindError, reply.Kind)

	require.NoError(t, protocol.Encode(conn, protocol.Array([]protocol.Value{
		protocol.BulkBytes([]byte("SET")),
		protocol.BulkBytes([]byte("k")),
		protocol.BulkBytes([]byte("v")),
	})))
	reply, err = protocol.Decode(reader)
	require.NoError(t, err)
	require.Equal(t, int64(1), reply.Int)
}
