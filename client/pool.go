// Package client is a thin counterpart library for talking to a
// goradieschen server: a per-caller-identity connection pool plus a
// Client exposing one method per wire command.
package client

import (
	"bufio"
	"container/heap"
	"net"
	"sync"
	"time"
)

// CallerID identifies the logical caller holding a checked-out socket.
// Go has no public equivalent of a goroutine id, so callers supply their
// own token (a request id, a session key, or simply their own *Client
// usage site) instead of the source's get_ident() introspection.
type CallerID string

type pooledConn struct {
	conn     net.Conn
	reader   *bufio.Reader
	lastUsed time.Time
}

// freeHeap orders idle connections newest-first by last checkin, so the
// most recently returned socket is reused preferentially.
type freeHeap []*pooledConn

func (h freeHeap) Len() int            { return len(h) }
func (h freeHeap) Less(i, j int) bool  { return h[i].lastUsed.After(h[j].lastUsed) }
func (h freeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *freeHeap) Push(x any)         { *h = append(*h, x.(*pooledConn)) }
func (h *freeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SocketPool tracks, per (host, port): a free heap ordered by last-checkin
// timestamp and a map of callers currently holding a checked-out socket.
type SocketPool struct {
	mu      sync.Mutex
	host    string
	port    string
	maxAge  time.Duration
	free    freeHeap
	inUse   map[CallerID]*pooledConn
}

func NewSocketPool(host, port string, maxAge time.Duration) *SocketPool {
	if maxAge <= 0 {
		maxAge = 60 * time.Second
	}
	return &SocketPool{
		host:   host,
		port:   port,
		maxAge: maxAge,
		inUse:  make(map[CallerID]*pooledConn),
	}
}

// Checkout returns the socket this caller already holds, reuses the
// newest still-fresh free socket, or dials a new one.
func (p *SocketPool) Checkout(id CallerID) (*pooledConn, error) {
	p.mu.Lock()
	if pc, ok := p.inUse[id]; ok {
		p.mu.Unlock()
		return pc, nil
	}
	p.mu.Unlock()

	now := time.Now()
	for {
		p.mu.Lock()
		if len(p.free) == 0 {
			p.mu.Unlock()
			break
		}
		pc := heap.Pop(&p.free).(*pooledConn)
		p.mu.Unlock()

		if now.Sub(pc.lastUsed) > p.maxAge {
			pc.conn.Close()
			continue
		}
		p.mu.Lock()
		p.inUse[id] = pc
		p.mu.Unlock()
		return pc, nil
	}

	pc, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.inUse[id] = pc
	p.mu.Unlock()
	return pc, nil
}

func (p *SocketPool) dial() (*pooledConn, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort(p.host, p.port))
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return &pooledConn{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Checkin returns the caller's socket to the free heap with the current
// timestamp. Reports whether the caller held a socket at all.
func (p *SocketPool) Checkin(id CallerID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pc, ok := p.inUse[id]
	if !ok {
		return false
	}
	delete(p.inUse, id)
	pc.lastUsed = time.Now()
	heap.Push(&p.free, pc)
	return true
}

// Close discards the caller's socket rather than returning it to the
// pool, used on error and after QUIT/SHUTDOWN.
func (p *SocketPool) Close(id CallerID) bool {
	p.mu.Lock()
	pc, ok := p.inUse[id]
	if ok {
		delete(p.inUse, id)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}
	pc.conn.Close()
	return true
}
