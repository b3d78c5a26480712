// Package server runs the TCP connection loop: accept, decode a request,
// dispatch it against a store.Store, encode the reply, repeat.
package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/nullkey/goradieschen/protocol"
	"github.com/nullkey/goradieschen/store"
)

// Config carries the CLI-level server settings down into Start.
type Config struct {
	Addr       string
	MaxClients int
	UseThreads bool
}

// Start listens on cfg.Addr and serves connections against s until ctx is
// cancelled or a SHUTDOWN command is received on any connection. It
// returns nil on an orderly shutdown, a non-nil error on a listen
// failure.
func Start(ctx context.Context, cfg Config, s *store.Store) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	logrus.Infof("listening on %s", cfg.Addr)

	var shuttingDown atomic.Bool

	go func() {
		<-ctx.Done()
		shuttingDown.Store(true)
		ln.Close() // unblocks Accept()
	}()

	sem := make(chan struct{}, cfg.MaxClients)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if shuttingDown.Load() {
				logrus.Info("server shutdown complete")
				return nil
			}
			logrus.WithError(err).Warn("accept error")
			continue
		}

		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			handleConnection(conn, s, cfg.UseThreads, func() {
				shuttingDown.Store(true)
				ln.Close()
			})
		}()
	}
}

// handleConnection reads requests off conn, dispatches each against s,
// and writes back the encoded reply, until the peer disconnects or a
// QUIT/SHUTDOWN command is handled. requestShutdown is invoked exactly
// once if the peer issues SHUTDOWN, closing the listener from inside the
// command handler.
func handleConnection(conn net.Conn, s *store.Store, useThreads bool, requestShutdown func()) {
	defer conn.Close()

	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	if useThreads {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	logrus.Debugf("client connected: %s", conn.RemoteAddr())

	reader := bufio.NewReader(conn)

	for {
		req, err := protocol.Decode(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			logrus.WithError(err).Debug("decode error, closing connection")
			return
		}

		argv := protocol.ParseRequest(req)
		reply, err := protocol.Dispatch(s, argv)

		switch {
		case err == nil:
			if encErr := protocol.Encode(conn, reply); encErr != nil {
				logrus.WithError(encErr).Debug("write error, closing connection")
				return
			}
		case errors.Is(err, store.ErrClientQuit):
			protocol.Encode(conn, reply)
			return
		case errors.Is(err, store.ErrShutdown):
			protocol.Encode(conn, reply)
			requestShutdown()
			return
		default:
			logrus.WithError(err).Warn("dispatch error, closing connection")
			return
		}
	}
}
