// Package shockwave is a minimal single-threaded HTTP/1.1 server library:
// an application supplies a Handler, and the Server accepts connections,
// reads and parses requests, invokes the handler, and writes responses
// back, all driven by one epoll-based readiness loop.
package shockwave

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/watt-toolkit/shockwave/internal/buffer"
	"github.com/watt-toolkit/shockwave/internal/conn"
	"github.com/watt-toolkit/shockwave/internal/notifier"
	"github.com/watt-toolkit/shockwave/internal/slab"
	"github.com/watt-toolkit/shockwave/internal/socket"
)

const (
	listenerToken   notifier.Token = 0
	connTokenOffset                = 2

	initialConnections = 1024
	initialBuffers     = 1024
)

// Server owns the listener, the readiness notifier, the connection table,
// and the buffer pool for the lifetime of one Run call. Everything here
// lives on a single thread; there are no locks on the hot path.
type Server struct {
	addr     string
	handler  Handler
	logger   *log.Logger
	listenFd int
	notifier notifier.Notifier
	conns    *slab.Slab[*conn.Connection]
	bufPool  *buffer.Pool
	shutdown atomic.Bool

	events   []notifier.Event
	removals []int
}

// New parses addr ("host:port"), creates a non-blocking listener, builds
// the readiness notifier, and registers the listener under the reserved
// listener token. It fails with an I/O error if bind or registration
// fail.
func New(addr string, handler Handler) (*Server, error) {
	listenFd, err := socket.Listen(addr)
	if err != nil {
		return nil, fmt.Errorf("shockwave: listen: %w", err)
	}

	n, err := notifier.New()
	if err != nil {
		unix.Close(listenFd)
		return nil, fmt.Errorf("shockwave: notifier: %w", err)
	}

	if err := n.Register(listenFd, listenerToken, notifier.Readable); err != nil {
		n.Close()
		unix.Close(listenFd)
		return nil, fmt.Errorf("shockwave: register listener: %w", err)
	}

	return &Server{
		addr:     addr,
		handler:  handler,
		logger:   log.Default(),
		listenFd: listenFd,
		notifier: n,
		conns:    slab.New[*conn.Connection](initialConnections),
		bufPool:  buffer.NewPool(initialBuffers),
		events:   make([]notifier.Event, 0, 256),
		removals: make([]int, 0, 64),
	}, nil
}

// SetLogger overrides the logger used for the handful of non-hot-path
// events the core narrates (accept errors, registration failures). The
// default is log.Default().
func (s *Server) SetLogger(l *log.Logger) {
	s.logger = l
}

// Run installs the shutdown signal handler and drives the event loop
// until a termination signal (or a programmatic Shutdown) is observed,
// returning nil on graceful shutdown or an I/O error on a fatal notifier
// failure. Per-connection errors never propagate out of Run.
func (s *Server) Run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		s.Shutdown()
	}()

	for {
		var err error
		s.events, err = s.notifier.Wait(s.events)
		if err != nil {
			return fmt.Errorf("shockwave: notifier wait: %w", err)
		}

		s.removals = s.removals[:0]
		for _, ev := range s.events {
			switch ev.Token {
			case listenerToken:
				s.acceptLoop()
			case notifier.WakerToken:
				if s.shutdown.Load() {
					s.teardown()
					return nil
				}
			default:
				s.dispatchConn(ev)
			}
		}
		s.reapClosed()
	}
}

// Shutdown requests a graceful stop: it sets the shutdown flag with
// sequential consistency and wakes the notifier so a blocked (or future)
// Wait call observes it promptly. Safe to call from any goroutine,
// mirroring the cross-thread signal-handler contract.
func (s *Server) Shutdown() {
	s.shutdown.Store(true)
	s.notifier.Wake()
}

// acceptLoop accepts connections until the listener reports would-block.
func (s *Server) acceptLoop() {
	for {
		fd, err := socket.Accept(s.listenFd)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			s.logger.Printf("shockwave: accept error: %v", err)
			return
		}

		if tErr := socket.Apply(fd, nil); tErr != nil {
			// Tuning is an optimization, never a correctness requirement.
			_ = tErr
		}

		readBuf := s.bufPool.Checkout()
		writeBuf := s.bufPool.Checkout()
		c := conn.New(fd, readBuf, writeBuf)
		key := s.conns.Insert(c)
		token := notifier.Token(key + connTokenOffset)

		if err := s.notifier.Register(fd, token, notifier.Readable); err != nil {
			s.logger.Printf("shockwave: register connection failed: %v", err)
			s.conns.Remove(key)
			c.Close()
			s.bufPool.Return(readBuf)
			s.bufPool.Return(writeBuf)
			continue
		}
	}
}

// dispatchConn routes one readiness event to its connection, reregisters
// for writable interest the first time the connection transitions to
// Writing, and stages the connection for teardown once it closes.
func (s *Server) dispatchConn(ev notifier.Event) {
	key := int(ev.Token) - connTokenOffset
	c, ok := s.conns.Get(key)
	if !ok {
		return
	}

	if c.Dispatch(ev.Readable, ev.Writable, s.handler) {
		s.removals = append(s.removals, key)
		return
	}

	if c.State() == conn.Writing && !c.WritableRegistered() {
		if err := s.notifier.Reregister(c.FD(), ev.Token, notifier.Readable|notifier.Writable); err != nil {
			s.logger.Printf("shockwave: reregister connection failed: %v", err)
			s.removals = append(s.removals, key)
			return
		}
		c.MarkWritableRegistered()
	}
}

// reapClosed deregisters, closes, and reclaims every connection staged
// for removal during this event batch. The removal slice itself is
// reused across iterations (amortized zero allocation).
func (s *Server) reapClosed() {
	for _, key := range s.removals {
		c, ok := s.conns.Get(key)
		if !ok {
			continue
		}
		s.notifier.Deregister(c.FD())
		c.Close()
		readBuf, writeBuf := c.Buffers()
		s.bufPool.Return(readBuf)
		s.bufPool.Return(writeBuf)
		s.conns.Remove(key)
	}
}

// teardown runs once, on graceful shutdown: every live connection's
// socket is closed, but its buffers are deliberately not returned to the
// pool, since the pool itself is about to go out of scope with the
// Server.
func (s *Server) teardown() {
	s.conns.Each(func(_ int, c *conn.Connection) {
		c.Close()
	})
	s.notifier.Close()
	unix.Close(s.listenFd)
}
