// Package conn implements the per-socket Reading/Writing/Closed state
// machine: draining a readable socket into a pooled buffer, invoking the
// request parser and handler, and draining a write buffer back out.
package conn

import (
	"golang.org/x/sys/unix"

	"github.com/watt-toolkit/shockwave/http11"
	"github.com/watt-toolkit/shockwave/internal/buffer"
	"github.com/watt-toolkit/shockwave/internal/socket"
)

// State is one of a Connection's three lifecycle states. Transitions are
// monotonic toward Closed; there is no Writing -> Reading path until
// keep-alive is added.
type State int

const (
	// Reading is the initial state: the connection awaits and drains
	// request bytes.
	Reading State = iota
	// Writing means a response has been encoded and is draining to the
	// socket.
	Writing
	// Closed is terminal. A connection in this state must have its
	// resources reclaimed before its slot is reused.
	Closed
)

// Connection owns one accepted socket plus its read and write buffers. It
// has no notifier reference: the caller (the event loop) is responsible
// for registering/reregistering/deregistering fd based on the state this
// connection reports after each dispatch.
type Connection struct {
	fd                 int
	state              State
	read               *buffer.Buffer
	write              *buffer.Buffer
	headers            http11.Headers
	writableRegistered bool
}

// New wraps an accepted, non-blocking socket fd together with buffers
// borrowed from the pool.
func New(fd int, read, write *buffer.Buffer) *Connection {
	return &Connection{fd: fd, read: read, write: write, state: Reading}
}

// FD returns the connection's raw socket descriptor.
func (c *Connection) FD() int { return c.fd }

// State returns the connection's current lifecycle state.
func (c *Connection) State() State { return c.state }

// Buffers returns the read and write buffers so the caller can return
// them to the pool once this connection is Closed.
func (c *Connection) Buffers() (read, write *buffer.Buffer) {
	return c.read, c.write
}

// WritableRegistered reports whether the caller has already re-registered
// fd for writable readiness with the notifier.
func (c *Connection) WritableRegistered() bool { return c.writableRegistered }

// MarkWritableRegistered records that the caller has re-registered fd for
// writable readiness, so it only does so once per connection.
func (c *Connection) MarkWritableRegistered() { c.writableRegistered = true }

// Close releases the socket descriptor. It does not touch the buffers -
// returning those to the pool is the caller's responsibility.
func (c *Connection) Close() error {
	return unix.Close(c.fd)
}

// Dispatch processes one readiness event against this connection: read
// first, then write, within the same call (per the tie-break rule that a
// single event may carry both readable and writable readiness). If the
// read phase transitions the state to Writing within this call, the
// write phase is attempted immediately even without explicit writable
// readiness (opportunistic write). It returns true once the connection
// has reached Closed.
func (c *Connection) Dispatch(readable, writable bool, handler func(http11.Request) http11.Response) bool {
	transitioned := false
	if readable && c.state == Reading {
		closed, t := c.readPhase(handler)
		if closed {
			return true
		}
		transitioned = t
	}
	if c.state == Writing && (writable || transitioned) {
		if c.writePhase() {
			return true
		}
	}
	return c.state == Closed
}

// readPhase drains the socket until would-block, EOF, the request-size
// hard limit, or a fatal error, invoking the parser after every chunk.
func (c *Connection) readPhase(handler func(http11.Request) http11.Response) (closed bool, transitioned bool) {
	for {
		if c.read.Len() >= http11.MaxRequestBytes {
			c.state = Closed
			return true, false
		}

		want := http11.ReadChunk
		if c.read.Len()+want > http11.MaxRequestBytes {
			want = http11.MaxRequestBytes - c.read.Len()
		}
		c.read.Reserve(want)
		tail := c.read.Tail()
		if len(tail) > want {
			tail = tail[:want]
		}

		n, err := unix.Read(c.fd, tail)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return false, false
			}
			c.state = Closed
			return true, false
		}
		if n == 0 {
			c.state = Closed
			return true, false
		}
		c.read.CommitWrite(n)
		_ = socket.SetQuickAck(c.fd)

		res := http11.Parse(c.read.Bytes(), &c.headers)
		switch res.Status {
		case http11.Complete:
			resp := handler(res.Request)
			resp.Encode(c.write)
			c.read.Advance(res.N)
			c.state = Writing
			return false, true
		case http11.Error:
			c.state = Closed
			return true, false
		case http11.Partial:
			// Keep draining; a subsequent read may complete the request.
		}
	}
}

// writePhase drains the write buffer to the socket, advancing its start
// cursor by each successful write. An empty buffer means the single
// response for this connection's one request has fully landed, so the
// connection closes per the no-keep-alive policy.
func (c *Connection) writePhase() (closed bool) {
	for {
		if c.write.Len() == 0 {
			c.state = Closed
			return true
		}
		n, err := unix.Write(c.fd, c.write.Bytes())
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return false
			}
			c.state = Closed
			return true
		}
		if n == 0 {
			c.state = Closed
			return true
		}
		c.write.Advance(n)
	}
}
