// Package buffer provides the zero-copy read/write buffer used by the
// connection state machine, plus the pool that lends and reclaims it.
package buffer

import (
	"github.com/valyala/bytebufferpool"
)

// Buffer is an appendable byte sequence with a cheap O(1) head-split:
// Advance moves an internal start cursor forward instead of copying the
// remaining bytes down, so a partially-consumed request can stay resident
// across read cycles without a memmove.
//
// Invariant: len(b.b.B) - b.start is the buffer's visible length; capacity
// (cap(b.b.B)) never shrinks while the buffer is in use.
type Buffer struct {
	b     *bytebufferpool.ByteBuffer
	start int
}

func newBuffer() *Buffer {
	return &Buffer{b: new(bytebufferpool.ByteBuffer)}
}

// Bytes returns the unconsumed, written portion of the buffer.
func (buf *Buffer) Bytes() []byte {
	return buf.b.B[buf.start:]
}

// Len returns the number of unconsumed bytes currently held.
func (buf *Buffer) Len() int {
	return len(buf.b.B) - buf.start
}

// Cap returns the buffer's total allocated capacity.
func (buf *Buffer) Cap() int {
	return cap(buf.b.B)
}

// Reserve ensures at least n bytes of writable capacity exist past the
// current write position, growing the backing array if necessary. Growing
// copies every byte held so far, including any prefix already consumed by
// Advance, into the new array.
func (buf *Buffer) Reserve(n int) {
	need := len(buf.b.B) + n
	if need <= cap(buf.b.B) {
		return
	}
	grown := make([]byte, len(buf.b.B), need)
	copy(grown, buf.b.B)
	buf.b.B = grown
}

// Tail returns the writable, uninitialized slice past the current length,
// sized exactly to the spare capacity. The caller must only commit bytes
// the kernel (or test code) actually wrote via CommitWrite.
func (buf *Buffer) Tail() []byte {
	b := buf.b.B
	return b[len(b):cap(b)]
}

// CommitWrite advances the buffer's length by n, reflecting that n bytes
// were physically written into the slice previously returned by Tail.
func (buf *Buffer) CommitWrite(n int) {
	buf.b.B = buf.b.B[:len(buf.b.B)+n]
}

// Advance consumes n bytes from the front of the buffer in O(1) by moving
// the start cursor; no bytes are copied.
func (buf *Buffer) Advance(n int) {
	buf.start += n
	if buf.start > len(buf.b.B) {
		buf.start = len(buf.b.B)
	}
}

// Append grows the buffer and copies p onto its tail, advancing length by
// len(p). Used when building the write buffer from an encoded response.
func (buf *Buffer) Append(p []byte) {
	buf.b.B = append(buf.b.B, p...)
}

// reset clears length and the start cursor but keeps the backing array, so
// the pool can hand the same allocation to the next connection.
func (buf *Buffer) reset() {
	buf.b.Reset()
	buf.start = 0
}
