package buffer

import "container/list"

// StandardSize is the canonical allocation size handed out by a fresh
// checkout. Mirrors src/io/buffer_pool.rs's BUFFER_STANDARD_SIZE.
const StandardSize = 4096

// DangerSize is the capacity above which a returned buffer is discarded
// instead of recycled, so one oversized request can't permanently bloat
// the pool. Mirrors BUFFER_DANGER_SIZE.
const DangerSize = 65536

// Pool is a FIFO pool of Buffers at (or near) StandardSize. Checkout never
// blocks and never fails: it pops the oldest free buffer, or allocates a
// fresh one if the pool is empty. Return recycles a buffer unless its
// capacity grew past DangerSize, in which case it's dropped and replaced
// with a fresh canonical-size buffer so the pool's working set doesn't
// drift upward.
type Pool struct {
	free *list.List
}

// NewPool builds a pool and pre-populates it with n canonical-size buffers.
func NewPool(n int) *Pool {
	p := &Pool{free: list.New()}
	for i := 0; i < n; i++ {
		buf := newBuffer()
		buf.Reserve(StandardSize)
		p.free.PushBack(buf)
	}
	return p
}

// Checkout returns a ready-to-use Buffer, reusing the oldest free one if
// available or allocating a new canonical-size one otherwise.
func (p *Pool) Checkout() *Buffer {
	if front := p.free.Front(); front != nil {
		p.free.Remove(front)
		return front.Value.(*Buffer)
	}
	buf := newBuffer()
	buf.Reserve(StandardSize)
	return buf
}

// Return reclaims buf for reuse. A buffer whose capacity has grown past
// DangerSize is discarded; a fresh canonical-size buffer takes its place
// so pool size stays stable.
func (p *Pool) Return(buf *Buffer) {
	if buf.Cap() > DangerSize {
		fresh := newBuffer()
		fresh.Reserve(StandardSize)
		p.free.PushBack(fresh)
		return
	}
	buf.reset()
	p.free.PushBack(buf)
}

// Len reports the number of buffers currently idle in the pool.
func (p *Pool) Len() int {
	return p.free.Len()
}
