//go:build linux

package notifier

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type epoll struct {
	fd      int
	wakeFd  int
	closed  bool
	maxWait int
}

// New creates an epoll instance and registers an internal eventfd under
// WakerToken with readable interest, so Wake can unblock Wait from any
// thread.
func New() (Notifier, error) {
	efd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("notifier: epoll_create1: %w", err)
	}
	wfd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(efd)
		return nil, fmt.Errorf("notifier: eventfd: %w", err)
	}
	e := &epoll{fd: efd, wakeFd: wfd, maxWait: 256}
	if err := e.Register(wfd, WakerToken, Readable); err != nil {
		unix.Close(wfd)
		unix.Close(efd)
		return nil, err
	}
	return e, nil
}

func epollEvents(interest Interest) uint32 {
	var ev uint32
	if interest&Readable != 0 {
		ev |= unix.EPOLLIN
	}
	if interest&Writable != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (e *epoll) Register(fd int, token Token, interest Interest) error {
	ev := unix.EpollEvent{Events: epollEvents(interest), Fd: int32(token)}
	return unix.EpollCtl(e.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (e *epoll) Reregister(fd int, token Token, interest Interest) error {
	ev := unix.EpollEvent{Events: epollEvents(interest), Fd: int32(token)}
	return unix.EpollCtl(e.fd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (e *epoll) Deregister(fd int) error {
	return unix.EpollCtl(e.fd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (e *epoll) Wait(events []Event) ([]Event, error) {
	raw := make([]unix.EpollEvent, e.maxWait)
	for {
		n, err := unix.EpollWait(e.fd, raw, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return events[:0], fmt.Errorf("notifier: epoll_wait: %w", err)
		}
		events = events[:0]
		for i := 0; i < n; i++ {
			tok := Token(raw[i].Fd)
			events = append(events, Event{
				Token:    tok,
				Readable: raw[i].Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0,
				Writable: raw[i].Events&unix.EPOLLOUT != 0,
			})
			if tok == WakerToken {
				e.drainWake()
			}
		}
		return events, nil
	}
}

// drainWake reads the eventfd counter so it doesn't keep reporting
// readable once the wake has been observed.
func (e *epoll) drainWake() {
	var buf [8]byte
	for {
		_, err := unix.Read(e.wakeFd, buf[:])
		if err == unix.EINTR {
			continue
		}
		return
	}
}

// Wake writes to the internal eventfd, which is always safe even
// concurrently with a blocked EpollWait on another thread.
func (e *epoll) Wake() error {
	var buf [8]byte
	buf[0] = 1
	_, err := unix.Write(e.wakeFd, buf[:])
	if err == unix.EAGAIN {
		// Counter saturated: a wake is already pending.
		return nil
	}
	return err
}

func (e *epoll) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	unix.Close(e.wakeFd)
	return unix.Close(e.fd)
}
