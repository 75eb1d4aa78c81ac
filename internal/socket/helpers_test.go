package socket

import (
	"net"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// socketpairForTest returns a live, accepted TCP connection's fd suitable
// for exercising Apply's setsockopt calls, plus the listener fd so the
// caller can close it.
func socketpairForTest(t *testing.T) (connFd int, listenFd int, err error) {
	t.Helper()
	lfd, err := Listen("127.0.0.1:0")
	if err != nil {
		return -1, -1, err
	}
	sa, saErr := unix.Getsockname(lfd)
	if saErr != nil {
		unix.Close(lfd)
		return -1, -1, saErr
	}
	addr, ok := sa.(*unix.SockaddrInet4)
	if !ok {
		unix.Close(lfd)
		return -1, -1, err
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		c, dialErr := net.Dial("tcp", (&net.TCPAddr{IP: net.IPv4(
			byte(addr.Addr[0]), byte(addr.Addr[1]), byte(addr.Addr[2]), byte(addr.Addr[3]),
		), Port: addr.Port}).String())
		if dialErr == nil {
			defer c.Close()
			time.Sleep(50 * time.Millisecond)
		}
	}()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		fd, acceptErr := Accept(lfd)
		if acceptErr == nil {
			return fd, lfd, nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	unix.Close(lfd)
	return -1, -1, err
}
