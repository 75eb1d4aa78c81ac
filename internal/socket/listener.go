package socket

import (
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// Listen creates a non-blocking TCP listener bound to addr ("host:port")
// using raw syscalls rather than net.Listen, so the resulting descriptor
// can be driven directly by the event loop's own notifier instead of
// Go's runtime netpoller.
func Listen(addr string) (int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return -1, fmt.Errorf("socket: bad address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return -1, fmt.Errorf("socket: bad port %q: %w", portStr, err)
	}

	ip := net.ParseIP(host)
	if host == "" {
		ip = net.IPv4zero
	} else if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil || len(ips) == 0 {
			return -1, fmt.Errorf("socket: cannot resolve host %q", host)
		}
		ip = ips[0]
	}

	domain := unix.AF_INET
	var sa unix.Sockaddr
	if ip4 := ip.To4(); ip4 != nil {
		var a4 unix.SockaddrInet4
		copy(a4.Addr[:], ip4)
		a4.Port = port
		sa = &a4
	} else {
		domain = unix.AF_INET6
		var a6 unix.SockaddrInet6
		copy(a6.Addr[:], ip.To16())
		a6.Port = port
		sa = &a6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("socket: socket: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socket: SO_REUSEADDR: %w", err)
	}

	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socket: bind: %w", err)
	}

	const backlog = 1024
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("socket: listen: %w", err)
	}

	if err := ApplyListener(fd, DefaultConfig()); err != nil {
		// Tuning failures are never fatal for correctness.
		_ = err
	}

	return fd, nil
}

// ErrWouldBlock is returned by Accept when no connection is pending.
var ErrWouldBlock = unix.EAGAIN

// Accept performs one non-blocking accept4 on listenFd, returning
// unix.EAGAIN unwrapped (the same value as ErrWouldBlock) when no
// connection is currently pending.
func Accept(listenFd int) (int, error) {
	fd, _, err := unix.Accept4(listenFd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, err
	}
	return fd, nil
}
