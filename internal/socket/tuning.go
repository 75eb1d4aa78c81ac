// Package socket applies platform-specific tuning to the raw,
// non-blocking file descriptors the event loop creates directly via
// golang.org/x/sys/unix (the server never goes through net.Listener /
// net.Conn, so these entry points take a bare fd rather than a net type).
package socket

import "syscall"

// Config is socket tuning configuration. Zero values mean "use system
// defaults".
type Config struct {
	// NoDelay disables Nagle's algorithm (TCP_NODELAY) for low latency.
	NoDelay bool
	// RecvBuffer sets SO_RCVBUF in bytes; 0 leaves the system default.
	RecvBuffer int
	// SendBuffer sets SO_SNDBUF in bytes; 0 leaves the system default.
	SendBuffer int
	// QuickAck requests immediate ACKs (Linux only; no-op elsewhere).
	QuickAck bool
	// DeferAccept delays waking the acceptor until data has arrived
	// (Linux only; no-op elsewhere).
	DeferAccept bool
	// FastOpen enables TCP Fast Open where the platform supports it.
	FastOpen bool
	// KeepAlive enables SO_KEEPALIVE.
	KeepAlive bool
}

// DefaultConfig is the recommended tuning for a short-lived,
// one-request-per-connection HTTP server.
func DefaultConfig() *Config {
	return &Config{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		QuickAck:    true,
		DeferAccept: true,
		FastOpen:    true,
		KeepAlive:   true,
	}
}

// Apply tunes an accepted connection's file descriptor. Call it
// immediately after accept4 returns fd.
func Apply(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.NoDelay {
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
			return err
		}
	}
	if cfg.RecvBuffer > 0 {
		_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_SNDBUF, cfg.SendBuffer)
	}
	if cfg.KeepAlive {
		_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)
	}

	applyPlatformOptions(fd, cfg)
	return nil
}

// ApplyListener tunes a listening socket's file descriptor before the
// first accept4 call. TCP_DEFER_ACCEPT and TCP_FASTOPEN must be set at
// this point, not per-connection.
func ApplyListener(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return applyListenerOptions(fd, cfg)
}
