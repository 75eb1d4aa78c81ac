//go:build linux

package socket

import "syscall"

// Linux TCP socket options not always exposed by the syscall package.
const (
	tcpQuickAck     = 12
	tcpDeferAccept  = 9
	tcpFastOpen     = 23
	tcpUserTimeout  = 18
	tcpKeepIdle     = 4
	tcpKeepInterval = 5
	tcpKeepCount    = 6
)

// applyPlatformOptions sets Linux-specific connection options.
func applyPlatformOptions(fd int, cfg *Config) {
	if cfg.QuickAck {
		_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpQuickAck, 1)
	}
	// Detect dead connections faster than the kernel default.
	_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpUserTimeout, 10000)

	if cfg.KeepAlive {
		_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepIdle, 60)
		_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepInterval, 10)
		_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepCount, 3)
	}
}

// applyListenerOptions sets Linux-specific listener options. Both are
// best-effort: a kernel without TFO or defer-accept support shouldn't
// prevent the listener from working.
func applyListenerOptions(fd int, cfg *Config) error {
	var lastErr error
	if cfg.DeferAccept {
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpDeferAccept, 5); err != nil {
			lastErr = err
		}
	}
	if cfg.FastOpen {
		if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpFastOpen, 256); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// SetQuickAck re-arms TCP_QUICKACK, which the kernel clears after each
// ACK it sends. The connection FSM calls this after each read so
// low-latency behavior holds across the life of the connection.
func SetQuickAck(fd int) error {
	return syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpQuickAck, 1)
}
