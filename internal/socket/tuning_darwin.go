//go:build darwin

package socket

import "syscall"

// Darwin-specific socket options not exposed by the syscall package.
const (
	tcpFastOpen   = 0x105
	tcpKeepAlive  = 0x10
	soNoSigPipe   = 0x1022
)

// applyPlatformOptions sets Darwin-specific connection options.
func applyPlatformOptions(fd int, cfg *Config) {
	// Darwin needs this socket option to avoid SIGPIPE on a write to a
	// closed peer.
	_ = syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, soNoSigPipe, 1)

	if cfg.KeepAlive {
		_ = syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpKeepAlive, 60)
	}
}

// applyListenerOptions sets Darwin-specific listener options. Darwin has
// no TCP_DEFER_ACCEPT equivalent, so only Fast Open is applicable here.
func applyListenerOptions(fd int, cfg *Config) error {
	if cfg.FastOpen {
		return syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, tcpFastOpen, 256)
	}
	return nil
}

// SetQuickAck is a no-op on Darwin: there is no TCP_QUICKACK equivalent.
func SetQuickAck(fd int) error {
	return nil
}
