//go:build !linux

package notifier

import "errors"

// New is unimplemented outside Linux. The event loop is built around
// epoll(7) readiness semantics; porting to another backend (kqueue,
// IOCP) is future work, not attempted here.
func New() (Notifier, error) {
	return nil, errors.New("notifier: no readiness backend for this platform")
}
