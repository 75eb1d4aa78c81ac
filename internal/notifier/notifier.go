// Package notifier wraps the OS readiness-notification facility (epoll on
// Linux) behind a small, platform-independent surface: register/reregister/
// deregister a file descriptor for readable/writable interest, block in
// Wait for the next batch of ready events, and Wake the poll from another
// thread. This is the concrete stand-in for the spec's "readiness
// notifier" external collaborator.
package notifier

// Token identifies a registered file descriptor. The event loop reserves
// Token 0 for the listener and Token 1 for the waker; connection tokens
// start at 2 (slot index + offset).
type Token int

// WakerToken is the reserved token attached to the backend's internal
// wake descriptor (an eventfd on Linux). The event loop checks for it to
// distinguish a shutdown wake from ordinary socket readiness.
const WakerToken Token = 1

// Interest is a bitmask of the readiness conditions a registration cares
// about.
type Interest uint8

const (
	// Readable requests notification when the descriptor has data to read
	// (or, for a listener, a pending connection to accept).
	Readable Interest = 1 << iota
	// Writable requests notification when a write would not block.
	Writable
)

// Event reports one descriptor's readiness at the time of a Wait call.
type Event struct {
	Token    Token
	Readable bool
	Writable bool
}

// Notifier is the behavior every platform backend provides. All methods
// except Wake are expected to be called only from the thread
// that owns the event loop; Wake is the one operation safe to call from
// another thread (e.g. a signal handler).
type Notifier interface {
	// Register begins watching fd for the given interest, associated with
	// token in events returned by Wait.
	Register(fd int, token Token, interest Interest) error
	// Reregister changes the interest set for an already-registered fd.
	Reregister(fd int, token Token, interest Interest) error
	// Deregister stops watching fd. It does not close fd.
	Deregister(fd int) error
	// Wait blocks until at least one registered descriptor is ready, or
	// Wake is called, appending ready events to events[:0] and returning
	// the resulting slice.
	Wait(events []Event) ([]Event, error)
	// Wake causes a currently-blocked or future Wait call to return
	// promptly with an event carrying the waker token. Safe to call
	// concurrently from any thread.
	Wake() error
	// Close releases the underlying OS resources.
	Close() error
}
