//go:build linux

package notifier

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestEpollRegisterAndReadable(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer n.Close()

	fds, err := unixSocketpair()
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	const tok Token = 7
	if err := n.Register(fds[0], tok, Readable); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := unix.Write(fds[1], []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	events, err := n.Wait(nil)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	found := false
	for _, ev := range events {
		if ev.Token == tok && ev.Readable {
			found = true
		}
	}
	if !found {
		t.Fatalf("Wait() did not report readable event for token %d: %+v", tok, events)
	}
}

func TestEpollWakeUnblocksWait(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer n.Close()

	done := make(chan struct{})
	go func() {
		n.Wait(nil)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	if err := n.Wake(); err != nil {
		t.Fatalf("Wake() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after Wake()")
	}
}

func unixSocketpair() ([2]int, error) {
	return unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
}
