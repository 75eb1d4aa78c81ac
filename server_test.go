package shockwave

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/watt-toolkit/shockwave/http11"
)

// dialAndRead opens a fresh TCP connection to addr, writes raw, and
// returns everything the peer sends back before closing the connection
// (or until EOF).
func dialAndRead(t *testing.T, addr, raw string) string {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	if _, err := conn.Write([]byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := io.ReadAll(conn)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	return string(out)
}

func startTestServer(t *testing.T, addr string, handler Handler) {
	t.Helper()
	srv, err := New(addr, handler)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- srv.Run() }()
	t.Cleanup(func() {
		srv.Shutdown()
		if err := <-done; err != nil {
			t.Errorf("Run() returned error on shutdown: %v", err)
		}
	})
	// Give Run a moment to enter its event loop before the first dial.
	time.Sleep(20 * time.Millisecond)
}

func TestEndToEndBasicGET(t *testing.T) {
	addr := "127.0.0.1:18081"
	startTestServer(t, addr, func(req http11.Request) http11.Response {
		return http11.New(200).WithBody([]byte("Hi"))
	})

	got := dialAndRead(t, addr, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
	want := "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nContent-Type: text/plain\r\n\r\nHi"
	if got != want {
		t.Fatalf("response = %q, want %q", got, want)
	}
}

func TestEndToEndNotFound(t *testing.T) {
	addr := "127.0.0.1:18082"
	startTestServer(t, addr, func(req http11.Request) http11.Response {
		return http11.New(404)
	})

	got := dialAndRead(t, addr, "GET /missing HTTP/1.1\r\nHost: x\r\n\r\n")
	want := "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\nContent-Type: text/plain\r\n\r\n"
	if got != want {
		t.Fatalf("response = %q, want %q", got, want)
	}
}

func TestEndToEndCustomContentType(t *testing.T) {
	addr := "127.0.0.1:18083"
	startTestServer(t, addr, func(req http11.Request) http11.Response {
		return http11.New(200).WithHeader("Content-Type", "application/json").WithBody([]byte("{}"))
	})

	got := dialAndRead(t, addr, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
	want := "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nContent-Type: application/json\r\n\r\n{}"
	if got != want {
		t.Fatalf("response = %q, want %q", got, want)
	}
}

func TestEndToEndMalformedRequestClosesSilently(t *testing.T) {
	addr := "127.0.0.1:18084"
	startTestServer(t, addr, func(req http11.Request) http11.Response {
		return http11.New(200)
	})

	got := dialAndRead(t, addr, "GARBAGE\r\n\r\n")
	if got != "" {
		t.Fatalf("response = %q, want no bytes for a malformed request", got)
	}
}

func TestEndToEndOversizeRequestClosesWithoutResponse(t *testing.T) {
	addr := "127.0.0.1:18085"
	startTestServer(t, addr, func(req http11.Request) http11.Response {
		return http11.New(200)
	})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	payload := make([]byte, http11.MaxRequestBytes+1)
	for i := range payload {
		payload[i] = 'a'
	}
	conn.Write(payload)

	out, err := io.ReadAll(conn)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("response = %q, want no bytes for an oversize request", out)
	}
}

func TestEndToEndSplitSegmentsMatchSingleSegment(t *testing.T) {
	addr := "127.0.0.1:18086"
	startTestServer(t, addr, func(req http11.Request) http11.Response {
		return http11.New(200).WithBody([]byte("Hi"))
	})

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	raw := "GET / HTTP/1.1\r\nHost: x\r\n\r\n"
	for _, b := range []byte(raw) {
		if _, err := conn.Write([]byte{b}); err != nil {
			t.Fatalf("write byte: %v", err)
		}
	}

	r := bufio.NewReader(conn)
	out, err := io.ReadAll(r)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nContent-Type: text/plain\r\n\r\nHi"
	if string(out) != want {
		t.Fatalf("response = %q, want %q", out, want)
	}
}
