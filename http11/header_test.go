package http11

import "testing"

func TestHeadersGetCaseInsensitive(t *testing.T) {
	var h Headers
	h.add([]byte("Content-Type"), []byte("text/plain"))
	v, ok := h.Get([]byte("content-type"))
	if !ok || string(v) != "text/plain" {
		t.Fatalf("Get() = (%q, %v), want (text/plain, true)", v, ok)
	}
}

func TestHeadersAddPastCapacityFails(t *testing.T) {
	var h Headers
	for i := 0; i < MaxHeaders; i++ {
		if !h.add([]byte("X"), []byte("v")) {
			t.Fatalf("add() failed before reaching capacity at i=%d", i)
		}
	}
	if h.add([]byte("X"), []byte("v")) {
		t.Fatal("add() succeeded past MaxHeaders")
	}
}

func TestHeadersResetClearsCount(t *testing.T) {
	var h Headers
	h.add([]byte("A"), []byte("1"))
	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("Len() = %d after Reset, want 0", h.Len())
	}
	if _, ok := h.Get([]byte("A")); ok {
		t.Fatal("Get() found a header after Reset")
	}
}

func TestBytesEqualCaseInsensitive(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Host", "host", true},
		{"HOST", "Host", true},
		{"Host", "Hosts", false},
		{"", "", true},
	}
	for _, c := range cases {
		if got := bytesEqualCaseInsensitive([]byte(c.a), []byte(c.b)); got != c.want {
			t.Errorf("bytesEqualCaseInsensitive(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
