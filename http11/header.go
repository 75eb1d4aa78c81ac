package http11

// HeaderField is one borrowed (name, value) pair. Name and Value point
// directly into the connection's read buffer and are only valid for the
// lifetime of the handler invocation that received them.
type HeaderField struct {
	Name  []byte
	Value []byte
}

// Headers is fixed-capacity storage for a request's header fields - the
// "header-storage array of 64 slots" the parser is handed. It never
// allocates: add refuses a field once MaxHeaders are stored, and the
// parser turns that refusal into ErrTooManyHeaders.
type Headers struct {
	fields [MaxHeaders]HeaderField
	count  int
}

// Reset clears Headers for reuse against the next request parsed into the
// same storage.
func (h *Headers) Reset() {
	for i := 0; i < h.count; i++ {
		h.fields[i] = HeaderField{}
	}
	h.count = 0
}

// Len reports how many header fields are currently stored.
func (h *Headers) Len() int {
	return h.count
}

// add appends a field, reporting false if storage is already full.
func (h *Headers) add(name, value []byte) bool {
	if h.count >= MaxHeaders {
		return false
	}
	h.fields[h.count] = HeaderField{Name: name, Value: value}
	h.count++
	return true
}

// Get performs a case-insensitive linear scan for name, matching the
// borrowed accessor the request view exposes. Returns the first match in
// header order.
func (h *Headers) Get(name []byte) ([]byte, bool) {
	for i := 0; i < h.count; i++ {
		if bytesEqualCaseInsensitive(h.fields[i].Name, name) {
			return h.fields[i].Value, true
		}
	}
	return nil, false
}

// VisitAll calls fn for every stored header field in order, stopping
// early if fn returns false.
func (h *Headers) VisitAll(fn func(name, value []byte) bool) {
	for i := 0; i < h.count; i++ {
		if !fn(h.fields[i].Name, h.fields[i].Value) {
			return
		}
	}
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func bytesEqualCaseInsensitive(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if toLower(a[i]) != toLower(b[i]) {
			return false
		}
	}
	return true
}
