package http11

// Request is a borrowed view over one parsed request. Method, Path and
// every header name/value are zero-copy slices into the connection's read
// buffer: none of them may be retained past the handler call that
// received this Request.
type Request struct {
	method  []byte
	path    []byte
	minor   byte
	headers *Headers
}

// Method returns the request method token as a string. This allocates;
// use MethodBytes for the zero-copy view.
func (r Request) Method() string {
	return string(r.method)
}

// MethodBytes returns the zero-copy request method token.
func (r Request) MethodBytes() []byte {
	return r.method
}

// Path returns the request path (without any query string) as a string.
func (r Request) Path() string {
	return string(r.path)
}

// PathBytes returns the zero-copy request path.
func (r Request) PathBytes() []byte {
	return r.path
}

// MinorVersion returns the HTTP/1.x minor version digit, e.g. 1 for
// HTTP/1.1 and 0 for HTTP/1.0.
func (r Request) MinorVersion() byte {
	return r.minor
}

// Header looks up a header by name, case-insensitively, returning its
// value and whether it was present. Mirrors the single-header accessor
// the handler contract relies on.
func (r Request) Header(name string) (string, bool) {
	v, ok := r.headers.Get([]byte(name))
	if !ok {
		return "", false
	}
	return string(v), true
}

// HeaderBytes is the zero-copy form of Header.
func (r Request) HeaderBytes(name []byte) ([]byte, bool) {
	return r.headers.Get(name)
}

// Headers exposes the full borrowed header set for iteration.
func (r Request) Headers() *Headers {
	return r.headers
}
