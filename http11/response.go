package http11

import (
	"strconv"

	"github.com/watt-toolkit/shockwave/internal/buffer"
)

// Response owns a status code, an ordered header list, and a body. It is
// immutable once built: construct with New and the With* builders, then
// hand it to Encode.
type Response struct {
	status  int
	headers []HeaderField
	body    []byte
}

// New starts a Response with the given status code and no headers or
// body.
func New(status int) Response {
	return Response{status: status}
}

// WithBody returns a copy of r with its body set to body. body is not
// copied; the caller must not mutate it afterward.
func (r Response) WithBody(body []byte) Response {
	r.body = body
	return r
}

// WithHeader returns a copy of r with (name, value) appended to its
// header list. Headers are emitted in the order added; no validation or
// sanitization is performed - the caller is trusted.
func (r Response) WithHeader(name, value string) Response {
	r.headers = append(append([]HeaderField{}, r.headers...), HeaderField{
		Name:  []byte(name),
		Value: []byte(value),
	})
	return r
}

// Status returns the response's status code.
func (r Response) Status() int {
	return r.status
}

const defaultContentType = "Content-Type: text/plain\r\n"

// Encode appends the wire representation of r to dst in the fixed order:
// status line, Content-Length, a default Content-Type unless the caller
// supplied one, every user header, the blank-line terminator, then the
// body bytes verbatim. No Connection header is ever emitted - the core
// closes every connection unilaterally after one response.
func (r Response) Encode(dst *buffer.Buffer) {
	dst.Append([]byte("HTTP/1.1 "))
	dst.Append([]byte(strconv.Itoa(r.status)))
	dst.Append([]byte(" "))
	dst.Append([]byte(reasonPhrase(r.status)))
	dst.Append([]byte(crlf))

	dst.Append([]byte("Content-Length: "))
	dst.Append([]byte(strconv.Itoa(len(r.body))))
	dst.Append([]byte(crlf))

	if !r.hasContentType() {
		dst.Append([]byte(defaultContentType))
	}

	for _, h := range r.headers {
		dst.Append(h.Name)
		dst.Append([]byte(": "))
		dst.Append(h.Value)
		dst.Append([]byte(crlf))
	}

	dst.Append([]byte(crlf))
	dst.Append(r.body)
}

func (r Response) hasContentType() bool {
	for _, h := range r.headers {
		if bytesEqualCaseInsensitive(h.Name, []byte("Content-Type")) {
			return true
		}
	}
	return false
}
