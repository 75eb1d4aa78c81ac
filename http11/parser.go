package http11

import "bytes"

// Status is the tri-state outcome of a parse attempt against a partially
// or fully buffered request.
type Status int

const (
	// Partial means the buffer does not yet contain a full request line
	// plus header block; the caller should wait for more bytes.
	Partial Status = iota
	// Complete means a full request was parsed; Result.N reports how many
	// leading bytes of the buffer it consumed.
	Complete
	// Error means the buffered bytes cannot form a valid request; the
	// caller should close the connection without writing a response.
	Error
)

// Result is what Parse returns: the tri-state outcome, the borrowed
// request view when Complete, and the consumed byte count.
type Result struct {
	Status  Status
	Request Request
	N       int
	Err     error
}

// Parse looks for a complete request line and header block
// (terminated by a blank line) within buf. headers is caller-owned
// fixed-capacity storage the resulting Request view borrows into; Parse
// resets it before use. Parse never copies buf: every slice in a returned
// Request aliases buf directly, so the caller must not mutate buf's
// consumed prefix until done with the Request.
func Parse(buf []byte, headers *Headers) Result {
	end := bytes.Index(buf, []byte(headerEnd))
	if end < 0 {
		return Result{Status: Partial}
	}

	headers.Reset()
	head := buf[:end]

	// Without a CRLF inside head, the request line is all there is and the
	// request carries no headers.
	line, block := head, []byte(nil)
	if lineEnd := bytes.Index(head, []byte(crlf)); lineEnd >= 0 {
		line, block = head[:lineEnd], head[lineEnd+len(crlf):]
	}

	method, path, minor, err := parseRequestLine(line)
	if err != nil {
		return Result{Status: Error, Err: err}
	}

	if err := parseHeaderBlock(block, headers); err != nil {
		return Result{Status: Error, Err: err}
	}

	req := Request{method: method, path: path, minor: minor, headers: headers}
	return Result{Status: Complete, Request: req, N: end + len(headerEnd)}
}

// parseRequestLine splits "METHOD SP target SP HTTP/1.x" into its three
// tokens. Any method token is accepted - there is no fixed verb
// allowlist, matching an HTTP-grammar parser that only slices on
// whitespace rather than validating against a closed set of verbs.
func parseRequestLine(line []byte) (method, path []byte, minor byte, err error) {
	tokens := bytes.Fields(line)
	if len(tokens) != 3 {
		return nil, nil, 0, ErrMalformedRequestLine
	}
	method, target, version := tokens[0], tokens[1], tokens[2]

	if len(method) == 0 {
		return nil, nil, 0, ErrMalformedRequestLine
	}
	if len(target) == 0 || (target[0] != '/' && !bytes.Equal(target, []byte("*"))) {
		return nil, nil, 0, ErrMalformedRequestLine
	}
	if i := bytes.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}

	const prefix = "HTTP/1."
	if len(version) != len(prefix)+1 || string(version[:len(prefix)]) != prefix {
		return nil, nil, 0, ErrUnsupportedVersion
	}
	digit := version[len(prefix)]
	if digit < '0' || digit > '9' {
		return nil, nil, 0, ErrUnsupportedVersion
	}

	return method, target, digit - '0', nil
}

// parseHeaderBlock splits the header section (everything after the
// request line, up to but excluding the blank-line terminator) into
// fields and stores them in headers.
func parseHeaderBlock(block []byte, headers *Headers) error {
	for len(block) > 0 {
		lineEnd := bytes.Index(block, []byte(crlf))
		var line []byte
		if lineEnd < 0 {
			line = block
			block = nil
		} else {
			line = block[:lineEnd]
			block = block[lineEnd+len(crlf):]
		}
		if len(line) == 0 {
			continue
		}
		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return ErrMalformedHeader
		}
		name := line[:colon]
		if name[len(name)-1] == ' ' || name[len(name)-1] == '\t' {
			// Whitespace between a header name and its colon is a request
			// smuggling vector (RFC 7230 §3.2.4); reject it outright.
			return ErrMalformedHeader
		}
		value := trimLeadingSpace(line[colon+1:])
		if !headers.add(name, value) {
			return ErrTooManyHeaders
		}
	}
	return nil
}

func trimLeadingSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}
