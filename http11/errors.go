package http11

import "errors"

// Sentinel parse errors. None of these are written back to the client -
// the connection FSM closes silently on any of them, per the error
// taxonomy's "Parser Error" policy.
var (
	ErrMalformedRequestLine = errors.New("http11: malformed request line")
	ErrMalformedHeader      = errors.New("http11: malformed header line")
	ErrTooManyHeaders       = errors.New("http11: too many headers")
	ErrUnsupportedVersion   = errors.New("http11: unsupported HTTP version")
	ErrRequestTooLarge      = errors.New("http11: request exceeds size limit")
)
