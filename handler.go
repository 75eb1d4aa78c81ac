package shockwave

import "github.com/watt-toolkit/shockwave/http11"

// Handler maps a borrowed request view to an owned response. Any function
// with this signature satisfies the contract; the handler is expected to
// be pure with respect to connection state - it only ever sees the
// request view the core hands it.
type Handler func(req http11.Request) http11.Response
