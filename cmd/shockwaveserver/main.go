// Command shockwaveserver is an example host binary for the shockwave
// library: it parses a bind address from the command line and serves a
// fixed greeting, in the same spirit as the original project's
// examples/hello handler.
package main

import (
	"flag"
	"log"

	"github.com/watt-toolkit/shockwave"
	"github.com/watt-toolkit/shockwave/http11"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (host:port)")
	flag.Parse()

	handler := func(req http11.Request) http11.Response {
		if req.Path() != "/" {
			return http11.New(404)
		}
		return http11.New(200).WithBody([]byte("Hello, shockwave!"))
	}

	srv, err := shockwave.New(*addr, handler)
	if err != nil {
		log.Fatalf("shockwaveserver: %v", err)
	}

	log.Printf("shockwaveserver listening on %s", *addr)
	if err := srv.Run(); err != nil {
		log.Fatalf("shockwaveserver: %v", err)
	}
}
