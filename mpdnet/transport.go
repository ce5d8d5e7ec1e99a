package mpdnet

import (
	"io"
	"net"
	"time"
)

// Transport is the capability set the idle loop needs from the underlying
// byte stream: read, write, close, and a write deadline (applied per write
// when ConnectOptions.WriteTimeout is set). SetReadDeadline is part of the
// set but the loop never calls it; reads block until data or an error
// arrives. net.Conn already satisfies this, so a
// plain TCP, TLS, or Unix socket connection can be passed directly; tests
// use net.Pipe. No other form of runtime polymorphism is required.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// NetConnTransport adapts a net.Conn to Transport. It exists mostly for
// readability at call sites (mpdnet.NetConnTransport(conn) vs. passing a
// bare net.Conn); net.Conn already implements the interface, so the
// conversion is free.
func NetConnTransport(conn net.Conn) Transport {
	return conn
}
