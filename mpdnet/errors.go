package mpdnet

import (
	"errors"
	"fmt"

	"github.com/famish99/mpdc/protocol"
)

// ErrConnectionClosed is returned from Client methods once the
// idle loop has exited, whether gracefully or due to an error.
var ErrConnectionClosed = errors.New("mpdnet: connection closed")

// ErrIncorrectPassword is returned when the server rejects a "password"
// command; kept as a sentinel distinct from a generic CommandError so
// callers can special-case re-authentication, mirroring the taxonomy in the
// reference client's errors module.
var ErrIncorrectPassword = errors.New("mpdnet: incorrect password")

// ErrInvalidResponse marks an idle reply that was neither a "changed" frame
// nor an empty (cancelled-idle) frame: an ACK, or a frame with other fields.
// It is always fatal to the connection.
var ErrInvalidResponse = errors.New("mpdnet: invalid idle reply")

// ConnectionError reports the I/O or protocol failure that stopped the idle
// loop; Err (also via Unwrap) is that failure. A graceful shutdown (Close
// was called, or the server closed the connection with no bytes in flight)
// produces no ConnectionError: the loop reports it as ConnectionClosed with
// a nil Err.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "mpdnet: connection closed"
	}
	return fmt.Sprintf("mpdnet: connection closed: %s", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// CommandError wraps a server-reported ACK, letting callers recover the
// structured ErrorFrame (code, command index, originating command) with
// errors.As instead of parsing Error() text.
type CommandError struct {
	Frame *protocol.ErrorFrame
}

func (e *CommandError) Error() string {
	return e.Frame.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Frame
}
