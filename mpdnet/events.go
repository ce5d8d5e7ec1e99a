package mpdnet

import "github.com/famish99/mpdc/tag"

// ConnectionEvent is delivered on a Connection's event channel: either a
// SubsystemChange notification from the idle subscription, or a terminal
// ConnectionClosed once the loop exits. SubsystemChange events are emitted
// in server delivery order and are never coalesced; a ConnectionClosed is
// always the last event on the channel.
type ConnectionEvent interface {
	isConnectionEvent()
}

// SubsystemChange reports that MPD notified the idle subscription of a
// state change in the given subsystem.
type SubsystemChange struct {
	Subsystem tag.Subsystem
}

func (SubsystemChange) isConnectionEvent() {}

// ConnectionClosed is the final event on the channel. Err is nil for a
// graceful shutdown (the server closed cleanly, or Connection.Close was
// called) and non-nil for an I/O or protocol failure. Dropping Client
// handles does not end the connection.
type ConnectionClosed struct {
	Err error
}

func (ConnectionClosed) isConnectionEvent() {}
