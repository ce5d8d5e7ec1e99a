package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/famish99/mpdc/mpdnet"
	"github.com/famish99/mpdc/protocol"
)

// Add appends uri to the end of the queue. It is a thin wrapper over AddID
// that discards the assigned song ID, for callers that only care about the
// side effect.
func Add(ctx context.Context, client *mpdnet.Client, uri string) error {
	_, err := AddID(ctx, client, uri, -1)
	return err
}

// AddID appends uri to the queue and returns the song ID MPD assigned it.
// If pos is non-negative, the song is inserted at that queue position
// instead of appended to the end (MPD's "addid" position argument accepts a
// signed relative position too, but this wrapper only exposes the plain
// absolute form).
func AddID(ctx context.Context, client *mpdnet.Client, uri string, pos int) (int, error) {
	escaped, err := protocol.Escape(uri)
	if err != nil {
		return 0, err
	}
	cmd := protocol.NewRawCommand("addid").Argument(escaped)
	if pos >= 0 {
		cmd.Argument(strconv.Itoa(pos))
	}
	frame, err := client.Command(ctx, cmd)
	if err != nil {
		return 0, err
	}
	v, ok := frame.Take("Id")
	if !ok {
		return 0, fmt.Errorf("commands: addid response missing Id")
	}
	return strconv.Atoi(v)
}
