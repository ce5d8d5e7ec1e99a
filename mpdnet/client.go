package mpdnet

import (
	"context"
	"fmt"

	"github.com/famish99/mpdc/protocol"
)

// Client is a handle to a Connection's command queue. Multiple handles
// (from Connection.NewClient) may be used concurrently from different
// goroutines; their commands interleave in the order they land on the
// shared queue.
type Client struct {
	conn *Connection
}

// CommandList sends a RawCommandList and waits for its Response. ctx only
// bounds how long the caller waits for the reply; it never cancels the
// in-flight wire operation. If ctx is done before the idle loop has taken
// the command, the command is never sent. If ctx is done after that, the
// command still goes out and its eventual reply (or the fact that the
// connection closed first) is simply discarded once it arrives.
func (cl *Client) CommandList(ctx context.Context, list *protocol.RawCommandList) (*protocol.Response, error) {
	job := &commandJob{list: list, reply: make(chan commandReply, 1)}

	select {
	case cl.conn.commands <- job:
	case <-cl.conn.quit:
		return nil, ErrConnectionClosed
	case <-cl.conn.closedCh:
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case r := <-job.reply:
		if r.err != nil {
			return nil, r.err
		}
		if r.resp.IsError() {
			return r.resp, &CommandError{Frame: r.resp.Err}
		}
		return r.resp, nil
	case <-cl.conn.closedCh:
		// The loop may have exited without ever reading job; nothing will
		// ever arrive on job.reply.
		select {
		case r := <-job.reply:
			if r.err != nil {
				return nil, r.err
			}
			return r.resp, nil
		default:
			return nil, ErrConnectionClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Command sends a single RawCommand and returns its one Frame. It is a
// convenience over CommandList for the common single-command case.
func (cl *Client) Command(ctx context.Context, cmd *protocol.RawCommand) (*protocol.Frame, error) {
	resp, err := cl.CommandList(ctx, protocol.NewRawCommandList(cmd))
	if err != nil {
		return nil, err
	}
	if len(resp.Frames) != 1 {
		return nil, fmt.Errorf("mpdnet: expected exactly one frame, got %d", len(resp.Frames))
	}
	return resp.Frames[0], nil
}

// NewClient returns another handle sharing the same underlying Connection.
func (cl *Client) NewClient() *Client {
	return cl.conn.NewClient()
}

// ProtocolVersion returns the server's reported protocol version.
func (cl *Client) ProtocolVersion() string {
	return cl.conn.ProtocolVersion()
}

// Events returns the Connection's event channel.
func (cl *Client) Events() <-chan ConnectionEvent {
	return cl.conn.Events()
}

// Close shuts down the underlying Connection. See Connection.Close.
func (cl *Client) Close() {
	cl.conn.Close()
}

// IsConnectionClosed reports whether the idle loop backing this handle has
// already exited, whether from Close, a server-initiated disconnect, or a
// protocol error. Commands submitted afterward fail fast with
// ErrConnectionClosed instead of blocking forever.
func (cl *Client) IsConnectionClosed() bool {
	return cl.conn.IsConnectionClosed()
}
