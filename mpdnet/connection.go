// Package mpdnet implements the idle/command multiplexer: a single
// background goroutine that owns an MPD transport and interleaves a
// long-running idle subscription with ad-hoc commands from one or more
// Client handles.
package mpdnet

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/famish99/mpdc/protocol"
	"github.com/famish99/mpdc/tag"
)

// errCleanEOF is an internal sentinel distinguishing "the server closed the
// connection between frames, with nothing buffered" from any other read
// error; run() translates it into a graceful ConnectionClosed{Err: nil}.
var errCleanEOF = errors.New("mpdnet: clean eof")

// nextCommandGraceTimeout is how long the loop waits, after delivering a
// command reply, before writing "idle" again. A caller that fires off a
// burst of commands back to back pays for only one idle/noidle round trip
// instead of one per command.
const nextCommandGraceTimeout = 100 * time.Millisecond

type loopState int

const (
	stateIdling loopState = iota
	stateAwaitingReply
)

type commandJob struct {
	list   *protocol.RawCommandList
	reply  chan commandReply
	sentAt time.Time
}

type commandReply struct {
	resp *protocol.Response
	err  error
}

// Connection owns the transport and runs the idle loop in its own
// goroutine, with a companion readPump goroutine doing the blocking reads.
// After Connect returns, nothing else touches the transport; Client
// handles and Events communicate with the loop exclusively through channels.
type Connection struct {
	transport Transport
	log       zerolog.Logger
	metrics   *Metrics

	protocolVersion string

	commands chan *commandJob
	events   chan ConnectionEvent
	quit     chan struct{} // closed exactly once, by Close

	closeOnce sync.Once
	closedCh  chan struct{} // closed exactly once, when the idle loop returns for any reason
}

// ConnectOptions configures a Connection.
type ConnectOptions struct {
	Logger       *zerolog.Logger
	Metrics      *Metrics
	WriteTimeout time.Duration // 0 disables the write deadline

	// Password, if non-empty, is sent and confirmed during the handshake,
	// before the idle loop ever sends "idle". An ACK here is fatal to
	// Connect and surfaces as ErrIncorrectPassword.
	Password string
}

// Connect reads the server greeting off transport, completes the optional
// password handshake, and starts the idle loop. The returned Connection's
// protocol version is available immediately; its event channel and the
// first Client handle are ready to use as soon as Connect returns.
func Connect(transport Transport, opts ConnectOptions) (*Connection, *Client, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	version, err := readGreeting(transport)
	if err != nil {
		return nil, nil, fmt.Errorf("mpdnet: reading greeting: %w", err)
	}

	if opts.Password != "" {
		if err := authenticate(transport, opts.Password); err != nil {
			return nil, nil, err
		}
	}

	c := &Connection{
		transport:       transport,
		log:             logger,
		metrics:         opts.Metrics,
		protocolVersion: version,
		commands:        make(chan *commandJob),
		events:          make(chan ConnectionEvent, 8),
		quit:            make(chan struct{}),
		closedCh:        make(chan struct{}),
	}

	go c.run(opts.WriteTimeout)

	return c, c.NewClient(), nil
}

// ProtocolVersion returns the version string the server reported in its
// greeting (e.g. "0.23.5").
func (c *Connection) ProtocolVersion() string {
	return c.protocolVersion
}

// Events returns the channel SubsystemChange and ConnectionClosed events
// are delivered on. It is closed only after a ConnectionClosed event has
// been sent, so ranging over it terminates cleanly.
func (c *Connection) Events() <-chan ConnectionEvent {
	return c.events
}

// NewClient returns an additional handle sharing this Connection's command
// queue. Client handles are safe for concurrent use from multiple
// goroutines.
func (c *Connection) NewClient() *Client {
	return &Client{conn: c}
}

// Closed returns a channel that is closed once the idle loop has exited,
// whether because the caller called Close, the server closed the transport,
// or a protocol error occurred. It never sends a value.
func (c *Connection) Closed() <-chan struct{} {
	return c.closedCh
}

// IsConnectionClosed reports whether the idle loop has already exited.
func (c *Connection) IsConnectionClosed() bool {
	select {
	case <-c.closedCh:
		return true
	default:
		return false
	}
}

// Close stops accepting new commands and signals the idle loop to shut down
// once any in-flight command is served. Go has no ownership-drop hook, so
// unlike the reference implementation's "last clone dropped" rule, shutdown
// here is explicit: call Close once all Client handles are done with the
// connection.
//
// Close signals shutdown through a dedicated channel rather than by closing
// the shared command queue: the queue has concurrent senders (every Client
// handle), and closing a channel while other goroutines may be sending on
// it is a data race that panics. quit has exactly one writer (Close,
// guarded by closeOnce) and only readers elsewhere.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}

func readGreeting(transport Transport) (string, error) {
	parser := protocol.NewParser()
	buf := make([]byte, 0, 64)
	chunk := make([]byte, 64)

	for {
		if elem, n, err := parser.ParseLine(buf); err != nil {
			return "", err
		} else if n > 0 {
			g, ok := elem.(protocol.Greeting)
			if !ok {
				return "", fmt.Errorf("mpdnet: expected greeting, got %T", elem)
			}
			return g.Version, nil
		}

		n, err := transport.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			return "", err
		}
	}
}

// authenticate sends a "password" command and blocks for its single Response,
// synchronously and before the idle loop starts (no Connection exists yet to
// multiplex through). An ACK reply is reported as ErrIncorrectPassword.
func authenticate(transport Transport, password string) error {
	wire, err := protocol.NewRawCommand("password").Argument(protocol.MustEscape(password)).Render()
	if err != nil {
		return fmt.Errorf("mpdnet: rendering password command: %w", err)
	}
	if _, err := io.WriteString(transport, wire+"\n"); err != nil {
		return fmt.Errorf("mpdnet: sending password: %w", err)
	}

	builder := protocol.NewResponseBuilder()
	buf := make([]byte, 0, 64)
	chunk := make([]byte, 64)

	for {
		n, err := builder.Feed(buf)
		if err != nil {
			return fmt.Errorf("mpdnet: parsing password reply: %w", err)
		}
		buf = buf[n:]

		if resp, ok := builder.Take(); ok {
			if resp.IsError() {
				return ErrIncorrectPassword
			}
			return nil
		}

		n, err = transport.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			return fmt.Errorf("mpdnet: reading password reply: %w", err)
		}
	}
}

// run is the idle loop. It is the only goroutine that writes to or closes
// c.transport; reads happen in readPump, which hands the bytes to run over
// a channel.
func (c *Connection) run(writeTimeout time.Duration) {
	readCh := make(chan readResult)
	stopPump := make(chan struct{})
	go c.readPump(readCh, stopPump)
	defer close(stopPump)

	builder := protocol.NewResponseBuilder()
	var buf []byte

	writeLine := func(line string) error {
		if writeTimeout > 0 {
			_ = c.transport.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		_, err := io.WriteString(c.transport, line+"\n")
		return err
	}

	writeRaw := func(data string) error {
		if writeTimeout > 0 {
			_ = c.transport.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		_, err := io.WriteString(c.transport, data)
		return err
	}

	// nextResponse blocks until the builder has a full Response, the
	// transport reports a clean EOF (returns errCleanEOF), or a read/parse
	// error occurs.
	nextResponse := func() (*protocol.Response, error) {
		for {
			resp, err := drainIfReady(builder, &buf)
			if err != nil {
				c.metrics.parseError()
				return nil, err
			}
			if resp != nil {
				return resp, nil
			}

			rr, ok := <-readCh
			if !ok {
				return nil, io.ErrUnexpectedEOF
			}
			if rr.err != nil {
				if rr.err == io.EOF && !builder.InProgress() && len(buf) == 0 {
					return nil, errCleanEOF
				}
				return nil, rr.err
			}
			buf = append(buf, rr.data...)
		}
	}

	fail := func(err error) {
		c.log.Warn().Err(err).Msg("idle loop exiting on error")
		c.events <- ConnectionClosed{Err: &ConnectionError{Err: err}}
		close(c.events)
		close(c.closedCh)
	}

	closeCleanly := func() {
		c.log.Debug().Msg("idle loop exiting cleanly")
		c.events <- ConnectionClosed{Err: nil}
		close(c.events)
		close(c.closedCh)
	}

	sendJob := func(job *commandJob) error {
		wire, err := job.list.Render()
		if err != nil {
			job.reply <- commandReply{err: err}
			return nil // a rendering error is the caller's bug, not fatal to the loop
		}
		c.log.Debug().Int("commands", job.list.Len()).Msg("dispatching command list")
		if err := writeRaw(wire); err != nil {
			job.reply <- commandReply{err: err}
			return err
		}
		job.sentAt = time.Now()
		c.metrics.commandSent()
		return nil
	}

	if err := writeLine("idle"); err != nil {
		fail(err)
		return
	}
	c.log.Debug().Msg("idle sent")
	c.metrics.idleCycle()

	state := stateIdling
	var pendingJob *commandJob

	for {
		switch state {
		case stateIdling:
			// Check already-buffered bytes (e.g. leftover from the
			// previous command's reply, or a second idle reply that
			// arrived in the same read as the first) before blocking on
			// the transport again.
			if resp, err := drainIfReady(builder, &buf); err != nil {
				c.metrics.parseError()
				fail(err)
				return
			} else if resp != nil {
				if err := c.handleIdleReply(resp); err != nil {
					fail(err)
					return
				}
				if err := writeLine("idle"); err != nil {
					fail(err)
					return
				}
				c.log.Debug().Msg("idle sent")
				c.metrics.idleCycle()
				continue
			}

			select {
			case rr, ok := <-readCh:
				if !ok {
					fail(io.ErrUnexpectedEOF)
					return
				}
				if rr.err != nil {
					if rr.err == io.EOF && !builder.InProgress() && len(buf) == 0 {
						closeCleanly()
						return
					}
					fail(rr.err)
					return
				}
				buf = append(buf, rr.data...)
				// Loop back to the top of stateIdling, where the
				// drain-before-block check above will assemble whatever
				// just arrived.

			case <-c.quit:
				_ = c.transport.Close()
				closeCleanly()
				return

			case job := <-c.commands:
				c.log.Debug().Msg("noidle sent")
				if err := writeLine("noidle"); err != nil {
					job.reply <- commandReply{err: err}
					fail(err)
					return
				}

				idleReply, err := nextResponse()
				if err != nil {
					if err == errCleanEOF {
						err = io.ErrUnexpectedEOF
					}
					job.reply <- commandReply{err: err}
					fail(err)
					return
				}
				if err := c.handleIdleReply(idleReply); err != nil {
					job.reply <- commandReply{err: err}
					fail(err)
					return
				}

				if err := sendJob(job); err != nil {
					fail(err)
					return
				}
				pendingJob = job
				state = stateAwaitingReply
			}

		case stateAwaitingReply:
			if pendingJob.sentAt.IsZero() {
				// The job failed to render and nothing was sent; its caller
				// already has the error, so go back to idling.
				pendingJob = nil
				if err := writeLine("idle"); err != nil {
					fail(err)
					return
				}
				c.log.Debug().Msg("idle sent")
				c.metrics.idleCycle()
				state = stateIdling
				continue
			}
			resp, err := nextResponse()
			job := pendingJob
			pendingJob = nil
			if err != nil {
				if err == errCleanEOF {
					err = io.ErrUnexpectedEOF
				}
				job.reply <- commandReply{err: err}
				fail(err)
				return
			}
			c.log.Debug().Msg("reply routed to caller")
			c.metrics.observeReplyLatency(time.Since(job.sentAt).Seconds())
			job.reply <- commandReply{resp: resp}

			select {
			case <-c.quit:
				_ = c.transport.Close()
				closeCleanly()
				return

			case nextJob := <-c.commands:
				c.metrics.commandCoalesced()
				if err := sendJob(nextJob); err != nil {
					fail(err)
					return
				}
				pendingJob = nextJob
				state = stateAwaitingReply

			case <-time.After(nextCommandGraceTimeout):
				if err := writeLine("idle"); err != nil {
					fail(err)
					return
				}
				c.log.Debug().Msg("idle sent")
				c.metrics.idleCycle()
				state = stateIdling
			}
		}
	}
}

// readResult is one chunk produced by readPump: either newly read bytes, or
// a terminal error (io.EOF included).
type readResult struct {
	data []byte
	err  error
}

// readPump is the only goroutine, besides run itself, spawned per
// Connection. It exists because a blocking Transport.Read cannot be
// selected on directly; pumping reads into a channel lets run's idle state
// wait on "transport readable" and "command queue non-empty" at once.
func (c *Connection) readPump(out chan<- readResult, stop <-chan struct{}) {
	buf := make([]byte, 4096)
	for {
		n, err := c.transport.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case out <- readResult{data: chunk}:
			case <-stop:
				return
			}
		}
		if err != nil {
			select {
			case out <- readResult{err: err}:
			case <-stop:
			}
			return
		}
	}
}

// drainIfReady feeds already-buffered bytes to builder without blocking on
// the transport, trimming consumed bytes from *buf as it goes. It returns
// (nil, nil) when buf holds only a partial element.
func drainIfReady(builder *protocol.ResponseBuilder, buf *[]byte) (*protocol.Response, error) {
	for len(*buf) > 0 {
		n, err := builder.Feed(*buf)
		if err != nil {
			return nil, err
		}
		*buf = (*buf)[n:]
		if resp, ok := builder.Take(); ok {
			return resp, nil
		}
		if n == 0 {
			break
		}
	}
	return nil, nil
}

// handleIdleReply interprets one response to an "idle" command: a
// changed: <subsystem> field for each subsystem that fired (there may be
// several, or none if the idle was cancelled by noidle with nothing
// pending), emitted in the order the server reported them. An ACK here
// means the server rejected idle itself, which is unrecoverable.
func (c *Connection) handleIdleReply(resp *protocol.Response) error {
	if resp.IsError() {
		return fmt.Errorf("%w: ACK %s", ErrInvalidResponse, resp.Err.Error())
	}
	if len(resp.Frames) == 0 {
		return nil
	}
	frame := resp.Frames[0]
	for {
		v, ok := frame.Take("changed")
		if !ok {
			break
		}
		sub := tag.SubsystemFromWire(v)
		c.log.Debug().Str("subsystem", sub.String()).Msg("subsystem change")
		c.metrics.subsystemChange(sub.String())
		c.events <- SubsystemChange{Subsystem: sub}
	}
	if !frame.IsEmpty() {
		return fmt.Errorf("%w: unexpected fields in idle reply", ErrInvalidResponse)
	}
	return nil
}
