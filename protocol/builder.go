package protocol

// Response is the fully assembled reply to one RawCommand or RawCommandList:
// one Frame per command that completed (in order, list_OK-terminated ones
// first), plus, if the server reported a failure, the ErrorFrame that ended
// the response. Per spec: a command list where command 3 of 5 fails still
// yields the first two frames, the error, and no frames for commands 4-5.
type Response struct {
	Frames []*Frame
	Err    *ErrorFrame
}

// IsError reports whether the response ended in an ACK.
func (r *Response) IsError() bool {
	return r.Err != nil
}

// builderState distinguishes the two states from the spec: Idle (no frame
// in progress, a clean place to observe EOF) and Building (accumulating a
// response, possibly mid-way through a binary payload).
type builderState int

const (
	stateIdle builderState = iota
	stateBuilding
	stateExpectingBinary
)

// ResponseBuilder assembles a Response out of the Elements a Parser
// produces, tracking the binary-payload state that only the builder (not
// the parser) understands. Feed the raw bytes read from the transport; once
// Take reports a Response is ready, call it to retrieve and reset.
type ResponseBuilder struct {
	parser *Parser
	state  builderState

	frames  []*Frame
	current *Frame

	binaryLen int

	ready *Response
}

// NewResponseBuilder returns a builder ready to assemble the next response.
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{parser: NewParser(), state: stateIdle}
}

// InProgress reports whether a response is partway through being built. The
// connection uses this, together with "have any bytes been read at all
// since the last clean boundary", to tell a graceful EOF (no InProgress,
// nothing buffered) from a truncated one (InProgress, or buffered bytes with
// no InProgress state yet).
func (b *ResponseBuilder) InProgress() bool {
	return b.state != stateIdle
}

// Feed consumes as many complete elements as buf contains, returning the
// number of bytes consumed. It returns a non-nil error only for malformed
// input (a *ParseError); that error is terminal for the connection. Once a
// Response completes, Take must be called before Feed will make further
// progress (a second Feed while a Response is waiting to be taken is a
// caller bug, not an I/O condition, so it simply stops consuming).
func (b *ResponseBuilder) Feed(buf []byte) (int, error) {
	if b.ready != nil {
		return 0, nil
	}

	total := 0
	for {
		rest := buf[total:]
		if len(rest) == 0 {
			return total, nil
		}

		if b.state == stateExpectingBinary {
			data, n, err := b.parser.ParseBinary(rest, b.binaryLen)
			if err != nil {
				return total, err
			}
			if n == 0 {
				return total, nil
			}
			b.current.setBinary(data)
			b.state = stateBuilding
			total += n
			continue
		}

		elem, n, err := b.parser.ParseLine(rest)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += n

		switch e := elem.(type) {
		case Greeting:
			// Only meaningful as the very first line on a connection; the
			// connection layer reads it directly before ever constructing
			// a ResponseBuilder, so seeing one here is a protocol error.
			return total, &ParseError{Line: "OK MPD " + e.Version, Msg: "unexpected greeting mid-response"}

		case KeyValue:
			b.ensureBuilding()
			if e.Key == "binary" {
				size, perr := parseBinarySize(e.Value)
				if perr != nil {
					return total, perr
				}
				b.binaryLen = size
				b.state = stateExpectingBinary
			} else {
				b.current.add(e.Key, e.Value)
			}

		case Terminator:
			b.ensureBuilding()
			b.frames = append(b.frames, b.current)
			b.current = nil
			if e.ListOK {
				b.state = stateBuilding
				continue
			}
			b.finish(&Response{Frames: b.frames})
			return total, nil

		case *ErrorFrame:
			b.finish(&Response{Frames: b.frames, Err: e})
			return total, nil
		}
	}
}

func (b *ResponseBuilder) ensureBuilding() {
	if b.current == nil {
		b.current = NewFrame()
	}
	b.state = stateBuilding
}

func (b *ResponseBuilder) finish(r *Response) {
	b.ready = r
	b.frames = nil
	b.current = nil
	b.state = stateIdle
}

// Take returns the completed Response and resets the builder for the next
// one. The second return value is false if no Response is ready yet.
func (b *ResponseBuilder) Take() (*Response, bool) {
	if b.ready == nil {
		return nil, false
	}
	r := b.ready
	b.ready = nil
	return r, true
}

func parseBinarySize(value string) (int, error) {
	n := 0
	if value == "" {
		return 0, &ParseError{Line: value, Msg: "empty binary size"}
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return 0, &ParseError{Line: value, Msg: "non-numeric binary size"}
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
