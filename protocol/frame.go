// Package protocol implements the MPD line-based wire protocol: an
// incremental parser, a response assembler and command/argument rendering.
// It performs no network I/O; see package mpdnet for the connection that
// drives it over a transport.
package protocol

// field is a single key-value pair as it was received on the wire, in the
// order it arrived. Keys are not unique: MPD repeats keys such as "Artist"
// for multi-valued tags, and callers rely on that order to reconstruct them.
type field struct {
	key   string
	value string
	taken bool
}

// Frame is one logical message: an ordered sequence of key-value pairs plus
// an optional binary payload. A Frame is built by a ResponseBuilder and is
// append-only until it is handed to a caller, who then only reads or
// destructively takes from it.
type Frame struct {
	fields  []field
	binary  []byte
	hasBin  bool
	binTook bool
}

// NewFrame returns an empty Frame.
func NewFrame() *Frame {
	return &Frame{}
}

func (f *Frame) add(key, value string) {
	f.fields = append(f.fields, field{key: key, value: value})
}

func (f *Frame) setBinary(data []byte) {
	f.binary = data
	f.hasBin = true
}

// IsEmpty reports whether the frame has zero surviving fields and no binary
// payload.
func (f *Frame) IsEmpty() bool {
	return f.FieldsLen() == 0 && (!f.hasBin || f.binTook)
}

// FieldsLen returns the number of remaining (not yet taken) key-value pairs.
func (f *Frame) FieldsLen() int {
	n := 0
	for _, fld := range f.fields {
		if !fld.taken {
			n++
		}
	}
	return n
}

// Find returns the value of the first surviving pair with the given key,
// without removing it.
func (f *Frame) Find(key string) (string, bool) {
	for _, fld := range f.fields {
		if !fld.taken && fld.key == key {
			return fld.value, true
		}
	}
	return "", false
}

// Take returns and removes the value of the first surviving pair with the
// given key. A subsequent Take for the same key returns the next pair, if
// any.
func (f *Frame) Take(key string) (string, bool) {
	for i := range f.fields {
		if !f.fields[i].taken && f.fields[i].key == key {
			f.fields[i].taken = true
			return f.fields[i].value, true
		}
	}
	return "", false
}

// TakeBinary removes and returns the frame's binary payload. It is
// idempotent: once taken, subsequent calls return (nil, false).
func (f *Frame) TakeBinary() ([]byte, bool) {
	if !f.hasBin || f.binTook {
		return nil, false
	}
	f.binTook = true
	return f.binary, true
}

// Pair is one surviving key-value pair, used by Frame.All.
type Pair struct {
	Key   string
	Value string
}

// All returns the surviving pairs in original insertion order. The returned
// slice is a snapshot; it does not observe subsequent Take calls.
func (f *Frame) All() []Pair {
	out := make([]Pair, 0, len(f.fields))
	for _, fld := range f.fields {
		if !fld.taken {
			out = append(out, Pair{Key: fld.key, Value: fld.value})
		}
	}
	return out
}

// ErrorFrame mirrors an MPD ACK line.
type ErrorFrame struct {
	Code           uint64
	CommandIndex   uint64
	CurrentCommand string // empty when the server reported no originating command
	Message        string
}

func (e *ErrorFrame) Error() string {
	if e.CurrentCommand != "" {
		return "mpd: ACK [" + itoa(e.Code) + "@" + itoa(e.CommandIndex) + "] {" + e.CurrentCommand + "} " + e.Message
	}
	return "mpd: ACK [" + itoa(e.Code) + "@" + itoa(e.CommandIndex) + "] {} " + e.Message
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
