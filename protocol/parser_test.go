package protocol

import "testing"

func TestParseLineIncompleteThenComplete(t *testing.T) {
	p := NewParser()

	elem, n, err := p.ParseLine([]byte("volume: 50"))
	if err != nil || n != 0 || elem != nil {
		t.Fatalf("partial line: got (%v, %d, %v), want (nil, 0, nil)", elem, n, err)
	}

	elem, n, err = p.ParseLine([]byte("volume: 50\nnext"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kv, ok := elem.(KeyValue)
	if !ok || kv.Key != "volume" || kv.Value != "50" {
		t.Fatalf("got %#v, want KeyValue{volume, 50}", elem)
	}
	if n != len("volume: 50\n") {
		t.Fatalf("consumed %d, want %d", n, len("volume: 50\n"))
	}
}

func TestParseLineRestartability(t *testing.T) {
	// Feeding the same underlying bytes with progressively more data must
	// never consume bytes until a full line is present, and must report
	// the identical element once it is.
	full := []byte("state: play\n")
	p := NewParser()
	for i := 0; i < len(full); i++ {
		elem, n, err := p.ParseLine(full[:i])
		if err != nil {
			t.Fatalf("at prefix %d: unexpected error %v", i, err)
		}
		if n != 0 || elem != nil {
			t.Fatalf("at prefix %d: got (%v, %d), want incomplete", i, elem, n)
		}
	}
	elem, n, err := p.ParseLine(full)
	if err != nil || n != len(full) {
		t.Fatalf("got (%v, %d, %v)", elem, n, err)
	}
}

func TestParseTerminators(t *testing.T) {
	p := NewParser()

	elem, _, err := p.ParseLine([]byte("OK\n"))
	if err != nil {
		t.Fatal(err)
	}
	if term, ok := elem.(Terminator); !ok || term.ListOK {
		t.Fatalf("got %#v, want Terminator{ListOK: false}", elem)
	}

	elem, _, err = p.ParseLine([]byte("list_OK\n"))
	if err != nil {
		t.Fatal(err)
	}
	if term, ok := elem.(Terminator); !ok || !term.ListOK {
		t.Fatalf("got %#v, want Terminator{ListOK: true}", elem)
	}
}

func TestParseGreeting(t *testing.T) {
	p := NewParser()
	elem, n, err := p.ParseLine([]byte("OK MPD 0.23.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	g, ok := elem.(Greeting)
	if !ok || g.Version != "0.23.5" {
		t.Fatalf("got %#v", elem)
	}
	if n != len("OK MPD 0.23.5\n") {
		t.Fatalf("consumed %d", n)
	}
}

func TestParseAck(t *testing.T) {
	p := NewParser()
	elem, _, err := p.ParseLine([]byte(`ACK [5@0] {play} unknown command "play"` + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	ef, ok := elem.(*ErrorFrame)
	if !ok {
		t.Fatalf("got %#v, want *ErrorFrame", elem)
	}
	if ef.Code != 5 || ef.CommandIndex != 0 || ef.CurrentCommand != "play" {
		t.Fatalf("got %+v", ef)
	}
	if ef.Message != `unknown command "play"` {
		t.Fatalf("message = %q", ef.Message)
	}
}

func TestParseAckNoCurrentCommand(t *testing.T) {
	p := NewParser()
	elem, _, err := p.ParseLine([]byte(`ACK [3@1] {} not allowed` + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	ef := elem.(*ErrorFrame)
	if ef.CurrentCommand != "" {
		t.Fatalf("current command = %q, want empty", ef.CurrentCommand)
	}
}

func TestParseLineInvalid(t *testing.T) {
	p := NewParser()
	_, _, err := p.ParseLine([]byte("this is not a recognizable line\n"))
	if err == nil {
		t.Fatal("want error for unrecognizable line")
	}
	var pe *ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("got %T, want *ParseError", err)
	}
}

func asParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if !ok {
		return false
	}
	*target = pe
	return true
}

func TestParseBinaryIncompleteThenComplete(t *testing.T) {
	p := NewParser()
	payload := []byte("hello")

	data, n, err := p.ParseBinary(payload, 5)
	if err != nil {
		t.Fatal(err)
	}
	if data != nil || n != 0 {
		t.Fatalf("got (%v, %d), want incomplete (missing trailing newline)", data, n)
	}

	buf := append(append([]byte{}, payload...), '\n')
	data, n, err = p.ParseBinary(buf, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" || n != 6 {
		t.Fatalf("got (%q, %d)", data, n)
	}
}

func TestParseBinaryEmbeddedNewline(t *testing.T) {
	p := NewParser()
	// Binary payloads may themselves contain newlines; only the single
	// trailing newline after exactly n bytes terminates the chunk.
	buf := []byte("a\nb\nc\n")
	data, n, err := p.ParseBinary(buf, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a\nb\nc" || n != 6 {
		t.Fatalf("got (%q, %d)", data, n)
	}
}
