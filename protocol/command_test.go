package protocol

import (
	"errors"
	"testing"
)

func TestEscapeArgumentLaw(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"play", "play"},
		{"My Song", `"My Song"`},
		{`a"b`, `a\"b`},
		{`a\b`, `a\\b`},
		{"a'b", `a\'b`},
		{"with space", `"with space"`},
		{"tab\tseparated", "\"tab\tseparated\"", },
	}
	for _, c := range cases {
		got, err := Escape(c.in)
		if err != nil {
			t.Fatalf("Escape(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Escape(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeRejectsNewline(t *testing.T) {
	if _, err := Escape("line1\nline2"); err == nil {
		t.Fatal("expected error for embedded newline")
	}
}

func TestRawCommandRender(t *testing.T) {
	cmd := NewRawCommand("findadd").Argument(MustEscape("(Artist == \"Foo Bar\")"))
	got, err := cmd.Render()
	if err != nil {
		t.Fatal(err)
	}
	want := `findadd "(Artist == \"Foo Bar\")"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRawCommandListRenderSingle(t *testing.T) {
	l := NewRawCommandList(NewRawCommand("ping"))
	got, err := l.Render()
	if err != nil {
		t.Fatal(err)
	}
	if got != "ping\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRawCommandListRenderMultiple(t *testing.T) {
	l := NewRawCommandList(
		NewRawCommand("play"),
		NewRawCommand("status"),
	)
	got, err := l.Render()
	if err != nil {
		t.Fatal(err)
	}
	want := "command_list_ok_begin\nplay\nstatus\ncommand_list_end\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRawCommandRejectsNewlineInArgument(t *testing.T) {
	cmd := NewRawCommand("add").Argument("foo\nbar")
	if _, err := cmd.Render(); err == nil {
		t.Fatal("expected error")
	}
}

func TestRawCommandRejectsInvalidName(t *testing.T) {
	cases := []string{"", "play2", "command_list_ok_begin", "pl ay", "pläy"}
	for _, name := range cases {
		if _, err := NewRawCommand(name).Render(); !errors.Is(err, ErrInvalidCommandName) {
			t.Errorf("NewRawCommand(%q).Render() err = %v, want ErrInvalidCommandName", name, err)
		}
	}
}
