package tag

import "testing"

func TestParseTagKnown(t *testing.T) {
	got, err := ParseTag("Artist")
	if err != nil {
		t.Fatal(err)
	}
	if got != TagArtist {
		t.Fatalf("got %v, want TagArtist", got)
	}
}

func TestParseTagCaseInsensitive(t *testing.T) {
	got, err := ParseTag("artist")
	if err != nil {
		t.Fatal(err)
	}
	if got != TagArtist {
		t.Fatalf("got %v, want TagArtist", got)
	}
}

func TestParseTagUnknownButValid(t *testing.T) {
	got, err := ParseTag("foo")
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "foo" {
		t.Fatalf("got %q, want %q", got.String(), "foo")
	}
}

func TestParseTagInvalid(t *testing.T) {
	if _, err := ParseTag(""); err == nil {
		t.Fatal("expected error for empty tag")
	}
	if _, err := ParseTag("foo bar"); err == nil {
		t.Fatal("expected error for tag containing a space")
	}
}

func TestSubsystemFromWirePlaylistMapsToQueue(t *testing.T) {
	got := SubsystemFromWire("playlist")
	if got != SubsystemQueue {
		t.Fatalf("got %v, want SubsystemQueue", got)
	}
	if got.String() != "playlist" {
		t.Fatalf("String() = %q, want %q", got.String(), "playlist")
	}
}

func TestSubsystemEquality(t *testing.T) {
	if SubsystemFromWire("player") != SubsystemPlayer {
		t.Fatal("SubsystemFromWire(\"player\") should equal SubsystemPlayer")
	}
}

func TestSubsystemOther(t *testing.T) {
	got := SubsystemFromWire("future_subsystem")
	if got.String() != "future_subsystem" {
		t.Fatalf("got %q", got.String())
	}
}
