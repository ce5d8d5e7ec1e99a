package tag

import "testing"

func TestFilterSimpleEqual(t *testing.T) {
	f := TagFilter(TagArtist, "foo's bar\"")
	got := f.Render()
	want := `(Artist == "foo\'s bar\"")`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterOtherOperator(t *testing.T) {
	f, err := TagFilterChecked(TagArtist, Contains, "mep mep")
	if err != nil {
		t.Fatal(err)
	}
	got := f.Render()
	want := `(Artist contains "mep mep")`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterEmptyTag(t *testing.T) {
	other, err := OtherTag("")
	if err == nil {
		t.Fatal("expected error for empty tag name")
	}
	_, err = TagFilterChecked(other, Equal, "mep mep")
	if err == nil {
		t.Fatal("expected ErrEmptyTag")
	}
}

func TestFilterNot(t *testing.T) {
	f := Not(TagFilter(TagArtist, "hello"))
	got := f.Render()
	want := `(!(Artist == "hello"))`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterDoubleNegationNotSimplified(t *testing.T) {
	f := Not(Not(TagFilter(TagArtist, "hello")))
	got := f.Render()
	want := `(!(!(Artist == "hello")))`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterAnd(t *testing.T) {
	first := TagFilter(TagArtist, "hello")
	second := TagFilter(TagAlbum, "world")

	got := first.And(second).Render()
	want := `(Artist == "hello") AND (Album == "world")`
	want = "(" + want + ")"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFilterAndFlattensAssociatively(t *testing.T) {
	a := TagFilter(TagArtist, "hello")
	b := TagFilter(TagAlbum, "world")
	c := TagFilter(TagTitle, "foo")

	leftAssoc := a.And(b).And(c).Render()
	rightAssoc := a.And(b.And(c)).Render()
	if leftAssoc != rightAssoc {
		t.Fatalf("left-assoc %q != right-assoc %q", leftAssoc, rightAssoc)
	}
	want := `((Artist == "hello") AND (Album == "world") AND (Title == "foo"))`
	if leftAssoc != want {
		t.Fatalf("got %q, want %q", leftAssoc, want)
	}
}
