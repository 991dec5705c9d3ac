package position

import "testing"

func TestLineColBasic(t *testing.T) {
	src := "abc\ndef\nghi"
	idx := NewIndex("t.Mod", src)

	cases := []struct {
		index int
		want  LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{4, LineCol{2, 1}},
		{7, LineCol{2, 4}},
		{8, LineCol{3, 1}},
		{10, LineCol{3, 3}},
	}
	for _, c := range cases {
		got := idx.LineCol(c.index)
		if got != c.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", c.index, got, c.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	src := "MODULE M;\nVAR x: INTEGER;\nEND M."
	idx := NewIndex("t.Mod", src)
	place := idx.Place(14) // inside "VAR x: INTEGER;"
	if got, want := idx.GetLine(place), "VAR x: INTEGER;"; got != want {
		t.Errorf("GetLine = %q, want %q", got, want)
	}
}

func TestLineColUnterminatedLastLine(t *testing.T) {
	src := "END M."
	idx := NewIndex("t.Mod", src)
	got := idx.LineCol(len(src) - 1)
	if got != (LineCol{1, 6}) {
		t.Errorf("LineCol = %+v, want {1 6}", got)
	}
}
