package diag_test

import (
	"strings"
	"testing"

	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/position"
)

func TestBagDedup(t *testing.T) {
	b := diag.NewBag()
	place := position.CodePlace{File: "a.Mod", Index: 5}
	b.Add(diag.NewError(diag.SUndeclaredIdent, place, "undeclared identifier %q", "x"))
	b.Add(diag.NewError(diag.SUndeclaredIdent, place, "undeclared identifier %q", "x"))
	if b.Len() != 1 {
		t.Fatalf("expected dedup to collapse to 1 diagnostic, got %d", b.Len())
	}
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors to be true")
	}
}

func TestBagDistinctCodes(t *testing.T) {
	b := diag.NewBag()
	place := position.CodePlace{File: "a.Mod", Index: 5}
	b.Add(diag.NewError(diag.SUndeclaredIdent, place, "x"))
	b.Add(diag.NewWarning(diag.SRecordExtends, place, "y"))
	if b.Len() != 2 {
		t.Fatalf("expected 2 distinct diagnostics, got %d", b.Len())
	}
}

func TestRenderShowsCaret(t *testing.T) {
	src := "MODULE M;\nBEGIN\n  x := 1\nEND M.\n"
	idx := position.NewIndex("a.Mod", src)
	place := idx.Place(strings.Index(src, "x"))
	d := diag.NewError(diag.SUndeclaredIdent, place, "undeclared identifier %q", "x")
	out := diag.Render(idx, d, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header, source, caret), got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "a.Mod:3:3") {
		t.Fatalf("expected position a.Mod:3:3 in header, got %q", lines[0])
	}
	if strings.TrimSpace(lines[2]) != "^" || len(lines[2]) != 3 {
		t.Fatalf("expected caret indented to column 3, got %q", lines[2])
	}
}
