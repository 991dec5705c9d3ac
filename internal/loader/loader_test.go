package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oberon-fe/oberonc/internal/config"
	"github.com/oberon-fe/oberonc/internal/loader"
	"github.com/oberon-fe/oberonc/internal/symbols"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".Mod"), []byte(src), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func newLoader(dir string) *loader.Loader {
	settings := config.Settings{SearchPath: []string{dir}}
	return loader.New(settings)
}

// TestLoadSimpleAssignment covers spec.md §8 scenario 1.
func TestLoadSimpleAssignment(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", "MODULE M; VAR x: INTEGER; BEGIN x := 1 END M.")

	l := newLoader(dir)
	table, ok := l.Load("M")
	if !ok {
		t.Fatalf("expected load to succeed, top-level errors: %v", l.TopLevelErrors)
	}
	sym, ok := table.Scope.GetSymbol("x", true)
	if !ok {
		t.Fatalf("expected symbol x in module table")
	}
	if sym.Token != symbols.VarToken {
		t.Fatalf("expected x to be a VAR symbol")
	}
	if sym.UseCount != 1 {
		t.Fatalf("expected use count 1 after the assignment's LHS check, got %d", sym.UseCount)
	}
}

// TestLoadPointerToRecord covers spec.md §8 scenario 2.
func TestLoadPointerToRecord(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", `MODULE M;
		TYPE
			P = POINTER TO R;
			R = RECORD a: INTEGER END;
		BEGIN
		END M.`)

	l := newLoader(dir)
	table, ok := l.Load("M")
	if !ok {
		t.Fatalf("expected load to succeed, top-level errors: %v", l.TopLevelErrors)
	}
	if _, ok := table.Scope.GetSymbol("P", true); !ok {
		t.Fatalf("expected P symbol in module table")
	}
	if _, ok := table.Scope.GetSymbol("R", true); !ok {
		t.Fatalf("expected R symbol in module table")
	}
}

// TestLoadAssignmentTypeMismatch covers spec.md §8 scenario 3.
func TestLoadAssignmentTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", `MODULE M; VAR x: INTEGER; BEGIN x := "abc" END M.`)

	l := newLoader(dir)
	_, ok := l.Load("M")
	if ok {
		t.Fatalf("expected load to fail on incompatible assignment")
	}
	bag := l.Diagnostics[filepath.Join(dir, "M.Mod")]
	if bag == nil || !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the incompatible assignment")
	}
}

// TestLoadMissingImport covers spec.md §8 scenario 4.
func TestLoadMissingImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "A", "MODULE A; IMPORT B; BEGIN B.f END A.")

	l := newLoader(dir)
	_, ok := l.Load("A")
	if ok {
		t.Fatalf("expected load to fail: import B is absent")
	}
	if len(l.TopLevelErrors) != 1 {
		t.Fatalf("expected exactly one top-level error, got %v", l.TopLevelErrors)
	}
	want := "File with module name 'B' not found"
	if l.TopLevelErrors[0] != want {
		t.Fatalf("expected %q, got %q", want, l.TopLevelErrors[0])
	}
}

// TestLoadConstRedefinition covers spec.md §8 scenario 5.
func TestLoadConstRedefinition(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", "MODULE M; CONST k = 1; CONST k = 2 END M.")

	l := newLoader(dir)
	_, ok := l.Load("M")
	if ok {
		t.Fatalf("expected load to fail on redefinition")
	}
	bag := l.Diagnostics[filepath.Join(dir, "M.Mod")]
	if bag == nil || !bag.HasErrors() {
		t.Fatalf("expected a redefinition diagnostic")
	}
}

// TestLoadProcedureEndNameMismatch covers spec.md §8 scenario 6: a parse
// error, not a semantic one, so Load fails via the parse path and no
// ModuleTable is cached.
func TestLoadProcedureEndNameMismatch(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", `MODULE M;
		PROCEDURE P;
		BEGIN
		END Q;
	BEGIN END M.`)

	l := newLoader(dir)
	_, ok := l.Load("M")
	if ok {
		t.Fatalf("expected load to fail on mismatched procedure end name")
	}
	bag := l.Diagnostics[filepath.Join(dir, "M.Mod")]
	if bag == nil || bag.Len() == 0 {
		t.Fatalf("expected a parse diagnostic recorded for the file")
	}
}

func TestLoadImportGraph(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "B", "MODULE B; VAR f*: INTEGER; BEGIN END B.")
	writeModule(t, dir, "A", "MODULE A; IMPORT B; BEGIN B.f := 1 END A.")

	l := newLoader(dir)
	if _, ok := l.Load("A"); !ok {
		t.Fatalf("expected A to load, top-level errors: %v", l.TopLevelErrors)
	}
	if _, ok := l.Load("B"); !ok {
		t.Fatalf("expected B to already be cached and load successfully")
	}
}

func TestLoadCachesByName(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "M", "MODULE M; BEGIN END M.")

	l := newLoader(dir)
	first, ok := l.Load("M")
	if !ok {
		t.Fatalf("expected first load to succeed")
	}
	second, ok := l.Load("M")
	if !ok {
		t.Fatalf("expected second load to succeed")
	}
	if first != second {
		t.Fatalf("expected cached load to return the same *ModuleTable")
	}
}
