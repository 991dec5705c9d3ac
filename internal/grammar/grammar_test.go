package grammar_test

import (
	"testing"

	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/grammar"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	result := grammar.ParseFile("test.Mod", src)
	if !result.OK {
		t.Fatalf("parse failed: %s", result.Err.Message("?"))
	}
	mod, ok := result.Value.(*ast.Module)
	if !ok {
		t.Fatalf("expected *ast.Module, got %T", result.Value)
	}
	return mod
}

func TestParseMinimalModule(t *testing.T) {
	mod := parseModule(t, "MODULE M; BEGIN END M.")
	if mod.Name.Name != "M" {
		t.Fatalf("expected module name M, got %q", mod.Name.Name)
	}
	if mod.EndName.Name != "M" {
		t.Fatalf("expected end name M, got %q", mod.EndName.Name)
	}
}

func TestParseVarAssignment(t *testing.T) {
	mod := parseModule(t, "MODULE M; VAR x: INTEGER; BEGIN x := 1 END M.")
	if len(mod.Decls.Vars) != 1 {
		t.Fatalf("expected one VAR group, got %d", len(mod.Decls.Vars))
	}
	if len(mod.Body) != 1 {
		t.Fatalf("expected one body statement, got %d", len(mod.Body))
	}
	if _, ok := mod.Body[0].(*ast.AssignStatement); !ok {
		t.Fatalf("expected an assignment statement, got %T", mod.Body[0])
	}
}

func TestParseRecordAndPointerType(t *testing.T) {
	mod := parseModule(t, `MODULE M;
		TYPE
			P = POINTER TO R;
			R = RECORD a: INTEGER END;
		BEGIN
		END M.`)
	if len(mod.Decls.Types) != 2 {
		t.Fatalf("expected two type declarations, got %d", len(mod.Decls.Types))
	}
	ptr, ok := mod.Decls.Types[0].Type.(*ast.PointerType)
	if !ok {
		t.Fatalf("expected first type to be a pointer, got %T", mod.Decls.Types[0].Type)
	}
	name, ok := ptr.Referent.(*ast.TypeName)
	if !ok || name.Name.Ident.Name != "R" {
		t.Fatalf("expected pointer referent TypeName R, got %#v", ptr.Referent)
	}
}

func TestParseImportList(t *testing.T) {
	mod := parseModule(t, "MODULE A; IMPORT B, F := Files; BEGIN B.f END A.")
	if len(mod.Imports) != 2 {
		t.Fatalf("expected two imports, got %d", len(mod.Imports))
	}
	if mod.Imports[0].LocalName() != "B" {
		t.Fatalf("expected first import local name B, got %q", mod.Imports[0].LocalName())
	}
	if mod.Imports[1].LocalName() != "F" || mod.Imports[1].Name.Name != "Files" {
		t.Fatalf("expected aliased import F := Files, got %+v", mod.Imports[1])
	}
}

func TestParseProcedureEndNameMismatchFails(t *testing.T) {
	result := grammar.ParseFile("test.Mod", `MODULE M;
		PROCEDURE P;
		BEGIN
		END Q;
	BEGIN END M.`)
	if result.OK {
		t.Fatalf("expected parse failure on mismatched procedure end name")
	}
}

func TestParseNestedComments(t *testing.T) {
	mod := parseModule(t, "MODULE M; (* outer (* inner *) still outer *) BEGIN END M.")
	if mod.Name.Name != "M" {
		t.Fatalf("expected module name M, got %q", mod.Name.Name)
	}
}

func TestParseHexCharLiteral(t *testing.T) {
	mod := parseModule(t, "MODULE M; CONST c = 7FX; BEGIN END M.")
	if len(mod.Decls.Consts) != 1 {
		t.Fatalf("expected one const declaration, got %d", len(mod.Decls.Consts))
	}
	ch, ok := mod.Decls.Consts[0].Value.(*ast.CharLit)
	if !ok {
		t.Fatalf("expected a char literal, got %T", mod.Decls.Consts[0].Value)
	}
	if ch.Value != 0x7F {
		t.Fatalf("expected char value 0x7F, got %#x", ch.Value)
	}
}

func TestParseDefinitionModule(t *testing.T) {
	result := grammar.ParseFile("test.def", "DEFINITION M; PROCEDURE P; END M.")
	if !result.OK {
		t.Fatalf("parse failed: %s", result.Err.Message("?"))
	}
	if _, ok := result.Value.(*ast.DefinitionModule); !ok {
		t.Fatalf("expected *ast.DefinitionModule, got %T", result.Value)
	}
}
