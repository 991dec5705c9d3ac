package typeops_test

import (
	"testing"

	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/typeops"
)

type fakeResolver map[string]ast.Type

func (f fakeResolver) ResolveType(name ast.QualIdent) (ast.Type, bool) {
	t, ok := f[name.String()]
	return t, ok
}

func qn(name string) ast.QualIdent {
	return ast.QualIdent{Ident: ast.Identifier{Name: name}}
}

func TestEqualBuiltIn(t *testing.T) {
	a := &ast.BuiltInType{Name: ast.Integer}
	b := &ast.BuiltInType{Name: ast.Integer}
	c := &ast.BuiltInType{Name: ast.Real}
	if !typeops.Equal(a, b) {
		t.Fatalf("expected INTEGER == INTEGER")
	}
	if typeops.Equal(a, c) {
		t.Fatalf("expected INTEGER != REAL")
	}
}

func TestEqualNamedByIdentityNotStructure(t *testing.T) {
	a := &ast.TypeName{Name: qn("T1")}
	b := &ast.TypeName{Name: qn("T2")}
	if typeops.Equal(a, b) {
		t.Fatalf("two distinct named types over the same structure must not be equal")
	}
}

func TestEqualArrayByElemAndRank(t *testing.T) {
	intT := &ast.BuiltInType{Name: ast.Integer}
	a := &ast.ArrayType{Lengths: []ast.Expression{&ast.NumberLit{IntVal: 10}}, Elem: intT}
	b := &ast.ArrayType{Lengths: []ast.Expression{&ast.NumberLit{IntVal: 20}}, Elem: intT}
	if !typeops.Equal(a, b) {
		t.Fatalf("arrays with differing lengths but same rank/elem should be equal")
	}
	c := &ast.ArrayType{Lengths: []ast.Expression{&ast.NumberLit{IntVal: 10}, &ast.NumberLit{IntVal: 5}}, Elem: intT}
	if typeops.Equal(a, c) {
		t.Fatalf("arrays of differing rank must not be equal")
	}
}

func TestNormalizeStopsAtPointerBoundary(t *testing.T) {
	rec := &ast.RecordType{}
	ptrName := &ast.TypeName{Name: qn("NodePtr")}
	ptr := &ast.PointerType{Referent: rec}
	r := fakeResolver{"NodePtr": ptr}

	got := typeops.Normalize(ptrName, r, false)
	if got != ptr {
		t.Fatalf("expected Normalize to stop at the PointerType itself when normalizePointers is false")
	}
}

func TestNormalizeChasesNamedChain(t *testing.T) {
	intT := &ast.BuiltInType{Name: ast.Integer}
	r := fakeResolver{"A": &ast.TypeName{Name: qn("B")}, "B": intT}
	got := typeops.Normalize(&ast.TypeName{Name: qn("A")}, r, false)
	if got != intT {
		t.Fatalf("expected chain A -> B -> INTEGER to resolve to INTEGER")
	}
}

func TestFieldTypeWalksBaseChain(t *testing.T) {
	intT := &ast.BuiltInType{Name: ast.Integer}
	base := &ast.RecordType{Fields: []ast.FieldGroup{{Idents: []ast.IdentDef{{Ident: ast.Identifier{Name: "x"}}}, Type: intT}}}
	baseName := qn("Base")
	derived := &ast.RecordType{Base: &baseName}
	r := fakeResolver{"Base": base}

	typ, ok := typeops.FieldType(derived, "x", r)
	if !ok || typ != intT {
		t.Fatalf("expected to find field x via base chain")
	}
	if _, ok := typeops.FieldType(derived, "y", r); ok {
		t.Fatalf("expected field y to be absent")
	}
}

func TestDropDimensions(t *testing.T) {
	intT := &ast.BuiltInType{Name: ast.Integer}
	arr := &ast.ArrayType{Lengths: []ast.Expression{&ast.NumberLit{IntVal: 3}, &ast.NumberLit{IntVal: 4}}, Elem: intT}

	elem, ok := typeops.DropDimensions(arr, 2)
	if !ok || elem != intT {
		t.Fatalf("expected dropping all dimensions to yield the element type")
	}
	rest, ok := typeops.DropDimensions(arr, 1)
	if !ok {
		t.Fatalf("expected dropping one of two dimensions to succeed")
	}
	restArr, ok := rest.(*ast.ArrayType)
	if !ok || len(restArr.Lengths) != 1 {
		t.Fatalf("expected one remaining dimension, got %#v", rest)
	}
	if _, ok := typeops.DropDimensions(arr, 3); ok {
		t.Fatalf("expected dropping more dimensions than the rank to fail")
	}
}

func TestExtends(t *testing.T) {
	h := typeops.NewHierarchy()
	h.AddEdge(qn("C"), qn("B"))
	h.AddEdge(qn("B"), qn("A"))

	cRec := &ast.RecordType{Base: ptrQualIdent(qn("B"))}
	if !typeops.Extends(cRec, qn("A"), h) {
		t.Fatalf("expected C to transitively extend A")
	}
	if typeops.Extends(cRec, qn("Z"), h) {
		t.Fatalf("expected C not to extend unrelated Z")
	}
}

func ptrQualIdent(q ast.QualIdent) *ast.QualIdent { return &q }

// TestExtendsReflexiveAndTransitive covers spec.md §8's extension property:
// for R -> base S -> base T, extends(R,R) = extends(R,S) = extends(R,T) =
// true, and extends(T,R) = false.
func TestExtendsReflexiveAndTransitive(t *testing.T) {
	h := typeops.NewHierarchy()
	h.AddEdge(qn("R"), qn("S"))
	h.AddEdge(qn("S"), qn("T"))

	r := &ast.TypeName{Name: qn("R")}
	tType := &ast.TypeName{Name: qn("T")}

	if !typeops.Extends(r, qn("R"), h) {
		t.Fatalf("expected R to reflexively extend itself")
	}
	if !typeops.Extends(r, qn("S"), h) {
		t.Fatalf("expected R to extend its direct base S")
	}
	if !typeops.Extends(r, qn("T"), h) {
		t.Fatalf("expected R to transitively extend T")
	}
	if typeops.Extends(tType, qn("R"), h) {
		t.Fatalf("expected T not to extend R")
	}
}
