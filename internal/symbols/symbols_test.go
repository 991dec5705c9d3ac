package symbols_test

import (
	"testing"

	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/symbols"
)

func TestInsertSymbolRejectsRedefinition(t *testing.T) {
	c := symbols.NewContainer(nil)
	intT := &ast.BuiltInType{Name: ast.Integer}
	if err := c.InsertSymbol(&symbols.Symbol{Name: "x", Token: symbols.VarToken, Type: intT}); err != nil {
		t.Fatalf("unexpected error on first insert: %v", err)
	}
	if err := c.InsertSymbol(&symbols.Symbol{Name: "x", Token: symbols.VarToken, Type: intT}); err == nil {
		t.Fatalf("expected redefinition error")
	}
}

func TestGetSymbolWalksOuterScope(t *testing.T) {
	outer := symbols.NewContainer(nil)
	intT := &ast.BuiltInType{Name: ast.Integer}
	outer.InsertSymbol(&symbols.Symbol{Name: "g", Token: symbols.VarToken, Type: intT})
	inner := symbols.NewContainer(outer)

	sym, ok := inner.GetSymbol("g", false)
	if !ok || sym.Name != "g" {
		t.Fatalf("expected to find g via outer scope")
	}
	if sym.UseCount != 1 {
		t.Fatalf("expected use count 1, got %d", sym.UseCount)
	}
	if _, ok := inner.GetSymbol("g", true); !ok {
		t.Fatalf("expected secret lookup to still find g")
	}
	if sym.UseCount != 1 {
		t.Fatalf("expected secret lookup not to bump use count, got %d", sym.UseCount)
	}
}

func TestResolveTypeRejectsQualified(t *testing.T) {
	c := symbols.NewContainer(nil)
	qn := ast.QualIdent{Ident: ast.Identifier{Name: "T"}}
	c.InsertSymbol(&symbols.Symbol{Name: "T", Token: symbols.TypeToken, Type: &ast.BuiltInType{Name: ast.Integer}})

	if _, ok := c.ResolveType(qn); !ok {
		t.Fatalf("expected simple type lookup to succeed")
	}
	other := ast.Identifier{Name: "M"}
	qualified := ast.QualIdent{Qualifier: &other, Ident: ast.Identifier{Name: "T"}}
	if _, ok := c.ResolveType(qualified); ok {
		t.Fatalf("expected qualified lookup to fail at Container level")
	}
}

func TestMultimethodOverload(t *testing.T) {
	c := symbols.NewContainer(nil)
	base := &symbols.MultimethodBase{Name: "Visit", Type: &ast.ProcedureType{
		Params: []ast.FormalSection{{Idents: []ast.Identifier{{Name: "x"}}, Type: &ast.CommonType{}, Common: true}},
	}}
	if err := c.InsertTable(base); err != nil {
		t.Fatalf("unexpected error inserting base: %v", err)
	}

	inst := &symbols.MultimethodInstance{Name: "Visit", Type: &ast.ProcedureType{
		Params: []ast.FormalSection{{Idents: []ast.Identifier{{Name: "x"}}, Type: &ast.ScalarType{Underlying: &ast.BuiltInType{Name: ast.Integer}}}},
	}}
	if err := c.InsertTable(inst); err != nil {
		t.Fatalf("unexpected error inserting compatible instance: %v", err)
	}
	if len(base.Instances) != 1 {
		t.Fatalf("expected instance to be recorded on base, got %d", len(base.Instances))
	}

	simple := &symbols.SimpleProcedureTable{Name: "Other"}
	c.InsertTable(simple)
	dup := &symbols.SimpleProcedureTable{Name: "Other"}
	if err := c.InsertTable(dup); err == nil {
		t.Fatalf("expected overload of a simple procedure table to fail")
	}
}

func TestModuleTableQualifiedLookupRequiresExport(t *testing.T) {
	dep := symbols.NewModuleTable("Dep")
	dep.Scope.InsertSymbol(&symbols.Symbol{Name: "Hidden", Token: symbols.VarToken, Type: &ast.BuiltInType{Name: ast.Integer}})
	dep.Scope.InsertSymbol(&symbols.Symbol{Name: "Shown", Token: symbols.VarToken, Type: &ast.BuiltInType{Name: ast.Integer}, Exported: true})

	main := symbols.NewModuleTable("Main")
	main.AddImport("Dep", dep)

	qn := ast.QualIdent{Qualifier: &ast.Identifier{Name: "Dep"}, Ident: ast.Identifier{Name: "Shown"}}
	if _, ok := main.GetSymbol(qn, false); !ok {
		t.Fatalf("expected to resolve exported symbol through import")
	}
	hiddenQN := ast.QualIdent{Qualifier: &ast.Identifier{Name: "Dep"}, Ident: ast.Identifier{Name: "Hidden"}}
	if _, ok := main.GetSymbol(hiddenQN, false); ok {
		t.Fatalf("expected unexported symbol to be invisible through import")
	}
}

func TestSingleSymbolTableShadowsThenDefers(t *testing.T) {
	outer := symbols.NewContainer(nil)
	outer.InsertSymbol(&symbols.Symbol{Name: "g", Token: symbols.VarToken, Type: &ast.BuiltInType{Name: ast.Integer}})
	loopVar := symbols.Symbol{Name: "i", Token: symbols.VarToken, Type: &ast.BuiltInType{Name: ast.Integer}}
	scope := symbols.NewSingleSymbolTable(outer, loopVar)

	if _, ok := scope.GetSymbol("i", false); !ok {
		t.Fatalf("expected loop variable to resolve")
	}
	if _, ok := scope.GetSymbol("g", false); !ok {
		t.Fatalf("expected outer symbol to resolve through SingleSymbolTable")
	}
	if _, ok := scope.GetSymbol("missing", false); ok {
		t.Fatalf("expected unknown symbol to fail")
	}
}
