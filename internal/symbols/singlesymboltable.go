package symbols

import "github.com/oberon-fe/oberonc/internal/ast"

// LookupScope is the read side of a Container: GetSymbol/GetValue/GetTable/
// ResolveType, without the Insert* declaration methods. Both *Container and
// *SingleSymbolTable implement it, so a caller that only ever looks names up
// (internal/analyzer's Scope) can be handed either one.
type LookupScope interface {
	GetSymbol(name string, secretly bool) (*Symbol, bool)
	GetValue(name string, secretly bool) (*ConstValue, bool)
	GetTable(name string, secretly bool) (ProcedureTable, bool)
	ResolveType(name ast.QualIdent) (ast.Type, bool)
}

// SingleSymbolTable is a minimal one-entry scope: it binds exactly one
// symbol and defers everything else to an enclosing LookupScope. A FOR
// statement's control variable is visible only for the duration of its body
// and is not itself part of the enclosing declaration sequence, which is
// too narrow a need for a full Container (spec.md §4.9's FOR statement).
type SingleSymbolTable struct {
	outer LookupScope
	sym   Symbol
}

// NewSingleSymbolTable binds sym over outer.
func NewSingleSymbolTable(outer LookupScope, sym Symbol) *SingleSymbolTable {
	return &SingleSymbolTable{outer: outer, sym: sym}
}

// GetSymbol returns the bound symbol if name matches it, else defers to
// outer.
func (t *SingleSymbolTable) GetSymbol(name string, secretly bool) (*Symbol, bool) {
	if name == t.sym.Name {
		if !secretly {
			t.sym.UseCount++
		}
		return &t.sym, true
	}
	if t.outer != nil {
		return t.outer.GetSymbol(name, secretly)
	}
	return nil, false
}

// GetValue always defers to outer: the bound symbol is never a CONST.
func (t *SingleSymbolTable) GetValue(name string, secretly bool) (*ConstValue, bool) {
	if t.outer != nil {
		return t.outer.GetValue(name, secretly)
	}
	return nil, false
}

// GetTable always defers to outer: the bound symbol is never a procedure.
func (t *SingleSymbolTable) GetTable(name string, secretly bool) (ProcedureTable, bool) {
	if t.outer != nil {
		return t.outer.GetTable(name, secretly)
	}
	return nil, false
}

// ResolveType implements typeops.Resolver; the bound symbol is always VAR,
// never TYPE, so this always defers to outer.
func (t *SingleSymbolTable) ResolveType(name ast.QualIdent) (ast.Type, bool) {
	if t.outer != nil {
		return t.outer.ResolveType(name)
	}
	return nil, false
}
