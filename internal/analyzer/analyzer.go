// Package analyzer implements semantic analysis over a parsed module: the
// per-scope declaration pass (spec.md §4.5), type-guard/call repair and
// expression typing (§4.8), and statement checks (§4.9). It depends on
// internal/ast, internal/symbols, internal/typeops, and internal/diag only —
// module loading and file search live in internal/loader.
package analyzer

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/symbols"
)

// Scope pairs a lexical Container with the enclosing ModuleTable so that a
// single lookup path can serve both a simple identifier (resolved in the
// Container chain) and a qualified one (dispatched to the ModuleTable's
// imports), per spec.md §4.5: "Qualified lookups fail at container level;
// the module table dispatches them."
type Scope struct {
	// Container is this scope's declaration target: InsertSymbol/
	// InsertValue/InsertTable and the shared Hierarchy all go through it.
	// Oberon-07 statement sequences never carry their own declarations, so
	// a narrower scope (e.g. a FOR body) reuses its enclosing Container
	// here untouched and only overrides Lookup.
	Container *symbols.Container
	Module    *symbols.ModuleTable

	// Lookup is where GetSymbol/GetValue/GetTable/ResolveType actually
	// search. It is ordinarily Container itself, but a FOR statement's
	// control variable (spec.md §4.9) narrows it to a
	// *symbols.SingleSymbolTable chained to Container instead, so the loop
	// variable is visible only inside the loop body without needing a full
	// child Container for a scope that can never declare anything.
	Lookup symbols.LookupScope

	// NormalizePointers is the typeops.Normalize boundary switch in effect
	// for this analysis session (spec.md §4.7). Declaration passes read it
	// instead of hardcoding false, so internal/config's oberonc.yaml
	// override actually reaches type normalization.
	NormalizePointers bool
}

// Nested returns a Scope for a fresh child Container of this one, same
// Module.
func (s *Scope) Nested() *Scope {
	c := symbols.NewContainer(s.Container)
	return &Scope{Container: c, Module: s.Module, Lookup: c, NormalizePointers: s.NormalizePointers}
}

// NestedFor returns a Scope for a FOR statement's body: sym (the control
// variable) is visible by itself, chained to this scope's own Lookup for
// everything else, while Container stays this scope's (a FOR body declares
// nothing, per spec.md §4.9).
func (s *Scope) NestedFor(sym symbols.Symbol) *Scope {
	return &Scope{
		Container:         s.Container,
		Module:            s.Module,
		Lookup:            symbols.NewSingleSymbolTable(s.Lookup, sym),
		NormalizePointers: s.NormalizePointers,
	}
}

// ResolveType implements typeops.Resolver.
func (s *Scope) ResolveType(q ast.QualIdent) (ast.Type, bool) {
	if q.Simple() {
		return s.Lookup.ResolveType(q)
	}
	return s.Module.ResolveType(q)
}

// GetSymbol resolves q to a TYPE/VAR symbol, dispatching qualified names to
// the module table.
func (s *Scope) GetSymbol(q ast.QualIdent, secretly bool) (*symbols.Symbol, bool) {
	if q.Simple() {
		return s.Lookup.GetSymbol(q.Ident.Name, secretly)
	}
	return s.Module.GetSymbol(q, secretly)
}

// GetValue resolves q to a CONST value.
func (s *Scope) GetValue(q ast.QualIdent, secretly bool) (*symbols.ConstValue, bool) {
	if q.Simple() {
		return s.Lookup.GetValue(q.Ident.Name, secretly)
	}
	return s.Module.GetValue(q, secretly)
}

// GetTable resolves q to a procedure table.
func (s *Scope) GetTable(q ast.QualIdent, secretly bool) (symbols.ProcedureTable, bool) {
	if q.Simple() {
		return s.Lookup.GetTable(q.Ident.Name, secretly)
	}
	return s.Module.GetTable(q, secretly)
}

// IsModuleQualifier reports whether name is bound as an import alias on this
// scope's module, i.e. "name.X" should be read as a qualified access rather
// than a designator selector (spec.md §4.8's qualifier repair).
func (s *Scope) IsModuleQualifier(name string) bool {
	_, ok := s.Module.Imports[name]
	return ok
}

// pendingBody pairs one declared procedure's body with the scope its locals
// and formal parameters were declared into, so bodies can be checked in a
// pass separate from declaring them (spec.md §4.6: "After declarations, each
// procedure table recursively analyzes its children's bodies").
type pendingBody struct {
	body  ast.StatementSeq
	scope *Scope
}

// AnalyzeModule runs the full pipeline for one parsed module: the
// declaration pass, then statement checks over the module body and every
// declared procedure's body (spec.md §4.4 steps 5-6). The loader attaches
// mod.Imports to table.Imports before calling this. normalizePointers is
// the typeops.Normalize boundary switch (spec.md §4.7), sourced from
// internal/config.
func AnalyzeModule(mod *ast.Module, table *symbols.ModuleTable, bag *diag.Bag, normalizePointers bool) {
	scope := &Scope{Container: table.Scope, Module: table, Lookup: table.Scope, NormalizePointers: normalizePointers}
	var pending []pendingBody
	DeclareSequence(scope, mod.Decls, bag, &pending)
	AnalyzeStatements(scope, mod.Body, bag)
	for _, p := range pending {
		AnalyzeStatements(p.scope, p.body, bag)
	}
}

// AnalyzeDefinitionModule runs only the declaration pass for a restricted
// ".def" module: definition files carry no executable bodies (spec.md §6).
func AnalyzeDefinitionModule(def *ast.DefinitionModule, table *symbols.ModuleTable, bag *diag.Bag, normalizePointers bool) {
	scope := &Scope{Container: table.Scope, Module: table, Lookup: table.Scope, NormalizePointers: normalizePointers}
	DeclareDefinitionSequence(scope, def.Decls, bag)
}
