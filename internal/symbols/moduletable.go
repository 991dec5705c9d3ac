package symbols

import "github.com/oberon-fe/oberonc/internal/ast"

// ModuleTable is the top-level scope built for one loaded module: its own
// Container plus its resolved imports, keyed by local alias. Imports are a
// non-owning reference to another module's table — the loader's cache (not
// ModuleTable) owns the loaded module's lifetime (spec.md §4.4).
type ModuleTable struct {
	Name    string
	Scope   *Container
	Imports map[string]*ModuleTable
}

// NewModuleTable returns an empty module table rooted in a fresh Container.
func NewModuleTable(name string) *ModuleTable {
	return &ModuleTable{Name: name, Scope: NewContainer(nil), Imports: make(map[string]*ModuleTable)}
}

// AddImport records dep under localAlias (the import's alias if given, else
// its own name).
func (m *ModuleTable) AddImport(localAlias string, dep *ModuleTable) {
	m.Imports[localAlias] = dep
}

// ResolveType implements typeops.Resolver for the whole module: a simple
// name resolves in this module's own Container; a qualified name dispatches
// into the named import's exported TYPE symbols only (spec.md §4.5:
// "Qualified lookups fail at container level; the module table dispatches
// them").
func (m *ModuleTable) ResolveType(name ast.QualIdent) (ast.Type, bool) {
	if name.Simple() {
		return m.Scope.ResolveType(name)
	}
	dep, ok := m.Imports[name.Qualifier.Name]
	if !ok {
		return nil, false
	}
	sym, ok := dep.Scope.GetSymbol(name.Ident.Name, true)
	if !ok || sym.Token != TypeToken || !sym.Exported {
		return nil, false
	}
	return sym.Type, true
}

// GetSymbol resolves a possibly qualified identifier to a TYPE/VAR symbol.
// A qualified lookup only ever sees the target module's exported symbols.
func (m *ModuleTable) GetSymbol(q ast.QualIdent, secretly bool) (*Symbol, bool) {
	if q.Simple() {
		return m.Scope.GetSymbol(q.Ident.Name, secretly)
	}
	dep, ok := m.Imports[q.Qualifier.Name]
	if !ok {
		return nil, false
	}
	sym, ok := dep.Scope.GetSymbol(q.Ident.Name, true)
	if !ok || !sym.Exported {
		return nil, false
	}
	if !secretly {
		sym.UseCount++
	}
	return sym, true
}

// GetValue resolves a possibly qualified identifier to a CONST value.
func (m *ModuleTable) GetValue(q ast.QualIdent, secretly bool) (*ConstValue, bool) {
	if q.Simple() {
		return m.Scope.GetValue(q.Ident.Name, secretly)
	}
	dep, ok := m.Imports[q.Qualifier.Name]
	if !ok {
		return nil, false
	}
	v, ok := dep.Scope.GetValue(q.Ident.Name, true)
	if !ok || !v.Exported {
		return nil, false
	}
	if !secretly {
		v.UseCount++
	}
	return v, true
}

// GetTable resolves a possibly qualified identifier to a procedure table.
func (m *ModuleTable) GetTable(q ast.QualIdent, secretly bool) (ProcedureTable, bool) {
	if q.Simple() {
		return m.Scope.GetTable(q.Ident.Name, secretly)
	}
	dep, ok := m.Imports[q.Qualifier.Name]
	if !ok {
		return nil, false
	}
	t, ok := dep.Scope.GetTable(q.Ident.Name, true)
	if !ok || !tableExported(t) {
		return nil, false
	}
	return t, true
}

func tableExported(t ProcedureTable) bool {
	switch x := t.(type) {
	case *SimpleProcedureTable:
		return x.Exported
	case *MultimethodBase:
		return x.Exported
	default:
		return false
	}
}
