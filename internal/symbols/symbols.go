// Package symbols implements the per-scope symbol container, the three
// procedure-table variants, the module table, and a minimal single-symbol
// table for a FOR statement's control variable (spec.md §4.5/§4.6).
package symbols

import (
	"fmt"

	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/position"
	"github.com/oberon-fe/oberonc/internal/typeops"
)

// SymbolToken tags which declaration group a Container's "symbols" map entry
// came from: a TYPE or a VAR declaration. CONST declarations are inserted
// into the separate "values" map instead (spec.md §4.5 step 1).
type SymbolToken int

const (
	TypeToken SymbolToken = iota
	VarToken
)

func (t SymbolToken) String() string {
	if t == TypeToken {
		return "TYPE"
	}
	return "VAR"
}

// Symbol is one TYPE or VAR entry.
type Symbol struct {
	Name     string
	Token    SymbolToken
	Type     ast.Type
	Exported bool
	Place    position.CodePlace
	UseCount int
}

// ConstValue is a folded constant: a CONST declaration's type plus its
// value, recorded in a Container's "values" map.
type ConstValue struct {
	Name     string
	Type     ast.Type
	Value    Value
	Exported bool
	Place    position.CodePlace
	UseCount int
}

// ValueKind discriminates Value's payload.
type ValueKind int

const (
	VInt ValueKind = iota
	VReal
	VBool
	VChar
	VString
	VSet
	VNil
)

// Value is a folded Oberon constant of one of the built-in shapes. SET
// values fit in a uint32 bitmask (spec.md's SET is a small fixed-size set).
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Bool bool
	Char byte
	Str  []byte
	Set  uint32
}

// redefinitionError formats spec.md §4.5's "Redefinition of symbol X".
func redefinitionError(name string) error {
	return fmt.Errorf("Redefinition of symbol %s", name)
}

// Container is one lexical scope: three independent, insertion-ordered maps
// for TYPE/VAR symbols, CONST values, and procedure tables, chained to an
// enclosing scope via Outer. Declaration order is preserved because callers
// (internal/analyzer) insert in source order and SymbolNames()/ValueNames()/
// TableNames() return that order back.
type Container struct {
	outer *Container

	symbols     map[string]*Symbol
	symbolOrder []string

	values     map[string]*ConstValue
	valueOrder []string

	tables     map[string]ProcedureTable
	tableOrder []string

	// Hierarchy is shared across every Container in one module: type
	// extension edges are recorded here regardless of which scope's TYPE
	// declaration introduced them (spec.md §4.5 step 2).
	Hierarchy *typeops.Hierarchy
}

// NewContainer returns an empty scope chained to outer (nil for a
// top-level/module scope). The Hierarchy is inherited from outer, or
// freshly allocated at the root.
func NewContainer(outer *Container) *Container {
	h := typeops.NewHierarchy()
	if outer != nil {
		h = outer.Hierarchy
	}
	return &Container{
		outer:     outer,
		symbols:   make(map[string]*Symbol),
		values:    make(map[string]*ConstValue),
		tables:    make(map[string]ProcedureTable),
		Hierarchy: h,
	}
}

// Outer returns the enclosing scope, or nil at the root.
func (c *Container) Outer() *Container { return c.outer }

// InsertSymbol adds a TYPE or VAR symbol to this scope. It fails if the name
// is already bound in this scope (spec.md §4.5: "Insertion conflicts").
func (c *Container) InsertSymbol(sym *Symbol) error {
	if c.isLocallyBound(sym.Name) {
		return redefinitionError(sym.Name)
	}
	c.symbols[sym.Name] = sym
	c.symbolOrder = append(c.symbolOrder, sym.Name)
	return nil
}

// InsertValue adds a CONST value to this scope.
func (c *Container) InsertValue(v *ConstValue) error {
	if c.isLocallyBound(v.Name) {
		return redefinitionError(v.Name)
	}
	c.values[v.Name] = v
	c.valueOrder = append(c.valueOrder, v.Name)
	return nil
}

// InsertTable adds a procedure table. If name is already bound to a
// ProcedureTable in this scope, overload resolution per spec.md §4.6
// applies instead of a flat redefinition error.
func (c *Container) InsertTable(t ProcedureTable) error {
	name := t.ProcName()
	if existing, ok := c.tables[name]; ok {
		return overload(existing, t)
	}
	if c.isLocallyBoundExceptTable(name) {
		return redefinitionError(name)
	}
	c.tables[name] = t
	c.tableOrder = append(c.tableOrder, name)
	return nil
}

func (c *Container) isLocallyBound(name string) bool {
	if _, ok := c.symbols[name]; ok {
		return true
	}
	if _, ok := c.values[name]; ok {
		return true
	}
	if _, ok := c.tables[name]; ok {
		return true
	}
	return false
}

func (c *Container) isLocallyBoundExceptTable(name string) bool {
	if _, ok := c.symbols[name]; ok {
		return true
	}
	if _, ok := c.values[name]; ok {
		return true
	}
	return false
}

// overload implements spec.md §4.6's overload rules for inserting newTab
// where existing is already bound to this name.
func overload(existing, newTab ProcedureTable) error {
	base, isBase := existing.(*MultimethodBase)
	if !isBase {
		return fmt.Errorf("Attempt to overload procedure %s", existing.ProcName())
	}
	inst, isInst := newTab.(*MultimethodInstance)
	if !isInst {
		return fmt.Errorf("Attempt to overload procedure %s", existing.ProcName())
	}
	if !instanceCompatible(base, inst) {
		return fmt.Errorf("%s is not a compatible multimethod instance of %s", inst.ProcName(), base.ProcName())
	}
	base.Instances = append(base.Instances, inst)
	return nil
}

// GetSymbol looks up a TYPE/VAR symbol, walking outer scopes. secretly
// suppresses the use-count increment (a "probing" lookup, spec.md §4.5).
func (c *Container) GetSymbol(name string, secretly bool) (*Symbol, bool) {
	if sym, ok := c.symbols[name]; ok {
		if !secretly {
			sym.UseCount++
		}
		return sym, true
	}
	if c.outer != nil {
		return c.outer.GetSymbol(name, secretly)
	}
	return nil, false
}

// GetValue looks up a CONST value, walking outer scopes.
func (c *Container) GetValue(name string, secretly bool) (*ConstValue, bool) {
	if v, ok := c.values[name]; ok {
		if !secretly {
			v.UseCount++
		}
		return v, true
	}
	if c.outer != nil {
		return c.outer.GetValue(name, secretly)
	}
	return nil, false
}

// GetTable looks up a procedure table, walking outer scopes.
func (c *Container) GetTable(name string, secretly bool) (ProcedureTable, bool) {
	if t, ok := c.tables[name]; ok {
		return t, true
	}
	if c.outer != nil {
		return c.outer.GetTable(name, secretly)
	}
	return nil, false
}

// IsDefinedLocally reports whether name is bound in this scope alone, as
// any of a symbol, a value, or a table.
func (c *Container) IsDefinedLocally(name string) bool { return c.isLocallyBound(name) }

// LocalTable returns the procedure table bound to name in this scope alone,
// without walking outer scopes and without affecting use counts. The
// declaration pass uses this to decide whether a procedure declaration is a
// fresh entry, an overload attempt, or (per spec.md §4.6) a shadow of a
// same-named table only visible in an outer scope.
func (c *Container) LocalTable(name string) (ProcedureTable, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// ResolveType implements typeops.Resolver. Qualified lookups always fail at
// container level (spec.md §4.5: "Qualified lookups fail at container
// level; the module table dispatches them") — only ModuleTable.ResolveType
// handles a qualifier, by dispatching into the right import's Container.
func (c *Container) ResolveType(name ast.QualIdent) (ast.Type, bool) {
	if !name.Simple() {
		return nil, false
	}
	sym, ok := c.GetSymbol(name.Ident.Name, true)
	if !ok || sym.Token != TypeToken {
		return nil, false
	}
	return sym.Type, true
}

// SymbolNames returns this scope's own TYPE/VAR symbol names in insertion
// order (not including outer scopes).
func (c *Container) SymbolNames() []string { return c.symbolOrder }

// ValueNames returns this scope's own CONST names in insertion order.
func (c *Container) ValueNames() []string { return c.valueOrder }

// TableNames returns this scope's own procedure-table names in insertion
// order.
func (c *Container) TableNames() []string { return c.tableOrder }
