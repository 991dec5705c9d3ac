package ast

import "github.com/oberon-fe/oberonc/internal/position"

// Section is the sealed interface for spec.md §3's declarative/structural
// node variants: a procedure declaration, a module, and (for .def files) a
// definition module.
type Section interface {
	Node
	isSection()
}

// ConstDecl is "IdentDef = expression".
type ConstDecl struct {
	Name  IdentDef
	Value Expression
	Place position.CodePlace
}

func (d ConstDecl) Pos() position.CodePlace { return d.Place }

// TypeDecl is "IdentDef = type".
type TypeDecl struct {
	Name  IdentDef
	Type  Type
	Place position.CodePlace
}

func (d TypeDecl) Pos() position.CodePlace { return d.Place }

// VarDecl reuses FieldGroup's "ident list : type" shape for a VAR section.
type VarDecl = FieldGroup

// DeclarationSequence is the ordered CONST/TYPE/VAR blocks followed by
// procedure declarations that spec.md §4.3 requires.
type DeclarationSequence struct {
	Consts     []ConstDecl
	Types      []TypeDecl
	Vars       []VarDecl
	Procedures []*ProcedureDecl
}

// ProcedureDecl is a PROCEDURE declaration: header, local declarations, and
// an optional body (absent for a multimethod base or a .def declaration).
type ProcedureDecl struct {
	Name    IdentDef
	Type    *ProcedureType
	Decls   DeclarationSequence
	Body    StatementSeq // nil when this declares a body-less procedure
	HasBody bool
	EndName *Identifier // nil for a body-less declaration
	Place   position.CodePlace

	// Common reports whether Type has at least one FormalSection marked
	// Common, i.e. this declaration is a multimethod base rather than a
	// simple procedure.
	Common bool
}

func (p *ProcedureDecl) Pos() position.CodePlace { return p.Place }
func (p *ProcedureDecl) isSection()              {}

// Module is the root AST node: a name, its imports, its declaration
// sequence, and its body statement sequence.
type Module struct {
	Name    Identifier
	Imports []ImportSpec
	Decls   DeclarationSequence
	Body    StatementSeq
	EndName Identifier
	Place   position.CodePlace
}

func (m *Module) Pos() position.CodePlace { return m.Place }
func (m *Module) isSection()              {}

// ImportSpec is one entry of an IMPORT list: an optional local alias and
// the real module name, e.g. "IMPORT F := Files" or plain "IMPORT Files".
type ImportSpec struct {
	Alias *Identifier // nil if no alias
	Name  Identifier
}

// LocalName is the alias if present, else the module name.
func (i ImportSpec) LocalName() string {
	if i.Alias != nil {
		return i.Alias.Name
	}
	return i.Name.Name
}

// DefinitionModule is the restricted ".def" form: declarations only, with
// every export implicit (spec.md §6). A PROCEDURE declaration in a
// definition file carries no body; the loader turns it into a VAR of
// ProcedureType rather than a procedure table entry (spec.md §6).
type DefinitionModule struct {
	Name    Identifier
	Imports []ImportSpec
	Decls   DeclarationSequence
	Place   position.CodePlace
}

func (d *DefinitionModule) Pos() position.CodePlace { return d.Place }
func (d *DefinitionModule) isSection()              {}
