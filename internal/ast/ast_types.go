package ast

import "github.com/oberon-fe/oberonc/internal/position"

// Type is the sealed interface for the six type-node shapes of spec.md §3.
type Type interface {
	Node
	isType()
}

// BuiltInName enumerates the built-in type keywords.
type BuiltInName int

const (
	Boolean BuiltInName = iota
	Char
	Integer
	Real
	Byte
	Set
	NilType
)

func (n BuiltInName) String() string {
	switch n {
	case Boolean:
		return "BOOLEAN"
	case Char:
		return "CHAR"
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Byte:
		return "BYTE"
	case Set:
		return "SET"
	case NilType:
		return "NIL"
	default:
		return "?"
	}
}

// BuiltInType is one of BOOLEAN|CHAR|INTEGER|REAL|BYTE|SET|NIL.
type BuiltInType struct {
	Name  BuiltInName
	Place position.CodePlace
}

func (t *BuiltInType) Pos() position.CodePlace { return t.Place }
func (t *BuiltInType) isType()                 {}

// TypeName refers to a named type in scope via a QualIdent.
type TypeName struct {
	Name  QualIdent
	Place position.CodePlace
}

func (t *TypeName) Pos() position.CodePlace { return t.Place }
func (t *TypeName) isType()                 {}

// FieldGroup is one "ident list : type" group inside a record declaration.
type FieldGroup struct {
	Idents []IdentDef
	Type   Type
}

// RecordType has an optional base QualIdent plus ordered field groups.
type RecordType struct {
	Base   *QualIdent
	Fields []FieldGroup
	Place  position.CodePlace
}

func (t *RecordType) Pos() position.CodePlace { return t.Place }
func (t *RecordType) isType()                 {}

// PointerType's referent must, after normalization, resolve to a record
// type; recursive pointer chains are allowed through named record types.
type PointerType struct {
	Referent Type
	Place    position.CodePlace
}

func (t *PointerType) Pos() position.CodePlace { return t.Place }
func (t *PointerType) isType()                 {}

// ArrayType has zero or more length expressions, an element type, and an
// "unsized" flag for open arrays in formal parameters (zero lengths).
type ArrayType struct {
	Lengths  []Expression
	Elem     Type
	Unsized  bool
	Place    position.CodePlace
}

func (t *ArrayType) Pos() position.CodePlace { return t.Place }
func (t *ArrayType) isType()                 {}

// ParamMode is VALUE (default) or VAR.
type ParamMode int

const (
	ModeValue ParamMode = iota
	ModeVar
)

// FormalSection is one "[VAR] ident-list : type" group of a formal
// parameter list.
type FormalSection struct {
	Mode   ParamMode
	Idents []Identifier
	Type   Type
	// Common marks this section as a multimethod "common" (receiver)
	// parameter in a multimethod base declaration.
	Common bool
}

// ProcedureType is a formal parameter list plus an optional return type.
type ProcedureType struct {
	Params  []FormalSection
	Return  *QualIdent
	Place   position.CodePlace
}

func (t *ProcedureType) Pos() position.CodePlace { return t.Place }
func (t *ProcedureType) isType()                 {}

// CommonType is the marker type occupying a multimethod base's dispatch
// parameter(s); it carries no structure of its own, only a position.
type CommonType struct {
	Place position.CodePlace
}

func (t *CommonType) Pos() position.CodePlace { return t.Place }
func (t *CommonType) isType()                 {}

// ScalarType wraps a concrete type used at a multimethod instance's
// dispatch parameter(s), i.e. the type that instance handles.
type ScalarType struct {
	Underlying Type
	Place      position.CodePlace
}

func (t *ScalarType) Pos() position.CodePlace { return t.Place }
func (t *ScalarType) isType()                 {}
