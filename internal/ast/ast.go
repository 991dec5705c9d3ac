// Package ast defines the Oberon-07 abstract syntax tree: sealed node
// categories (Expression, Statement, Type, Section) built atop internal/
// parsec by internal/grammar, each carrying the source position of its
// first contributing token.
//
// Node categories are modeled as a closed set of concrete struct types
// implementing a shared interface, switched on rather than dispatched
// through virtual methods — a selector, for instance, is one of four
// concrete shapes rather than a base class with four subclasses.
package ast

import "github.com/oberon-fe/oberonc/internal/position"

// Node is implemented by every AST node; Pos is the position of the first
// token that contributed to the node.
type Node interface {
	Pos() position.CodePlace
}

// Identifier is a non-empty ASCII letter/digit sequence beginning with a
// letter, not a reserved word. Equality is byte-wise.
type Identifier struct {
	Name  string
	Place position.CodePlace
}

func (id Identifier) Pos() position.CodePlace { return id.Place }

// IdentDef is an identifier plus the "exported" flag (a trailing '*' in
// source).
type IdentDef struct {
	Ident    Identifier
	Exported bool
}

func (id IdentDef) Pos() position.CodePlace { return id.Ident.Place }

// QualIdent is an optional module qualifier plus an identifier. A "simple"
// qualified identifier (Qualifier == nil) has no qualifier.
type QualIdent struct {
	Qualifier *Identifier
	Ident     Identifier
}

func (q QualIdent) Pos() position.CodePlace { return q.Ident.Place }

// Simple reports whether this QualIdent has no module qualifier.
func (q QualIdent) Simple() bool { return q.Qualifier == nil }

// String renders "Mod.Ident" or "Ident".
func (q QualIdent) String() string {
	if q.Qualifier == nil {
		return q.Ident.Name
	}
	return q.Qualifier.Name + "." + q.Ident.Name
}

// Equal compares two QualIdents by qualifier name (if any) and identifier.
func (q QualIdent) Equal(o QualIdent) bool {
	if (q.Qualifier == nil) != (o.Qualifier == nil) {
		return false
	}
	if q.Qualifier != nil && q.Qualifier.Name != o.Qualifier.Name {
		return false
	}
	return q.Ident.Name == o.Ident.Name
}
