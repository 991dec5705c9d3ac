package ast

import "github.com/oberon-fe/oberonc/internal/position"

// Expression is the sealed interface for spec.md §3's expression variants.
type Expression interface {
	Node
	isExpression()
}

// NumberLit is a decimal or hex integer, or a real literal.
type NumberLit struct {
	IsReal  bool
	IntVal  int64
	RealVal float64
	Place   position.CodePlace
}

func (e *NumberLit) Pos() position.CodePlace { return e.Place }
func (e *NumberLit) isExpression()           {}

// CharLit is one byte between quotes, or a hex literal suffixed with X.
type CharLit struct {
	Value byte
	Place position.CodePlace
}

func (e *CharLit) Pos() position.CodePlace { return e.Place }
func (e *CharLit) isExpression()           {}

// StringLit is a single- or double-quoted byte string; no escapes.
type StringLit struct {
	Value []byte
	Place position.CodePlace
}

func (e *StringLit) Pos() position.CodePlace { return e.Place }
func (e *StringLit) isExpression()           {}

// NilLit is the NIL literal.
type NilLit struct {
	Place position.CodePlace
}

func (e *NilLit) Pos() position.CodePlace { return e.Place }
func (e *NilLit) isExpression()           {}

// BoolLit is TRUE or FALSE.
type BoolLit struct {
	Value bool
	Place position.CodePlace
}

func (e *BoolLit) Pos() position.CodePlace { return e.Place }
func (e *BoolLit) isExpression()           {}

// SetElement is either a single value (High == nil) or an inclusive range
// Low..High inside a set constructor.
type SetElement struct {
	Low  Expression
	High Expression // nil for a single element
}

// SetExpr is a SET constructor: {e1, e2..e3, ...}.
type SetExpr struct {
	Elements []SetElement
	Place    position.CodePlace
}

func (e *SetExpr) Pos() position.CodePlace { return e.Place }
func (e *SetExpr) isExpression()           {}

// Selector is a postfix element of a designator. It is a closed set of four
// shapes, switched on rather than subclassed.
type Selector interface {
	isSelector()
}

// FieldSelector is ".ident".
type FieldSelector struct{ Ident Identifier }

func (FieldSelector) isSelector() {}

// IndexSelector is "[e1, e2, ...]".
type IndexSelector struct {
	Indices []Expression
	Place   position.CodePlace
}

func (IndexSelector) isSelector() {}

// DerefSelector is "^".
type DerefSelector struct{ Place position.CodePlace }

func (DerefSelector) isSelector() {}

// GuardSelector is "(QualIdent)", a type guard.
type GuardSelector struct{ Type QualIdent }

func (GuardSelector) isSelector() {}

// Designator is a name plus a chain of selectors, with an optional argument
// list turning it into a procedure/function call. Args is nil when this
// designator is not (yet known to be) a call; an empty, non-nil slice means
// a call with zero arguments.
type Designator struct {
	Qual      QualIdent
	Selectors []Selector
	Args      *[]Expression
	Place     position.CodePlace

	// repaired caches the result of designator/proc-call repair (spec.md
	// §4.8, §9 "lazy semantic rewrite"). Pre-repair access to Repaired() is
	// a programming error: repair must run first.
	repaired    bool
	repairedVal *Designator
}

func (e *Designator) Pos() position.CodePlace { return e.Place }
func (e *Designator) isExpression()           {}

// SetRepaired caches this designator's repaired form. It must be called at
// most once.
func (e *Designator) SetRepaired(d *Designator) {
	if e.repaired {
		panic("ast: designator repaired twice")
	}
	e.repaired = true
	e.repairedVal = d
}

// Repaired returns the cached repaired form. Calling it before SetRepaired
// is a programming error.
func (e *Designator) Repaired() *Designator {
	if !e.repaired {
		panic("ast: Repaired() called before SetRepaired()")
	}
	return e.repairedVal
}

// IsRepaired reports whether SetRepaired has already run, so callers that
// may visit the same Designator more than once (GetType and Eval both
// descend into sub-expressions) can skip recomputing the repair.
func (e *Designator) IsRepaired() bool { return e.repaired }

// IsCall reports whether this designator carries an argument list.
func (e *Designator) IsCall() bool { return e.Args != nil }

// TildaExpr is Oberon's "~" (logical NOT) applied to a Boolean sub-expression.
type TildaExpr struct {
	Sub   Expression
	Place position.CodePlace
}

func (e *TildaExpr) Pos() position.CodePlace { return e.Place }
func (e *TildaExpr) isExpression()           {}

// Term nests to encode operator precedence: the unary-sign level, the
// mul-term level (* / & DIV MOD), the add-term level (+ - OR), and the
// relation level (< <= > >= # = IN IS) are all the same shape — an optional
// leading sign, a first operand, and an optional (operator, second operand)
// pair — so one node type suffices for all of them.
type Term struct {
	Sign   *byte // '+' or '-'; only meaningful at the unary/simple-expression level
	First  Expression
	Op     string // "" if there is no second operand
	Second Expression
	Place  position.CodePlace
}

func (e *Term) Pos() position.CodePlace { return e.Place }
func (e *Term) isExpression()           {}
