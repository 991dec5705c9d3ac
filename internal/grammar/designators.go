package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

// qualIdent matches "ident ['.' ident]".
func qualIdent() parsec.Parser[ast.QualIdent] {
	return func(c *parsec.Cursor) (ast.QualIdent, bool) {
		first, ok := ident()(c)
		if !ok {
			return ast.QualIdent{}, false
		}
		dotBP := c.Save()
		if _, dotOK := symbol('.')(c); dotOK {
			second, identOK := ident()(c)
			if identOK {
				dotBP.Close()
				dotBP.Release()
				return ast.QualIdent{Qualifier: &first, Ident: second}, true
			}
		}
		dotBP.Release()
		return ast.QualIdent{Ident: first}, true
	}
}

func exprList() parsec.Parser[[]ast.Expression] {
	return parsec.DelimSequence(exprRef.Parser(), symbol(','))
}

func fieldSelector() parsec.Parser[ast.Selector] {
	return func(c *parsec.Cursor) (ast.Selector, bool) {
		p := parsec.Sequence2(symbol('.'), ident())
		v, ok := p(c)
		if !ok {
			return nil, false
		}
		return ast.FieldSelector{Ident: v.Second}, true
	}
}

func indexSelector() parsec.Parser[ast.Selector] {
	return func(c *parsec.Cursor) (ast.Selector, bool) {
		start := c.Place()
		p := parsec.Sequence3(symbol('['), exprList(), symbol(']'))
		v, ok := p(c)
		if !ok {
			return nil, false
		}
		return ast.IndexSelector{Indices: v.Second, Place: start}, true
	}
}

func derefSelector() parsec.Parser[ast.Selector] {
	return func(c *parsec.Cursor) (ast.Selector, bool) {
		start := c.Place()
		if _, ok := symbol('^')(c); !ok {
			return nil, false
		}
		return ast.DerefSelector{Place: start}, true
	}
}

// guardSelector matches "(" qualident ")" only: a bare qualified identifier,
// nothing else. Anything richer inside the parens (multiple expressions, an
// operator expression, zero expressions) is left unconsumed for the
// designator's trailing call-argument list instead (spec.md §4.8).
func guardSelector() parsec.Parser[ast.Selector] {
	return func(c *parsec.Cursor) (ast.Selector, bool) {
		p := parsec.Sequence3(symbol('('), qualIdent(), symbol(')'))
		v, ok := p(c)
		if !ok {
			return nil, false
		}
		return ast.GuardSelector{Type: v.Second}, true
	}
}

func selector() parsec.Parser[ast.Selector] {
	return parsec.Either(fieldSelector(), indexSelector(), derefSelector(), guardSelector())
}

// argList matches "(" [expr {"," expr}] ")", with zero arguments allowed.
func argList() parsec.Parser[[]ast.Expression] {
	return func(c *parsec.Cursor) ([]ast.Expression, bool) {
		bp := c.Save()
		defer bp.Release()
		if _, ok := symbol('(')(c); !ok {
			return nil, false
		}
		args, _ := exprList()(c)
		if args == nil {
			args = []ast.Expression{}
		}
		if _, ok := symbol(')')(c); !ok {
			return nil, false
		}
		bp.Close()
		return args, true
	}
}

// designator matches a qualident followed by zero or more selectors and an
// optional call-argument list.
func designator() parsec.Parser[*ast.Designator] {
	return func(c *parsec.Cursor) (*ast.Designator, bool) {
		start := c.Place()
		q, ok := qualIdent()(c)
		if !ok {
			return nil, false
		}
		sels, _ := parsec.Many(selector())(c)
		args, hasArgs := argList()(c)
		d := &ast.Designator{Qual: q, Selectors: sels, Place: start}
		if hasArgs {
			d.Args = &args
		}
		return d, true
	}
}
