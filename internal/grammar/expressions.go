package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
	"github.com/oberon-fe/oberonc/internal/position"
)

// exprRef is the handle used to build Expression cyclically: a factor can
// be a parenthesized expression, and designator arguments/indices are
// themselves expressions. Linked at the end of Build.
var exprRef = parsec.NewRef[ast.Expression]()

func setElement() parsec.Parser[ast.SetElement] {
	return func(c *parsec.Cursor) (ast.SetElement, bool) {
		bp := c.Save()
		defer bp.Release()
		low, ok := exprRef.Parser()(c)
		if !ok {
			return ast.SetElement{}, false
		}
		rangeBP := c.Save()
		if _, dotsOK := symbols("..")(c); dotsOK {
			high, hOK := exprRef.Parser()(c)
			if hOK {
				rangeBP.Close()
				rangeBP.Release()
				bp.Close()
				return ast.SetElement{Low: low, High: high}, true
			}
		}
		rangeBP.Release()
		bp.Close()
		return ast.SetElement{Low: low}, true
	}
}

func setExpr() parsec.Parser[ast.Expression] {
	return func(c *parsec.Cursor) (ast.Expression, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := symbol('{')(c); !ok {
			return nil, false
		}
		elems, _ := parsec.DelimSequence(setElement(), symbol(','))(c)
		if elems == nil {
			elems = []ast.SetElement{}
		}
		if _, ok := symbol('}')(c); !ok {
			return nil, false
		}
		bp.Close()
		return &ast.SetExpr{Elements: elems, Place: start}, true
	}
}

func factor() parsec.Parser[ast.Expression] {
	return func(c *parsec.Cursor) (ast.Expression, bool) {
		start := c.Place()
		// charLit's hex form ("7FX") must be tried before numberLit: both
		// start with decimal/hex digits, but only charLit requires the
		// trailing 'X', so trying it first never misfires on a plain
		// number and avoids numberLit greedily consuming just the leading
		// decimal digits of what is actually a character literal.
		if v, ok := charLit()(c); ok {
			return v, true
		}
		if v, ok := numberLit()(c); ok {
			return v, true
		}
		if v, ok := stringLit()(c); ok {
			return v, true
		}
		if _, ok := keyword("NIL")(c); ok {
			return &ast.NilLit{Place: start}, true
		}
		if _, ok := keyword("TRUE")(c); ok {
			return &ast.BoolLit{Value: true, Place: start}, true
		}
		if _, ok := keyword("FALSE")(c); ok {
			return &ast.BoolLit{Value: false, Place: start}, true
		}
		if v, ok := setExpr()(c); ok {
			return v, true
		}
		if bp := c.Save(); true {
			if _, ok := symbol('~')(c); ok {
				if sub, subOK := factor()(c); subOK {
					bp.Close()
					bp.Release()
					return &ast.TildaExpr{Sub: sub, Place: start}, true
				}
			}
			bp.Release()
		}
		if bp := c.Save(); true {
			if _, ok := symbol('(')(c); ok {
				if inner, innerOK := exprRef.Parser()(c); innerOK {
					if _, closeOK := symbol(')')(c); closeOK {
						bp.Close()
						bp.Release()
						return inner, true
					}
				}
			}
			bp.Release()
		}
		if v, ok := designator()(c); ok {
			return v, true
		}
		c.Fail("factor")
		return nil, false
	}
}

type opOperand struct {
	op      string
	operand ast.Expression
}

// foldLeft builds a left-associative chain of ast.Term nodes out of a first
// operand and a list of (operator, operand) pairs.
func foldLeft(first ast.Expression, rest []opOperand, place position.CodePlace) ast.Expression {
	result := first
	for _, r := range rest {
		result = &ast.Term{First: result, Op: r.op, Second: r.operand, Place: place}
	}
	return result
}

func mulOp() parsec.Parser[string] {
	return parsec.Either(
		parsec.Map(symbol('*'), func(byte) string { return "*" }),
		parsec.Map(symbol('/'), func(byte) string { return "/" }),
		parsec.Map(symbol('&'), func(byte) string { return "&" }),
		parsec.Map(keyword("DIV"), func(string) string { return "DIV" }),
		parsec.Map(keyword("MOD"), func(string) string { return "MOD" }),
	)
}

func term() parsec.Parser[ast.Expression] {
	return func(c *parsec.Cursor) (ast.Expression, bool) {
		start := c.Place()
		first, ok := factor()(c)
		if !ok {
			return nil, false
		}
		var rest []opOperand
		for {
			bp := c.Save()
			op, opOK := mulOp()(c)
			if !opOK {
				bp.Release()
				break
			}
			operand, operandOK := factor()(c)
			if !operandOK {
				bp.Release()
				break
			}
			bp.Close()
			bp.Release()
			rest = append(rest, opOperand{op, operand})
		}
		return foldLeft(first, rest, start), true
	}
}

func addOp() parsec.Parser[string] {
	return parsec.Either(
		parsec.Map(symbol('+'), func(byte) string { return "+" }),
		parsec.Map(symbol('-'), func(byte) string { return "-" }),
		parsec.Map(keyword("OR"), func(string) string { return "OR" }),
	)
}

func simpleExpr() parsec.Parser[ast.Expression] {
	return func(c *parsec.Cursor) (ast.Expression, bool) {
		start := c.Place()
		var sign *byte
		signBP := c.Save()
		if b, ok := c.Peek(); ok && (b == '+' || b == '-') {
			c.Get()
			whitespace(c)
			sv := b
			sign = &sv
			signBP.Close()
		}
		signBP.Release()

		first, ok := term()(c)
		if !ok {
			return nil, false
		}
		var rest []opOperand
		for {
			bp := c.Save()
			op, opOK := addOp()(c)
			if !opOK {
				bp.Release()
				break
			}
			operand, operandOK := term()(c)
			if !operandOK {
				bp.Release()
				break
			}
			bp.Close()
			bp.Release()
			rest = append(rest, opOperand{op, operand})
		}
		result := foldLeft(first, rest, start)
		if sign != nil {
			if t, isTerm := result.(*ast.Term); isTerm && t.Sign == nil && t.Op == "" {
				t.Sign = sign
				return t, true
			}
			return &ast.Term{Sign: sign, First: result, Place: start}, true
		}
		return result, true
	}
}

func relOp() parsec.Parser[string] {
	return parsec.Either(
		parsec.Map(symbols("<="), func(string) string { return "<=" }),
		parsec.Map(symbols(">="), func(string) string { return ">=" }),
		parsec.Map(symbol('<'), func(byte) string { return "<" }),
		parsec.Map(symbol('>'), func(byte) string { return ">" }),
		parsec.Map(symbol('#'), func(byte) string { return "#" }),
		parsec.Map(symbol('='), func(byte) string { return "=" }),
		parsec.Map(keyword("IN"), func(string) string { return "IN" }),
		parsec.Map(keyword("IS"), func(string) string { return "IS" }),
	)
}

func expression() parsec.Parser[ast.Expression] {
	return func(c *parsec.Cursor) (ast.Expression, bool) {
		start := c.Place()
		first, ok := simpleExpr()(c)
		if !ok {
			return nil, false
		}
		bp := c.Save()
		op, opOK := relOp()(c)
		if !opOK {
			bp.Release()
			return first, true
		}
		second, secondOK := simpleExpr()(c)
		if !secondOK {
			bp.Release()
			return first, true
		}
		bp.Close()
		bp.Release()
		return &ast.Term{First: first, Op: op, Second: second, Place: start}, true
	}
}
