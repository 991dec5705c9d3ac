package grammar

import (
	"strconv"

	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

func digits() parsec.Parser[string] {
	return func(c *parsec.Cursor) (string, bool) {
		ds, ok := parsec.Some(parsec.Predicate("digit", isDigit))(c)
		if !ok {
			return "", false
		}
		return string(ds), true
	}
}

func hexDigits() parsec.Parser[string] {
	return func(c *parsec.Cursor) (string, bool) {
		ds, ok := parsec.Some(parsec.Predicate("hex digit", isHexDigit))(c)
		if !ok {
			return "", false
		}
		return string(ds), true
	}
}

// numberLit matches a decimal integer, a hex integer ("7FH"), or a real
// literal ("3.14", "1.0E10", "2.5D-3").
func numberLit() parsec.Parser[*ast.NumberLit] {
	raw := func(c *parsec.Cursor) (*ast.NumberLit, bool) {
		bp := c.Save()
		defer bp.Release()
		start := c.Place()

		intPart, ok := digits()(c)
		if !ok {
			return nil, false
		}

		// Real literal: digits '.' digits [ (E|D) [+|-] digits ]
		if dotBP := c.Save(); true {
			if b, pOK := c.Peek(); pOK && b == '.' {
				// Guard against "1..9" (range syntax elsewhere): a second
				// '.' immediately following means this is not a real literal.
				if nb, ok2 := c.PeekAt(1); !ok2 || nb != '.' {
					c.Get() // consume '.'
					fracPart, fok := digits()(c)
					if fok {
						mantissa := intPart + "." + fracPart
						exp := ""
						if eb, eok := c.Peek(); eok && (eb == 'E' || eb == 'D') {
							eSave := c.Save()
							c.Get()
							sign := ""
							if sb, sok := c.Peek(); sok && (sb == '+' || sb == '-') {
								sign = string(sb)
								c.Get()
							}
							expDigits, dok := digits()(c)
							if dok {
								exp = "e" + sign + expDigits
								eSave.Close()
							}
							eSave.Release()
						}
						f, ferr := strconv.ParseFloat(mantissa+exp, 64)
						if ferr == nil {
							dotBP.Close()
							bp.Close()
							return &ast.NumberLit{IsReal: true, RealVal: f, Place: start}, true
						}
					}
				}
			}
			dotBP.Release()
		}

		// Hex integer: digits (first is decimal) terminated by 'H'.
		if hSave := c.Save(); true {
			if more, hok := hexDigits()(c); hok {
				if b, pOK := c.Peek(); pOK && b == 'H' {
					c.Get()
					full := intPart + more
					n, err := strconv.ParseInt(full, 16, 64)
					if err == nil {
						hSave.Close()
						bp.Close()
						return &ast.NumberLit{IntVal: n, Place: start}, true
					}
				}
			}
			hSave.Release()
		}

		n, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return nil, false
		}
		bp.Close()
		return &ast.NumberLit{IntVal: n, Place: start}, true
	}
	return lexeme(raw)
}

// charLit matches 'X' (one byte between quotes) or a hex-integer suffixed
// with X ("41X").
func charLit() parsec.Parser[*ast.CharLit] {
	quoted := func(c *parsec.Cursor) (*ast.CharLit, bool) {
		bp := c.Save()
		defer bp.Release()
		start := c.Place()
		if _, ok := parsec.Symbol('\'')(c); !ok {
			return nil, false
		}
		b, ok := c.Get()
		if !ok {
			c.Fail("character")
			return nil, false
		}
		if _, ok := parsec.Symbol('\'')(c); !ok {
			return nil, false
		}
		bp.Close()
		return &ast.CharLit{Value: b, Place: start}, true
	}
	hex := func(c *parsec.Cursor) (*ast.CharLit, bool) {
		bp := c.Save()
		defer bp.Release()
		start := c.Place()
		if b, pOK := c.Peek(); !pOK || !isDigit(b) {
			c.Fail("digit")
			return nil, false
		}
		ds, ok := hexDigits()(c)
		if !ok {
			return nil, false
		}
		if b, pOK := c.Peek(); !pOK || b != 'X' {
			c.Fail("'X'")
			return nil, false
		}
		c.Get()
		n, err := strconv.ParseInt(ds, 16, 64)
		if err != nil || n < 0 || n > 255 {
			return nil, false
		}
		bp.Close()
		return &ast.CharLit{Value: byte(n), Place: start}, true
	}
	return lexeme(parsec.Either(quoted, hex))
}

// stringLit matches a single- or double-quoted string; there are no escapes.
func stringLit() parsec.Parser[*ast.StringLit] {
	raw := func(c *parsec.Cursor) (*ast.StringLit, bool) {
		bp := c.Save()
		defer bp.Release()
		start := c.Place()
		quote, ok := c.Peek()
		if !ok || (quote != '"' && quote != '\'') {
			c.Fail("string")
			return nil, false
		}
		c.Get()
		var buf []byte
		for {
			b, ok := c.Peek()
			if !ok || b == '\n' {
				return nil, false
			}
			if b == quote {
				c.Get()
				break
			}
			c.Get()
			buf = append(buf, b)
		}
		bp.Close()
		return &ast.StringLit{Value: buf, Place: start}, true
	}
	return lexeme(raw)
}
