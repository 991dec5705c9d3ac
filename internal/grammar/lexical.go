// Package grammar builds the concrete Oberon-07 grammar (spec.md §4.3) atop
// internal/parsec, producing internal/ast nodes. The grammar is built once
// by Build and is cyclic by reference (an expression's factor can itself be
// a parenthesized expression), so the Expression and Type productions are
// constructed through parsec.Ref handles and linked after the rest of the
// grammar references them.
package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
	"github.com/oberon-fe/oberonc/internal/position"
)

// reservedWords is the fixed set named in spec.md §4.3. The original C++
// source's list is corrupted by missing commas (concatenated literals); this
// is the corrected set (spec.md §9(b)).
var reservedWords = map[string]bool{
	"ARRAY": true, "BEGIN": true, "BY": true, "CASE": true, "CONST": true,
	"DIV": true, "DO": true, "ELSE": true, "ELSIF": true, "END": true,
	"FALSE": true, "FOR": true, "IF": true, "IMPORT": true, "IN": true,
	"IS": true, "MOD": true, "MODULE": true, "NIL": true, "OF": true,
	"OR": true, "POINTER": true, "PROCEDURE": true, "RECORD": true,
	"REPEAT": true, "RETURN": true, "THEN": true, "TO": true, "TRUE": true,
	"TYPE": true, "UNTIL": true, "VAR": true, "WHILE": true,
	// DEFINITION is not part of standard Oberon-07; it introduces this
	// front-end's restricted ".def" interface-only module form (spec.md §6).
	"DEFINITION": true,
}

// commonTypeWord is this front-end's concrete syntax for a multimethod
// base's dispatch parameter: "PROCEDURE p(x: COMMON; ...)". It is not a
// standard Oberon-07 reserved word (reservedWords above is the spec.md
// §4.3 list plus DEFINITION); it is only recognized in formal-parameter type
// position, see formalSection in types.go.
const commonTypeWord = "COMMON"

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || b >= 'A' && b <= 'F'
}
func isIdentChar(b byte) bool { return isLetter(b) || isDigit(b) }

// skipComment consumes one nestable "(* ... *)" comment.
func skipComment(c *parsec.Cursor) (struct{}, bool) {
	bp := c.Save()
	defer bp.Release()
	got, ok := c.GetN(2)
	if !ok || got != "(*" {
		return struct{}{}, false
	}
	depth := 1
	for depth > 0 {
		if c.AtEOF() {
			return struct{}{}, false
		}
		if b, _ := c.Peek(); b == '(' {
			if nb, ok := c.PeekAt(1); ok && nb == '*' {
				c.GetN(2)
				depth++
				continue
			}
		}
		if b, _ := c.Peek(); b == '*' {
			if nb, ok := c.PeekAt(1); ok && nb == ')' {
				c.GetN(2)
				depth--
				continue
			}
		}
		c.Get()
	}
	bp.Close()
	return struct{}{}, true
}

// whitespace consumes spaces, newlines, and nested comments, always
// succeeding (possibly consuming nothing).
func whitespace(c *parsec.Cursor) (struct{}, bool) {
	for {
		b, ok := c.Peek()
		if ok && (b == ' ' || b == '\t' || b == '\n' || b == '\r') {
			c.Get()
			continue
		}
		if ok && b == '(' {
			if nb, ok2 := c.PeekAt(1); ok2 && nb == '*' {
				if _, cok := skipComment(c); cok {
					continue
				}
			}
		}
		break
	}
	return struct{}{}, true
}

// lexeme wraps p to consume trailing whitespace/comments after a match,
// which is this grammar's substitute for a separate tokenizing pass.
func lexeme[T any](p parsec.Parser[T]) parsec.Parser[T] {
	return func(c *parsec.Cursor) (T, bool) {
		v, ok := p(c)
		if !ok {
			var zero T
			return zero, false
		}
		whitespace(c)
		return v, true
	}
}

// keyword matches a reserved word exactly, rejecting a match that is only a
// prefix of a longer identifier (e.g. "END" must not match "ENDX").
func keyword(word string) parsec.Parser[string] {
	raw := func(c *parsec.Cursor) (string, bool) {
		bp := c.Save()
		defer bp.Release()
		got, ok := c.GetN(len(word))
		if !ok || got != word {
			c.Fail("\"" + word + "\"")
			return "", false
		}
		if nb, ok2 := c.Peek(); ok2 && isIdentChar(nb) {
			c.Fail("\"" + word + "\"")
			return "", false
		}
		bp.Close()
		return got, true
	}
	return lexeme(raw)
}

// symbol matches a single punctuation byte as a lexeme.
func symbol(b byte) parsec.Parser[byte] { return lexeme(parsec.Symbol(b)) }

// symbols matches a fixed punctuation string as a lexeme.
func symbols(s string) parsec.Parser[string] { return lexeme(parsec.Symbols(s)) }

// rawIdent matches a letter followed by letters/digits, without the
// reserved-word check or trailing whitespace.
func rawIdent(c *parsec.Cursor) (ast.Identifier, bool) {
	bp := c.Save()
	defer bp.Release()
	start := c.Place()
	first, ok := parsec.Predicate("letter", isLetter)(c)
	if !ok {
		return ast.Identifier{}, false
	}
	rest, _ := parsec.Many(parsec.Predicate("letter or digit", isIdentChar))(c)
	name := string(first) + string(rest)
	bp.Close()
	return ast.Identifier{Name: name, Place: start}, true
}

// ident matches a non-reserved identifier, as a lexeme.
func ident() parsec.Parser[ast.Identifier] {
	return lexeme(parsec.Except(rawIdent, "identifier", func(id ast.Identifier) bool {
		return !reservedWords[id.Name]
	}))
}

// place returns a parser that does nothing but captures the cursor's
// current position, for productions that need it ahead of a Sequence.
func place() parsec.Parser[position.CodePlace] {
	return func(c *parsec.Cursor) (position.CodePlace, bool) {
		return c.Place(), true
	}
}
