package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

func assignOrCallStatement() parsec.Parser[ast.Statement] {
	return func(c *parsec.Cursor) (ast.Statement, bool) {
		start := c.Place()
		d, ok := designator()(c)
		if !ok {
			return nil, false
		}
		bp := c.Save()
		if _, assignOK := symbols(":=")(c); assignOK {
			rhs, rhsOK := exprRef.Parser()(c)
			if rhsOK {
				bp.Close()
				bp.Release()
				return &ast.AssignStatement{LHS: d, RHS: rhs, Place: start}, true
			}
		}
		bp.Release()
		return &ast.ProcCallStatement{Call: d, Place: start}, true
	}
}

// statement matches exactly one non-empty statement and fails otherwise; an
// empty statement (permitted between consecutive ';' in a StatementSequence)
// is handled by statementSeq wrapping statement in parsec.Maybe.
func statement() parsec.Parser[ast.Statement] {
	return parsec.Either(
		ifStatement(),
		caseStatement(),
		whileStatement(),
		repeatStatement(),
		forStatement(),
		assignOrCallStatement(),
	)
}

// statementSeq matches statement {";" statement}, skipping empty statements,
// allowing a trailing ';' and an entirely empty sequence.
func statementSeq() parsec.Parser[ast.StatementSeq] {
	maybeStmt := parsec.Maybe(statement())
	return func(c *parsec.Cursor) (ast.StatementSeq, bool) {
		var out ast.StatementSeq
		first, _ := maybeStmt(c)
		if first.Present {
			out = append(out, first.Value)
		}
		for {
			bp := c.Save()
			if _, semiOK := symbol(';')(c); !semiOK {
				bp.Release()
				break
			}
			next, _ := maybeStmt(c)
			bp.Close()
			bp.Release()
			if next.Present {
				out = append(out, next.Value)
			}
		}
		return out, true
	}
}

func elsifBranch(bodyKeyword string) parsec.Parser[ast.ElsifBranch] {
	return func(c *parsec.Cursor) (ast.ElsifBranch, bool) {
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("ELSIF")(c); !ok {
			return ast.ElsifBranch{}, false
		}
		cond, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("condition")
			return ast.ElsifBranch{}, false
		}
		if _, ok := NoReturnKeyword(bodyKeyword)(c); !ok {
			return ast.ElsifBranch{}, false
		}
		body, _ := statementSeq()(c)
		bp.Close()
		return ast.ElsifBranch{Cond: cond, Body: body}, true
	}
}

func ifStatement() parsec.Parser[ast.Statement] {
	return func(c *parsec.Cursor) (ast.Statement, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("IF")(c); !ok {
			return nil, false
		}
		cond, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("condition")
			return nil, false
		}
		if _, ok := NoReturnKeyword("THEN")(c); !ok {
			return nil, false
		}
		thenBody, _ := statementSeq()(c)
		elsifs, _ := parsec.Many(elsifBranch("THEN"))(c)
		var elseBody ast.StatementSeq
		elseBP := c.Save()
		if _, elseOK := keyword("ELSE")(c); elseOK {
			elseBody, _ = statementSeq()(c)
			elseBP.Close()
		}
		elseBP.Release()
		if _, ok := keyword("END")(c); !ok {
			c.Fail("\"END\"")
			return nil, false
		}
		bp.Close()
		return &ast.IfStatement{Cond: cond, Then: thenBody, Elsifs: elsifs, Else: elseBody, Place: start}, true
	}
}

func caseLabel() parsec.Parser[ast.CaseLabel] {
	return func(c *parsec.Cursor) (ast.CaseLabel, bool) {
		bp := c.Save()
		defer bp.Release()
		low, ok := exprRef.Parser()(c)
		if !ok {
			return ast.CaseLabel{}, false
		}
		rangeBP := c.Save()
		if _, dotsOK := symbols("..")(c); dotsOK {
			high, hOK := exprRef.Parser()(c)
			if hOK {
				rangeBP.Close()
				rangeBP.Release()
				bp.Close()
				return ast.CaseLabel{Low: low, High: high}, true
			}
		}
		rangeBP.Release()
		bp.Close()
		return ast.CaseLabel{Low: low}, true
	}
}

func caseArm() parsec.Parser[ast.CaseArm] {
	return func(c *parsec.Cursor) (ast.CaseArm, bool) {
		bp := c.Save()
		defer bp.Release()
		labels, ok := parsec.DelimSequence(caseLabel(), symbol(','))(c)
		if !ok {
			return ast.CaseArm{}, false
		}
		if _, ok := symbol(':')(c); !ok {
			return ast.CaseArm{}, false
		}
		body, _ := statementSeq()(c)
		bp.Close()
		return ast.CaseArm{Labels: labels, Body: body}, true
	}
}

func caseStatement() parsec.Parser[ast.Statement] {
	return func(c *parsec.Cursor) (ast.Statement, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("CASE")(c); !ok {
			return nil, false
		}
		sel, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("selector expression")
			return nil, false
		}
		if _, ok := NoReturnKeyword("OF")(c); !ok {
			return nil, false
		}
		arms, _ := parsec.DelimSequence(caseArm(), symbol('|'))(c)
		var elseBody ast.StatementSeq
		elseBP := c.Save()
		if _, elseOK := keyword("ELSE")(c); elseOK {
			elseBody, _ = statementSeq()(c)
			elseBP.Close()
		}
		elseBP.Release()
		if _, ok := keyword("END")(c); !ok {
			c.Fail("\"END\"")
			return nil, false
		}
		bp.Close()
		return &ast.CaseStatement{Selector: sel, Arms: arms, Else: elseBody, Place: start}, true
	}
}

func whileStatement() parsec.Parser[ast.Statement] {
	return func(c *parsec.Cursor) (ast.Statement, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("WHILE")(c); !ok {
			return nil, false
		}
		cond, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("condition")
			return nil, false
		}
		if _, ok := NoReturnKeyword("DO")(c); !ok {
			return nil, false
		}
		body, _ := statementSeq()(c)
		elsifs, _ := parsec.Many(elsifBranch("DO"))(c)
		if _, ok := keyword("END")(c); !ok {
			c.Fail("\"END\"")
			return nil, false
		}
		bp.Close()
		return &ast.WhileStatement{Cond: cond, Body: body, Elsifs: elsifs, Place: start}, true
	}
}

func repeatStatement() parsec.Parser[ast.Statement] {
	return func(c *parsec.Cursor) (ast.Statement, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("REPEAT")(c); !ok {
			return nil, false
		}
		body, _ := statementSeq()(c)
		if _, ok := NoReturnKeyword("UNTIL")(c); !ok {
			return nil, false
		}
		cond, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("condition")
			return nil, false
		}
		bp.Close()
		return &ast.RepeatStatement{Body: body, Cond: cond, Place: start}, true
	}
}

func forStatement() parsec.Parser[ast.Statement] {
	return func(c *parsec.Cursor) (ast.Statement, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("FOR")(c); !ok {
			return nil, false
		}
		id, ok := ident()(c)
		if !ok {
			c.Fail("identifier")
			return nil, false
		}
		if _, ok := symbols(":=")(c); !ok {
			return nil, false
		}
		startExpr, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("expression")
			return nil, false
		}
		if _, ok := NoReturnKeyword("TO")(c); !ok {
			return nil, false
		}
		endExpr, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("expression")
			return nil, false
		}
		var byExpr ast.Expression
		byBP := c.Save()
		if _, byOK := keyword("BY")(c); byOK {
			if e, eOK := exprRef.Parser()(c); eOK {
				byExpr = e
				byBP.Close()
			}
		}
		byBP.Release()
		if _, ok := NoReturnKeyword("DO")(c); !ok {
			return nil, false
		}
		body, _ := statementSeq()(c)
		if _, ok := keyword("END")(c); !ok {
			c.Fail("\"END\"")
			return nil, false
		}
		bp.Close()
		return &ast.ForStatement{Ident: id, Start: startExpr, End: endExpr, By: byExpr, Body: body, Place: start}, true
	}
}
