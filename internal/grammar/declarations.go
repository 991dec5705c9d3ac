package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

// matchingIdent succeeds only when the next identifier's name equals want;
// used for the trailing "END ident" that must echo a procedure or module
// name.
func matchingIdent(want string) parsec.Parser[ast.Identifier] {
	return parsec.Except(ident(), "\""+want+"\"", func(id ast.Identifier) bool {
		return id.Name == want
	})
}

func constDecl() parsec.Parser[ast.ConstDecl] {
	return func(c *parsec.Cursor) (ast.ConstDecl, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		name, ok := identDef()(c)
		if !ok {
			return ast.ConstDecl{}, false
		}
		if _, ok := symbol('=')(c); !ok {
			return ast.ConstDecl{}, false
		}
		val, ok := exprRef.Parser()(c)
		if !ok {
			c.Fail("expression")
			return ast.ConstDecl{}, false
		}
		bp.Close()
		return ast.ConstDecl{Name: name, Value: val, Place: start}, true
	}
}

func typeDecl() parsec.Parser[ast.TypeDecl] {
	return func(c *parsec.Cursor) (ast.TypeDecl, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		name, ok := identDef()(c)
		if !ok {
			return ast.TypeDecl{}, false
		}
		if _, ok := symbol('=')(c); !ok {
			return ast.TypeDecl{}, false
		}
		typ, ok := typeRef.Parser()(c)
		if !ok {
			c.Fail("type")
			return ast.TypeDecl{}, false
		}
		bp.Close()
		return ast.TypeDecl{Name: name, Type: typ, Place: start}, true
	}
}

func varDecl() parsec.Parser[ast.VarDecl] {
	return fieldGroup()
}

// constSection matches "CONST decl ';' {decl ';'}", returning nil (rather
// than failing) when CONST is absent. typeSection and varSection below
// follow the same shape for TYPE and VAR.
func constSection() parsec.Parser[[]ast.ConstDecl] {
	return func(c *parsec.Cursor) ([]ast.ConstDecl, bool) {
		bp := c.Save()
		if _, ok := keyword("CONST")(c); !ok {
			bp.Release()
			return nil, true
		}
		var out []ast.ConstDecl
		for {
			inner := c.Save()
			d, ok := constDecl()(c)
			if !ok {
				inner.Release()
				break
			}
			if _, semiOK := symbol(';')(c); !semiOK {
				inner.Release()
				break
			}
			inner.Close()
			inner.Release()
			out = append(out, d)
		}
		bp.Close()
		return out, true
	}
}

func typeSection() parsec.Parser[[]ast.TypeDecl] {
	return func(c *parsec.Cursor) ([]ast.TypeDecl, bool) {
		bp := c.Save()
		if _, ok := keyword("TYPE")(c); !ok {
			bp.Release()
			return nil, true
		}
		var out []ast.TypeDecl
		for {
			inner := c.Save()
			d, ok := typeDecl()(c)
			if !ok {
				inner.Release()
				break
			}
			if _, semiOK := symbol(';')(c); !semiOK {
				inner.Release()
				break
			}
			inner.Close()
			inner.Release()
			out = append(out, d)
		}
		bp.Close()
		return out, true
	}
}

func varSection() parsec.Parser[[]ast.VarDecl] {
	return func(c *parsec.Cursor) ([]ast.VarDecl, bool) {
		bp := c.Save()
		if _, ok := keyword("VAR")(c); !ok {
			bp.Release()
			return nil, true
		}
		var out []ast.VarDecl
		for {
			inner := c.Save()
			d, ok := varDecl()(c)
			if !ok {
				inner.Release()
				break
			}
			if _, semiOK := symbol(';')(c); !semiOK {
				inner.Release()
				break
			}
			inner.Close()
			inner.Release()
			out = append(out, d)
		}
		bp.Close()
		return out, true
	}
}

// procedureHeading matches "PROCEDURE IdentDef [FormalParameters]" and
// reports whether any formal section is marked Common: a multimethod base.
func procedureHeading() parsec.Parser[*ast.ProcedureDecl] {
	return func(c *parsec.Cursor) (*ast.ProcedureDecl, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("PROCEDURE")(c); !ok {
			return nil, false
		}
		name, ok := identDef()(c)
		if !ok {
			c.Fail("identifier")
			return nil, false
		}
		procType := &ast.ProcedureType{Place: start}
		common := false
		parenBP := c.Save()
		if _, pOK := symbol('(')(c); pOK {
			sections, _ := parsec.DelimSequenceExtraDelim0(formalSection(), symbol(';'))(c)
			if _, closeOK := symbol(')')(c); closeOK {
				procType.Params = sections
				for _, s := range sections {
					if s.Common {
						common = true
					}
				}
				parenBP.Close()
				retBP := c.Save()
				if _, colonOK := symbol(':')(c); colonOK {
					if q, qOK := qualIdent()(c); qOK {
						procType.Return = &q
						retBP.Close()
					}
				}
				retBP.Release()
			}
		}
		parenBP.Release()
		bp.Close()
		return &ast.ProcedureDecl{Name: name, Type: procType, Common: common, Place: start}, true
	}
}

// procedureDeclaration matches a full PROCEDURE declaration: a heading, then
// either a body (DeclarationSequence [BEGIN StatementSequence] END ident) or,
// for a multimethod base with no default implementation, nothing further.
// In a ".def" definition file (defMode true), every procedure is a heading
// only: spec.md §6 turns each into a VAR of ProcedureType, so no body is
// permitted regardless of whether the heading carries COMMON parameters.
func procedureDeclaration(defMode bool) parsec.Parser[*ast.ProcedureDecl] {
	return func(c *parsec.Cursor) (*ast.ProcedureDecl, bool) {
		bp := c.Save()
		defer bp.Release()
		decl, ok := procedureHeading()(c)
		if !ok {
			return nil, false
		}
		if defMode {
			bp.Close()
			return decl, true
		}
		semiBP := c.Save()
		if _, ok := symbol(';')(c); !ok {
			return nil, false
		}
		bodyBP := c.Save()
		decls, declsOK := declarationSequence(false)(c)
		beginBP := c.Save()
		var body ast.StatementSeq
		if _, beginOK := keyword("BEGIN")(c); beginOK {
			body, _ = statementSeq()(c)
			beginBP.Close()
		}
		beginBP.Release()
		if _, endOK := keyword("END")(c); endOK {
			endName, nameOK := matchingIdent(decl.Name.Ident.Name)(c)
			if nameOK {
				bodyBP.Close()
				decl.Decls = decls
				decl.Body = body
				decl.HasBody = true
				decl.EndName = &endName
				bp.Close()
				return decl, true
			}
		}
		bodyBP.Release()
		_ = declsOK
		// No body: a multimethod base declaration, valid only when the
		// heading carried at least one COMMON formal section.
		if !decl.Common {
			c.Fail("procedure body")
			return nil, false
		}
		// Leave the heading's ';' for procedureSection, which ends every
		// declaration with one.
		semiBP.Release()
		bp.Close()
		return decl, true
	}
}

func procedureSection(defMode bool) parsec.Parser[[]*ast.ProcedureDecl] {
	return func(c *parsec.Cursor) ([]*ast.ProcedureDecl, bool) {
		var out []*ast.ProcedureDecl
		for {
			bp := c.Save()
			d, ok := procedureDeclaration(defMode)(c)
			if !ok {
				bp.Release()
				break
			}
			if _, semiOK := symbol(';')(c); !semiOK {
				bp.Release()
				break
			}
			bp.Close()
			bp.Release()
			out = append(out, d)
		}
		return out, true
	}
}

// declarationSequence matches [CONST ...] [TYPE ...] [VAR ...] {procedure ";"}.
// defMode is true only for a ".def" definition module's top-level sequence,
// where every procedure declaration is a heading with no body.
func declarationSequence(defMode bool) parsec.Parser[ast.DeclarationSequence] {
	return func(c *parsec.Cursor) (ast.DeclarationSequence, bool) {
		consts, _ := constSection()(c)
		types, _ := typeSection()(c)
		vars, _ := varSection()(c)
		procs, _ := procedureSection(defMode)(c)
		return ast.DeclarationSequence{Consts: consts, Types: types, Vars: vars, Procedures: procs}, true
	}
}
