package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

func importSpec() parsec.Parser[ast.ImportSpec] {
	return func(c *parsec.Cursor) (ast.ImportSpec, bool) {
		bp := c.Save()
		defer bp.Release()
		first, ok := ident()(c)
		if !ok {
			return ast.ImportSpec{}, false
		}
		aliasBP := c.Save()
		if _, assignOK := symbols(":=")(c); assignOK {
			real, realOK := ident()(c)
			if realOK {
				aliasBP.Close()
				bp.Close()
				return ast.ImportSpec{Alias: &first, Name: real}, true
			}
		}
		aliasBP.Release()
		bp.Close()
		return ast.ImportSpec{Name: first}, true
	}
}

// importList matches "IMPORT ident {',' ident} ';'", or nothing if IMPORT is
// absent.
func importList() parsec.Parser[[]ast.ImportSpec] {
	return func(c *parsec.Cursor) ([]ast.ImportSpec, bool) {
		bp := c.Save()
		if _, ok := keyword("IMPORT")(c); !ok {
			bp.Release()
			return nil, true
		}
		specs, ok := parsec.DelimSequence(importSpec(), symbol(','))(c)
		if !ok {
			c.Fail("import")
			return nil, false
		}
		if _, ok := symbol(';')(c); !ok {
			return nil, false
		}
		bp.Close()
		return specs, true
	}
}

// module matches a full implementation module:
//
//	MODULE ident ';' [ImportList] DeclarationSequence [BEGIN StatementSequence] END ident '.'
func module() parsec.Parser[*ast.Module] {
	return func(c *parsec.Cursor) (*ast.Module, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("MODULE")(c); !ok {
			return nil, false
		}
		name, ok := ident()(c)
		if !ok {
			c.Fail("module name")
			return nil, false
		}
		if _, ok := symbol(';')(c); !ok {
			c.Fail("';'")
			return nil, false
		}
		c.SetNoReturnPoint()

		imports, _ := importList()(c)
		decls, _ := declarationSequence(false)(c)

		var body ast.StatementSeq
		beginBP := c.Save()
		if _, beginOK := keyword("BEGIN")(c); beginOK {
			body, _ = statementSeq()(c)
			beginBP.Close()
		}
		beginBP.Release()

		if _, ok := NoReturnKeyword("END")(c); !ok {
			return nil, false
		}
		endName, ok := matchingIdent(name.Name)(c)
		if !ok {
			c.Fail("\"" + name.Name + "\"")
			return nil, false
		}
		if _, ok := symbol('.')(c); !ok {
			c.Fail("'.'")
			return nil, false
		}
		bp.Close()
		return &ast.Module{
			Name: name, Imports: imports, Decls: decls, Body: body,
			EndName: endName, Place: start,
		}, true
	}
}

// definitionModule matches the restricted ".def" form (spec.md §6):
//
//	DEFINITION ident ';' [ImportList] DeclarationSequence END ident '.'
//
// No statement body is permitted; every PROCEDURE declared here is parsed
// as a heading only (declarationSequence(true)), and the analyzer later
// turns each into a VAR of ProcedureType.
func definitionModule() parsec.Parser[*ast.DefinitionModule] {
	return func(c *parsec.Cursor) (*ast.DefinitionModule, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("DEFINITION")(c); !ok {
			return nil, false
		}
		name, ok := ident()(c)
		if !ok {
			c.Fail("definition module name")
			return nil, false
		}
		if _, ok := symbol(';')(c); !ok {
			return nil, false
		}
		c.SetNoReturnPoint()

		imports, _ := importList()(c)
		decls, _ := declarationSequence(true)(c)

		if _, ok := NoReturnKeyword("END")(c); !ok {
			return nil, false
		}
		if _, ok := matchingIdent(name.Name)(c); !ok {
			c.Fail("\"" + name.Name + "\"")
			return nil, false
		}
		if _, ok := symbol('.')(c); !ok {
			c.Fail("'.'")
			return nil, false
		}
		bp.Close()
		return &ast.DefinitionModule{Name: name, Imports: imports, Decls: decls, Place: start}, true
	}
}
