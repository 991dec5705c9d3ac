package grammar

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/parsec"
)

// typeRef is the handle used to build Type cyclically: a record field, an
// array element, a pointer referent, and a formal parameter type are all
// themselves Type. Linked at the end of Build.
var typeRef = parsec.NewRef[ast.Type]()

func builtInType() parsec.Parser[ast.Type] {
	names := []struct {
		word string
		name ast.BuiltInName
	}{
		{"BOOLEAN", ast.Boolean}, {"CHAR", ast.Char}, {"INTEGER", ast.Integer},
		{"REAL", ast.Real}, {"BYTE", ast.Byte}, {"SET", ast.Set},
	}
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		for _, n := range names {
			bp := c.Save()
			if _, ok := keyword(n.word)(c); ok {
				bp.Close()
				bp.Release()
				return &ast.BuiltInType{Name: n.name, Place: start}, true
			}
			bp.Release()
		}
		c.Fail("built-in type")
		return nil, false
	}
}

func typeNameType() parsec.Parser[ast.Type] {
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		q, ok := qualIdent()(c)
		if !ok {
			return nil, false
		}
		return &ast.TypeName{Name: q, Place: start}, true
	}
}

func identDef() parsec.Parser[ast.IdentDef] {
	return func(c *parsec.Cursor) (ast.IdentDef, bool) {
		id, ok := ident()(c)
		if !ok {
			return ast.IdentDef{}, false
		}
		exported := false
		bp := c.Save()
		if _, starOK := symbol('*')(c); starOK {
			exported = true
			bp.Close()
		}
		bp.Release()
		return ast.IdentDef{Ident: id, Exported: exported}, true
	}
}

func identDefList() parsec.Parser[[]ast.IdentDef] {
	return parsec.DelimSequence(identDef(), symbol(','))
}

func identList() parsec.Parser[[]ast.Identifier] {
	return parsec.DelimSequence(ident(), symbol(','))
}

func fieldGroup() parsec.Parser[ast.FieldGroup] {
	return func(c *parsec.Cursor) (ast.FieldGroup, bool) {
		p := parsec.Sequence3(identDefList(), symbol(':'), typeRef.Parser())
		v, ok := p(c)
		if !ok {
			return ast.FieldGroup{}, false
		}
		return ast.FieldGroup{Idents: v.First, Type: v.Third}, true
	}
}

func recordType() parsec.Parser[ast.Type] {
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("RECORD")(c); !ok {
			return nil, false
		}
		var base *ast.QualIdent
		baseBP := c.Save()
		if _, pOK := symbol('(')(c); pOK {
			if q, qOK := qualIdent()(c); qOK {
				if _, closeOK := symbol(')')(c); closeOK {
					base = &q
					baseBP.Close()
				}
			}
		}
		baseBP.Release()

		fields, _ := parsec.DelimSequenceExtraDelim0(fieldGroup(), symbol(';'))(c)
		if _, ok := keyword("END")(c); !ok {
			c.Fail("\"END\"")
			return nil, false
		}
		bp.Close()
		return &ast.RecordType{Base: base, Fields: fields, Place: start}, true
	}
}

func pointerType() parsec.Parser[ast.Type] {
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("POINTER")(c); !ok {
			return nil, false
		}
		toP := NoReturnKeyword("TO")
		if _, ok := toP(c); !ok {
			return nil, false
		}
		referent, ok := typeRef.Parser()(c)
		if !ok {
			c.Fail("type")
			return nil, false
		}
		bp.Close()
		return &ast.PointerType{Referent: referent, Place: start}, true
	}
}

// NoReturnKeyword wraps keyword(word) with NoReturn: once this keyword is
// seen, the grammar has committed to the production it introduces.
func NoReturnKeyword(word string) parsec.Parser[string] {
	return parsec.NoReturn(keyword(word))
}

func arrayType() parsec.Parser[ast.Type] {
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("ARRAY")(c); !ok {
			return nil, false
		}
		lengths, _ := parsec.DelimSequence(exprRef.Parser(), symbol(','))(c)
		ofP := NoReturnKeyword("OF")
		if _, ok := ofP(c); !ok {
			return nil, false
		}
		elem, ok := typeRef.Parser()(c)
		if !ok {
			c.Fail("type")
			return nil, false
		}
		bp.Close()
		return &ast.ArrayType{Lengths: lengths, Elem: elem, Unsized: len(lengths) == 0, Place: start}, true
	}
}

func commonType() parsec.Parser[ast.Type] {
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		if _, ok := keyword(commonTypeWord)(c); !ok {
			return nil, false
		}
		return &ast.CommonType{Place: start}, true
	}
}

func formalSection() parsec.Parser[ast.FormalSection] {
	return func(c *parsec.Cursor) (ast.FormalSection, bool) {
		bp := c.Save()
		defer bp.Release()
		mode := ast.ModeValue
		varBP := c.Save()
		if _, ok := keyword("VAR")(c); ok {
			mode = ast.ModeVar
			varBP.Close()
		}
		varBP.Release()

		idents, ok := identList()(c)
		if !ok {
			return ast.FormalSection{}, false
		}
		if _, ok := symbol(':')(c); !ok {
			return ast.FormalSection{}, false
		}
		isCommon := false
		var typ ast.Type
		commonBP := c.Save()
		if ct, cok := commonType()(c); cok {
			typ = ct
			isCommon = true
			commonBP.Close()
		}
		commonBP.Release()
		if typ == nil {
			t, tok := typeRef.Parser()(c)
			if !tok {
				return ast.FormalSection{}, false
			}
			typ = t
		}
		bp.Close()
		return ast.FormalSection{Mode: mode, Idents: idents, Type: typ, Common: isCommon}, true
	}
}

func procedureType() parsec.Parser[ast.Type] {
	return func(c *parsec.Cursor) (ast.Type, bool) {
		start := c.Place()
		bp := c.Save()
		defer bp.Release()
		if _, ok := keyword("PROCEDURE")(c); !ok {
			return nil, false
		}
		var sections []ast.FormalSection
		var ret *ast.QualIdent
		parenBP := c.Save()
		if _, pOK := symbol('(')(c); pOK {
			sections, _ = parsec.DelimSequenceExtraDelim0(formalSection(), symbol(';'))(c)
			if _, closeOK := symbol(')')(c); closeOK {
				parenBP.Close()
				retBP := c.Save()
				if _, colonOK := symbol(':')(c); colonOK {
					if q, qOK := qualIdent()(c); qOK {
						ret = &q
						retBP.Close()
					}
				}
				retBP.Release()
			}
		}
		parenBP.Release()
		bp.Close()
		return &ast.ProcedureType{Params: sections, Return: ret, Place: start}, true
	}
}

func typeProduction() parsec.Parser[ast.Type] {
	return parsec.Either(
		builtInType(),
		recordType(),
		pointerType(),
		arrayType(),
		procedureType(),
		typeNameType(),
	)
}
