package analyzer

import (
	"fmt"

	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/typeops"
)

func boolType() *ast.BuiltInType   { return &ast.BuiltInType{Name: ast.Boolean} }
func intType() *ast.BuiltInType    { return &ast.BuiltInType{Name: ast.Integer} }
func realType() *ast.BuiltInType   { return &ast.BuiltInType{Name: ast.Real} }
func charType() *ast.BuiltInType   { return &ast.BuiltInType{Name: ast.Char} }
func setType() *ast.BuiltInType    { return &ast.BuiltInType{Name: ast.Set} }
func nilLitType() *ast.BuiltInType { return &ast.BuiltInType{Name: ast.NilType} }

// stringType is the result of a string literal: an array of CHAR, sized to
// the literal's byte length plus a terminating 0X, matching spec.md §4.8's
// treatment of string constants as array-of-CHAR values.
func stringType(n *ast.StringLit) *ast.ArrayType {
	length := &ast.NumberLit{IsReal: false, IntVal: int64(len(n.Value) + 1), Place: n.Place}
	return &ast.ArrayType{Lengths: []ast.Expression{length}, Elem: charType(), Place: n.Place}
}

func isBuiltin(t ast.Type, name ast.BuiltInName) bool {
	b, ok := t.(*ast.BuiltInType)
	return ok && b.Name == name
}

func isIntegerType(t ast.Type) bool { return isBuiltin(t, ast.Integer) || isBuiltin(t, ast.Byte) }
func isRealType(t ast.Type) bool    { return isBuiltin(t, ast.Real) }
func isNumericType(t ast.Type) bool { return isIntegerType(t) || isRealType(t) }
func isBoolType(t ast.Type) bool    { return isBuiltin(t, ast.Boolean) }
func isSetType(t ast.Type) bool     { return isBuiltin(t, ast.Set) }
func isCharType(t ast.Type) bool    { return isBuiltin(t, ast.Char) }
func isNilType(t ast.Type) bool     { return isBuiltin(t, ast.NilType) }
func isPointerType(t ast.Type) bool { _, ok := t.(*ast.PointerType); return ok }

// GetType computes e's static type in scope, per spec.md §4.8, reporting a
// diagnostic and returning ok=false as soon as a sub-expression is
// ill-typed.
func GetType(scope *Scope, e ast.Expression, bag *diag.Bag) (ast.Type, bool) {
	switch n := e.(type) {
	case *ast.NumberLit:
		if n.IsReal {
			return realType(), true
		}
		return intType(), true
	case *ast.CharLit:
		return charType(), true
	case *ast.StringLit:
		return stringType(n), true
	case *ast.NilLit:
		return nilLitType(), true
	case *ast.BoolLit:
		return boolType(), true
	case *ast.SetExpr:
		return setExprType(scope, n, bag)
	case *ast.TildaExpr:
		sub, ok := GetType(scope, n.Sub, bag)
		if !ok {
			return nil, false
		}
		if !isBoolType(sub) {
			bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "~ requires a BOOLEAN operand"))
			return nil, false
		}
		return boolType(), true
	case *ast.Term:
		return termType(scope, n, bag)
	case *ast.Designator:
		r, ok := designatorType(scope, n, bag)
		if !ok {
			return nil, false
		}
		if r.IsProc {
			bag.Add(diag.NewError(diag.SNotAValue, n.Place, "%s is not a value", r.describe()))
			return nil, false
		}
		if r.IsVoid {
			bag.Add(diag.NewError(diag.SNotAValue, n.Place, "procedure call has no result"))
			return nil, false
		}
		return r.Type, true
	default:
		panic(fmt.Sprintf("analyzer: GetType: unhandled expression %T", e))
	}
}

func setExprType(scope *Scope, n *ast.SetExpr, bag *diag.Bag) (ast.Type, bool) {
	ok := true
	for _, el := range n.Elements {
		lt, lok := GetType(scope, el.Low, bag)
		if !lok {
			ok = false
		} else if !isIntegerType(lt) {
			bag.Add(diag.NewError(diag.STypeMismatch, el.Low.Pos(), "SET elements must be INTEGER"))
			ok = false
		}
		if el.High == nil {
			continue
		}
		ht, hok := GetType(scope, el.High, bag)
		if !hok {
			ok = false
		} else if !isIntegerType(ht) {
			bag.Add(diag.NewError(diag.STypeMismatch, el.High.Pos(), "SET elements must be INTEGER"))
			ok = false
		}
	}
	if !ok {
		return nil, false
	}
	return setType(), true
}

// termType implements spec.md §4.8's operator typing for the one node shape
// shared by the unary-sign, mul-term, add-term and relation levels.
func termType(scope *Scope, n *ast.Term, bag *diag.Bag) (ast.Type, bool) {
	first, ok := GetType(scope, n.First, bag)
	if !ok {
		return nil, false
	}

	if n.Op == "" {
		if n.Sign != nil && !isNumericType(first) {
			bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "unary %c requires a numeric operand", *n.Sign))
			return nil, false
		}
		return first, true
	}

	// "IS" takes a type name on its right, not an ordinary value: it is
	// parsed as a Designator with no selectors and no call, per
	// spec.md §4.8's designator grammar, since the grammar cannot
	// distinguish a type name from a variable name at parse time.
	if n.Op == "IS" {
		return isExprType(scope, n, first, bag)
	}

	second, ok := GetType(scope, n.Second, bag)
	if !ok {
		return nil, false
	}

	switch n.Op {
	case "<", "<=", ">", ">=", "#", "=":
		if !comparable(first, second) {
			bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "incomparable operand types for %s", n.Op))
			return nil, false
		}
		return boolType(), true
	case "IN":
		if !isIntegerType(first) || !isSetType(second) {
			bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "IN requires an INTEGER and a SET operand"))
			return nil, false
		}
		return boolType(), true
	case "OR", "&":
		if !isBoolType(first) || !isBoolType(second) {
			bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "%s requires BOOLEAN operands", n.Op))
			return nil, false
		}
		return boolType(), true
	case "DIV", "MOD":
		if !isIntegerType(first) || !isIntegerType(second) {
			bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "%s requires INTEGER operands", n.Op))
			return nil, false
		}
		return intType(), true
	case "/":
		if isSetType(first) && isSetType(second) {
			return setType(), true
		}
		if isNumericType(first) && isNumericType(second) {
			return realType(), true
		}
		bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "/ requires two SET or two numeric operands"))
		return nil, false
	case "+", "-", "*":
		if isSetType(first) && isSetType(second) {
			return setType(), true
		}
		if isNumericType(first) && isNumericType(second) {
			if isRealType(first) || isRealType(second) {
				return realType(), true
			}
			return intType(), true
		}
		bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "%s requires two SET or two numeric operands", n.Op))
		return nil, false
	default:
		panic("analyzer: unhandled operator " + n.Op)
	}
}

// comparable implements spec.md §4.8's relational-operator operand rule:
// two numeric types, two CHARs, two identical types, or a pointer/NIL pair.
func comparable(a, b ast.Type) bool {
	if isNumericType(a) && isNumericType(b) {
		return true
	}
	if isCharType(a) && isCharType(b) {
		return true
	}
	if isNilType(a) && isPointerType(b) || isPointerType(a) && isNilType(b) {
		return true
	}
	return typeops.Equal(a, b)
}

// isExprType handles "designator IS TypeName": the left operand's static
// type must be a record or pointer to record, and the right must name a
// type. Whether that type extends the left operand's type is not checked.
func isExprType(scope *Scope, n *ast.Term, first ast.Type, bag *diag.Bag) (ast.Type, bool) {
	rightDesig, ok := n.Second.(*ast.Designator)
	if !ok || len(rightDesig.Selectors) != 0 || rightDesig.Args != nil {
		bag.Add(diag.NewError(diag.SNotAType, n.Second.Pos(), "right side of IS must be a type name"))
		return nil, false
	}
	if !namesType(scope, rightDesig.Qual) {
		bag.Add(diag.NewError(diag.SNotAType, n.Second.Pos(), "right side of IS must be a type name"))
		return nil, false
	}
	if !isRecordish(scope, first) {
		bag.Add(diag.NewError(diag.STypeMismatch, n.Place, "IS requires a record or pointer-to-record left operand"))
		return nil, false
	}
	return boolType(), true
}
