package analyzer

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/symbols"
)

// Eval folds a constant expression to its value, per spec.md §9: a CONST
// declaration's right-hand side must fold completely, not stop at a
// placeholder. Any sub-expression that is not itself a literal, a
// previously-folded CONST, or an operator over foldable operands is
// reported with diag.SConstExpr (an undeclared name with
// diag.SUndeclaredIdent) and folding fails.
func Eval(scope *Scope, e ast.Expression, bag *diag.Bag) (symbols.Value, bool) {
	switch n := e.(type) {
	case *ast.NumberLit:
		if n.IsReal {
			return symbols.Value{Kind: symbols.VReal, Real: n.RealVal}, true
		}
		return symbols.Value{Kind: symbols.VInt, Int: n.IntVal}, true
	case *ast.CharLit:
		return symbols.Value{Kind: symbols.VChar, Char: n.Value}, true
	case *ast.StringLit:
		return symbols.Value{Kind: symbols.VString, Str: append([]byte(nil), n.Value...)}, true
	case *ast.NilLit:
		return symbols.Value{Kind: symbols.VNil}, true
	case *ast.BoolLit:
		return symbols.Value{Kind: symbols.VBool, Bool: n.Value}, true
	case *ast.SetExpr:
		return evalSetExpr(scope, n, bag)
	case *ast.TildaExpr:
		sub, ok := Eval(scope, n.Sub, bag)
		if !ok {
			return symbols.Value{}, false
		}
		if sub.Kind != symbols.VBool {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "~ requires a constant BOOLEAN operand"))
			return symbols.Value{}, false
		}
		return symbols.Value{Kind: symbols.VBool, Bool: !sub.Bool}, true
	case *ast.Term:
		return evalTerm(scope, n, bag)
	case *ast.Designator:
		return evalDesignator(scope, n, bag)
	default:
		bag.Add(diag.NewError(diag.SConstExpr, e.Pos(), "not a constant expression"))
		return symbols.Value{}, false
	}
}

func evalDesignator(scope *Scope, d *ast.Designator, bag *diag.Bag) (symbols.Value, bool) {
	r := repair(scope, d)
	if len(r.Selectors) != 0 || r.Args != nil {
		bag.Add(diag.NewError(diag.SConstExpr, d.Place, "not a constant expression"))
		return symbols.Value{}, false
	}
	cv, ok := scope.GetValue(r.Qual, false)
	if !ok {
		if _, isSym := scope.GetSymbol(r.Qual, true); isSym {
			bag.Add(diag.NewError(diag.SConstExpr, d.Place, "%s is a variable, not a constant", r.Qual.String()))
		} else {
			bag.Add(diag.NewError(diag.SUndeclaredIdent, d.Place, "undeclared identifier %s", r.Qual.String()))
		}
		return symbols.Value{}, false
	}
	return cv.Value, true
}

func evalSetExpr(scope *Scope, n *ast.SetExpr, bag *diag.Bag) (symbols.Value, bool) {
	var bits uint32
	ok := true
	for _, el := range n.Elements {
		low, lok := Eval(scope, el.Low, bag)
		if !lok || low.Kind != symbols.VInt {
			ok = false
			continue
		}
		high := low
		if el.High != nil {
			h, hok := Eval(scope, el.High, bag)
			if !hok || h.Kind != symbols.VInt {
				ok = false
				continue
			}
			high = h
		}
		for v := low.Int; v <= high.Int; v++ {
			if v < 0 || v > 31 {
				bag.Add(diag.NewError(diag.SConstExpr, n.Place, "SET element %d out of range 0..31", v))
				ok = false
				continue
			}
			bits |= 1 << uint(v)
		}
	}
	if !ok {
		return symbols.Value{}, false
	}
	return symbols.Value{Kind: symbols.VSet, Set: bits}, true
}

func evalTerm(scope *Scope, n *ast.Term, bag *diag.Bag) (symbols.Value, bool) {
	first, ok := Eval(scope, n.First, bag)
	if !ok {
		return symbols.Value{}, false
	}

	if n.Op == "" {
		if n.Sign == nil || *n.Sign == '+' {
			return first, true
		}
		switch first.Kind {
		case symbols.VInt:
			return symbols.Value{Kind: symbols.VInt, Int: -first.Int}, true
		case symbols.VReal:
			return symbols.Value{Kind: symbols.VReal, Real: -first.Real}, true
		default:
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "unary - requires a numeric constant"))
			return symbols.Value{}, false
		}
	}

	if n.Op == "IS" {
		bag.Add(diag.NewError(diag.SConstExpr, n.Place, "IS is not a constant expression"))
		return symbols.Value{}, false
	}

	second, ok := Eval(scope, n.Second, bag)
	if !ok {
		return symbols.Value{}, false
	}

	switch n.Op {
	case "&":
		return boolOp(n, first, second, bag, func(a, b bool) bool { return a && b })
	case "OR":
		return boolOp(n, first, second, bag, func(a, b bool) bool { return a || b })
	case "=", "#", "<", "<=", ">", ">=":
		return compareOp(n, first, second, bag)
	case "IN":
		if first.Kind != symbols.VInt || second.Kind != symbols.VSet {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "IN requires INTEGER and SET constants"))
			return symbols.Value{}, false
		}
		return symbols.Value{Kind: symbols.VBool, Bool: second.Set&(1<<uint(first.Int)) != 0}, true
	case "DIV":
		if first.Kind != symbols.VInt || second.Kind != symbols.VInt {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "DIV requires INTEGER constants"))
			return symbols.Value{}, false
		}
		if second.Int == 0 {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "division by zero"))
			return symbols.Value{}, false
		}
		return symbols.Value{Kind: symbols.VInt, Int: floorDiv(first.Int, second.Int)}, true
	case "MOD":
		if first.Kind != symbols.VInt || second.Kind != symbols.VInt {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "MOD requires INTEGER constants"))
			return symbols.Value{}, false
		}
		if second.Int == 0 {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "division by zero"))
			return symbols.Value{}, false
		}
		return symbols.Value{Kind: symbols.VInt, Int: floorMod(first.Int, second.Int)}, true
	case "/":
		if first.Kind == symbols.VSet && second.Kind == symbols.VSet {
			return symbols.Value{Kind: symbols.VSet, Set: first.Set ^ second.Set}, true
		}
		fr, fok := asReal(first)
		sr, sok := asReal(second)
		if !fok || !sok {
			bag.Add(diag.NewError(diag.SConstExpr, n.Place, "/ requires two SET or two numeric constants"))
			return symbols.Value{}, false
		}
		return symbols.Value{Kind: symbols.VReal, Real: fr / sr}, true
	case "+", "-", "*":
		return arithOp(n, first, second, bag)
	default:
		bag.Add(diag.NewError(diag.SConstExpr, n.Place, "not a constant expression"))
		return symbols.Value{}, false
	}
}

func boolOp(n *ast.Term, a, b symbols.Value, bag *diag.Bag, f func(bool, bool) bool) (symbols.Value, bool) {
	if a.Kind != symbols.VBool || b.Kind != symbols.VBool {
		bag.Add(diag.NewError(diag.SConstExpr, n.Place, "%s requires BOOLEAN constants", n.Op))
		return symbols.Value{}, false
	}
	return symbols.Value{Kind: symbols.VBool, Bool: f(a.Bool, b.Bool)}, true
}

func asReal(v symbols.Value) (float64, bool) {
	switch v.Kind {
	case symbols.VReal:
		return v.Real, true
	case symbols.VInt:
		return float64(v.Int), true
	default:
		return 0, false
	}
}

func arithOp(n *ast.Term, a, b symbols.Value, bag *diag.Bag) (symbols.Value, bool) {
	if a.Kind == symbols.VSet && b.Kind == symbols.VSet {
		switch n.Op {
		case "+":
			return symbols.Value{Kind: symbols.VSet, Set: a.Set | b.Set}, true
		case "-":
			return symbols.Value{Kind: symbols.VSet, Set: a.Set &^ b.Set}, true
		case "*":
			return symbols.Value{Kind: symbols.VSet, Set: a.Set & b.Set}, true
		}
	}
	if a.Kind == symbols.VInt && b.Kind == symbols.VInt {
		switch n.Op {
		case "+":
			return symbols.Value{Kind: symbols.VInt, Int: a.Int + b.Int}, true
		case "-":
			return symbols.Value{Kind: symbols.VInt, Int: a.Int - b.Int}, true
		case "*":
			return symbols.Value{Kind: symbols.VInt, Int: a.Int * b.Int}, true
		}
	}
	ar, aok := asReal(a)
	br, bok := asReal(b)
	if aok && bok {
		switch n.Op {
		case "+":
			return symbols.Value{Kind: symbols.VReal, Real: ar + br}, true
		case "-":
			return symbols.Value{Kind: symbols.VReal, Real: ar - br}, true
		case "*":
			return symbols.Value{Kind: symbols.VReal, Real: ar * br}, true
		}
	}
	bag.Add(diag.NewError(diag.SConstExpr, n.Place, "%s requires two SET or two numeric constants", n.Op))
	return symbols.Value{}, false
}

func compareOp(n *ast.Term, a, b symbols.Value, bag *diag.Bag) (symbols.Value, bool) {
	cmp, ok := compareValues(a, b)
	if !ok {
		bag.Add(diag.NewError(diag.SConstExpr, n.Place, "incomparable constant operands"))
		return symbols.Value{}, false
	}
	var result bool
	switch n.Op {
	case "=":
		result = cmp == 0
	case "#":
		result = cmp != 0
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return symbols.Value{Kind: symbols.VBool, Bool: result}, true
}

// compareValues returns -1/0/1 for a constant <, =, > b, across the pairs
// spec.md §4.8 allows to be compared: two numerics, two CHARs, or two
// strings (ordered bytewise).
func compareValues(a, b symbols.Value) (int, bool) {
	if ar, aok := asReal(a); aok {
		if br, bok := asReal(b); bok {
			switch {
			case ar < br:
				return -1, true
			case ar > br:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if a.Kind == symbols.VChar && b.Kind == symbols.VChar {
		switch {
		case a.Char < b.Char:
			return -1, true
		case a.Char > b.Char:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.Kind == symbols.VString && b.Kind == symbols.VString {
		switch {
		case string(a.Str) < string(b.Str):
			return -1, true
		case string(a.Str) > string(b.Str):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
