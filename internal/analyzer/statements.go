package analyzer

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/symbols"
)

// AnalyzeStatements checks every statement in seq against scope, per
// spec.md §4.9. It does not stop at the first failing statement: each
// statement is checked independently so one bad line doesn't hide others in
// the same body.
func AnalyzeStatements(scope *Scope, seq ast.StatementSeq, bag *diag.Bag) {
	for _, s := range seq {
		analyzeStatement(scope, s, bag)
	}
}

func analyzeStatement(scope *Scope, s ast.Statement, bag *diag.Bag) {
	switch n := s.(type) {
	case *ast.AssignStatement:
		analyzeAssign(scope, n, bag)
	case *ast.ProcCallStatement:
		analyzeProcCall(scope, n, bag)
	case *ast.IfStatement:
		analyzeIf(scope, n, bag)
	case *ast.CaseStatement:
		analyzeCase(scope, n, bag)
	case *ast.WhileStatement:
		analyzeWhile(scope, n, bag)
	case *ast.RepeatStatement:
		analyzeRepeat(scope, n, bag)
	case *ast.ForStatement:
		analyzeFor(scope, n, bag)
	default:
		panic("analyzer: unhandled statement type")
	}
}

func requireBoolean(scope *Scope, cond ast.Expression, bag *diag.Bag) {
	t, ok := GetType(scope, cond, bag)
	if !ok {
		return
	}
	if !isBoolType(t) {
		bag.Add(diag.NewError(diag.STypeMismatch, cond.Pos(), "condition must be BOOLEAN"))
	}
}

func analyzeAssign(scope *Scope, s *ast.AssignStatement, bag *diag.Bag) {
	lhs, ok := designatorType(scope, s.LHS, bag)
	if !ok {
		return
	}
	if lhs.IsProc || lhs.IsVoid {
		bag.Add(diag.NewError(diag.SNotAValue, s.LHS.Pos(), "left side of := is not a variable"))
		return
	}
	if !lhs.IsVar {
		bag.Add(diag.NewError(diag.SAssignability, s.LHS.Pos(), "left side of := must be a variable"))
		return
	}
	rhs, ok := GetType(scope, s.RHS, bag)
	if !ok {
		return
	}
	if !assignable(scope, lhs.Type, rhs) {
		bag.Add(diag.NewError(diag.SAssignability, s.Place, "incompatible types in assignment"))
	}
}

func analyzeProcCall(scope *Scope, s *ast.ProcCallStatement, bag *diag.Bag) {
	call := s.Call
	if call.Args == nil {
		// A bare "designator;" with no argument list is still a call when
		// the designator names a procedure, per spec.md §4.9.
		empty := []ast.Expression{}
		call = &ast.Designator{Qual: call.Qual, Selectors: call.Selectors, Args: &empty, Place: call.Place}
	}
	r, ok := designatorType(scope, call, bag)
	if !ok {
		return
	}
	if !r.IsVoid {
		bag.Add(diag.NewError(diag.SNotAProcedure, s.Place, "a function call used as a statement must not return a value"))
	}
}

func analyzeIf(scope *Scope, s *ast.IfStatement, bag *diag.Bag) {
	requireBoolean(scope, s.Cond, bag)
	AnalyzeStatements(scope, s.Then, bag)
	for _, br := range s.Elsifs {
		requireBoolean(scope, br.Cond, bag)
		AnalyzeStatements(scope, br.Body, bag)
	}
	if s.Else != nil {
		AnalyzeStatements(scope, s.Else, bag)
	}
}

func analyzeWhile(scope *Scope, s *ast.WhileStatement, bag *diag.Bag) {
	requireBoolean(scope, s.Cond, bag)
	AnalyzeStatements(scope, s.Body, bag)
	for _, br := range s.Elsifs {
		requireBoolean(scope, br.Cond, bag)
		AnalyzeStatements(scope, br.Body, bag)
	}
}

func analyzeRepeat(scope *Scope, s *ast.RepeatStatement, bag *diag.Bag) {
	AnalyzeStatements(scope, s.Body, bag)
	requireBoolean(scope, s.Cond, bag)
}

func analyzeCase(scope *Scope, s *ast.CaseStatement, bag *diag.Bag) {
	selType, ok := GetType(scope, s.Selector, bag)
	if !ok {
		return
	}
	if !isIntegerType(selType) && !isCharType(selType) {
		bag.Add(diag.NewError(diag.STypeMismatch, s.Selector.Pos(), "CASE selector must be INTEGER or CHAR"))
		return
	}
	for _, arm := range s.Arms {
		for _, label := range arm.Labels {
			checkCaseLabel(scope, selType, label.Low, bag)
			if label.High != nil {
				checkCaseLabel(scope, selType, label.High, bag)
			}
		}
		AnalyzeStatements(scope, arm.Body, bag)
	}
	if s.Else != nil {
		AnalyzeStatements(scope, s.Else, bag)
	}
}

func checkCaseLabel(scope *Scope, selType ast.Type, label ast.Expression, bag *diag.Bag) {
	val, ok := Eval(scope, label, bag)
	if !ok {
		return
	}
	switch {
	case isIntegerType(selType) && val.Kind == symbols.VInt:
		return
	case isCharType(selType) && val.Kind == symbols.VChar:
		return
	default:
		bag.Add(diag.NewError(diag.STypeMismatch, label.Pos(), "CASE label does not match the selector's type"))
	}
}

// analyzeFor implements spec.md §4.9's FOR statement: Start/End must be
// INTEGER, a given BY step must be a nonzero INTEGER constant, and the loop
// variable is visible, as an INTEGER variable, only inside Body.
func analyzeFor(scope *Scope, s *ast.ForStatement, bag *diag.Bag) {
	startType, ok := GetType(scope, s.Start, bag)
	if ok && !isIntegerType(startType) {
		bag.Add(diag.NewError(diag.STypeMismatch, s.Start.Pos(), "FOR start value must be INTEGER"))
	}
	endType, ok := GetType(scope, s.End, bag)
	if ok && !isIntegerType(endType) {
		bag.Add(diag.NewError(diag.STypeMismatch, s.End.Pos(), "FOR end value must be INTEGER"))
	}
	if s.By != nil {
		val, ok := Eval(scope, s.By, bag)
		if ok {
			if val.Kind != symbols.VInt {
				bag.Add(diag.NewError(diag.SConstExpr, s.By.Pos(), "FOR step must be a constant INTEGER"))
			} else if val.Int == 0 {
				bag.Add(diag.NewError(diag.SConstExpr, s.By.Pos(), "FOR step must not be zero"))
			}
		}
	}

	sym := symbols.Symbol{Name: s.Ident.Name, Token: symbols.VarToken, Type: &ast.BuiltInType{Name: ast.Integer}, Place: s.Ident.Place}
	bodyScope := scope.NestedFor(sym)
	AnalyzeStatements(bodyScope, s.Body, bag)
}
