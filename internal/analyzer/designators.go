package analyzer

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/position"
	"github.com/oberon-fe/oberonc/internal/symbols"
	"github.com/oberon-fe/oberonc/internal/typeops"
)

// repair computes d's repaired form per spec.md §4.8/§9's "lazy semantic
// rewrite": qualifier repair first (a leading identifier that does not name
// a module import is not a qualifier at all — it is the base designator,
// and the original "qualifier" is really its first field selector), then
// procedure-call repair (a trailing type-guard selector whose QualIdent
// does not name a type is really a nullary call's single argument). The
// result is cached on d via SetRepaired so repeated visits (GetType and Eval
// both descend into the same sub-expressions) don't redo the work or panic
// on a second SetRepaired.
func repair(scope *Scope, d *ast.Designator) *ast.Designator {
	if d.IsRepaired() {
		return d.Repaired()
	}

	qual := d.Qual
	selectors := append([]ast.Selector(nil), d.Selectors...)

	if qual.Qualifier != nil && !scope.IsModuleQualifier(qual.Qualifier.Name) {
		front := ast.FieldSelector{Ident: qual.Ident}
		selectors = append([]ast.Selector{front}, selectors...)
		qual = ast.QualIdent{Ident: *qual.Qualifier}
	}

	args := d.Args
	if args == nil && len(selectors) > 0 {
		if guard, ok := selectors[len(selectors)-1].(ast.GuardSelector); ok && !namesType(scope, guard.Type) {
			selectors = selectors[:len(selectors)-1]
			argDesig := &ast.Designator{Qual: guard.Type, Place: guard.Type.Pos()}
			argDesig.SetRepaired(argDesig)
			argList := []ast.Expression{argDesig}
			args = &argList
		}
	}

	result := d
	if qual != d.Qual || len(selectors) != len(d.Selectors) || args != d.Args {
		result = &ast.Designator{Qual: qual, Selectors: selectors, Args: args, Place: d.Place}
		result.SetRepaired(result)
	}
	d.SetRepaired(result)
	return result
}

// namesType reports whether q resolves to a TYPE symbol (or an imported
// one), as opposed to a VAR/CONST/procedure — the test proc-call repair
// uses to tell a type guard from a disguised nullary call.
func namesType(scope *Scope, q ast.QualIdent) bool {
	_, ok := scope.ResolveType(q)
	return ok
}

// resolvedDesignator is what walking a repaired designator's base and
// selector chain produces: the expression's type, the last type name it was
// known by (for a trailing type guard's Extends check), whether it still
// names an assignable variable, and, when it turned out to be a bare
// procedure reference rather than a value, which table.
type resolvedDesignator struct {
	Type    ast.Type
	NamedAs *ast.QualIdent
	IsVar   bool
	Proc    symbols.ProcedureTable
	IsProc  bool
	// IsVoid is set once a call to a procedure with no return type has been
	// resolved: it is a valid statement but not a valid expression.
	IsVoid bool
}

// designatorType resolves d (after repair) to its type, per spec.md §4.8:
// the base name against the scope, then each selector against the running
// type. ok is false once a diagnostic has been raised and the caller should
// not trust the returned resolvedDesignator's Type.
func designatorType(scope *Scope, d *ast.Designator, bag *diag.Bag) (resolvedDesignator, bool) {
	r := repair(scope, d)

	base, ok := designatorBase(scope, r, bag)
	if !ok {
		return resolvedDesignator{}, false
	}

	for _, sel := range r.Selectors {
		base, ok = applySelector(scope, base, sel, r.Place, bag)
		if !ok {
			return resolvedDesignator{}, false
		}
	}

	if r.Args != nil {
		return callResult(scope, base, *r.Args, r.Place, bag)
	}
	return base, true
}

func designatorBase(scope *Scope, d *ast.Designator, bag *diag.Bag) (resolvedDesignator, bool) {
	q := d.Qual
	if sym, ok := scope.GetSymbol(q, false); ok {
		named := typeNameOf(sym.Type)
		return resolvedDesignator{Type: sym.Type, NamedAs: named, IsVar: sym.Token == symbols.VarToken}, true
	}
	if v, ok := scope.GetValue(q, false); ok {
		return resolvedDesignator{Type: v.Type, NamedAs: typeNameOf(v.Type)}, true
	}
	if t, ok := scope.GetTable(q, false); ok {
		return resolvedDesignator{Proc: t, IsProc: true}, true
	}
	bag.Add(diag.NewError(diag.SUndeclaredIdent, d.Place, "undeclared identifier %s", q.String()))
	return resolvedDesignator{}, false
}

// typeNameOf reports the QualIdent a type is still known by, when it is one
// (a *ast.TypeName, or a pointer whose referent is, since
// typeops.Normalize(false) leaves a PointerType's referent untouched). This
// is what feeds a later type guard's Extends check; structural types with
// no declared name (an inline RECORD in a VAR declaration, for instance)
// yield nil, and a type guard on such a value is checked structurally only.
func typeNameOf(t ast.Type) *ast.QualIdent {
	switch n := t.(type) {
	case *ast.TypeName:
		return &n.Name
	case *ast.PointerType:
		if tn, ok := n.Referent.(*ast.TypeName); ok {
			return &tn.Name
		}
	}
	return nil
}

// applySelector steps base through one selector, per spec.md §4.8.
func applySelector(scope *Scope, base resolvedDesignator, sel ast.Selector, place position.CodePlace, bag *diag.Bag) (resolvedDesignator, bool) {
	if base.IsProc {
		bag.Add(diag.NewError(diag.SNotAValue, place, "procedure %s is not a value", base.procName()))
		return resolvedDesignator{}, false
	}

	structural := typeops.Normalize(base.Type, scope, scope.NormalizePointers)

	switch s := sel.(type) {
	case ast.FieldSelector:
		rec, recName, ok := asRecord(scope, structural, base.NamedAs)
		if !ok {
			bag.Add(diag.NewError(diag.SSelector, place, "%s is not a record or pointer to record", base.describe()))
			return resolvedDesignator{}, false
		}
		ft, ok := typeops.FieldType(rec, s.Ident.Name, scope)
		if !ok {
			bag.Add(diag.NewError(diag.SSelector, place, "record has no field %s", s.Ident.Name))
			return resolvedDesignator{}, false
		}
		_ = recName
		return resolvedDesignator{Type: ft, NamedAs: typeNameOf(ft), IsVar: base.IsVar}, true

	case ast.IndexSelector:
		arr, ok := structural.(*ast.ArrayType)
		if !ok {
			bag.Add(diag.NewError(diag.SSelector, place, "%s is not an array", base.describe()))
			return resolvedDesignator{}, false
		}
		for _, idx := range s.Indices {
			it, ok := GetType(scope, idx, bag)
			if !ok {
				return resolvedDesignator{}, false
			}
			if !isIntegerType(it) {
				bag.Add(diag.NewError(diag.STypeMismatch, idx.Pos(), "array index must be INTEGER"))
				return resolvedDesignator{}, false
			}
		}
		elem, ok := typeops.DropDimensions(arr, len(s.Indices))
		if !ok {
			bag.Add(diag.NewError(diag.SSelector, s.Place, "too many indices for array"))
			return resolvedDesignator{}, false
		}
		return resolvedDesignator{Type: elem, NamedAs: typeNameOf(elem), IsVar: base.IsVar}, true

	case ast.DerefSelector:
		ptr, ok := structural.(*ast.PointerType)
		if !ok {
			bag.Add(diag.NewError(diag.SSelector, s.Place, "%s is not a pointer", base.describe()))
			return resolvedDesignator{}, false
		}
		ref := typeops.Normalize(ptr.Referent, scope, true)
		return resolvedDesignator{Type: ref, NamedAs: typeNameOf(ptr.Referent), IsVar: true}, true

	case ast.GuardSelector:
		target, ok := scope.ResolveType(s.Type)
		if !ok {
			bag.Add(diag.NewError(diag.SNotAType, s.Type.Pos(), "undeclared type %s in type guard", s.Type.String()))
			return resolvedDesignator{}, false
		}
		targetRec, isRec := asRecordType(typeops.Normalize(target, scope, true))
		if !isRec {
			bag.Add(diag.NewError(diag.SSelector, s.Type.Pos(), "type guard target must be a record type"))
			return resolvedDesignator{}, false
		}
		if base.NamedAs != nil && !s.Type.Equal(*base.NamedAs) {
			if !typeops.Extends(targetRec, *base.NamedAs, scope.Container.Hierarchy) {
				bag.Add(diag.NewError(diag.SRecordExtends, s.Type.Pos(), "%s does not extend %s", s.Type.String(), base.NamedAs.String()))
				return resolvedDesignator{}, false
			}
		}
		return resolvedDesignator{Type: target, NamedAs: &s.Type, IsVar: base.IsVar}, true
	}
	panic("analyzer: unhandled selector")
}

// asRecord normalizes t one step further when it is a pointer, so a field
// selector works the same on a record variable or a pointer-to-record one
// (spec.md §4.8: "a field selector on a pointer value auto-dereferences").
func asRecord(scope *Scope, t ast.Type, namedAs *ast.QualIdent) (*ast.RecordType, *ast.QualIdent, bool) {
	if ptr, ok := t.(*ast.PointerType); ok {
		ref := typeops.Normalize(ptr.Referent, scope, true)
		rec, ok := ref.(*ast.RecordType)
		return rec, typeNameOf(ptr.Referent), ok
	}
	rec, ok := t.(*ast.RecordType)
	return rec, namedAs, ok
}

func asRecordType(t ast.Type) (*ast.RecordType, bool) {
	rec, ok := t.(*ast.RecordType)
	return rec, ok
}

func (r resolvedDesignator) describe() string {
	if r.IsProc {
		return "procedure " + r.procName()
	}
	return "this expression"
}

func (r resolvedDesignator) procName() string {
	if r.Proc == nil {
		return ""
	}
	return r.Proc.ProcName()
}

// procTypeOf extracts a procedure table's formal signature, per spec.md
// §4.6's three variants. A MultimethodInstance is never called directly by
// name (only its base is visible for a call), so it has no case here.
func procTypeOf(t symbols.ProcedureTable) *ast.ProcedureType {
	switch p := t.(type) {
	case *symbols.SimpleProcedureTable:
		return p.Type
	case *symbols.MultimethodBase:
		return p.Type
	default:
		return nil
	}
}

// callResult checks a call's actual arguments against base's callable
// signature (spec.md §4.8: arity, VAR arguments must resolve to a variable,
// and argument/formal type compatibility, including the pointer-extends
// exception applied to call arguments the same way it is to assignment) and
// produces the call's result: either a value of the declared return type,
// or a void result usable only as a statement.
func callResult(scope *Scope, base resolvedDesignator, args []ast.Expression, place position.CodePlace, bag *diag.Bag) (resolvedDesignator, bool) {
	var procType *ast.ProcedureType
	if base.IsProc {
		procType = procTypeOf(base.Proc)
		if procType == nil {
			bag.Add(diag.NewError(diag.SNotAProcedure, place, "%s cannot be called", base.describe()))
			return resolvedDesignator{}, false
		}
	} else if pt, ok := base.Type.(*ast.ProcedureType); ok {
		procType = pt
	} else {
		bag.Add(diag.NewError(diag.SNotAProcedure, place, "%s is not a procedure", base.describe()))
		return resolvedDesignator{}, false
	}

	var formals []ast.FormalSection
	for _, section := range procType.Params {
		for range section.Idents {
			formals = append(formals, section)
		}
	}
	if len(formals) != len(args) {
		bag.Add(diag.NewError(diag.SArgCount, place, "expected %d argument(s), found %d", len(formals), len(args)))
		return resolvedDesignator{}, false
	}

	ok := true
	for i, arg := range args {
		if !checkArg(scope, formals[i], arg, bag) {
			ok = false
		}
	}
	if !ok {
		return resolvedDesignator{}, false
	}

	if procType.Return == nil {
		return resolvedDesignator{IsVoid: true}, true
	}
	retType, rok := scope.ResolveType(*procType.Return)
	if !rok {
		bag.Add(diag.NewError(diag.SNotAType, place, "undeclared return type %s", procType.Return.String()))
		return resolvedDesignator{}, false
	}
	return resolvedDesignator{Type: retType, NamedAs: typeNameOf(retType)}, true
}

// checkArg checks one actual argument against its formal section.
func checkArg(scope *Scope, formal ast.FormalSection, arg ast.Expression, bag *diag.Bag) bool {
	if _, common := formal.Type.(*ast.CommonType); common {
		// A multimethod's COMMON position dispatches at runtime; any
		// record or pointer-to-record value is statically acceptable.
		argType, ok := GetType(scope, arg, bag)
		if !ok {
			return false
		}
		if !isRecordish(scope, argType) {
			bag.Add(diag.NewError(diag.STypeMismatch, arg.Pos(), "argument to a multimethod's COMMON parameter must be a record or pointer to record"))
			return false
		}
		if formal.Mode == ast.ModeVar && !argIsVariable(scope, arg, bag) {
			return false
		}
		return true
	}

	argType, ok := GetType(scope, arg, bag)
	if !ok {
		return false
	}
	if formal.Mode == ast.ModeVar && !argIsVariable(scope, arg, bag) {
		return false
	}
	if !assignable(scope, formal.Type, argType) {
		bag.Add(diag.NewError(diag.STypeMismatch, arg.Pos(), "argument type does not match formal parameter"))
		return false
	}
	return true
}

// argIsVariable reports whether arg designates an assignable variable, as a
// VAR-mode formal parameter requires.
func argIsVariable(scope *Scope, arg ast.Expression, bag *diag.Bag) bool {
	d, ok := arg.(*ast.Designator)
	if !ok {
		bag.Add(diag.NewError(diag.SAssignability, arg.Pos(), "VAR argument must be a variable"))
		return false
	}
	r, ok := designatorType(scope, d, bag)
	if !ok {
		return false
	}
	if !r.IsVar {
		bag.Add(diag.NewError(diag.SAssignability, arg.Pos(), "VAR argument must be a variable"))
		return false
	}
	return true
}

func isRecordish(scope *Scope, t ast.Type) bool {
	structural := typeops.Normalize(t, scope, true)
	if _, ok := structural.(*ast.RecordType); ok {
		return true
	}
	if ptr, ok := structural.(*ast.PointerType); ok {
		_, ok := typeops.Normalize(ptr.Referent, scope, true).(*ast.RecordType)
		return ok
	}
	return false
}

// assignable reports whether a value of type actual may be used where
// formal is expected: spec.md §4.8/§4.9's compatibility rule is type
// equality, widening INTEGER to REAL, NIL to any pointer, and a pointer
// type extending the formal's referent record.
func assignable(scope *Scope, formal, actual ast.Type) bool {
	if typeops.Equal(formal, actual) {
		return true
	}
	if isRealType(formal) && isIntegerType(actual) {
		return true
	}
	if isPointerType(formal) && isNilType(actual) {
		return true
	}
	if fp, ok := formal.(*ast.PointerType); ok {
		if ap, ok := actual.(*ast.PointerType); ok {
			if fname := typeNameOf(fp); fname != nil {
				if typeops.Extends(ap.Referent, *fname, scope.Container.Hierarchy) {
					return true
				}
			}
		}
	}
	return false
}
