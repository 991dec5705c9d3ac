package analyzer

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/symbols"
	"github.com/oberon-fe/oberonc/internal/typeops"
)

// DeclareSequence runs spec.md §4.5's five-step declaration pass over seq,
// inserting into scope.Container. Procedure bodies are collected into
// *pending rather than analyzed immediately, so that sibling and
// forward-declared procedures are all visible by the time any body is
// checked.
func DeclareSequence(scope *Scope, seq ast.DeclarationSequence, bag *diag.Bag, pending *[]pendingBody) {
	declareConsts(scope, seq.Consts, bag)
	deferred := declareTypesPassOne(scope, seq.Types, bag)
	declareTypesPassTwo(scope, deferred, bag)
	declareVars(scope, seq.Vars, bag)
	declareProcedures(scope, seq.Procedures, bag, pending)
}

// DeclareDefinitionSequence is DeclareSequence restricted to what a ".def"
// file allows: every export is implicit (spec.md §6), and a PROCEDURE
// declaration becomes a VAR of ProcedureType rather than a procedure table
// entry — it has no body to schedule for analysis, so there is no pending
// list here.
func DeclareDefinitionSequence(scope *Scope, seq ast.DeclarationSequence, bag *diag.Bag) {
	declareConsts(scope, seq.Consts, bag)
	deferred := declareTypesPassOne(scope, seq.Types, bag)
	declareTypesPassTwo(scope, deferred, bag)
	declareVars(scope, seq.Vars, bag)
	for _, p := range seq.Procedures {
		procType := normalizeProcType(scope, p.Type)
		sym := &symbols.Symbol{
			Name: p.Name.Ident.Name, Token: symbols.VarToken, Type: procType,
			Exported: true, Place: p.Place,
		}
		if err := scope.Container.InsertSymbol(sym); err != nil {
			bag.Add(diag.NewError(diag.SDuplicateIdent, p.Place, "%s", err.Error()))
		}
	}
}

func declareConsts(scope *Scope, consts []ast.ConstDecl, bag *diag.Bag) {
	for _, c := range consts {
		typ, ok := GetType(scope, c.Value, bag)
		if !ok {
			continue
		}
		val, ok := Eval(scope, c.Value, bag)
		if !ok {
			continue
		}
		cv := &symbols.ConstValue{
			Name: c.Name.Ident.Name, Type: typ, Value: val,
			Exported: c.Name.Exported, Place: c.Place,
		}
		if err := scope.Container.InsertValue(cv); err != nil {
			bag.Add(diag.NewError(diag.SDuplicateIdent, c.Place, "%s", err.Error()))
		}
	}
}

func selfQualIdent(name ast.IdentDef) ast.QualIdent {
	return ast.QualIdent{Ident: name.Ident}
}

func declareTypesPassOne(scope *Scope, types []ast.TypeDecl, bag *diag.Bag) []ast.TypeDecl {
	var deferred []ast.TypeDecl
	for _, t := range types {
		if _, ok := t.Type.(*ast.PointerType); ok {
			sym := &symbols.Symbol{
				Name: t.Name.Ident.Name, Token: symbols.TypeToken, Type: t.Type,
				Exported: t.Name.Exported, Place: t.Place,
			}
			if err := scope.Container.InsertSymbol(sym); err != nil {
				bag.Add(diag.NewError(diag.SDuplicateIdent, t.Place, "%s", err.Error()))
				continue
			}
			deferred = append(deferred, t)
			continue
		}
		norm := typeops.Normalize(t.Type, scope, false)
		sym := &symbols.Symbol{
			Name: t.Name.Ident.Name, Token: symbols.TypeToken, Type: norm,
			Exported: t.Name.Exported, Place: t.Place,
		}
		if err := scope.Container.InsertSymbol(sym); err != nil {
			bag.Add(diag.NewError(diag.SDuplicateIdent, t.Place, "%s", err.Error()))
			continue
		}
		if rt, ok := norm.(*ast.RecordType); ok && rt.Base != nil {
			scope.Container.Hierarchy.AddEdge(selfQualIdent(t.Name), *rt.Base)
		}
	}
	return deferred
}

func declareTypesPassTwo(scope *Scope, deferred []ast.TypeDecl, bag *diag.Bag) {
	for _, t := range deferred {
		ptr := t.Type.(*ast.PointerType)
		referent := ptr.Referent
		if tn, ok := referent.(*ast.TypeName); ok {
			resolved, ok := typeops.Dereference(tn, scope)
			if !ok {
				bag.Add(diag.NewError(diag.SNotAType, ptr.Place, "undeclared type %s in POINTER TO", tn.Name.String()))
				continue
			}
			if _, ok := resolved.(*ast.RecordType); !ok {
				bag.Add(diag.NewError(diag.SNotAType, ptr.Place, "POINTER TO referent must be a record type"))
			}
			continue
		}
		if _, ok := referent.(*ast.RecordType); !ok {
			bag.Add(diag.NewError(diag.SNotAType, ptr.Place, "POINTER TO referent must be a record type"))
		}
	}
}

func declareVars(scope *Scope, vars []ast.VarDecl, bag *diag.Bag) {
	for _, v := range vars {
		norm := typeops.Normalize(v.Type, scope, false)
		for _, id := range v.Idents {
			sym := &symbols.Symbol{
				Name: id.Ident.Name, Token: symbols.VarToken, Type: norm,
				Exported: id.Exported, Place: id.Ident.Place,
			}
			if err := scope.Container.InsertSymbol(sym); err != nil {
				bag.Add(diag.NewError(diag.SDuplicateIdent, id.Ident.Place, "%s", err.Error()))
			}
		}
	}
}

// normalizeProcType normalizes every formal section's declared type, leaving
// CommonType/ScalarType markers and the return QualIdent untouched.
func normalizeProcType(scope *Scope, t *ast.ProcedureType) *ast.ProcedureType {
	out := &ast.ProcedureType{Return: t.Return, Place: t.Place}
	out.Params = make([]ast.FormalSection, len(t.Params))
	for i, p := range t.Params {
		switch p.Type.(type) {
		case *ast.CommonType, *ast.ScalarType:
			out.Params[i] = p
		default:
			np := p
			np.Type = typeops.Normalize(p.Type, scope, false)
			out.Params[i] = np
		}
	}
	return out
}

func declareProcedures(scope *Scope, procs []*ast.ProcedureDecl, bag *diag.Bag, pending *[]pendingBody) {
	for _, p := range procs {
		declareProcedure(scope, p, bag, pending)
	}
}

// declareProcedure builds this declaration's own Container (chained to
// scope), binds its formal parameters as VAR symbols in it, recurses into
// its local declarations, decides which of the three procedure table
// variants it is (spec.md §4.6), and inserts it. A non-base table's body is
// appended to *pending for later analysis.
func declareProcedure(scope *Scope, p *ast.ProcedureDecl, bag *diag.Bag, pending *[]pendingBody) {
	procType := normalizeProcType(scope, p.Type)
	procScope := scope.Nested()
	bindFormals(procScope, p.Type)
	DeclareSequence(procScope, p.Decls, bag, pending)

	name := p.Name.Ident.Name
	if existing, ok := scope.Container.LocalTable(name); ok {
		if base, ok := existing.(*symbols.MultimethodBase); ok && !p.Common {
			inst := &symbols.MultimethodInstance{
				Name: name, Type: asInstanceType(procType, base.Type), Decl: p, Scope: procScope.Container,
			}
			if err := scope.Container.InsertTable(inst); err != nil {
				bag.Add(diag.NewError(diag.SMultimethod, p.Place, "%s", err.Error()))
				return
			}
			*pending = append(*pending, pendingBody{body: p.Body, scope: procScope})
			return
		}
	}

	if p.Common {
		base := &symbols.MultimethodBase{Name: name, Type: procType, Decl: p, Exported: p.Name.Exported}
		if err := scope.Container.InsertTable(base); err != nil {
			bag.Add(diag.NewError(diag.SMultimethod, p.Place, "%s", err.Error()))
		}
		return
	}

	simple := &symbols.SimpleProcedureTable{Name: name, Type: procType, Decl: p, Scope: procScope.Container, Exported: p.Name.Exported}
	if err := scope.Container.InsertTable(simple); err != nil {
		bag.Add(diag.NewError(diag.SDuplicateIdent, p.Place, "%s", err.Error()))
		return
	}
	*pending = append(*pending, pendingBody{body: p.Body, scope: procScope})
}

// bindFormals inserts one VAR symbol per formal parameter identifier into
// procScope, so the procedure's own statements can resolve them. Neither
// spec.md's Container nor its ProcedureTable models this step explicitly,
// but without it a body could never refer to its own parameters.
func bindFormals(procScope *Scope, t *ast.ProcedureType) {
	for _, section := range t.Params {
		for _, id := range section.Idents {
			sym := &symbols.Symbol{Name: id.Name, Token: symbols.VarToken, Type: section.Type, Place: id.Place}
			procScope.Container.InsertSymbol(sym)
		}
	}
}

// asInstanceType rewrites procType's formal sections to wear a ScalarType at
// every position base marks Common, matching spec.md §4.6's
// "ast.ScalarType synthesized later by the analyzer, not parsed": the
// grammar never produces a ScalarType node, since grammar-wise a multimethod
// instance is indistinguishable from an ordinary procedure declaration until
// its name is found already bound to a MultimethodBase.
func asInstanceType(procType, baseType *ast.ProcedureType) *ast.ProcedureType {
	out := &ast.ProcedureType{Return: procType.Return, Place: procType.Place}
	out.Params = make([]ast.FormalSection, len(procType.Params))
	for i, p := range procType.Params {
		if i < len(baseType.Params) && baseType.Params[i].Common {
			wrapped := p
			wrapped.Type = &ast.ScalarType{Underlying: p.Type, Place: p.Type.Pos()}
			out.Params[i] = wrapped
			continue
		}
		out.Params[i] = p
	}
	return out
}
