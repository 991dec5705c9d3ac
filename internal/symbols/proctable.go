package symbols

import (
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/typeops"
)

// ProcedureTable is the sealed interface for spec.md §4.6's three procedure
// table variants.
type ProcedureTable interface {
	ProcName() string
	isProcedureTable()
}

// SimpleProcedureTable is an ordinary, non-overloadable procedure: exactly
// one declaration. Its own scope's parent is the enclosing Container.
type SimpleProcedureTable struct {
	Name     string
	Type     *ast.ProcedureType
	Decl     *ast.ProcedureDecl
	Scope    *Container // this procedure's own local declarations/body scope
	Exported bool
}

func (t *SimpleProcedureTable) ProcName() string { return t.Name }
func (t *SimpleProcedureTable) isProcedureTable() {}

// MultimethodBase is declared with at least one COMMON formal parameter and
// carries no body; it accumulates compatible MultimethodInstance entries.
type MultimethodBase struct {
	Name      string
	Type      *ast.ProcedureType
	Decl      *ast.ProcedureDecl
	Instances []*MultimethodInstance
	Exported  bool
}

func (t *MultimethodBase) ProcName() string { return t.Name }
func (t *MultimethodBase) isProcedureTable() {}

// MultimethodInstance is declared with at least one ScalarType formal
// parameter in each position the base marks COMMON, plus a body.
type MultimethodInstance struct {
	Name  string
	Type  *ast.ProcedureType
	Decl  *ast.ProcedureDecl
	Scope *Container
}

func (t *MultimethodInstance) ProcName() string { return t.Name }
func (t *MultimethodInstance) isProcedureTable() {}

// instanceCompatible implements spec.md §4.6's "instance_compatible": inst's
// formal sections must match base's section-by-section, with every COMMON
// section replaced by a ScalarType in inst and every other section equal
// under type equivalence.
func instanceCompatible(base *MultimethodBase, inst *MultimethodInstance) bool {
	baseSections := base.Type.Params
	instSections := inst.Type.Params
	if len(baseSections) != len(instSections) {
		return false
	}
	for i := range baseSections {
		bs, is := baseSections[i], instSections[i]
		if bs.Mode != is.Mode || len(bs.Idents) != len(is.Idents) {
			return false
		}
		if bs.Common {
			if _, ok := is.Type.(*ast.ScalarType); !ok {
				return false
			}
			continue
		}
		if !typeops.Equal(bs.Type, is.Type) {
			return false
		}
	}
	return returnCompatible(base.Type.Return, inst.Type.Return)
}

func returnCompatible(base, inst *ast.QualIdent) bool {
	if (base == nil) != (inst == nil) {
		return false
	}
	return base == nil || base.Equal(*inst)
}
