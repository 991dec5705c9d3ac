// Package typeops implements the structural operations spec.md §4.7 names
// on internal/ast's Type variants: equivalence, normalization, extension
// testing, record field lookup, array dimension drop, and named-type
// dereference. It depends only on internal/ast; the analyzer supplies type
// lookups through the small Resolver interface below, avoiding an import
// cycle back to internal/symbols.
package typeops

import "github.com/oberon-fe/oberonc/internal/ast"

// Resolver looks up the Type a named type declaration points to. The
// analyzer's symbol tables implement this.
type Resolver interface {
	ResolveType(name ast.QualIdent) (ast.Type, bool)
}

// Normalize reduces a chain of TypeName references to the type it
// ultimately names. When normalizePointers is false, a PointerType is
// returned unchanged rather than recursing into its referent, which is what
// lets a self-referential "POINTER TO RECORD ... p: Ptr END" terminate.
// Other variants are returned as-is: types nested inside records, arrays and
// procedure types are not normalized.
func Normalize(t ast.Type, r Resolver, normalizePointers bool) ast.Type {
	return normalize(t, r, normalizePointers, map[string]bool{})
}

func normalize(t ast.Type, r Resolver, normalizePointers bool, seen map[string]bool) ast.Type {
	switch n := t.(type) {
	case *ast.TypeName:
		key := n.Name.String()
		if seen[key] {
			return n // broken cyclic named-type chain; let the caller diagnose it
		}
		seen[key] = true
		target, ok := r.ResolveType(n.Name)
		if !ok {
			return n
		}
		return normalize(target, r, normalizePointers, seen)
	case *ast.PointerType:
		if !normalizePointers {
			return n
		}
		return &ast.PointerType{Referent: normalize(n.Referent, r, true, seen), Place: n.Place}
	default:
		return t
	}
}

// Equal reports whether a and b are the same type under Oberon-07's
// equivalence rules (spec.md §4.7): named types and built-ins compare by
// name (not by expanding to their structure), records by base and
// field-list sequence, pointers by referent, arrays by element type and
// dimension count, procedure types by formal parameters and return type.
func Equal(a, b ast.Type) bool {
	switch x := a.(type) {
	case *ast.BuiltInType:
		y, ok := b.(*ast.BuiltInType)
		return ok && x.Name == y.Name
	case *ast.TypeName:
		y, ok := b.(*ast.TypeName)
		return ok && x.Name.Equal(y.Name)
	case *ast.RecordType:
		y, ok := b.(*ast.RecordType)
		if !ok {
			return false
		}
		if (x.Base == nil) != (y.Base == nil) {
			return false
		}
		if x.Base != nil && !x.Base.Equal(*y.Base) {
			return false
		}
		return fieldTypesEqual(x.Fields, y.Fields)
	case *ast.PointerType:
		y, ok := b.(*ast.PointerType)
		return ok && Equal(x.Referent, y.Referent)
	case *ast.ArrayType:
		y, ok := b.(*ast.ArrayType)
		if !ok {
			return false
		}
		return len(x.Lengths) == len(y.Lengths) && Equal(x.Elem, y.Elem)
	case *ast.ProcedureType:
		y, ok := b.(*ast.ProcedureType)
		if !ok {
			return false
		}
		return procTypeEqual(x, y)
	case *ast.CommonType:
		_, ok := b.(*ast.CommonType)
		return ok
	case *ast.ScalarType:
		y, ok := b.(*ast.ScalarType)
		return ok && Equal(x.Underlying, y.Underlying)
	default:
		return false
	}
}

// flatTypes expands a FieldGroup list into one Type per identifier, since
// "a, b: INTEGER" declares two same-typed fields.
func flatTypes(groups []ast.FieldGroup) []ast.Type {
	var out []ast.Type
	for _, g := range groups {
		for range g.Idents {
			out = append(out, g.Type)
		}
	}
	return out
}

func fieldTypesEqual(a, b []ast.FieldGroup) bool {
	fa, fb := flatTypes(a), flatTypes(b)
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if !Equal(fa[i], fb[i]) {
			return false
		}
	}
	return true
}

func procTypeEqual(a, b *ast.ProcedureType) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		pa, pb := a.Params[i], b.Params[i]
		if pa.Mode != pb.Mode || len(pa.Idents) != len(pb.Idents) {
			return false
		}
		if !Equal(pa.Type, pb.Type) {
			return false
		}
	}
	if (a.Return == nil) != (b.Return == nil) {
		return false
	}
	if a.Return != nil && !a.Return.Equal(*b.Return) {
		return false
	}
	return true
}

// Dereference resolves a TypeName to its underlying non-TypeName type,
// chasing nested TypeNames but never crossing a pointer boundary.
func Dereference(tn *ast.TypeName, r Resolver) (ast.Type, bool) {
	return derefChase(tn, r, map[string]bool{})
}

func derefChase(t ast.Type, r Resolver, seen map[string]bool) (ast.Type, bool) {
	name, ok := t.(*ast.TypeName)
	if !ok {
		return t, true
	}
	key := name.Name.String()
	if seen[key] {
		return nil, false
	}
	seen[key] = true
	target, ok := r.ResolveType(name.Name)
	if !ok {
		return nil, false
	}
	return derefChase(target, r, seen)
}

// FieldType looks up field name in rec, walking own fields first and then
// recursing through the base chain via r.
func FieldType(rec *ast.RecordType, name string, r Resolver) (ast.Type, bool) {
	for _, g := range rec.Fields {
		for _, id := range g.Idents {
			if id.Ident.Name == name {
				return g.Type, true
			}
		}
	}
	if rec.Base == nil {
		return nil, false
	}
	baseType, ok := r.ResolveType(*rec.Base)
	if !ok {
		return nil, false
	}
	baseRec, ok := baseType.(*ast.RecordType)
	if !ok {
		return nil, false
	}
	return FieldType(baseRec, name, r)
}

// DropDimensions implements "drop_dimensions(k)": dropping k dimensions off
// an (possibly multi-dimensional) array type. It reports false if k exceeds
// the array's rank.
func DropDimensions(t *ast.ArrayType, k int) (ast.Type, bool) {
	if k > len(t.Lengths) {
		return nil, false
	}
	if k == len(t.Lengths) {
		return t.Elem, true
	}
	return &ast.ArrayType{Lengths: t.Lengths[k:], Elem: t.Elem, Place: t.Place}, true
}

// Hierarchy records record-type extension edges (child extends parent),
// added in source order as type declarations are processed (spec.md §4.5
// step 2). Extends walks this chain.
type Hierarchy struct {
	parent map[string]ast.QualIdent
}

// NewHierarchy returns an empty Hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{parent: make(map[string]ast.QualIdent)}
}

// AddEdge records that child directly extends base.
func (h *Hierarchy) AddEdge(child, base ast.QualIdent) {
	h.parent[child.String()] = base
}

// Extends reports whether t's chain of bases reaches target, per
// spec.md §4.7: if t is a record with a base, start from that base; if t is
// a TypeName, start from its own name. A cycle in the hierarchy table
// terminates the walk as "not extending" rather than looping.
func Extends(t ast.Type, target ast.QualIdent, h *Hierarchy) bool {
	var start ast.QualIdent
	switch n := t.(type) {
	case *ast.RecordType:
		if n.Base == nil {
			return false
		}
		start = *n.Base
	case *ast.TypeName:
		start = n.Name
	default:
		return false
	}
	seen := map[string]bool{}
	cur := start
	for {
		if cur.Equal(target) {
			return true
		}
		key := cur.String()
		if seen[key] {
			return false
		}
		seen[key] = true
		next, ok := h.parent[key]
		if !ok {
			return false
		}
		cur = next
	}
}
