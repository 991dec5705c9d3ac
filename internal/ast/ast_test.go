package ast

import (
	"testing"

	"github.com/oberon-fe/oberonc/internal/position"
)

func TestQualIdentEqual(t *testing.T) {
	m := Identifier{Name: "M"}
	a := QualIdent{Qualifier: &m, Ident: Identifier{Name: "x"}}
	b := QualIdent{Qualifier: &m, Ident: Identifier{Name: "x"}}
	c := QualIdent{Ident: Identifier{Name: "x"}}
	if !a.Equal(b) {
		t.Fatal("expected equal qualified idents")
	}
	if a.Equal(c) {
		t.Fatal("qualified and simple idents must differ")
	}
}

func TestQualIdentString(t *testing.T) {
	m := Identifier{Name: "M"}
	q := QualIdent{Qualifier: &m, Ident: Identifier{Name: "x"}}
	if q.String() != "M.x" {
		t.Fatalf("got %q", q.String())
	}
	simple := QualIdent{Ident: Identifier{Name: "x"}}
	if simple.String() != "x" {
		t.Fatalf("got %q", simple.String())
	}
}

func TestDesignatorRepairCache(t *testing.T) {
	d := &Designator{Qual: QualIdent{Ident: Identifier{Name: "a", Place: position.CodePlace{File: "t", Index: 0}}}}
	repaired := &Designator{Qual: d.Qual}
	d.SetRepaired(repaired)
	if d.Repaired() != repaired {
		t.Fatal("expected cached repaired value")
	}
}

func TestDesignatorRepairPanicsBeforeSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading repaired value before it is set")
		}
	}()
	d := &Designator{}
	d.Repaired()
}

func TestDesignatorRepairPanicsOnDoubleSet(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double SetRepaired")
		}
	}()
	d := &Designator{}
	d.SetRepaired(&Designator{})
	d.SetRepaired(&Designator{})
}
