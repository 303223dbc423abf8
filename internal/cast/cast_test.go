package cast

import (
	"testing"

	"cdecomp/internal/cdecl"
)

func TestExprs_NewLiteral_RoundTrips(t *testing.T) {
	e := NewExprs(0)
	id := e.NewLiteral(cdecl.UnsignedInt(32), 7)

	lit, ok := e.Literal(id)
	if !ok {
		t.Fatal("expected id to resolve as a literal")
	}
	if lit.Bits != 7 {
		t.Fatalf("lit.Bits = %d, want 7", lit.Bits)
	}
	if got := e.Get(id).Type; !got.Equal(cdecl.UnsignedInt(32)) {
		t.Fatalf("literal type = %v, want uint32_t", got)
	}
}

func TestExprs_WrongAccessorReturnsFalse(t *testing.T) {
	e := NewExprs(0)
	id := e.NewLiteral(cdecl.UnsignedInt(32), 0)

	if _, ok := e.Binary(id); ok {
		t.Fatal("expected Binary accessor to reject a literal id")
	}
}

func TestExprs_NewParen_InheritsInnerType(t *testing.T) {
	e := NewExprs(0)
	x := e.NewLiteral(cdecl.UnsignedInt(32), 1)
	y := e.NewLiteral(cdecl.UnsignedInt(32), 2)
	sum := e.NewBinary(cdecl.UnsignedInt(32), "+", x, y)

	wrapped := e.NewParen(sum)
	paren, ok := e.Paren(wrapped)
	if !ok {
		t.Fatal("expected wrapped id to resolve as a paren node")
	}
	if paren.Inner != sum {
		t.Fatal("expected paren to wrap the original binary expression")
	}
	if !e.Get(wrapped).Type.Equal(cdecl.UnsignedInt(32)) {
		t.Fatal("expected paren node to inherit its inner expression's type")
	}
}

func TestExprs_NewParen_NoExprIDYieldsVoid(t *testing.T) {
	e := NewExprs(0)
	wrapped := e.NewParen(NoExprID)
	if !e.Get(wrapped).Type.Equal(cdecl.Void()) {
		t.Fatal("expected wrapping NoExprID to fall back to void")
	}
}

func TestStmts_NewDeclare_ZeroElemCountAllowed(t *testing.T) {
	s := NewStmts(0)
	id := s.NewDeclare("var_0", 0, NoExprID)

	decl, ok := s.Declare(id)
	if !ok {
		t.Fatal("expected id to resolve as a declare statement")
	}
	if decl.ElemCount != 0 {
		t.Fatalf("decl.ElemCount = %d, want 0", decl.ElemCount)
	}
}

func TestStmts_NewCompound_PreservesOrder(t *testing.T) {
	s := NewStmts(0)
	a := s.NewReturn(NoExprID)
	b := s.NewGoto("bb_1")
	compound, ok := s.Compound(s.NewCompound([]StmtID{a, b}))
	if !ok {
		t.Fatal("expected compound id to resolve")
	}
	if len(compound.Body) != 2 || compound.Body[0] != a || compound.Body[1] != b {
		t.Fatalf("compound.Body = %v, want [%v %v]", compound.Body, a, b)
	}
}

func TestArena_GetZeroIndexIsNil(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil {
		t.Fatal("expected Get(0) to return nil regardless of allocations")
	}
	a.Allocate(42)
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}

func TestArena_ResetDropsElementsKeepsCapacity(t *testing.T) {
	a := NewArena[int](4)
	a.Allocate(1)
	a.Allocate(2)
	a.Reset()
	if a.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", a.Len())
	}
	id := a.Allocate(3)
	if *a.Get(id) != 3 {
		t.Fatal("expected allocation after Reset to behave normally")
	}
}
