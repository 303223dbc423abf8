package dla

import (
	"testing"

	"cdecomp/internal/irtype"
)

func keyFor(v int32) Key { return NewKey(irtype.ValueID(v)) }

func TestGetOrCreate_ReturnsSameNodeForSameKey(t *testing.T) {
	g := NewGraph()
	k := keyFor(1)

	n1, created1 := g.GetOrCreate(k)
	if !created1 {
		t.Fatal("expected first get_or_create to create a node")
	}
	n2, created2 := g.GetOrCreate(k)
	if created2 {
		t.Fatal("expected second get_or_create to reuse the existing node")
	}
	if n1.ID != n2.ID {
		t.Fatalf("got different nodes for the same key: %v vs %v", n1.ID, n2.ID)
	}
}

func TestConsistent_HoldsAfterOperations(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	c, _ := g.GetOrCreate(keyFor(3))

	g.AddInheritance(a, b)
	g.AddInstance(a, c, NewOffsetExpr(8))
	g.Merge(c, b)

	if !g.Consistent() {
		t.Fatal("expected graph to satisfy invariants 1-4 after operations")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	g.AddInheritance(a, b)

	g.Merge(a, b)
	succBefore := len(b.Successors)
	predBefore := len(b.Predecessors)

	// merge(merge(a,b), b) should be a no-op: a no longer exists as a
	// distinct node, but calling Merge(b, b) again must not change state.
	g.Merge(b, b)

	if len(b.Successors) != succBefore || len(b.Predecessors) != predBefore {
		t.Fatal("expected merge(merge(a,b), b) to be a no-op on b's edges")
	}
	if !g.Consistent() {
		t.Fatal("expected graph to remain consistent after idempotent merge")
	}
}

func TestAddEquality_SymmetricInsertion(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))

	_, ok1, new1 := g.AddEquality(a, b)
	if !ok1 || !new1 {
		t.Fatal("expected first add_equality(a,b) to apply and be new")
	}
	succA, predA := len(a.Successors), len(a.Predecessors)

	_, ok2, new2 := g.AddEquality(b, a)
	if !ok2 || new2 {
		t.Fatal("expected add_equality(b,a) to be a no-op after add_equality(a,b)")
	}
	if len(a.Successors) != succA || len(a.Predecessors) != predA {
		t.Fatal("expected add_equality(b,a) to leave a's edge sets unchanged")
	}
}

func TestAddEquality_SelfLoopSilentlyDropped(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))

	_, ok, _ := g.AddEquality(a, a)
	if ok {
		t.Fatal("expected self-equality to be silently dropped")
	}
	if len(a.Successors) != 0 {
		t.Fatal("expected no edge to be created for a self-loop")
	}
}

func TestNormalizeEqualities_CollapsesChain(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	c, _ := g.GetOrCreate(keyFor(3))

	g.AddEquality(a, b)
	g.AddEquality(b, c)

	g.NormalizeEqualities()

	if !g.NoEquality() {
		t.Fatal("expected no_equality to hold after normalization")
	}

	live := g.Nodes()
	if len(live) != 1 {
		t.Fatalf("expected a single surviving node, got %d", len(live))
	}
	keys := g.KeysOf(live[0])
	if len(keys) != 3 {
		t.Fatalf("expected the surviving node to carry all 3 original keys, got %d", len(keys))
	}
}

func TestAddInstance_RepeatedInsertionIsIdempotent(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	oe := NewOffsetExpr(0)

	_, ok1, new1 := g.AddInstance(a, b, oe)
	if !ok1 || !new1 {
		t.Fatal("expected first add_instance to apply and be new")
	}
	_, ok2, new2 := g.AddInstance(a, b, oe)
	if !ok2 || new2 {
		t.Fatal("expected second add_instance with identical offset to be a no-op")
	}
	if len(a.Successors) != 1 {
		t.Fatalf("expected a single edge, got %d", len(a.Successors))
	}
}

func TestInheritanceTree_DetectsMultipleParents(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	c, _ := g.GetOrCreate(keyFor(3))

	g.AddInheritance(a, b)
	g.AddInheritance(c, b)
	g.AddInheritance(a, c)

	if !g.InheritanceDAG() {
		t.Fatal("expected inheritance_dag to hold")
	}
	if g.InheritanceTree() {
		t.Fatal("expected inheritance_tree to be false: b has two inheritance predecessors")
	}
}

func TestNormalizeInheritance_RestoresTree(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	c, _ := g.GetOrCreate(keyFor(3))

	g.AddInheritance(a, b)
	g.AddInheritance(c, b)
	g.AddInheritance(a, c)

	g.NormalizeInheritance()

	if !g.InheritanceTree() {
		t.Fatal("expected inheritance_tree to hold after normalization")
	}
	if !g.Consistent() {
		t.Fatal("expected graph to remain consistent after normalization")
	}
}

func TestLeafsHaveLayout(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	g.AddInstance(a, b, NewOffsetExpr(0))

	if g.LeafsHaveLayout() {
		t.Fatal("expected leafs_have_layout to fail: b is a leaf with no accesses")
	}

	b.Accesses[UseHandle{Instr: 1, Slot: 0}] = struct{}{}
	if !g.LeafsHaveLayout() {
		t.Fatal("expected leafs_have_layout to hold once the leaf has an access")
	}
}

func TestDAG_DetectsCycle(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	c, _ := g.GetOrCreate(keyFor(3))

	g.AddInstance(a, b, NewOffsetExpr(0))
	g.AddInstance(b, c, NewOffsetExpr(0))
	g.AddInstance(c, a, NewOffsetExpr(0))

	if g.DAG() {
		t.Fatal("expected dag to detect the a->b->c->a cycle")
	}
}

func TestRemove_DropsIncidentEdgesAndKeys(t *testing.T) {
	g := NewGraph()
	a, _ := g.GetOrCreate(keyFor(1))
	b, _ := g.GetOrCreate(keyFor(2))
	g.AddInheritance(a, b)

	g.Remove(a)

	if g.HasKeys(a) {
		t.Fatal("expected removed node to lose its keys")
	}
	if len(b.Predecessors) != 0 {
		t.Fatal("expected removal to strip the mirrored edge on the neighbor")
	}
	if !g.Consistent() {
		t.Fatal("expected graph to remain consistent after removal")
	}
}

func TestOffsetExpr_StructuralInequality(t *testing.T) {
	two := int64(2)
	four := int64(4)
	a := NewOffsetExpr(0).WithDimension(4, &two).WithDimension(8, &four)
	b := NewOffsetExpr(0).WithDimension(8, &four).WithDimension(4, &two)

	if a.Equal(b) {
		t.Fatal("expected differently-ordered decompositions to compare unequal")
	}
	if !a.Equal(a) {
		t.Fatal("expected an offset expression to equal itself")
	}
}

func TestLinkTag_OffsetExpressionPanicsOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a fault when querying offset of a non-Instance tag")
		}
	}()
	Equality().OffsetExpression()
}
