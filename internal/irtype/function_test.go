package irtype

import "testing"

func TestRPO_LinearChain(t *testing.T) {
	// entry -> mid -> exit, linked by unconditional branches.
	entry := &BasicBlock{ID: 0, Instrs: []*Instr{{ID: NoValueID, Op: OpBr, Br: BrPayload{Targets: []BlockID{1}}}}}
	mid := &BasicBlock{ID: 1, Instrs: []*Instr{{ID: NoValueID, Op: OpBr, Br: BrPayload{Targets: []BlockID{2}}}}}
	exit := &BasicBlock{ID: 2, Instrs: []*Instr{{ID: NoValueID, Op: OpRet}}}

	fn := &Function{Name: "f", Blocks: []*BasicBlock{entry, mid, exit}}
	rpo := fn.RPO()

	want := []BlockID{0, 1, 2}
	if len(rpo) != len(want) {
		t.Fatalf("RPO length = %d, want %d", len(rpo), len(want))
	}
	for i, id := range want {
		if rpo[i] != id {
			t.Errorf("RPO[%d] = %v, want %v", i, rpo[i], id)
		}
	}
}

func TestRPO_CachedAcrossCalls(t *testing.T) {
	entry := &BasicBlock{ID: 0, Instrs: []*Instr{{Op: OpRet}}}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{entry}}

	first := fn.RPO()
	second := fn.RPO()
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("RPO not stable across calls: %v vs %v", first, second)
	}
}

func TestCountUses(t *testing.T) {
	x := &Instr{ID: 0, Op: OpLoad, Type: Int(32), Load: LoadPayload{Addr: ConstNullPointer(OpaquePointer()), AccessType: Int(32)}}
	add := &Instr{
		ID: 1, Op: OpBinary, Type: Int(32),
		Binary: BinaryPayload{Op: BinAdd, LHS: Operand{Kind: OperandInstr, InstrID: 0}, RHS: ConstInt(Int(32), 1)},
	}
	ret := &Instr{ID: NoValueID, Op: OpRet, Ret: RetPayload{HasValue: true, Value: Operand{Kind: OperandInstr, InstrID: 1}}}

	block := &BasicBlock{ID: 0, Instrs: []*Instr{x, add, ret}}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{block}}
	fn.CountUses()

	if x.Uses != 1 {
		t.Errorf("x.Uses = %d, want 1", x.Uses)
	}
	if add.Uses != 1 {
		t.Errorf("add.Uses = %d, want 1", add.Uses)
	}
}
