package main

import (
	"cdecomp/internal/cdecl"
	"cdecomp/internal/dla"
	"cdecomp/internal/irtype"
)

// demoTarget is the data layout the built-in demo function assumes:
// 64-bit pointers, matching the default lp64 config target.
func demoTarget() irtype.DataLayout {
	return irtype.DataLayout{PointerBits: 64, PointerAlign: 8}
}

// buildDemoFunction constructs a small synthetic IR function reproducing
// the "widen an integer, reinterpret it as a pointer, load through it"
// shape: given an i32 argument x, it widens x to 64 bits, casts the result
// to a pointer, loads a byte through that pointer, and returns the byte
// zero-extended back to 32 bits. There is no real front-end in this demo
// path (§6): the function is built directly against internal/irtype.
func buildDemoFunction() (*irtype.Function, *cdecl.Model, *cdecl.FuncDecl) {
	i32 := irtype.Int(32)
	i64 := irtype.Int(64)
	i8 := irtype.Int(8)
	ptr8 := irtype.Pointer(i8)

	argX := irtype.Operand{Kind: irtype.OperandArg, Type: i32, ArgIndex: 0}

	var id irtype.ValueID = 0
	next := func() irtype.ValueID {
		v := id
		id++
		return v
	}

	widen := &irtype.Instr{
		ID:   next(),
		Op:   irtype.OpCast,
		Type: i64,
		Cast: irtype.CastPayload{Kind: irtype.CastZExt, Value: argX, DestType: i64},
	}
	widenRef := irtype.Operand{Kind: irtype.OperandInstr, Type: i64, InstrID: widen.ID}

	toPtr := &irtype.Instr{
		ID:   next(),
		Op:   irtype.OpCast,
		Type: ptr8,
		Cast: irtype.CastPayload{Kind: irtype.CastIntToPtr, Value: widenRef, DestType: ptr8},
	}
	toPtrRef := irtype.Operand{Kind: irtype.OperandInstr, Type: ptr8, InstrID: toPtr.ID}

	load := &irtype.Instr{
		ID:   next(),
		Op:   irtype.OpLoad,
		Type: i8,
		Load: irtype.LoadPayload{Addr: toPtrRef, AccessType: i8},
	}
	loadRef := irtype.Operand{Kind: irtype.OperandInstr, Type: i8, InstrID: load.ID}

	widenResult := &irtype.Instr{
		ID:   next(),
		Op:   irtype.OpCast,
		Type: i32,
		Cast: irtype.CastPayload{Kind: irtype.CastZExt, Value: loadRef, DestType: i32},
	}
	widenResultRef := irtype.Operand{Kind: irtype.OperandInstr, Type: i32, InstrID: widenResult.ID}

	ret := &irtype.Instr{
		ID:  next(),
		Op:  irtype.OpRet,
		Ret: irtype.RetPayload{HasValue: true, Value: widenResultRef},
	}

	block := &irtype.BasicBlock{
		ID:     0,
		Instrs: []*irtype.Instr{widen, toPtr, load, widenResult, ret},
	}

	fn := &irtype.Function{
		Name:        "read_byte_at",
		Params:      []irtype.Param{{Name: "x", Type: i32}},
		ReturnTypes: []irtype.Type{i32},
		Blocks:      []*irtype.BasicBlock{block},
	}

	model := cdecl.NewModel()
	decl := model.DeclareFunc("read_byte_at", []cdecl.ParamDecl{{Name: "x", Type: cdecl.UnsignedInt(32)}}, cdecl.UnsignedInt(32))

	return fn, model, decl
}

// buildDemoGraph records the same load's observed access on a layout-type
// node, the minimal DLA fact this demo exercises: one node, one access, no
// edges (§4.4's single-node case).
func buildDemoGraph(fn *irtype.Function) *dla.Graph {
	g := dla.NewGraph()
	node, _ := g.GetOrCreate(dla.NewKey(irtype.ValueID(0)))
	node.Accesses[dla.UseHandle{Instr: int32(fn.Blocks[0].Instrs[2].ID), Slot: 0}] = struct{}{}
	node.Size = 1
	return g
}
