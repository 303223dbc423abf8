package cbackend

import (
	"testing"

	"cdecomp/internal/cast"
	"cdecomp/internal/cdecl"
	"cdecomp/internal/irtype"
)

func lp64() irtype.DataLayout {
	return irtype.DataLayout{PointerBits: 64, PointerAlign: 8}
}

// oneBlockFunc builds a single-block function out of instrs, automatically
// numbering ValueIDs in slice order and terminating with instrs[len-1].
func oneBlockFunc(name string, params []irtype.Param, rets []irtype.Type, instrs []*irtype.Instr) *irtype.Function {
	for i, instr := range instrs {
		instr.ID = irtype.ValueID(i)
	}
	return &irtype.Function{
		Name:        name,
		Params:      params,
		ReturnTypes: rets,
		Blocks: []*irtype.BasicBlock{
			{ID: 0, Instrs: instrs},
		},
	}
}

func allSerialized(instrs []*irtype.Instr) map[irtype.ValueID]bool {
	out := make(map[irtype.ValueID]bool, len(instrs))
	for _, instr := range instrs {
		out[instr.ID] = true
	}
	return out
}

func instrRef(t irtype.Type, id irtype.ValueID) irtype.Operand {
	return irtype.Operand{Kind: irtype.OperandInstr, Type: t, InstrID: id}
}

func argRef(t irtype.Type, idx int) irtype.Operand {
	return irtype.Operand{Kind: irtype.OperandArg, Type: t, ArgIndex: idx}
}

// TestBuildFunction_ReturnLiteral covers the simplest of §8's scenarios: a
// function that returns a constant with no other instructions.
func TestBuildFunction_ReturnLiteral(t *testing.T) {
	i32 := irtype.Int(32)
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: irtype.ConstInt(i32, 7)}}
	fn := oneBlockFunc("ret_seven", nil, []irtype.Type{i32}, []*irtype.Instr{ret})

	model := cdecl.NewModel()
	decl := model.DeclareFunc("ret_seven", nil, cdecl.UnsignedInt(32))

	res, err := BuildFunction(model, fn, decl, lp64(), nil)
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	body, ok := res.Stmts.Compound(res.Body)
	if !ok {
		t.Fatal("expected a compound body")
	}
	// label + return
	if len(body.Body) != 2 {
		t.Fatalf("got %d statements, want 2 (label, return)", len(body.Body))
	}

	retStmt := res.Stmts.Get(body.Body[1])
	if retStmt.Kind != cast.StmtReturn {
		t.Fatalf("second statement kind = %v, want return", retStmt.Kind)
	}
	retData, _ := res.Stmts.Return(body.Body[1])
	lit, ok := res.Exprs.Literal(retData.Value)
	if !ok || lit.Bits != 7 {
		t.Fatalf("expected return value to be literal 7, got %+v ok=%v", lit, ok)
	}
}

// TestBuildFunction_UnsignedAdd covers an unsigned binary op on two
// arguments, serialized to a named variable before being returned.
func TestBuildFunction_UnsignedAdd(t *testing.T) {
	i32 := irtype.Int(32)
	add := &irtype.Instr{
		Op:   irtype.OpBinary,
		Type: i32,
		Binary: irtype.BinaryPayload{Op: irtype.BinAdd, LHS: argRef(i32, 0), RHS: argRef(i32, 1)},
	}
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: instrRef(i32, 0)}}
	instrs := []*irtype.Instr{add, ret}
	fn := oneBlockFunc("add2", []irtype.Param{{Name: "a", Type: i32}, {Name: "b", Type: i32}}, []irtype.Type{i32}, instrs)

	model := cdecl.NewModel()
	decl := model.DeclareFunc("add2", []cdecl.ParamDecl{
		{Name: "a", Type: cdecl.UnsignedInt(32)},
		{Name: "b", Type: cdecl.UnsignedInt(32)},
	}, cdecl.UnsignedInt(32))

	res, err := BuildFunction(model, fn, decl, lp64(), allSerialized(instrs))
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	if len(res.VarDecls) != 1 {
		t.Fatalf("got %d var decls, want 1", len(res.VarDecls))
	}
	name, ok := res.VarDecls[add.ID]
	if !ok || name != "var_0" {
		t.Fatalf("add's var decl = %q, ok=%v, want var_0", name, ok)
	}

	body, _ := res.Stmts.Compound(res.Body)
	declStmt := res.Stmts.Get(body.Body[1])
	if declStmt.Kind != cast.StmtDeclare {
		t.Fatalf("second statement kind = %v, want declare", declStmt.Kind)
	}
	declData, _ := res.Stmts.Declare(body.Body[1])
	binData, ok := res.Exprs.Binary(declData.Init)
	if !ok || binData.Symbol != "+" {
		t.Fatalf("expected declare init to be a '+' binary, got %+v ok=%v", binData, ok)
	}
}

// TestBuildFunction_SignedDiv covers §4.8's signed-coercion path: an sdiv
// on two unsigned-typed arguments must synthesize an inner signed binary
// wrapped in an outer cast back to the outward unsigned type.
func TestBuildFunction_SignedDiv(t *testing.T) {
	i32 := irtype.Int(32)
	div := &irtype.Instr{
		Op:   irtype.OpBinary,
		Type: i32,
		Binary: irtype.BinaryPayload{Op: irtype.BinSDiv, LHS: argRef(i32, 0), RHS: argRef(i32, 1)},
	}
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: instrRef(i32, 0)}}
	instrs := []*irtype.Instr{div, ret}
	fn := oneBlockFunc("div2", []irtype.Param{{Name: "a", Type: i32}, {Name: "b", Type: i32}}, []irtype.Type{i32}, instrs)

	model := cdecl.NewModel()
	decl := model.DeclareFunc("div2", []cdecl.ParamDecl{
		{Name: "a", Type: cdecl.UnsignedInt(32)},
		{Name: "b", Type: cdecl.UnsignedInt(32)},
	}, cdecl.UnsignedInt(32))

	res, err := BuildFunction(model, fn, decl, lp64(), allSerialized(instrs))
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	body, _ := res.Stmts.Compound(res.Body)
	declData, _ := res.Stmts.Declare(body.Body[1])

	outer := res.Exprs.Get(declData.Init)
	if outer.Kind != cast.ExprCast || !outer.Type.Equal(cdecl.UnsignedInt(32)) {
		t.Fatalf("expected outer node to be an unsigned cast, got kind=%v type=%v", outer.Kind, outer.Type)
	}
	castData, _ := res.Exprs.Cast(declData.Init)
	paren, ok := res.Exprs.Paren(castData.Operand)
	if !ok {
		t.Fatal("expected the signed binary to be paren-wrapped inside the cast")
	}
	inner := res.Exprs.Get(paren.Inner)
	if inner.Kind != cast.ExprBinary || !inner.Type.Equal(cdecl.SignedInt(32)) {
		t.Fatalf("expected inner binary typed int32_t, got kind=%v type=%v", inner.Kind, inner.Type)
	}
	innerData, _ := res.Exprs.Binary(paren.Inner)
	if innerData.Symbol != "/" {
		t.Fatalf("inner binary symbol = %q, want /", innerData.Symbol)
	}
}

// TestBuildFunction_IntToPtrLoad reproduces §8 scenario 4: widen an i32 to
// i64, reinterpret as a pointer, load a byte, widen the loaded byte back.
func TestBuildFunction_IntToPtrLoad(t *testing.T) {
	i32 := irtype.Int(32)
	i64 := irtype.Int(64)
	i8 := irtype.Int(8)
	ptr8 := irtype.Pointer(i8)

	widen := &irtype.Instr{Op: irtype.OpCast, Type: i64, Cast: irtype.CastPayload{Kind: irtype.CastZExt, Value: argRef(i32, 0), DestType: i64}}
	toPtr := &irtype.Instr{Op: irtype.OpCast, Type: ptr8, Cast: irtype.CastPayload{Kind: irtype.CastIntToPtr, Value: instrRef(i64, 0), DestType: ptr8}}
	load := &irtype.Instr{Op: irtype.OpLoad, Type: i8, Load: irtype.LoadPayload{Addr: instrRef(ptr8, 1), AccessType: i8}}
	widenBack := &irtype.Instr{Op: irtype.OpCast, Type: i32, Cast: irtype.CastPayload{Kind: irtype.CastZExt, Value: instrRef(i8, 2), DestType: i32}}
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: instrRef(i32, 3)}}
	instrs := []*irtype.Instr{widen, toPtr, load, widenBack, ret}
	fn := oneBlockFunc("read_byte", []irtype.Param{{Name: "x", Type: i32}}, []irtype.Type{i32}, instrs)

	model := cdecl.NewModel()
	decl := model.DeclareFunc("read_byte", []cdecl.ParamDecl{{Name: "x", Type: cdecl.UnsignedInt(32)}}, cdecl.UnsignedInt(32))

	res, err := BuildFunction(model, fn, decl, lp64(), allSerialized(instrs))
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	// toPtr's own declared var init must be typed uintptr_t, not pointer-to-i8.
	toPtrName, ok := res.VarDecls[toPtr.ID]
	if !ok {
		t.Fatal("expected toPtr to have a var decl")
	}
	body, _ := res.Stmts.Compound(res.Body)
	var toPtrInit cast.ExprID
	for _, id := range body.Body {
		st := res.Stmts.Get(id)
		if st.Kind != cast.StmtDeclare {
			continue
		}
		d, _ := res.Stmts.Declare(id)
		if d.Name == toPtrName {
			toPtrInit = d.Init
		}
	}
	if toPtrInit == cast.NoExprID {
		t.Fatal("could not locate toPtr's declare statement")
	}
	if got := res.Exprs.Get(toPtrInit).Type; !got.Equal(cdecl.UIntPtrT(64)) {
		t.Fatalf("inttoptr result type = %v, want uintptr_t(64)", got)
	}
}

// TestBuildFunction_UnsignedICmp covers an unsigned comparison, which
// (unlike signed predicates) requires no operand coercion.
func TestBuildFunction_UnsignedICmp(t *testing.T) {
	i32 := irtype.Int(32)
	cmp := &irtype.Instr{
		Op:   irtype.OpICmp,
		Type: irtype.Int(1),
		ICmp: irtype.ICmpPayload{Pred: irtype.ICmpULT, LHS: argRef(i32, 0), RHS: argRef(i32, 1)},
	}
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: instrRef(irtype.Int(1), 0)}}
	instrs := []*irtype.Instr{cmp, ret}
	fn := oneBlockFunc("lt2", []irtype.Param{{Name: "a", Type: i32}, {Name: "b", Type: i32}}, []irtype.Type{irtype.Int(1)}, instrs)

	model := cdecl.NewModel()
	decl := model.DeclareFunc("lt2", []cdecl.ParamDecl{
		{Name: "a", Type: cdecl.UnsignedInt(32)},
		{Name: "b", Type: cdecl.UnsignedInt(32)},
	}, cdecl.UnsignedInt(1))

	res, err := BuildFunction(model, fn, decl, lp64(), allSerialized(instrs))
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	name := res.VarDecls[cmp.ID]
	body, _ := res.Stmts.Compound(res.Body)
	declData, _ := res.Stmts.Declare(body.Body[1])
	binData, ok := res.Exprs.Binary(declData.Init)
	if !ok || binData.Symbol != "<" {
		t.Fatalf("expected a direct '<' binary with no coercion cast, got %+v ok=%v", binData, ok)
	}
	if name == "" {
		t.Fatal("expected cmp to have a var decl name")
	}
}

// TestBuildFunction_Unreachable covers the unreachable terminator: it must
// emit a call to abort() and the model must lazily declare abort.
func TestBuildFunction_Unreachable(t *testing.T) {
	unreachable := &irtype.Instr{Op: irtype.OpUnreachable}
	instrs := []*irtype.Instr{unreachable}
	fn := oneBlockFunc("trap", nil, nil, instrs)

	model := cdecl.NewModel()
	decl := model.DeclareFunc("trap", nil, cdecl.Void())

	res, err := BuildFunction(model, fn, decl, lp64(), nil)
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	body, _ := res.Stmts.Compound(res.Body)
	exprStmt := res.Stmts.Get(body.Body[1])
	if exprStmt.Kind != cast.StmtExpr {
		t.Fatalf("second statement kind = %v, want expr", exprStmt.Kind)
	}
	exprData, _ := res.Stmts.ExprStmt(body.Body[1])
	callData, ok := res.Exprs.Call(exprData.Expr)
	if !ok {
		t.Fatal("expected the unreachable statement to be a call expression")
	}
	if len(callData.Args) != 0 {
		t.Fatalf("abort() call got %d args, want 0", len(callData.Args))
	}
	calleeRef, _ := res.Exprs.DeclRef(callData.Callee)
	if calleeRef.Name != "abort" {
		t.Fatalf("callee name = %q, want abort", calleeRef.Name)
	}
	if _, ok := model.FuncByName("abort"); !ok {
		t.Fatal("expected abort() to be lazily declared on the model")
	}
}

// TestBuildFunction_UnsupportedOpcodeFaults ensures an unrecognized opcode
// surfaces as an ordinary error through BuildFunction's fault.Recover
// boundary, rather than panicking out of the caller.
func TestBuildFunction_UnsupportedOpcodeFaults(t *testing.T) {
	bogus := &irtype.Instr{Op: irtype.OpUnsupported, UnsupportedName: "fadd"}
	fn := oneBlockFunc("bad", nil, nil, []*irtype.Instr{bogus})

	model := cdecl.NewModel()
	decl := model.DeclareFunc("bad", nil, cdecl.Void())

	_, err := BuildFunction(model, fn, decl, lp64(), nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported opcode")
	}
}

// TestBuildFunction_PureInstrNotSerializedEmitsNoStatement checks that an
// unmarked, used pure value-producing instruction contributes zero
// statements: it is only memoized and substituted inline at its use site.
func TestBuildFunction_PureInstrNotSerializedEmitsNoStatement(t *testing.T) {
	i32 := irtype.Int(32)
	add := &irtype.Instr{
		Op:   irtype.OpBinary,
		Type: i32,
		Binary: irtype.BinaryPayload{Op: irtype.BinAdd, LHS: argRef(i32, 0), RHS: argRef(i32, 1)},
	}
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: instrRef(i32, 0)}}
	instrs := []*irtype.Instr{add, ret}
	fn := oneBlockFunc("add2", []irtype.Param{{Name: "a", Type: i32}, {Name: "b", Type: i32}}, []irtype.Type{i32}, instrs)

	model := cdecl.NewModel()
	decl := model.DeclareFunc("add2", []cdecl.ParamDecl{
		{Name: "a", Type: cdecl.UnsignedInt(32)},
		{Name: "b", Type: cdecl.UnsignedInt(32)},
	}, cdecl.UnsignedInt(32))

	res, err := BuildFunction(model, fn, decl, lp64(), nil) // nothing marked for serialization
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	body, _ := res.Stmts.Compound(res.Body)
	// label + return only: the add contributes no statement of its own.
	if len(body.Body) != 2 {
		t.Fatalf("got %d statements, want 2 (label, return)", len(body.Body))
	}
	retData, _ := res.Stmts.Return(body.Body[1])
	// The returned value goes through ParenExprFor, so the inlined add
	// arrives wrapped in its paren form: return (a + b);
	paren, ok := res.Exprs.Paren(retData.Value)
	if !ok {
		t.Fatalf("expected the return expression to be the paren-wrapped inlined add, got kind=%v", res.Exprs.Get(retData.Value).Kind)
	}
	if res.Exprs.Get(paren.Inner).Kind != cast.ExprBinary {
		t.Fatalf("expected the return expression to inline the unserialized add, got kind=%v", res.Exprs.Get(paren.Inner).Kind)
	}
}

// TestBuildFunction_CallAlwaysEmitsStatement checks that a call instruction
// gets a statement even when it is not marked for serialization, because a
// call may have side effects the caller cannot observe through memoization.
func TestBuildFunction_CallAlwaysEmitsStatement(t *testing.T) {
	i32 := irtype.Int(32)
	calleeFn := &irtype.Function{Name: "helper"}
	call := &irtype.Instr{
		Op:   irtype.OpCall,
		Type: i32,
		Call: irtype.CallPayload{Callee: calleeFn, Args: nil},
	}
	ret := &irtype.Instr{Op: irtype.OpRet, Ret: irtype.RetPayload{HasValue: true, Value: instrRef(i32, 0)}}
	instrs := []*irtype.Instr{call, ret}
	fn := oneBlockFunc("caller", nil, []irtype.Type{i32}, instrs)

	model := cdecl.NewModel()
	model.DeclareFunc("helper", nil, cdecl.UnsignedInt(32))
	decl := model.DeclareFunc("caller", nil, cdecl.UnsignedInt(32))

	res, err := BuildFunction(model, fn, decl, lp64(), nil) // not marked for serialization
	if err != nil {
		t.Fatalf("BuildFunction failed: %v", err)
	}

	body, _ := res.Stmts.Compound(res.Body)
	if len(body.Body) != 3 {
		t.Fatalf("got %d statements, want 3 (label, call, return)", len(body.Body))
	}
	callStmt := res.Stmts.Get(body.Body[1])
	if callStmt.Kind != cast.StmtExpr {
		t.Fatalf("call statement kind = %v, want expr", callStmt.Kind)
	}
}
