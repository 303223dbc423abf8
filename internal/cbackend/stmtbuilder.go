package cbackend

import (
	"cdecomp/internal/cast"
	"cdecomp/internal/cdecl"
	"cdecomp/internal/fault"
	"cdecomp/internal/irtype"
)

// Result is the statement builder's output (§4.8's final paragraph): the
// per-function node arenas plus the four lookup tables a later printer or
// structured-AST layer consults.
type Result struct {
	Body  cast.StmtID
	Exprs *cast.Exprs
	Stmts *cast.Stmts

	InstrStmts  map[irtype.ValueID]cast.StmtID
	VarDecls    map[irtype.ValueID]string
	BlockLabels map[irtype.BlockID]string
	AllocaVars  map[irtype.ValueID]string
}

// Builder is one function's statement-synthesis driver (H). One Builder is
// created per function and discarded once BuildFunction returns, so its
// arenas and maps never outlive the analysis they were built for (§5).
type Builder struct {
	exprs *cast.Exprs
	stmts *cast.Stmts
	model *cdecl.Model
	fn    *irtype.Function
	decl  *cdecl.FuncDecl
	dl    irtype.DataLayout
	ef    *ExprFactory

	toSerialize map[irtype.ValueID]bool

	varCounter int

	instrStmts  map[irtype.ValueID]cast.StmtID
	varDecls    map[irtype.ValueID]string
	blockLabels map[irtype.BlockID]string
	allocaVars  map[irtype.ValueID]string
}

// BuildFunction runs the statement builder over fn and returns its result,
// recovering exactly once at this boundary from any fault.Raise reached
// while synthesizing fn's body (§7): the caller sees an ordinary error and
// moves on to the next function.
func BuildFunction(model *cdecl.Model, fn *irtype.Function, decl *cdecl.FuncDecl, dl irtype.DataLayout, toSerialize map[irtype.ValueID]bool) (res *Result, err error) {
	defer fault.Recover(&err)

	fn.CountUses()

	capHint := uint(len(fn.Blocks) * 8)
	exprs := cast.NewExprs(capHint)
	stmts := cast.NewStmts(capHint)

	b := &Builder{
		exprs:       exprs,
		stmts:       stmts,
		model:       model,
		fn:          fn,
		decl:        decl,
		dl:          dl,
		ef:          newExprFactory(exprs, model, fn, decl, dl),
		toSerialize: toSerialize,
		instrStmts:  make(map[irtype.ValueID]cast.StmtID),
		varDecls:    make(map[irtype.ValueID]string),
		blockLabels: make(map[irtype.BlockID]string),
		allocaVars:  make(map[irtype.ValueID]string),
	}

	body := b.run()

	return &Result{
		Body:        body,
		Exprs:       exprs,
		Stmts:       stmts,
		InstrStmts:  b.instrStmts,
		VarDecls:    b.varDecls,
		BlockLabels: b.blockLabels,
		AllocaVars:  b.allocaVars,
	}, nil
}

// run walks fn's blocks in reverse-postorder, emitting one label statement
// plus the instruction statements of each block into a single flat
// compound (§4.8 point 1). Structured control flow is not this builder's
// job; it hands the flat sequence to whatever assembles the AST layer.
func (b *Builder) run() cast.StmtID {
	var body []cast.StmtID

	for _, blockID := range b.fn.RPO() {
		block := b.fn.BlockByID(blockID)
		if block == nil {
			fault.Raise(fault.SubsystemASTBuilder, "reverse-postorder referenced unknown block %d", blockID)
		}

		label := cdecl.NameLabel(int32(blockID))
		b.blockLabels[blockID] = label
		body = append(body, b.stmts.NewLabel(label))

		for _, instr := range block.Instrs {
			if stmt, ok := b.buildInstr(instr); ok {
				b.instrStmts[instr.ID] = stmt
				body = append(body, stmt)
			}
		}
	}

	return b.stmts.NewCompound(body)
}

// buildInstr synthesizes the statement for one instruction, if any (§4.8
// point 2). Pure value-producing instructions that are not in toSerialize
// emit no statement at all — their expression is memoized and substituted
// inline wherever later instructions reference them, per §4.7 point 7's
// "re-return that expression" rule.
func (b *Builder) buildInstr(instr *irtype.Instr) (cast.StmtID, bool) {
	switch instr.Op {
	case irtype.OpBr, irtype.OpSwitch:
		return cast.NoStmtID, false

	case irtype.OpPhi:
		b.declareVar(instr, cast.NoExprID)
		return cast.NoStmtID, false

	case irtype.OpAlloca:
		name := b.newVarName()
		declStmt, addr := buildAllocaDeclare(b.ef, b.stmts, name, instr.Alloca.SizeBits)
		b.ef.memoize(instr.ID, addr)
		b.allocaVars[instr.ID] = name
		return declStmt, true

	case irtype.OpLoad:
		expr := b.ef.buildAddressExpr(instr.Load.Addr, QualTypeFor(instr.Load.AccessType))
		return b.finishValueInstr(instr, expr)

	case irtype.OpStore:
		return b.buildStore(instr), true

	case irtype.OpCast:
		expr := b.ef.buildCast(instr)
		return b.finishValueInstr(instr, expr)

	case irtype.OpSelect:
		expr := b.buildSelect(instr)
		return b.finishValueInstr(instr, expr)

	case irtype.OpCall:
		return b.buildCallStmt(instr)

	case irtype.OpBinary:
		expr := b.ef.buildBinary(instr.Binary.Op, instr.Binary.LHS, instr.Binary.RHS, instr.Type)
		return b.finishValueInstr(instr, expr)

	case irtype.OpICmp:
		expr := b.ef.buildICmp(instr.ICmp.Pred, instr.ICmp.LHS, instr.ICmp.RHS)
		return b.finishValueInstr(instr, expr)

	case irtype.OpRet:
		return b.buildReturn(instr), true

	case irtype.OpUnreachable:
		return b.buildUnreachable(), true

	default:
		name := instr.UnsupportedName
		if name == "" {
			name = instr.Op.String()
		}
		fault.Raise(fault.SubsystemASTBuilder, "opcode %q is not supported by this statement builder", name)
		panic("unreachable")
	}
}

// finishValueInstr memoizes expr as instr's value and, if instr has at
// least one use and is marked for serialization, allocates a named
// variable declaration for it (§4.8 point 3).
func (b *Builder) finishValueInstr(instr *irtype.Instr, expr cast.ExprID) (cast.StmtID, bool) {
	b.ef.memoize(instr.ID, expr)
	if instr.Uses >= 1 && b.toSerialize[instr.ID] {
		return b.declareVar(instr, expr), true
	}
	return cast.NoStmtID, false
}

// declareVar allocates a fresh var_K declaration for instr, recording it
// in varDecls and binding the expression factory so later references
// resolve to a decl-ref instead of the inline expression.
func (b *Builder) declareVar(instr *irtype.Instr, init cast.ExprID) cast.StmtID {
	name := b.newVarName()
	b.varDecls[instr.ID] = name
	b.ef.bindVar(instr.ID, name)
	return b.stmts.NewDeclare(name, 0, init)
}

func (b *Builder) newVarName() string {
	name := cdecl.NameVar(b.varCounter)
	b.varCounter++
	return name
}

// buildStore assembles "LHS = RHS;" where LHS is the destination lvalue
// (§4.8's store-assembly rule) and RHS is cast to LHS's type only if the
// types differ.
func (b *Builder) buildStore(instr *irtype.Instr) cast.StmtID {
	accessType := QualTypeFor(instr.Store.Value.Type)
	lhs := b.ef.buildAddressExpr(instr.Store.Addr, accessType)

	rhs := b.ef.asRValue(b.ef.ParenExprFor(instr.Store.Value))
	rhs = b.ef.castOperand(rhs, accessType)

	assign := b.exprs.NewBinary(accessType, "=", lhs, rhs)
	return b.stmts.NewExprStmt(assign)
}

// buildSelect emits the IR result-typed ternary "(cond) ? (t) : (f)".
func (b *Builder) buildSelect(instr *irtype.Instr) cast.ExprID {
	cond := b.ef.asRValue(b.ef.ParenExprFor(instr.Select.Cond))
	ifTrue := b.ef.asRValue(b.ef.ParenExprFor(instr.Select.IfTrue))
	ifFalse := b.ef.asRValue(b.ef.ParenExprFor(instr.Select.IfFalse))
	return b.exprs.NewConditional(QualTypeFor(instr.Type), cond, ifTrue, ifFalse)
}

// buildCallStmt resolves the callee, coerces mismatched argument types to
// their parameter types, and emits either a named-variable declaration
// (if the call's result is serialized) or a bare expression statement.
func (b *Builder) buildCallStmt(instr *irtype.Instr) (cast.StmtID, bool) {
	if instr.Call.Callee == nil {
		fault.Raise(fault.SubsystemASTBuilder, "call instruction with nil callee")
	}
	decl, ok := b.model.FuncByName(cdecl.SanitizeIdent(instr.Call.Callee.Name))
	if !ok {
		fault.Raise(fault.SubsystemASTBuilder, "call to undeclared function %q", instr.Call.Callee.Name)
	}

	args := instr.Call.Args
	if !(decl.HasSoleVoidParam() && len(args) == 0) && len(decl.Params) != len(args) {
		fault.Raise(fault.SubsystemASTBuilder, "call to %q passes %d arguments, declaration wants %d", decl.Name, len(args), len(decl.Params))
	}

	argExprs := make([]cast.ExprID, len(args))
	for i, a := range args {
		argExpr := b.ef.asRValue(b.ef.ParenExprFor(a))
		if i < len(decl.Params) {
			argExpr = b.ef.castOperand(argExpr, decl.Params[i].Type)
		}
		argExprs[i] = argExpr
	}

	callee := b.exprs.NewDeclRef(decl.ReturnType, cast.DeclRefFunc, decl.Name)
	callExpr := b.exprs.NewCall(decl.ReturnType, callee, argExprs)

	b.ef.memoize(instr.ID, callExpr)
	if instr.Uses >= 1 && b.toSerialize[instr.ID] {
		return b.declareVar(instr, callExpr), true
	}
	return b.stmts.NewExprStmt(callExpr), true
}

// buildReturn emits the translated return expression, or a bare return
// when the instruction carries no value.
func (b *Builder) buildReturn(instr *irtype.Instr) cast.StmtID {
	if !instr.Ret.HasValue {
		return b.stmts.NewReturn(cast.NoExprID)
	}
	value := b.ef.asRValue(b.ef.ParenExprFor(instr.Ret.Value))
	return b.stmts.NewReturn(value)
}

// buildUnreachable emits a call to the free-standing abort() declaration.
func (b *Builder) buildUnreachable() cast.StmtID {
	decl := b.model.MustAbort()
	callee := b.exprs.NewDeclRef(decl.ReturnType, cast.DeclRefFunc, decl.Name)
	callExpr := b.exprs.NewCall(decl.ReturnType, callee, nil)
	return b.stmts.NewExprStmt(callExpr)
}
