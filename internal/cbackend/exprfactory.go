package cbackend

import (
	"cdecomp/internal/cast"
	"cdecomp/internal/cdecl"
	"cdecomp/internal/fault"
	"cdecomp/internal/irtype"
)

// ExprFactory is the expression factory (G): it synthesizes an Expr for
// any IR operand, memoizing per-instruction results so repeated requests
// return the same node (§8 property 9) and so an instruction that already
// has a named variable is always referenced rather than re-synthesized
// (§4.7 point 7).
type ExprFactory struct {
	exprs *cast.Exprs
	model *cdecl.Model
	fn    *irtype.Function
	decl  *cdecl.FuncDecl
	dl    irtype.DataLayout

	memo     map[irtype.ValueID]cast.ExprID
	varNames map[irtype.ValueID]string
}

func newExprFactory(exprs *cast.Exprs, model *cdecl.Model, fn *irtype.Function, decl *cdecl.FuncDecl, dl irtype.DataLayout) *ExprFactory {
	return &ExprFactory{
		exprs:    exprs,
		model:    model,
		fn:       fn,
		decl:     decl,
		dl:       dl,
		memo:     make(map[irtype.ValueID]cast.ExprID),
		varNames: make(map[irtype.ValueID]string),
	}
}

// bindVar records that instr now has a dedicated named variable, so every
// future reference to it returns a decl-ref instead of re-synthesizing.
func (ef *ExprFactory) bindVar(id irtype.ValueID, name string) {
	ef.varNames[id] = name
}

// memoize records expr as the canonical synthesis result for id.
func (ef *ExprFactory) memoize(id irtype.ValueID, expr cast.ExprID) {
	ef.memo[id] = expr
}

// ExprFor synthesizes (or retrieves the memoized/declared) expression for
// an IR operand, dispatching by category per §4.7 points 1-7.
func (ef *ExprFactory) ExprFor(op irtype.Operand) cast.ExprID {
	switch op.Kind {
	case irtype.OperandConstInt:
		return ef.exprs.NewLiteral(QualTypeFor(op.Type), op.ConstIntBits)

	case irtype.OperandConstNullPointer:
		return ef.exprs.NewLiteral(cdecl.UIntPtrT(ef.dl.PointerBits), 0)

	case irtype.OperandConstExpr:
		if op.ConstExprInner == nil {
			fault.Raise(fault.SubsystemASTBuilder, "constant expression with nil inner operand")
		}
		return ef.buildConstCast(op.ConstExprCast, *op.ConstExprInner)

	case irtype.OperandFunc:
		if op.Func == nil {
			fault.Raise(fault.SubsystemASTBuilder, "function operand with nil function handle")
		}
		decl, ok := ef.model.FuncByName(cdecl.SanitizeIdent(op.Func.Name))
		if !ok {
			fault.Raise(fault.SubsystemASTBuilder, "function %q has no declaration in the model", op.Func.Name)
		}
		return ef.exprs.NewDeclRef(decl.ReturnType, cast.DeclRefFunc, decl.Name)

	case irtype.OperandGlobal:
		if op.Global == nil {
			fault.Raise(fault.SubsystemASTBuilder, "global operand with nil global handle")
		}
		decl, ok := ef.model.GlobalByName(cdecl.SanitizeIdent(op.Global.Name))
		if !ok {
			fault.Raise(fault.SubsystemASTBuilder, "global %q has no declaration in the model", op.Global.Name)
		}
		return ef.exprs.NewDeclRef(decl.Type, cast.DeclRefGlobal, decl.Name)

	case irtype.OperandArg:
		if op.ArgIndex < 0 || op.ArgIndex >= len(ef.fn.Params) || op.ArgIndex >= len(ef.decl.Params) {
			fault.Raise(fault.SubsystemASTBuilder, "argument index %d out of range for function %q", op.ArgIndex, ef.fn.Name)
		}
		param := ef.decl.Params[op.ArgIndex]
		return ef.exprs.NewDeclRef(param.Type, cast.DeclRefParam, param.Name)

	case irtype.OperandInstr:
		return ef.exprForInstrRef(op.InstrID)

	default:
		fault.Raise(fault.SubsystemASTBuilder, "unsupported operand kind %d", op.Kind)
		panic("unreachable")
	}
}

// ParenExprFor wraps the result of ExprFor in an explicit parenthesis node
// when it is a binary or conditional operator, to prevent precedence
// hazards at composition sites (§4.7).
func (ef *ExprFactory) ParenExprFor(op irtype.Operand) cast.ExprID {
	id := ef.ExprFor(op)
	return ef.parenIfNeeded(id)
}

func (ef *ExprFactory) parenIfNeeded(id cast.ExprID) cast.ExprID {
	expr := ef.exprs.Get(id)
	if expr == nil {
		return id
	}
	switch expr.Kind {
	case cast.ExprBinary, cast.ExprConditional:
		return ef.exprs.NewParen(id)
	default:
		return id
	}
}

// asRValue wraps an lvalue expression in the implicit lvalue-to-rvalue
// conversion §4.8 requires before a binary operand fetch. DeclRef and
// dereference nodes are the only lvalues this core ever synthesizes.
func (ef *ExprFactory) asRValue(id cast.ExprID) cast.ExprID {
	expr := ef.exprs.Get(id)
	if expr == nil {
		return id
	}
	if !ef.isLValue(id) {
		return id
	}
	return ef.exprs.NewUnary(expr.Type, cast.UnaryLValueToRValue, id)
}

func (ef *ExprFactory) isLValue(id cast.ExprID) bool {
	expr := ef.exprs.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case cast.ExprDeclRef:
		return true
	case cast.ExprUnary:
		unary, _ := ef.exprs.Unary(id)
		return unary.Op == cast.UnaryDeref
	case cast.ExprParen:
		paren, _ := ef.exprs.Paren(id)
		return ef.isLValue(paren.Inner)
	default:
		return false
	}
}

// exprForInstrRef resolves a reference to instruction id: a bound
// variable, a memoized expression, or — only reachable the first time an
// instruction's own Load/Store/Cast synthesis calls back into itself —
// inline synthesis.
func (ef *ExprFactory) exprForInstrRef(id irtype.ValueID) cast.ExprID {
	if name, ok := ef.varNames[id]; ok {
		instr := ef.fn.InstrByID(id)
		t := cdecl.Void()
		if instr != nil {
			t = QualTypeFor(instr.Type)
		}
		return ef.exprs.NewDeclRef(t, cast.DeclRefLocal, name)
	}
	if expr, ok := ef.memo[id]; ok {
		return expr
	}

	instr := ef.fn.InstrByID(id)
	if instr == nil {
		fault.Raise(fault.SubsystemASTBuilder, "reference to unknown instruction id %d", id)
	}

	var expr cast.ExprID
	switch instr.Op {
	case irtype.OpLoad:
		expr = ef.buildAddressExpr(instr.Load.Addr, QualTypeFor(instr.Load.AccessType))
	case irtype.OpCast:
		expr = ef.buildCast(instr)
	default:
		fault.Raise(fault.SubsystemASTBuilder, "instruction %d (%s) referenced before its value was synthesized", id, instr.Op)
		panic("unreachable")
	}
	ef.memoize(id, expr)
	return expr
}

// buildConstCast translates a constant-expression cast (§4.7 point 3):
// only the integer-reinterpretation casts are legal here.
func (ef *ExprFactory) buildConstCast(kind irtype.CastKind, inner irtype.Operand) cast.ExprID {
	innerExpr := ef.ParenExprFor(inner)
	return ef.applyCastKind(kind, innerExpr, inner.Type)
}
