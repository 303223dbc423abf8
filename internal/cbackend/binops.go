package cbackend

import (
	"cdecomp/internal/cast"
	"cdecomp/internal/cdecl"
	"cdecomp/internal/irtype"
)

// buildBinary assembles a binary-operator instruction's result expression
// per §4.8's signedness-reconciliation table.
func (ef *ExprFactory) buildBinary(op irtype.BinOp, lhs, rhs irtype.Operand, resultType irtype.Type) cast.ExprID {
	lhsExpr := ef.asRValue(ef.ParenExprFor(lhs))
	rhsExpr := ef.asRValue(ef.ParenExprFor(rhs))
	outward := QualTypeFor(resultType)

	if !op.IsSignedForm() {
		return ef.exprs.NewBinary(outward, op.CSymbol(), lhsExpr, rhsExpr)
	}
	return ef.signedCoercedBinary(op.CSymbol(), lhsExpr, rhsExpr, lhs.Type, rhs.Type, outward)
}

// buildICmp assembles an integer-comparison instruction's result
// expression. The result is always the unsigned single-bit type
// regardless of predicate signedness: only the operands are coerced.
func (ef *ExprFactory) buildICmp(pred irtype.ICmpPred, lhs, rhs irtype.Operand) cast.ExprID {
	lhsExpr := ef.asRValue(ef.ParenExprFor(lhs))
	rhsExpr := ef.asRValue(ef.ParenExprFor(rhs))
	resultType := cdecl.UnsignedInt(1)

	if !pred.IsSigned() {
		return ef.exprs.NewBinary(resultType, pred.CSymbol(), lhsExpr, rhsExpr)
	}

	width := lhs.Type.IntWidth
	lhsSigned := ef.castOperand(lhsExpr, cdecl.SignedInt(width))
	rhsSigned := ef.castOperand(rhsExpr, cdecl.SignedInt(width))
	return ef.exprs.NewBinary(resultType, pred.CSymbol(), lhsSigned, rhsSigned)
}

// signedCoercedBinary builds "(SignedT)(LHS op RHS)", casting both
// operands to a signed type of the wider operand's width first (the
// §4.8 SDiv/SRem/AShr row), then wrapping the signed-domain result back
// in the outward unsigned type so the instruction's result stays typed
// per the IR's unsigned default. A shift count narrower than its left
// operand is left uncoerced, per the documented width-mismatch tolerance.
func (ef *ExprFactory) signedCoercedBinary(symbol string, lhsExpr, rhsExpr cast.ExprID, lhsType, rhsType irtype.Type, outward cdecl.CType) cast.ExprID {
	width := lhsType.IntWidth
	if rhsType.IntWidth > width {
		width = rhsType.IntWidth
	}
	signedT := cdecl.SignedInt(width)

	lhsSigned := ef.castOperand(lhsExpr, signedT)

	rhsSigned := rhsExpr
	if rhsType.IntWidth >= lhsType.IntWidth {
		rhsSigned = ef.castOperand(rhsExpr, signedT)
	}

	inner := ef.exprs.NewBinary(signedT, symbol, lhsSigned, rhsSigned)
	parenInner := ef.exprs.NewParen(inner)
	return ef.exprs.NewCast(outward, parenInner)
}

// castOperand wraps expr in a C-style cast to t, skipping the cast
// entirely when expr is already of type t (§8's "store whose RHS type
// equals LHS type: no cast inserted" boundary behavior, applied uniformly
// to every cast-insertion site in this package).
func (ef *ExprFactory) castOperand(expr cast.ExprID, t cdecl.CType) cast.ExprID {
	existing := ef.exprs.Get(expr)
	if existing != nil && existing.Type.Equal(t) {
		return expr
	}
	return ef.exprs.NewCast(t, ef.parenIfNeeded(expr))
}
