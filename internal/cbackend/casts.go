package cbackend

import (
	"cdecomp/internal/cast"
	"cdecomp/internal/cdecl"
	"cdecomp/internal/fault"
	"cdecomp/internal/irtype"
)

// buildCast synthesizes a cast instruction's result expression by
// delegating the destination type choice to applyCastKind.
func (ef *ExprFactory) buildCast(instr *irtype.Instr) cast.ExprID {
	operand := ef.ParenExprFor(instr.Cast.Value)
	return ef.applyCastKindTo(instr.Cast.Kind, operand, instr.Cast.Value.Type, instr.Cast.DestType)
}

// applyCastKind is the constant-expression entry point: a constant
// expression carries no declared destination type of its own, and none of
// the six integer-reinterpretation kinds need one here — operand already
// holds the recursively translated inner value, so every kind just passes
// it through unchanged (§4.7 point 3).
func (ef *ExprFactory) applyCastKind(kind irtype.CastKind, operand cast.ExprID, srcType irtype.Type) cast.ExprID {
	switch kind {
	case irtype.CastTrunc, irtype.CastZExt, irtype.CastSExt,
		irtype.CastIntToPtr, irtype.CastPtrToInt, irtype.CastBitCast:
		return operand
	default:
		fault.Raise(fault.SubsystemASTBuilder, "cast kind %s is not legal in a constant expression", kind)
		panic("unreachable")
	}
}

// applyCastKindTo is the instruction-site entry point, where a declared
// destType is available. It implements the derived typing rule for each
// CastKind (§9):
//
//   - Trunc/ZExt: destType translates directly to an unsigned integer of
//     the destination width.
//   - SExt: the operand is first reinterpreted as signed at its own
//     (narrower) width, then cast to the signed destination width, then
//     cast back to the unsigned destination type §4.6 always reports —
//     sign sign-extension needs a signed source to extend from.
//   - IntToPtr: the result always lands on uintptr_t, never on destType's
//     nominal pointer type. The real pointer reinterpretation happens at
//     whichever Load/Store/Call consumes the value, at its own access
//     type (§8 scenario 4).
//   - PtrToInt: destType translates directly; the pointer operand needs no
//     intermediate step since a pointer value converts straight to an
//     integer in C.
//   - BitCast: both the operand's declared type and destType must be
//     pointer kinds; anything else is a fault (§8 property 10).
func (ef *ExprFactory) applyCastKindTo(kind irtype.CastKind, operand cast.ExprID, srcType, destType irtype.Type) cast.ExprID {
	switch kind {
	case irtype.CastTrunc, irtype.CastZExt:
		return ef.exprs.NewCast(QualTypeFor(destType), operand)

	case irtype.CastSExt:
		signedSrc := ef.exprs.NewCast(cdecl.SignedInt(srcType.IntWidth), operand)
		parenSrc := ef.exprs.NewParen(signedSrc)
		signedDest := ef.exprs.NewCast(cdecl.SignedInt(destType.IntWidth), parenSrc)
		parenDest := ef.exprs.NewParen(signedDest)
		return ef.exprs.NewCast(QualTypeFor(destType), parenDest)

	case irtype.CastIntToPtr:
		return ef.castIntToPtr(operand)

	case irtype.CastPtrToInt:
		return ef.exprs.NewCast(QualTypeFor(destType), operand)

	case irtype.CastBitCast:
		if !srcType.IsPointer() || !destType.IsPointer() {
			fault.Raise(fault.SubsystemASTBuilder, "bitcast requires both operand and destination to be pointer types")
		}
		return ef.exprs.NewCast(QualTypeFor(destType), operand)

	default:
		fault.Raise(fault.SubsystemASTBuilder, "unsupported cast kind %s", kind)
		panic("unreachable")
	}
}

func (ef *ExprFactory) castIntToPtr(operand cast.ExprID) cast.ExprID {
	return ef.exprs.NewCast(cdecl.UIntPtrT(ef.dl.PointerBits), operand)
}

// buildAddressExpr turns an address operand plus its access type into the
// lvalue that a Load reads from or a Store writes to (§4.7 point 7).
// A global address is the lvalue as-is: the reference itself already
// names storage of the right type. Any other address is reinterpreted as
// a pointer to accessType and dereferenced; an address narrower than a
// pointer is widened to uintptr_t first so the intermediate cast is
// always pointer-from-pointer-sized-integer. A null-constant address gets
// a volatile-qualified pointee, to block the compiler from assuming the
// load/store is unreachable.
func (ef *ExprFactory) buildAddressExpr(addr irtype.Operand, accessType cdecl.CType) cast.ExprID {
	if addr.Kind == irtype.OperandGlobal {
		return ef.ExprFor(addr)
	}

	addrExpr := ef.ParenExprFor(addr)

	if addr.Kind == irtype.OperandConstNullPointer {
		ptrType := cdecl.VolatilePointerTo(accessType)
		castExpr := ef.exprs.NewCast(ptrType, addrExpr)
		return ef.exprs.NewUnary(accessType, cast.UnaryDeref, castExpr)
	}

	if addr.Type.IsInt() && addr.Type.IntWidth < ef.dl.PointerBits {
		addrExpr = ef.exprs.NewCast(cdecl.UIntPtrT(ef.dl.PointerBits), addrExpr)
		addrExpr = ef.exprs.NewParen(addrExpr)
	}

	ptrType := cdecl.PointerTo(accessType)
	castExpr := ef.exprs.NewCast(ptrType, addrExpr)
	return ef.exprs.NewUnary(accessType, cast.UnaryDeref, castExpr)
}
