package cbackend

import (
	"fortio.org/safecast"

	"cdecomp/internal/cast"
	"cdecomp/internal/cdecl"
	"cdecomp/internal/fault"
)

// buildAllocaDeclare synthesizes a static alloca's declaration statement
// and the address expression every later reference to the alloca's result
// resolves to (§4.8 point 2).
//
// The declared local is a char array whose element count equals the
// alloca's SizeBits (sic — §9 preserves the unit verbatim rather than
// dividing by 8). The address expression is the explicit "&name[0]" form
// rather than a bare array-name decl-ref, since that is the literal shape
// the documented scenarios compose against at each consuming Load/Store.
func buildAllocaDeclare(ef *ExprFactory, stmts *cast.Stmts, name string, sizeBits uint64) (cast.StmtID, cast.ExprID) {
	elemCount, err := safecast.Conv[uint32](sizeBits)
	if err != nil {
		fault.Raise(fault.SubsystemASTBuilder, "alloca size %d bits overflows an element count: %v", sizeBits, err)
	}

	elemType := cdecl.UnsignedInt(8)
	arrayRef := ef.exprs.NewDeclRef(elemType, cast.DeclRefLocal, name)
	zeroIndex := ef.exprs.NewLiteral(cdecl.UnsignedInt(32), 0)
	indexExpr := ef.exprs.NewIndex(elemType, arrayRef, zeroIndex)
	addrExpr := ef.exprs.NewUnary(cdecl.PointerTo(elemType), cast.UnaryAddr, indexExpr)

	declStmt := stmts.NewDeclare(name, elemCount, cast.NoExprID)
	return declStmt, addrExpr
}
