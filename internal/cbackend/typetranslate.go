// Package cbackend is the IR-to-AST translation layer: type translation
// (F), the expression factory (G), and the statement builder (H) that
// together turn one function's IR into the cast package's node tree.
package cbackend

import (
	"cdecomp/internal/cdecl"
	"cdecomp/internal/fault"
	"cdecomp/internal/irtype"
)

// QualTypeFor translates an IR type into a C-style qualified type (§4.6).
// It is a pure function: no access to the graph or the AST, and no
// side effects on either.
func QualTypeFor(t irtype.Type) cdecl.CType {
	switch t.Kind {
	case irtype.TypeInt:
		return cdecl.UnsignedInt(t.IntWidth)
	case irtype.TypePointer:
		if !t.PointeeKnown || t.Pointee == nil {
			return cdecl.CharPointer()
		}
		return cdecl.PointerTo(QualTypeFor(*t.Pointee))
	default:
		fault.Raise(fault.SubsystemASTBuilder, "unsupported IR type kind %d reached type translation", t.Kind)
		panic("unreachable")
	}
}

// QualTypesForAggregate translates each tuple index of a function's
// aggregate return independently (§4.6's "aggregate return... independent
// translation per tuple index").
func QualTypesForAggregate(returnTypes []irtype.Type) []cdecl.CType {
	out := make([]cdecl.CType, len(returnTypes))
	for i, t := range returnTypes {
		out[i] = QualTypeFor(t)
	}
	return out
}
