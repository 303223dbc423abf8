// Package cdecl is the Model layer §6 names: a read-only (from the core's
// perspective) registry of function declarations and global declarations,
// each with a name and a C-style qualified type. Population is a
// collaborator's job outside the core; this package only gives that
// registry a concrete Go shape and the qualified-type vocabulary
// internal/cbackend's type translator emits into.
package cdecl

import "fmt"

// CTypeKind discriminates the handful of C type shapes this core ever
// synthesizes: integers, pointers, and void (for functions without a return
// value). The char* fallback points to an 8-bit unsigned integer, not void.
type CTypeKind uint8

const (
	CTypeVoid CTypeKind = iota
	CTypeInt
	CTypePointer
)

// CType is a C-style qualified type: an integer of a given width and
// signedness, a pointer to another CType (optionally volatile-qualified),
// or void.
type CType struct {
	Kind CTypeKind

	// Valid when Kind == CTypeInt.
	IntWidth uint32
	Signed   bool
	// UIntPtr marks an integer as the pointer-sized uintptr_t type used to
	// carry address bits through an IntToPtr/PtrToInt conversion pair; its
	// width is the target's pointer width.
	UIntPtr bool

	// Valid when Kind == CTypePointer.
	Pointee         *CType
	PointeeVolatile bool
}

// Void is the C void type.
func Void() CType { return CType{Kind: CTypeVoid} }

// UnsignedInt builds an unsigned integer type of the given bit width.
// Integer translation defaults to unsigned per §4.6; signedness is layered
// on only when a cast demands it, via Signed.
func UnsignedInt(width uint32) CType {
	return CType{Kind: CTypeInt, IntWidth: width}
}

// SignedInt builds a signed integer type of the given bit width.
func SignedInt(width uint32) CType {
	return CType{Kind: CTypeInt, IntWidth: width, Signed: true}
}

// UIntPtrT builds the pointer-sized uintptr_t type. An IntToPtr cast
// lands here rather than at a concrete pointer type: the IR's "pointer"
// result is just address bits until a consumer (a load/store address, a
// call argument) reinterprets it at its own access type (§9).
func UIntPtrT(width uint32) CType {
	return CType{Kind: CTypeInt, IntWidth: width, UIntPtr: true}
}

// AsSigned returns a copy of t with Signed set, valid only for integer types.
func (t CType) AsSigned() CType {
	t.Signed = true
	return t
}

// AsUnsigned returns a copy of t with Signed cleared.
func (t CType) AsUnsigned() CType {
	t.Signed = false
	return t
}

// PointerTo builds a pointer type to pointee.
func PointerTo(pointee CType) CType {
	return CType{Kind: CTypePointer, Pointee: &pointee}
}

// VolatilePointerTo builds a pointer-to-volatile-pointee type, used when a
// load's address is a null constant and the pointee is marked volatile to
// suppress optimization assumptions (§4.7 point 7).
func VolatilePointerTo(pointee CType) CType {
	return CType{Kind: CTypePointer, Pointee: &pointee, PointeeVolatile: true}
}

// CharPointer is the pointer-to-char fallback used when a pointee type is
// unknown or opaque (§4.6).
func CharPointer() CType {
	return PointerTo(UnsignedInt(8))
}

// Equal reports structural equality between two qualified types.
func (t CType) Equal(other CType) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case CTypeInt:
		return t.IntWidth == other.IntWidth && t.Signed == other.Signed && t.UIntPtr == other.UIntPtr
	case CTypePointer:
		if t.PointeeVolatile != other.PointeeVolatile {
			return false
		}
		if t.Pointee == nil || other.Pointee == nil {
			return t.Pointee == other.Pointee
		}
		return t.Pointee.Equal(*other.Pointee)
	default:
		return true
	}
}

func (t CType) String() string {
	switch t.Kind {
	case CTypeVoid:
		return "void"
	case CTypeInt:
		if t.UIntPtr {
			return "uintptr_t"
		}
		name := cIntTypeName(t.IntWidth)
		if t.Signed {
			return name
		}
		return "u" + name
	case CTypePointer:
		qual := ""
		if t.PointeeVolatile {
			qual = "volatile "
		}
		if t.Pointee == nil {
			return fmt.Sprintf("%s*", qual)
		}
		return fmt.Sprintf("%s%s*", qual, t.Pointee.String())
	default:
		return "?"
	}
}

// cIntTypeName names the smallest C integer type whose bit width equals w,
// falling back to an explicit uint128 for 128-bit values (§4.6).
func cIntTypeName(w uint32) string {
	switch w {
	case 8:
		return "int8_t"
	case 16:
		return "int16_t"
	case 32:
		return "int32_t"
	case 64:
		return "int64_t"
	case 128:
		return "int128_t"
	default:
		return fmt.Sprintf("int%d_t", w)
	}
}
