package dla

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// OffsetExpr is a symbolic affine address description: Offset plus a sum of
// Strides[i]*k_i terms, each k_i ranging over [0, TripCounts[i]) when a trip
// count is present, or unbounded when absent (§3, B).
//
// Equality is structural, not set-equality: two decompositions denoting the
// same reachable offsets but ordered or grouped differently compare
// unequal. Callers that need semantic equivalence must canonicalize before
// insertion (§9).
type OffsetExpr struct {
	Offset     int64
	Strides    []int64
	TripCounts []*int64 // nil element means an open (unbounded) dimension
}

// NewOffsetExpr constructs a zero-dimension offset expression at the given
// base offset.
func NewOffsetExpr(offset int64) OffsetExpr {
	return OffsetExpr{Offset: offset}
}

// WithDimension returns a copy of oe with an additional (stride, tripCount)
// dimension appended. A nil tripCount denotes an open dimension.
func (oe OffsetExpr) WithDimension(stride int64, tripCount *int64) OffsetExpr {
	next := OffsetExpr{
		Offset:     oe.Offset,
		Strides:    append(slices.Clone(oe.Strides), stride),
		TripCounts: append(slices.Clone(oe.TripCounts), tripCount),
	}
	return next
}

// Compare orders offset expressions lexicographically by (Offset, Strides,
// TripCounts), per §3's ordering rule.
func (oe OffsetExpr) Compare(other OffsetExpr) int {
	if c := cmp.Compare(oe.Offset, other.Offset); c != 0 {
		return c
	}
	if c := compareInt64Slices(oe.Strides, other.Strides); c != 0 {
		return c
	}
	return compareTripCounts(oe.TripCounts, other.TripCounts)
}

// Equal reports structural equality, per the documented semantics in §4.2:
// same decomposition, not merely the same reachable-offset set.
func (oe OffsetExpr) Equal(other OffsetExpr) bool {
	return oe.Compare(other) == 0
}

func compareInt64Slices(a, b []int64) int {
	n := min(len(a), len(b))
	for i := range n {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareTripCounts(a, b []*int64) int {
	n := min(len(a), len(b))
	for i := range n {
		c := compareOptionalInt64(a[i], b[i])
		if c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// compareOptionalInt64 treats nil (open/unbounded) as sorting before any
// concrete value.
func compareOptionalInt64(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

func (oe OffsetExpr) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", oe.Offset)
	for i, stride := range oe.Strides {
		sb.WriteString(" + ")
		fmt.Fprintf(&sb, "k%d*%d", i, stride)
		if tc := oe.TripCounts[i]; tc != nil {
			fmt.Fprintf(&sb, "[0,%d)", *tc)
		} else {
			sb.WriteString("[0,inf)")
		}
	}
	return sb.String()
}
