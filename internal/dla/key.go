// Package dla implements the Data-Layout Analysis type system: a directed
// multigraph whose nodes are abstract layout types and whose labeled edges
// encode equality, inheritance, and instance-at-offset relations between
// them. The graph is built from IR observations, normalized, then queried
// read-only by the statement builder in internal/cbackend.
package dla

import (
	"cmp"
	"fmt"

	"cdecomp/internal/fault"
	"cdecomp/internal/irtype"
)

// Key identifies a "typed slot": an IR value plus an optional tuple-field
// index, used when the value is a function returning an aggregate (§3, A).
type Key struct {
	Value    irtype.ValueID
	HasIndex bool
	Index    int
}

// NewKey constructs a scalar key for an IR value. v must be non-null; the
// caller must have already established that v is a function, integer, or
// pointer value, since that check depends on IR-level information this
// package does not own. Rejecting irtype.NoValueID (the null handle) is the
// only precondition this constructor itself enforces; ValueID 0 is valid.
func NewKey(v irtype.ValueID) Key {
	if v == irtype.NoValueID {
		fault.Raise(fault.SubsystemDLA, "layout key constructed from a null value handle")
	}
	return Key{Value: v}
}

// NewTupleKey constructs a key for field index idx of a function handle fn
// that returns an aggregate of arity elements. idx must be within range;
// an out-of-range index is a precondition violation, not an IR fact this
// package can recover from.
func NewTupleKey(fn irtype.ValueID, idx, arity int) Key {
	if fn == irtype.NoValueID {
		fault.Raise(fault.SubsystemDLA, "tuple layout key constructed from a null function handle")
	}
	if idx < 0 || idx >= arity {
		fault.Raise(fault.SubsystemDLA, "tuple field index %d out of range for arity %d", idx, arity)
	}
	return Key{Value: fn, HasIndex: true, Index: idx}
}

// Compare totally orders keys by (Value, HasIndex, Index).
func (k Key) Compare(other Key) int {
	if c := cmp.Compare(k.Value, other.Value); c != 0 {
		return c
	}
	if k.HasIndex != other.HasIndex {
		if !k.HasIndex {
			return -1
		}
		return 1
	}
	return cmp.Compare(k.Index, other.Index)
}

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool { return k.Compare(other) < 0 }

func (k Key) String() string {
	if !k.HasIndex {
		return fmt.Sprintf("v%d", k.Value)
	}
	return fmt.Sprintf("v%d.%d", k.Value, k.Index)
}
