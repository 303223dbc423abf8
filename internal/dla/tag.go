package dla

import (
	"cmp"
	"fmt"

	"cdecomp/internal/fault"
)

// TagKind discriminates the three edge relations the DLA graph encodes.
type TagKind uint8

const (
	TagEquality TagKind = iota
	TagInheritance
	TagInstance
)

func (k TagKind) String() string {
	switch k {
	case TagEquality:
		return "equality"
	case TagInheritance:
		return "inheritance"
	case TagInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// LinkTag is a tagged edge label: Equality, Inheritance, or
// Instance(OffsetExpression). Ordered first by kind, then by offset
// expression (§3, C).
type LinkTag struct {
	Kind   TagKind
	Offset OffsetExpr // valid only when Kind == TagInstance
}

// Equality returns the Equality tag variant.
func Equality() LinkTag { return LinkTag{Kind: TagEquality} }

// Inheritance returns the Inheritance tag variant.
func Inheritance() LinkTag { return LinkTag{Kind: TagInheritance} }

// Instance returns the Instance(oe) tag variant.
func Instance(oe OffsetExpr) LinkTag { return LinkTag{Kind: TagInstance, Offset: oe} }

// OffsetExpression returns the offset expression of an Instance tag.
// Querying it on an Equality or Inheritance tag is a precondition
// violation: callers must check Kind first.
func (t LinkTag) OffsetExpression() OffsetExpr {
	if t.Kind != TagInstance {
		fault.Raise(fault.SubsystemDLA, "offset_expression queried on a non-Instance tag (kind=%s)", t.Kind)
	}
	return t.Offset
}

// Compare orders tags first by kind, then by offset expression.
func (t LinkTag) Compare(other LinkTag) int {
	if c := cmp.Compare(t.Kind, other.Kind); c != 0 {
		return c
	}
	if t.Kind != TagInstance {
		return 0
	}
	return t.Offset.Compare(other.Offset)
}

func (t LinkTag) String() string {
	if t.Kind != TagInstance {
		return t.Kind.String()
	}
	return fmt.Sprintf("instance(%s)", t.Offset)
}

// TagHandle is a stable, dense index into a tag interner's arena. It is
// never a pointer: the interner's backing storage is an append-only slice,
// so a handle stays valid for the graph's lifetime regardless of
// reallocation (§9's re-architecture note on pointer-stable sets).
type TagHandle int32

// tagInterner deduplicates LinkTag values into a single arena, exactly as
// internal/types.Interner deduplicates Type values: a map from a comparable
// encoding of the value to its handle, plus an append-only slice holding
// the canonical values themselves.
type tagInterner struct {
	index map[string]TagHandle
	tags  []LinkTag
}

func newTagInterner() *tagInterner {
	return &tagInterner{index: make(map[string]TagHandle)}
}

// Intern returns the canonical handle for tag, creating a new arena entry
// only if an equal tag has not been seen before (§4.4's "duplicate inserts
// are no-ops and return the canonical handle").
func (in *tagInterner) Intern(tag LinkTag) (TagHandle, bool) {
	key := tagInternKey(tag)
	if h, ok := in.index[key]; ok {
		return h, false
	}
	h := TagHandle(len(in.tags))
	in.tags = append(in.tags, tag)
	in.index[key] = h
	return h, true
}

// Lookup returns the tag stored at handle h.
func (in *tagInterner) Lookup(h TagHandle) LinkTag {
	return in.tags[h]
}

// tagInternKey builds a comparable map key for a LinkTag. OffsetExpr holds
// slices, which are not comparable in Go, so the kind/offset/strides/trip
// counts are flattened into a string rather than used as a struct key
// directly.
func tagInternKey(t LinkTag) string {
	if t.Kind != TagInstance {
		return t.Kind.String()
	}
	return fmt.Sprintf("instance:%s", t.Offset)
}
