package dla

// NodeID is the dense, creation-order identifier of a graph node (§3, D).
// Immutable once assigned; removal never reassigns or reuses ids.
type NodeID uint64

// UseHandle names one IR use-site that observed a node's layout: the
// instruction doing the access, together with which operand of it. Kept as
// a small comparable struct so it can live directly as a map key in a
// node's Accesses set.
type UseHandle struct {
	Instr int32
	Slot  int32
}

// Edge is a non-owning reference to a neighboring node via an interned tag
// handle.
type Edge struct {
	Neighbor NodeID
	Tag      TagHandle
}

// edgeLess orders edges by (neighbor id, tag handle), the ordering §4.4
// requires for deterministic iteration.
func edgeLess(a, b Edge) bool {
	if a.Neighbor != b.Neighbor {
		return a.Neighbor < b.Neighbor
	}
	return a.Tag < b.Tag
}

// Node is one layout-type graph node: an inferred type, its observed
// use-sites, its byte size if known, and its ordered successor/predecessor
// edge sets (§3, D).
type Node struct {
	ID           NodeID
	Accesses     map[UseHandle]struct{}
	Size         uint64
	Successors   []Edge
	Predecessors []Edge
}

func newNode(id NodeID) *Node {
	return &Node{ID: id, Accesses: make(map[UseHandle]struct{})}
}

// HasLayout reports whether n carries any concrete layout evidence: a known
// size or at least one observed access. Supplements §4.5's leaf-layout
// check with the free predicate the original exposes for use by upstream
// normalization passes (§10).
func (n *Node) HasLayout() bool {
	return n.Size != 0 || len(n.Accesses) > 0
}

// IsLeaf reports whether n has no outgoing edges.
func (n *Node) IsLeaf() bool {
	return len(n.Successors) == 0
}

// IsRoot reports whether n has no incoming edges.
func (n *Node) IsRoot() bool {
	return len(n.Predecessors) == 0
}

func (n *Node) String() string {
	return nodeLabel(n)
}
