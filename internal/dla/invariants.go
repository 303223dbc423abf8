package dla

// LinkKindFilter selects which edges an edge-filtered traversal visits.
// Exactly one of the four named filters below should be used by callers;
// providing this as a predicate over LinkTag (rather than four duplicated
// traversal functions) is what lets dag/inheritance_dag/instance_dag share
// one DFS and the inheritance-tree check reuse the same filter over
// predecessors (§4.5). The leaf-layout check does not filter edges.
type LinkKindFilter func(LinkTag) bool

// FilterAll admits every edge kind.
func FilterAll(LinkTag) bool { return true }

// FilterEquality admits only Equality edges.
func FilterEquality(t LinkTag) bool { return t.Kind == TagEquality }

// FilterInheritance admits only Inheritance edges.
func FilterInheritance(t LinkTag) bool { return t.Kind == TagInheritance }

// FilterInstance admits only Instance edges.
func FilterInstance(t LinkTag) bool { return t.Kind == TagInstance }

// filteredSuccessors returns n's successor edges whose tag passes filter.
func (g *Graph) filteredSuccessors(n *Node, filter LinkKindFilter) []Edge {
	var out []Edge
	for _, e := range n.Successors {
		if filter(g.TagOf(e.Tag)) {
			out = append(out, e)
		}
	}
	return out
}

// filteredPredecessors returns n's predecessor edges whose tag passes filter.
func (g *Graph) filteredPredecessors(n *Node, filter LinkKindFilter) []Edge {
	var out []Edge
	for _, e := range n.Predecessors {
		if filter(g.TagOf(e.Tag)) {
			out = append(out, e)
		}
	}
	return out
}

// Consistent checks invariants 1-4 of §3: mirrored edge sets, no
// self-loops, every key resolves to a live node, every live node has a
// nonempty key preimage.
func (g *Graph) Consistent() bool {
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		for _, e := range n.Successors {
			if e.Neighbor == n.ID {
				return false // invariant 2
			}
			neighbor := g.nodes[e.Neighbor]
			if !hasMirrorEdge(neighbor.Predecessors, Edge{Neighbor: n.ID, Tag: e.Tag}) {
				return false // invariant 1
			}
		}
		for _, e := range n.Predecessors {
			neighbor := g.nodes[e.Neighbor]
			if !hasMirrorEdge(neighbor.Successors, Edge{Neighbor: n.ID, Tag: e.Tag}) {
				return false // invariant 1
			}
		}
		if len(g.nodeKeys[n.ID]) == 0 {
			return false // invariant 4
		}
	}
	for _, nid := range g.keyToNode {
		if int(nid) >= len(g.present) || !g.present[nid] {
			return false // invariant 3
		}
	}
	return true
}

func hasMirrorEdge(edges []Edge, want Edge) bool {
	for _, e := range edges {
		if e == want {
			return true
		}
	}
	return false
}

type dfsColor uint8

const (
	colorWhite dfsColor = iota
	colorGray
	colorBlack
)

// acyclic runs a gray/black-colored DFS over the edges admitted by filter
// and reports whether the resulting subgraph is free of cycles.
func (g *Graph) acyclic(filter LinkKindFilter) bool {
	color := make(map[NodeID]dfsColor, len(g.nodes))

	var visit func(NodeID) bool
	visit = func(id NodeID) bool {
		switch color[id] {
		case colorGray:
			return false
		case colorBlack:
			return true
		}
		color[id] = colorGray
		for _, e := range g.filteredSuccessors(g.nodes[id], filter) {
			if !visit(e.Neighbor) {
				return false
			}
		}
		color[id] = colorBlack
		return true
	}

	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		if color[n.ID] == colorWhite && !visit(n.ID) {
			return false
		}
	}
	return true
}

// DAG reports whether the full graph is acyclic.
func (g *Graph) DAG() bool { return g.acyclic(FilterAll) }

// InheritanceDAG reports whether the inheritance-only subgraph is acyclic.
func (g *Graph) InheritanceDAG() bool { return g.acyclic(FilterInheritance) }

// InstanceDAG reports whether the instance-only subgraph is acyclic.
func (g *Graph) InstanceDAG() bool { return g.acyclic(FilterInstance) }

// InheritanceTree reports whether every node has at most one inheritance
// predecessor (the inheritance subgraph is a forest, §3 invariant 7).
func (g *Graph) InheritanceTree() bool {
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		if len(g.filteredPredecessors(n, FilterInheritance)) > 1 {
			return false
		}
	}
	return true
}

// LeafsHaveLayout reports whether every sink node (no outgoing edges) has
// nonempty Accesses (§3 invariant 5).
func (g *Graph) LeafsHaveLayout() bool {
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		if n.IsLeaf() && len(n.Accesses) == 0 {
			return false
		}
	}
	return true
}

// NoEquality reports whether any Equality edge survives (§3 invariant 6);
// true means normalization fully collapsed equalities.
func (g *Graph) NoEquality() bool {
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		if len(g.filteredSuccessors(n, FilterEquality)) > 0 {
			return false
		}
	}
	return true
}
