package dla

import "sort"

// NormalizeEqualities collapses every equality-connected component of
// nodes into a single node via MergeAll, so that afterward NoEquality
// holds (§8 invariant 4): once two nodes are merged, a direct Equality
// edge between them becomes a self-loop, which Merge drops on sight.
func (g *Graph) NormalizeEqualities() {
	components := g.equalityComponents()
	for _, comp := range components {
		if len(comp) > 1 {
			g.MergeAll(comp)
		}
	}
}

// equalityComponents partitions the live nodes into connected components
// under the Equality relation, using union-find for determinism and
// near-linear cost in node/edge count.
func (g *Graph) equalityComponents() [][]*Node {
	parent := make(map[NodeID]NodeID, len(g.nodes))
	var find func(NodeID) NodeID
	find = func(x NodeID) NodeID {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b NodeID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			// Deterministic: the smaller id becomes the root.
			if ra < rb {
				parent[rb] = ra
			} else {
				parent[ra] = rb
			}
		}
	}

	for i, n := range g.nodes {
		if g.present[i] {
			parent[n.ID] = n.ID
		}
	}
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		for _, e := range g.filteredSuccessors(n, FilterEquality) {
			union(n.ID, e.Neighbor)
		}
	}

	byRoot := make(map[NodeID][]*Node)
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		root := find(n.ID)
		byRoot[root] = append(byRoot[root], n)
	}

	roots := make([]NodeID, 0, len(byRoot))
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	out := make([][]*Node, 0, len(roots))
	for _, r := range roots {
		group := byRoot[r]
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		out = append(out, group)
	}
	return out
}

// NormalizeInheritance resolves multiple-inheritance conflicts so that
// InheritanceTree holds afterward (§8 invariant 5). Where a node has more
// than one inheritance predecessor, this keeps the edge from the
// predecessor with the smallest NodeID and drops the others — a
// deterministic tie-break, not a semantic judgment about which parent is
// "correct" (the spec leaves the resolution policy unspecified).
func (g *Graph) NormalizeInheritance() {
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		preds := g.filteredPredecessors(n, FilterInheritance)
		if len(preds) <= 1 {
			continue
		}
		sort.Slice(preds, func(a, b int) bool { return preds[a].Neighbor < preds[b].Neighbor })
		for _, e := range preds[1:] {
			parent := g.nodes[e.Neighbor]
			parent.Successors = removeEdgeFrom(parent.Successors, Edge{Neighbor: n.ID, Tag: e.Tag})
			n.Predecessors = removeEdgeFrom(n.Predecessors, e)
		}
	}
}
