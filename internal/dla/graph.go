package dla

import (
	"slices"
	"sort"

	"cdecomp/internal/fault"
	"cdecomp/internal/irtype"
)

// Graph owns the layout-type nodes for one analyzed binary. It is
// single-owner during the DLA normalization phase (mutating operations
// only run then) and is effectively immutable and freely shareable
// afterwards, per §5.
//
// Nodes live in an arena indexed by dense NodeID; removal tombstones rather
// than compacts, mirroring the teacher's present-bitmap convention so ids
// stay stable for the lifetime of the graph.
type Graph struct {
	nodes   []*Node
	present []bool

	keyToNode map[Key]NodeID
	nodeKeys  map[NodeID]map[Key]struct{}

	tags *tagInterner
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		keyToNode: make(map[Key]NodeID),
		nodeKeys:  make(map[NodeID]map[Key]struct{}),
		tags:      newTagInterner(),
	}
}

// GetOrCreate returns the unique node for key, creating it with a fresh id
// if absent. Re-entry with the same key always returns the same node.
func (g *Graph) GetOrCreate(key Key) (*Node, bool) {
	if nid, ok := g.keyToNode[key]; ok {
		return g.nodes[nid], false
	}
	id := NodeID(len(g.nodes))
	n := newNode(id)
	g.nodes = append(g.nodes, n)
	g.present = append(g.present, true)
	g.keyToNode[key] = id
	g.nodeKeys[id] = map[Key]struct{}{key: {}}
	return n, true
}

// Get looks up the node for key without creating one.
func (g *Graph) Get(key Key) (*Node, bool) {
	nid, ok := g.keyToNode[key]
	if !ok {
		return nil, false
	}
	return g.nodes[nid], true
}

// TypesOfValue returns every node whose key's IR handle equals v, sorted by
// node id for determinism. A function returning an aggregate has one
// result node per tuple-field index; all of them carry v as their key's
// Value and are returned together.
func (g *Graph) TypesOfValue(v irtype.ValueID) []*Node {
	var out []*Node
	for k, nid := range g.keyToNode {
		if k.Value == v {
			out = append(out, g.nodes[nid])
		}
	}
	slices.SortFunc(out, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// KeysOf returns the set of keys currently resolving to n.
func (g *Graph) KeysOf(n *Node) []Key {
	keys := g.nodeKeys[n.ID]
	out := make([]Key, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// HasKeys reports whether any key currently resolves to n.
func (g *Graph) HasKeys(n *Node) bool {
	return len(g.nodeKeys[n.ID]) > 0
}

// AddEquality links a and b with an Equality tag in both directions,
// asserting the two insertions stayed in sync (§4.4). ok is false when the
// endpoints are null or identical, in which case the edge is silently
// dropped and wasNew is meaningless.
func (g *Graph) AddEquality(a, b *Node) (handle TagHandle, ok, wasNew bool) {
	if a == nil || b == nil || a.ID == b.ID {
		return 0, false, false
	}
	h1, new1 := g.addEdge(a, b, Equality())
	h2, new2 := g.addEdge(b, a, Equality())
	if h1 != h2 {
		fault.Raise(fault.SubsystemDLA, "equality insertion desynchronized: %d vs %d", h1, h2)
	}
	if new1 != new2 {
		fault.Raise(fault.SubsystemDLA, "equality insertion desynchronized: new1=%v new2=%v", new1, new2)
	}
	return h1, true, new1
}

// AddInheritance links a -> b with an Inheritance tag. ok is false for null
// or self-referencing endpoints.
func (g *Graph) AddInheritance(a, b *Node) (handle TagHandle, ok, wasNew bool) {
	if a == nil || b == nil || a.ID == b.ID {
		return 0, false, false
	}
	h, isNew := g.addEdge(a, b, Inheritance())
	return h, true, isNew
}

// AddInstance links a -> b with an Instance(oe) tag. ok is false for null or
// self-referencing endpoints.
func (g *Graph) AddInstance(a, b *Node, oe OffsetExpr) (handle TagHandle, ok, wasNew bool) {
	if a == nil || b == nil || a.ID == b.ID {
		return 0, false, false
	}
	h, isNew := g.addEdge(a, b, Instance(oe))
	return h, true, isNew
}

// addEdge is the single internal edge-insertion primitive: it is the only
// place that mutates a node's Successors/Predecessors, which is what keeps
// invariant 1 (mirroring) true by construction rather than by convention.
func (g *Graph) addEdge(from, to *Node, tag LinkTag) (TagHandle, bool) {
	handle, _ := g.tags.Intern(tag)
	fwd := Edge{Neighbor: to.ID, Tag: handle}
	if containsEdge(from.Successors, fwd) {
		return handle, false
	}
	from.Successors = insertEdgeSorted(from.Successors, fwd)
	to.Predecessors = insertEdgeSorted(to.Predecessors, Edge{Neighbor: from.ID, Tag: handle})
	return handle, true
}

func containsEdge(edges []Edge, e Edge) bool {
	_, found := sort.Find(len(edges), func(i int) int {
		if edgeLess(edges[i], e) {
			return 1
		}
		if edgeLess(e, edges[i]) {
			return -1
		}
		return 0
	})
	return found
}

func insertEdgeSorted(edges []Edge, e Edge) []Edge {
	idx, found := sort.Find(len(edges), func(i int) int {
		if edgeLess(edges[i], e) {
			return 1
		}
		if edgeLess(e, edges[i]) {
			return -1
		}
		return 0
	})
	if found {
		return edges
	}
	edges = append(edges, Edge{})
	copy(edges[idx+1:], edges[idx:])
	edges[idx] = e
	return edges
}

func removeEdgeFrom(edges []Edge, e Edge) []Edge {
	out := edges[:0]
	for _, cur := range edges {
		if cur != e {
			out = append(out, cur)
		}
	}
	return out
}

// Merge reassigns every key owned by from to into, transplants from's
// edges onto into (rewriting endpoints, dropping self-loops and
// duplicates, preserving tag identity via the shared interner), unions
// accesses, takes the larger size, then removes from. Any tag handle held
// by a caller for an edge that touched from may be invalidated (§4.4).
func (g *Graph) Merge(from, into *Node) {
	if from.ID == into.ID {
		return
	}

	for k := range g.nodeKeys[from.ID] {
		g.keyToNode[k] = into.ID
		if g.nodeKeys[into.ID] == nil {
			g.nodeKeys[into.ID] = make(map[Key]struct{})
		}
		g.nodeKeys[into.ID][k] = struct{}{}
	}
	delete(g.nodeKeys, from.ID)

	for u := range from.Accesses {
		into.Accesses[u] = struct{}{}
	}
	if from.Size > into.Size {
		into.Size = from.Size
	}

	for _, e := range from.Successors {
		if e.Neighbor == into.ID || e.Neighbor == from.ID {
			continue
		}
		neighbor := g.nodes[e.Neighbor]
		g.addEdge(into, neighbor, g.tags.Lookup(e.Tag))
	}
	for _, e := range from.Predecessors {
		if e.Neighbor == into.ID || e.Neighbor == from.ID {
			continue
		}
		neighbor := g.nodes[e.Neighbor]
		g.addEdge(neighbor, into, g.tags.Lookup(e.Tag))
	}

	g.remove(from)
}

// MergeAll generalizes Merge over a set of nodes, choosing the node with
// the smallest id as the deterministic representative.
func (g *Graph) MergeAll(nodes []*Node) *Node {
	if len(nodes) == 0 {
		return nil
	}
	rep := nodes[0]
	for _, n := range nodes[1:] {
		if n.ID < rep.ID {
			rep = n
		}
	}
	for _, n := range nodes {
		if n.ID == rep.ID {
			continue
		}
		g.Merge(n, rep)
	}
	return rep
}

// Remove removes n and all incident edges; any keys that resolved to n are
// dropped (not reassigned).
func (g *Graph) Remove(n *Node) {
	delete(g.nodeKeys, n.ID)
	for k, nid := range g.keyToNode {
		if nid == n.ID {
			delete(g.keyToNode, k)
		}
	}
	g.remove(n)
}

// remove strips n's incident edges from its neighbors and tombstones n,
// without touching the key maps (callers that need key cleanup do it
// themselves: Merge has already reassigned them, Remove has already
// dropped them).
func (g *Graph) remove(n *Node) {
	for _, e := range n.Successors {
		neighbor := g.nodes[e.Neighbor]
		neighbor.Predecessors = removeEdgeFrom(neighbor.Predecessors, Edge{Neighbor: n.ID, Tag: e.Tag})
	}
	for _, e := range n.Predecessors {
		neighbor := g.nodes[e.Neighbor]
		neighbor.Successors = removeEdgeFrom(neighbor.Successors, Edge{Neighbor: n.ID, Tag: e.Tag})
	}
	n.Successors = nil
	n.Predecessors = nil
	g.present[n.ID] = false
}

// Nodes returns every live (non-removed) node, ordered by id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for i, n := range g.nodes {
		if g.present[i] {
			out = append(out, n)
		}
	}
	return out
}

// TagOf resolves a tag handle to its canonical LinkTag value.
func (g *Graph) TagOf(h TagHandle) LinkTag {
	return g.tags.Lookup(h)
}
