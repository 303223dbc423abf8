package dla

import (
	"fmt"
	"sort"
)

// SnapshotSchemaVersion is bumped whenever Snapshot's shape changes, so a
// cache built by an older build is rejected rather than misread.
const SnapshotSchemaVersion uint16 = 1

// NodeSnapshot is one graph node's on-disk shape. Present mirrors the
// graph's own tombstone bitmap: a false entry preserves the slot so every
// later node's dense id still lines up after Restore, without carrying any
// payload for it.
type NodeSnapshot struct {
	Present      bool
	Keys         []Key
	Accesses     []UseHandle
	Size         uint64
	Successors   []Edge
	Predecessors []Edge
}

// Snapshot is a frozen graph's serializable form (§5's "effectively
// immutable and may be shared freely" state, the only state this core ever
// persists across runs). Tags are stored in handle order so re-interning
// them on Restore reproduces identical handles.
type Snapshot struct {
	Schema uint16
	Nodes  []NodeSnapshot
	Tags   []LinkTag
}

// Snapshot captures g's current state. Intended to be called once g has
// left the DLA normalization phase and become read-only (§5); calling it
// mid-normalization is not unsafe, just pointless, since a later mutation
// would invalidate the snapshot's caller's cache key.
func (g *Graph) Snapshot() Snapshot {
	nodes := make([]NodeSnapshot, len(g.nodes))
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		ns := NodeSnapshot{
			Present:      true,
			Size:         n.Size,
			Successors:   append([]Edge(nil), n.Successors...),
			Predecessors: append([]Edge(nil), n.Predecessors...),
		}
		for u := range n.Accesses {
			ns.Accesses = append(ns.Accesses, u)
		}
		sort.Slice(ns.Accesses, func(a, b int) bool {
			if ns.Accesses[a].Instr != ns.Accesses[b].Instr {
				return ns.Accesses[a].Instr < ns.Accesses[b].Instr
			}
			return ns.Accesses[a].Slot < ns.Accesses[b].Slot
		})
		for k := range g.nodeKeys[n.ID] {
			ns.Keys = append(ns.Keys, k)
		}
		sort.Slice(ns.Keys, func(a, b int) bool { return ns.Keys[a].Less(ns.Keys[b]) })
		nodes[i] = ns
	}

	return Snapshot{
		Schema: SnapshotSchemaVersion,
		Nodes:  nodes,
		Tags:   append([]LinkTag(nil), g.tags.tags...),
	}
}

// Restore rebuilds a Graph from a Snapshot, rejecting one stamped with a
// schema version this build does not recognize rather than misinterpreting
// its payload.
func Restore(s Snapshot) (*Graph, error) {
	if s.Schema != SnapshotSchemaVersion {
		return nil, fmt.Errorf("dla: snapshot schema %d unsupported by this build (want %d)", s.Schema, SnapshotSchemaVersion)
	}

	g := &Graph{
		keyToNode: make(map[Key]NodeID),
		nodeKeys:  make(map[NodeID]map[Key]struct{}),
		tags:      newTagInterner(),
	}
	for _, t := range s.Tags {
		g.tags.Intern(t)
	}

	g.nodes = make([]*Node, len(s.Nodes))
	g.present = make([]bool, len(s.Nodes))
	for i, ns := range s.Nodes {
		n := newNode(NodeID(i))
		if ns.Present {
			n.Size = ns.Size
			n.Successors = append([]Edge(nil), ns.Successors...)
			n.Predecessors = append([]Edge(nil), ns.Predecessors...)
			for _, u := range ns.Accesses {
				n.Accesses[u] = struct{}{}
			}
			g.nodeKeys[n.ID] = make(map[Key]struct{}, len(ns.Keys))
			for _, k := range ns.Keys {
				g.nodeKeys[n.ID][k] = struct{}{}
				g.keyToNode[k] = n.ID
			}
		}
		g.nodes[i] = n
		g.present[i] = ns.Present
	}

	return g, nil
}
