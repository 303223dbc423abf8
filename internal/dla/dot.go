package dla

import (
	"fmt"
	"os"
	"strings"
)

// nodeLabel formats a node for dot/debug output: id, byte size, and access
// count, mirroring the original's printAsOperand convention of labelling a
// node by its identity plus a few diagnostic fields rather than its full
// key set (§10).
func nodeLabel(n *Node) string {
	return fmt.Sprintf("n%d [size=%d accesses=%d]", n.ID, n.Size, len(n.Accesses))
}

// DumpDot writes a Graphviz representation of the graph to path, for
// debugging and for the snapshot-comparison style of test this package
// favors over asserting on internal field values directly.
func (g *Graph) DumpDot(path string) error {
	var sb strings.Builder
	sb.WriteString("digraph dla {\n")
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		fmt.Fprintf(&sb, "  n%d [label=%q];\n", n.ID, nodeLabel(n))
	}
	for i, n := range g.nodes {
		if !g.present[i] {
			continue
		}
		for _, e := range n.Successors {
			tag := g.TagOf(e.Tag)
			fmt.Fprintf(&sb, "  n%d -> n%d [label=%q];\n", n.ID, e.Neighbor, tag.String())
		}
	}
	sb.WriteString("}\n")

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
