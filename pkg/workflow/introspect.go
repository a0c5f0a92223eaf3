// pkg/workflow/introspect.go
package workflow

import (
	"fmt"
	"strings"
)

// nodeID spells a topological index as a stable node identifier.
func nodeID(i int) string {
	return fmt.Sprintf("n%d", i)
}

// NodeInfo describes one graph node for inspection and display.
type NodeInfo struct {
	ID      string
	Kind    string
	Label   string
	Columns []string
	Fitted  bool
}

// Edge is a directed dependency between two nodes, parent to child.
type Edge struct {
	From string
	To   string
}

func (g *Graph) label(n *Node) string {
	switch n.kind {
	case KindInput:
		return "input " + n.columns.String()
	case KindOp:
		return n.op.Name()
	case KindMerge:
		return "+"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Nodes lists the graph nodes in topological order, output last.
func (g *Graph) Nodes() []NodeInfo {
	out := make([]NodeInfo, 0, len(g.nodes))
	for _, n := range g.nodes {
		_, fitted := g.states[n]
		out = append(out, NodeInfo{
			ID:      g.ids[n],
			Kind:    n.kind.String(),
			Label:   g.label(n),
			Columns: n.columns.Names(),
			Fitted:  fitted,
		})
	}
	return out
}

// Edges lists every parent-to-child dependency in the graph.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, n := range g.nodes {
		for _, p := range n.parents {
			out = append(out, Edge{From: g.ids[p], To: g.ids[n]})
		}
	}
	return out
}

// DOT renders the graph in Graphviz dot syntax.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph workflow {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, n := range g.nodes {
		fmt.Fprintf(&b, "  %s [label=%q];\n", g.ids[n], g.label(n))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %s -> %s;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}
