// pkg/workflow/node.go
package workflow

import (
	"errors"

	"github.com/shashank3959/NVTabular/pkg/model"
	"github.com/shashank3959/NVTabular/pkg/ops"
)

// NodeKind classifies pipeline nodes.
type NodeKind int

const (
	// KindInput selects a root column set from the source dataset.
	KindInput NodeKind = iota
	// KindOp applies one operator to its parent's output.
	KindOp
	// KindMerge concatenates the columns of two parent branches.
	KindMerge
	// KindOutput marks the declared output of a graph.
	KindOutput
)

// String returns the manifest spelling of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOp:
		return "op"
	case KindMerge:
		return "merge"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Node is one vertex of a pipeline graph. Nodes are immutable: composition
// always produces a new node and never mutates an existing one, so a node
// can appear in several graphs safely.
type Node struct {
	kind    NodeKind
	columns model.ColumnSet
	op      ops.Operator
	parents []*Node
}

// Columns creates a root node selecting the named columns from the source
// dataset. Duplicate names are a DuplicateColumnError.
func Columns(names ...string) (*Node, error) {
	cs, err := model.NewColumnSet(names...)
	if err != nil {
		return nil, err
	}
	return &Node{kind: KindInput, columns: cs}, nil
}

// MustColumns is like Columns but panics on invalid input. Intended for
// literals in tests and examples.
func MustColumns(names ...string) *Node {
	n, err := Columns(names...)
	if err != nil {
		panic(err)
	}
	return n
}

// Apply composes an operator after this node, producing a new node whose
// output columns are declared by the operator. Composition is
// left-associative: chaining Apply calls preserves operator order.
func (n *Node) Apply(op ops.Operator) (*Node, error) {
	if op == nil {
		return nil, errors.New("operator cannot be nil")
	}
	out, err := op.OutputColumns(n.columns)
	if err != nil {
		return nil, err
	}
	return &Node{kind: KindOp, columns: out, op: op, parents: []*Node{n}}, nil
}

// Merge combines two branches into a node whose output is the column
// concatenation of both parents. A shared column name is a
// DuplicateColumnError, raised here at construction time, before any data
// is touched.
func Merge(a, b *Node) (*Node, error) {
	if a == nil || b == nil {
		return nil, errors.New("merge requires two nodes")
	}
	cs, err := a.columns.Union(b.columns)
	if err != nil {
		return nil, err
	}
	return &Node{kind: KindMerge, columns: cs, parents: []*Node{a, b}}, nil
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// OutputColumns returns the columns the node emits.
func (n *Node) OutputColumns() model.ColumnSet { return n.columns }

// Operator returns the node's operator, or nil for non-op nodes.
func (n *Node) Operator() ops.Operator { return n.op }

// Parents returns a copy of the node's parents.
func (n *Node) Parents() []*Node {
	out := make([]*Node, len(n.parents))
	copy(out, n.parents)
	return out
}

// inputColumns returns the columns flowing into the node.
func (n *Node) inputColumns() model.ColumnSet {
	if len(n.parents) == 0 {
		return n.columns
	}
	return n.parents[0].columns
}
