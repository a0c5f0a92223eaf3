// pkg/workflow/transform.go
package workflow

import (
	"context"

	"github.com/shashank3959/NVTabular/pkg/dataset"
	"github.com/shashank3959/NVTabular/pkg/model"
	"github.com/shashank3959/NVTabular/pkg/ops"
)

// Transform returns a lazy iterator over the transformed dataset. Each
// source chunk is pulled on demand, pushed through the graph, and released
// before the next one is read, so memory stays bounded by chunk size
// regardless of dataset size. Every stateful operator must be fitted
// before Transform is called.
func (g *Graph) Transform(ctx context.Context, ds dataset.Dataset) (dataset.ChunkIterator, error) {
	for _, n := range g.nodes {
		if !g.isStateful(n) {
			continue
		}
		if _, ok := g.states[n]; !ok {
			return nil, &ops.ConfigurationError{
				Op:     n.op.Name(),
				Reason: "operator has not been fitted",
			}
		}
	}
	return &transformIterator{graph: g, src: ds.Chunks(ctx)}, nil
}

type transformIterator struct {
	graph *Graph
	src   dataset.ChunkIterator
}

// Next pulls one source chunk and evaluates the graph over it. Returns
// io.EOF when the source is exhausted; any other error terminates the
// iteration.
func (it *transformIterator) Next(ctx context.Context) (*model.Chunk, error) {
	chunk, err := it.src.Next(ctx)
	if err != nil {
		return nil, err
	}

	memo := make(map[*Node]*model.Chunk, len(it.graph.nodes))
	out, err := it.graph.evalNode(it.graph.output, chunk, it.graph.states, memo)
	if err != nil {
		return nil, err
	}

	if it.graph.metrics != nil {
		it.graph.metrics.AddChunk(out.Rows())
	}
	return out, nil
}

func (it *transformIterator) Close() error {
	return it.src.Close()
}

// evalNode evaluates one node over a source chunk. Results are memoized per
// chunk so a node shared by several branches, a diamond, is computed once.
func (g *Graph) evalNode(n *Node, src *model.Chunk, states map[*Node]ops.FittedState, memo map[*Node]*model.Chunk) (*model.Chunk, error) {
	if out, ok := memo[n]; ok {
		return out, nil
	}

	var out *model.Chunk
	switch n.kind {
	case KindInput:
		selected, err := src.Select(n.columns)
		if err != nil {
			return nil, err
		}
		out = selected

	case KindOp:
		in, err := g.evalNode(n.parents[0], src, states, memo)
		if err != nil {
			return nil, err
		}
		out, err = n.op.Transform(n.parents[0].columns, states[n], in)
		if err != nil {
			return nil, err
		}

	case KindMerge:
		left, err := g.evalNode(n.parents[0], src, states, memo)
		if err != nil {
			return nil, err
		}
		right, err := g.evalNode(n.parents[1], src, states, memo)
		if err != nil {
			return nil, err
		}
		if left.Rows() != right.Rows() {
			return nil, &AlignmentError{
				Node:      g.ids[n],
				LeftRows:  left.Rows(),
				RightRows: right.Rows(),
			}
		}
		out, err = model.ConcatColumns(left, right)
		if err != nil {
			return nil, err
		}

	case KindOutput:
		result, err := g.evalNode(n.parents[0], src, states, memo)
		if err != nil {
			return nil, err
		}
		out = result
	}

	memo[n] = out
	return out, nil
}
