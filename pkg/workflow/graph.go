// pkg/workflow/graph.go
package workflow

import (
	"context"
	"errors"
	"io"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shashank3959/NVTabular/pkg/dataset"
	"github.com/shashank3959/NVTabular/pkg/model"
	"github.com/shashank3959/NVTabular/pkg/ops"
)

// Graph is an executable pipeline built from a composed node. It owns the
// topological order, per-node identifiers, and the fitted state of every
// stateful operator. A graph is safe for concurrent transforms after a fit
// completes.
type Graph struct {
	output  *Node
	nodes   []*Node
	ids     map[*Node]string
	states  map[*Node]ops.FittedState
	logger  *zap.Logger
	workers int
	metrics *ops.Metrics
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Graph) { g.logger = logger }
}

// WithWorkers sets the fit worker pool size. Zero or negative selects
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(g *Graph) { g.workers = n }
}

// WithMetrics attaches a metrics tracker updated during transform.
func WithMetrics(m *ops.Metrics) Option {
	return func(g *Graph) { g.metrics = m }
}

// New wraps the composed root node in an output node and freezes the graph
// topology. Node identifiers are assigned by topological position and stay
// stable for the lifetime of the graph, including across save and load.
func New(root *Node, opts ...Option) (*Graph, error) {
	if root == nil {
		return nil, errors.New("graph requires a root node")
	}
	output := &Node{kind: KindOutput, columns: root.columns, parents: []*Node{root}}

	g := &Graph{
		output: output,
		nodes:  topoSort(output),
		states: make(map[*Node]ops.FittedState),
	}
	g.ids = make(map[*Node]string, len(g.nodes))
	for i, n := range g.nodes {
		g.ids[n] = nodeID(i)
	}

	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.workers < 1 {
		g.workers = runtime.NumCPU()
	}
	return g, nil
}

// topoSort returns the ancestors of sink in dependency order, sink last.
// Shared subgraphs appear once.
func topoSort(sink *Node) []*Node {
	var order []*Node
	seen := make(map[*Node]bool)
	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, p := range n.parents {
			visit(p)
		}
		order = append(order, n)
	}
	visit(sink)
	return order
}

// OutputColumns returns the columns the graph emits.
func (g *Graph) OutputColumns() model.ColumnSet {
	return g.output.columns
}

// IsFitted reports whether every stateful operator has fitted state.
func (g *Graph) IsFitted() bool {
	for _, n := range g.nodes {
		if !g.isStateful(n) {
			continue
		}
		if _, ok := g.states[n]; !ok {
			return false
		}
	}
	return true
}

func (g *Graph) isStateful(n *Node) bool {
	if n.kind != KindOp {
		return false
	}
	_, ok := n.op.(ops.StatefulOperator)
	return ok
}

// statefulDepths assigns each node the number of stateful operators on its
// deepest ancestor path, counting the node itself. The depth decides which
// fit phase an operator belongs to: an operator can only be fitted once
// every stateful ancestor already has state, because its fit input flows
// through their transforms.
func (g *Graph) statefulDepths() map[*Node]int {
	depths := make(map[*Node]int, len(g.nodes))
	for _, n := range g.nodes {
		d := 0
		for _, p := range n.parents {
			if depths[p] > d {
				d = depths[p]
			}
		}
		if g.isStateful(n) {
			d++
		}
		depths[n] = d
	}
	return depths
}

// Fit computes fitted state for every stateful operator. The dataset is
// read once per fit phase; operators in the same phase share each pass.
// A successful Fit replaces all previous state, so refitting on a new
// dataset behaves exactly like fitting a fresh graph.
func (g *Graph) Fit(ctx context.Context, ds dataset.Dataset) error {
	available := make(map[string]bool)
	for _, col := range ds.Columns() {
		available[col] = true
	}
	for _, n := range g.nodes {
		if n.kind != KindInput {
			continue
		}
		for _, col := range n.columns.Names() {
			if !available[col] {
				return &ops.FitError{Column: col, Reason: "column absent from data source"}
			}
		}
	}

	for _, n := range g.nodes {
		if n.kind != KindOp {
			continue
		}
		if v, ok := n.op.(ops.Validator); ok {
			if err := v.Validate(n.inputColumns()); err != nil {
				return err
			}
		}
	}

	depths := g.statefulDepths()
	phases := make(map[int][]*Node)
	maxDepth := 0
	for _, n := range g.nodes {
		if !g.isStateful(n) {
			continue
		}
		d := depths[n]
		phases[d] = append(phases[d], n)
		if d > maxDepth {
			maxDepth = d
		}
	}

	states := make(map[*Node]ops.FittedState)
	for depth := 1; depth <= maxDepth; depth++ {
		targets := phases[depth]
		if len(targets) == 0 {
			continue
		}
		start := time.Now()
		if err := g.fitPhase(ctx, ds, targets, states); err != nil {
			return err
		}
		g.logger.Info("Fitted pipeline phase",
			zap.Int("phase", depth),
			zap.Int("operators", len(targets)),
			zap.Duration("elapsed", time.Since(start)))
	}

	g.states = states
	return nil
}

// fitPhase runs one pass over the dataset and fits the target operators.
// Each worker owns a private accumulator set; chunk order between workers
// is arbitrary, which is safe because accumulator merges are associative
// and commutative.
func (g *Graph) fitPhase(ctx context.Context, ds dataset.Dataset, targets []*Node, states map[*Node]ops.FittedState) error {
	accSets := make([]map[*Node]ops.Accumulator, g.workers)
	for w := range accSets {
		set := make(map[*Node]ops.Accumulator, len(targets))
		for _, n := range targets {
			acc, err := n.op.(ops.StatefulOperator).NewAccumulator(n.inputColumns())
			if err != nil {
				return err
			}
			set[n] = acc
		}
		accSets[w] = set
	}

	grp, gctx := errgroup.WithContext(ctx)
	chunks := make(chan *model.Chunk)

	it := ds.Chunks(gctx)
	grp.Go(func() error {
		defer close(chunks)
		defer it.Close()
		for {
			chunk, err := it.Next(gctx)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case chunks <- chunk:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	for w := 0; w < g.workers; w++ {
		set := accSets[w]
		grp.Go(func() error {
			for chunk := range chunks {
				memo := make(map[*Node]*model.Chunk, len(g.nodes))
				for _, n := range targets {
					input, err := g.evalNode(n.parents[0], chunk, states, memo)
					if err != nil {
						return err
					}
					if err := set[n].Update(input); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	for _, n := range targets {
		acc := accSets[0][n]
		for w := 1; w < g.workers; w++ {
			if err := acc.Merge(accSets[w][n]); err != nil {
				return err
			}
		}
		state, err := acc.Finalize()
		if err != nil {
			return err
		}
		states[n] = state
	}
	return nil
}

// EmbeddingSizes returns the cardinality and recommended embedding width
// for every column fitted by a Categorify node. Empty until the graph has
// been fitted.
func (g *Graph) EmbeddingSizes() map[string]ops.EmbeddingSize {
	out := make(map[string]ops.EmbeddingSize)
	for _, n := range g.nodes {
		if n.kind != KindOp {
			continue
		}
		if _, ok := n.op.(*ops.Categorify); !ok {
			continue
		}
		state, ok := g.states[n].(*ops.CategorifyState)
		if !ok {
			continue
		}
		for col, size := range ops.EmbeddingSizes(state) {
			out[col] = size
		}
	}
	return out
}
