// pkg/workflow/persist.go
package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/shashank3959/NVTabular/pkg/ops"
)

const (
	manifestVersion = 1
	manifestFile    = "workflow.yaml"
	statsDirName    = "stats"
)

// manifest is the on-disk description of a graph. Operators are stored as
// registry name plus configuration; fitted state lives next to it in one
// JSON file per stateful node.
type manifest struct {
	Version int            `yaml:"version"`
	ID      string         `yaml:"id"`
	Nodes   []manifestNode `yaml:"nodes"`
}

type manifestNode struct {
	ID      string                 `yaml:"id"`
	Kind    string                 `yaml:"kind"`
	Columns []string               `yaml:"columns,omitempty"`
	Parents []string               `yaml:"parents,omitempty"`
	Op      string                 `yaml:"op,omitempty"`
	Config  map[string]interface{} `yaml:"config,omitempty"`
	Fitted  bool                   `yaml:"fitted,omitempty"`
}

// Save writes the graph and its fitted state into dir as a reloadable
// bundle: a workflow.yaml manifest plus stats/<node>.json per fitted
// stateful node. Every operator in the graph must be serializable; an
// operator that cannot be rebuilt from configuration fails the save with a
// ConfigurationError rather than producing a bundle that cannot load.
func (g *Graph) Save(dir string) error {
	statsDir := filepath.Join(dir, statsDirName)
	if err := os.MkdirAll(statsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}

	m := manifest{Version: manifestVersion, ID: uuid.New().String()}
	for _, n := range g.nodes {
		mn := manifestNode{ID: g.ids[n], Kind: n.kind.String()}
		for _, p := range n.parents {
			mn.Parents = append(mn.Parents, g.ids[p])
		}

		switch n.kind {
		case KindInput:
			mn.Columns = n.columns.Names()

		case KindOp:
			p, ok := n.op.(ops.Persistable)
			if !ok {
				return &ops.ConfigurationError{
					Op:     n.op.Name(),
					Reason: "operator cannot be serialized into a workflow bundle",
				}
			}
			cfg, err := p.ConfigMap()
			if err != nil {
				return err
			}
			mn.Op = n.op.Name()
			mn.Config = cfg

			if state, fitted := g.states[n]; fitted {
				stateful, ok := n.op.(ops.StatefulOperator)
				if !ok {
					break
				}
				data, err := stateful.EncodeState(state)
				if err != nil {
					return fmt.Errorf("failed to encode state for node %s: %w", mn.ID, err)
				}
				path := filepath.Join(statsDir, mn.ID+".json")
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write state for node %s: %w", mn.ID, err)
				}
				mn.Fitted = true
			}
		}
		m.Nodes = append(m.Nodes, mn)
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write workflow manifest: %w", err)
	}

	g.logger.Info("Saved workflow bundle",
		zap.String("id", m.ID),
		zap.String("dir", dir),
		zap.Int("nodes", len(m.Nodes)))
	return nil
}

// Load rebuilds a graph from a bundle written by Save. Operators are
// reconstructed through the operator registry, so custom operators must be
// registered before loading a bundle that uses them.
func Load(dir string, opts ...Option) (*Graph, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse workflow manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported workflow manifest version %d", m.Version)
	}

	built := make(map[string]*Node, len(m.Nodes))
	var root *Node
	for _, mn := range m.Nodes {
		parents := make([]*Node, 0, len(mn.Parents))
		for _, pid := range mn.Parents {
			p, ok := built[pid]
			if !ok {
				return nil, fmt.Errorf("manifest node %s references unknown parent %s", mn.ID, pid)
			}
			parents = append(parents, p)
		}

		switch mn.Kind {
		case "input":
			node, err := Columns(mn.Columns...)
			if err != nil {
				return nil, fmt.Errorf("manifest node %s: %w", mn.ID, err)
			}
			built[mn.ID] = node

		case "op":
			if len(parents) != 1 {
				return nil, fmt.Errorf("manifest node %s: op node requires one parent", mn.ID)
			}
			op, err := ops.NewFromConfig(mn.Op, mn.Config)
			if err != nil {
				return nil, fmt.Errorf("manifest node %s: %w", mn.ID, err)
			}
			node, err := parents[0].Apply(op)
			if err != nil {
				return nil, fmt.Errorf("manifest node %s: %w", mn.ID, err)
			}
			built[mn.ID] = node

		case "merge":
			if len(parents) != 2 {
				return nil, fmt.Errorf("manifest node %s: merge node requires two parents", mn.ID)
			}
			node, err := Merge(parents[0], parents[1])
			if err != nil {
				return nil, fmt.Errorf("manifest node %s: %w", mn.ID, err)
			}
			built[mn.ID] = node

		case "output":
			if len(parents) != 1 {
				return nil, fmt.Errorf("manifest node %s: output node requires one parent", mn.ID)
			}
			root = parents[0]

		default:
			return nil, fmt.Errorf("manifest node %s has unknown kind %q", mn.ID, mn.Kind)
		}
	}
	if root == nil {
		return nil, fmt.Errorf("workflow manifest has no output node")
	}

	g, err := New(root, opts...)
	if err != nil {
		return nil, err
	}

	for _, mn := range m.Nodes {
		if !mn.Fitted {
			continue
		}
		node := built[mn.ID]
		stateful, ok := node.op.(ops.StatefulOperator)
		if !ok {
			return nil, fmt.Errorf("manifest node %s is marked fitted but operator %q is stateless", mn.ID, mn.Op)
		}
		raw, err := os.ReadFile(filepath.Join(dir, statsDirName, mn.ID+".json"))
		if err != nil {
			return nil, fmt.Errorf("failed to read state for node %s: %w", mn.ID, err)
		}
		state, err := stateful.DecodeState(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode state for node %s: %w", mn.ID, err)
		}
		g.states[node] = state
	}

	g.logger.Info("Loaded workflow bundle",
		zap.String("id", m.ID),
		zap.String("dir", dir),
		zap.Int("nodes", len(m.Nodes)))
	return g, nil
}
