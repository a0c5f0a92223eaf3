// pkg/ops/operator.go
package ops

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shashank3959/NVTabular/pkg/model"
)

// FittedState holds the parameters a stateful operator produced during fit.
// It is written exactly once per fit and read-only afterwards, so it may be
// shared freely between concurrent transform callers.
type FittedState interface{}

// Operator is a named column transformation. Transform must be pure given
// the fitted state and safe to call on arbitrary chunk boundaries.
type Operator interface {
	// Name identifies the operator kind; it is also the registry key used
	// when a saved workflow is reloaded.
	Name() string

	// OutputColumns declares the columns the operator emits for the given
	// input columns. It is called at graph-construction time and must not
	// touch data.
	OutputColumns(in model.ColumnSet) (model.ColumnSet, error)

	// Transform applies the operator to one chunk. state is nil for
	// stateless operators.
	Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error)
}

// StatefulOperator is an Operator that requires a fit pass before it can
// transform. Fitting happens through accumulators so that chunks can be
// processed in any order, in parallel, and the partial results merged.
type StatefulOperator interface {
	Operator

	// NewAccumulator validates the operator configuration and returns a
	// fresh accumulator for the given input columns.
	NewAccumulator(in model.ColumnSet) (Accumulator, error)

	// EncodeState serializes fitted state for the saved workflow bundle.
	EncodeState(state FittedState) ([]byte, error)

	// DecodeState restores fitted state from a saved workflow bundle.
	DecodeState(data []byte) (FittedState, error)
}

// Accumulator collects per-column statistics over chunks. Merge must be
// associative and commutative so that the final fitted state does not
// depend on chunk order or chunk size.
type Accumulator interface {
	Update(chunk *model.Chunk) error
	Merge(other Accumulator) error

	// Finalize produces the fitted state. Returns a FitError if no rows
	// were observed.
	Finalize() (FittedState, error)
}

// Validator is implemented by operators whose configuration must be checked
// before any data is read. The graph runs validation for every operator at
// fit time so misconfiguration never surfaces mid-transform.
type Validator interface {
	Validate(in model.ColumnSet) error
}

// Persistable is implemented by operators that can be written into a saved
// workflow manifest and rebuilt from it.
type Persistable interface {
	ConfigMap() (map[string]interface{}, error)
}

// Factory rebuilds an operator from its manifest configuration.
type Factory func(cfg map[string]interface{}) (Operator, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an operator factory under the given name. Built-in
// operators register themselves in init; the name must be unique.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("ops: operator %q registered twice", name))
	}
	registry[name] = factory
}

// NewFromConfig rebuilds an operator by registry name and manifest config.
func NewFromConfig(name string, cfg map[string]interface{}) (Operator, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Op: name, Reason: "unknown operator"}
	}
	return factory(cfg)
}

// RegisteredOperators lists the registry names in sorted order.
func RegisteredOperators() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cfgString reads an optional string key from a manifest config map.
func cfgString(cfg map[string]interface{}, key string) (string, bool) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// cfgInt reads an optional integer key from a manifest config map. YAML
// decodes numbers as int or float64 depending on the source text.
func cfgInt(cfg map[string]interface{}, key string) (int64, bool) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// cfgStrings reads an optional string-list key from a manifest config map.
func cfgStrings(cfg map[string]interface{}, key string) ([]string, bool) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return nil, false
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
