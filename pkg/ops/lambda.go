// pkg/ops/lambda.go
package ops

import (
	"fmt"
	"sync"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func init() {
	Register("lambda", func(cfg map[string]interface{}) (Operator, error) {
		name, ok := cfgString(cfg, "name")
		if !ok {
			return nil, &ConfigurationError{Op: "lambda", Reason: "missing lambda name in config"}
		}
		return NewLambda(name)
	})
}

// LambdaFunc is a user-supplied pure function applied to each cell value.
// It must not keep state between calls; NULLs are passed through without
// invoking the function.
type LambdaFunc func(v interface{}) (interface{}, error)

var (
	lambdaMu       sync.RWMutex
	lambdaRegistry = make(map[string]LambdaFunc)
)

// RegisterLambda binds a name to a lambda function. Saved workflows store
// only the name; the same function must be registered before Load in any
// process that will transform with it.
func RegisterLambda(name string, fn LambdaFunc) {
	lambdaMu.Lock()
	defer lambdaMu.Unlock()
	lambdaRegistry[name] = fn
}

// LambdaOp applies a registered pure function element-wise to every input
// column. It is stateless and keeps input column names.
type LambdaOp struct {
	name string
	fn   LambdaFunc
}

// NewLambda resolves a registered lambda by name.
func NewLambda(name string) (*LambdaOp, error) {
	lambdaMu.RLock()
	fn, ok := lambdaRegistry[name]
	lambdaMu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Op: "lambda", Reason: fmt.Sprintf("lambda %q is not registered", name)}
	}
	return &LambdaOp{name: name, fn: fn}, nil
}

// Name returns the registry name of the operator.
func (l *LambdaOp) Name() string { return "lambda" }

// FuncName returns the registered name of the wrapped function.
func (l *LambdaOp) FuncName() string { return l.name }

// OutputColumns declares the output columns; LambdaOp keeps input names.
func (l *LambdaOp) OutputColumns(in model.ColumnSet) (model.ColumnSet, error) {
	return in, nil
}

// ConfigMap serializes the operator configuration for the saved workflow.
func (l *LambdaOp) ConfigMap() (map[string]interface{}, error) {
	return map[string]interface{}{"name": l.name}, nil
}

// Transform applies the lambda to every non-null cell.
func (l *LambdaOp) Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error) {
	names := in.Names()
	cols := make(map[string][]interface{}, len(names))
	for _, col := range names {
		values, ok := chunk.Column(col)
		if !ok {
			return nil, &TransformError{Op: l.Name(), Column: col, Err: fmt.Errorf("column absent from chunk")}
		}
		out := make([]interface{}, len(values))
		for i, v := range values {
			if model.IsNull(v) {
				out[i] = nil
				continue
			}
			mapped, err := l.fn(v)
			if err != nil {
				return nil, &TransformError{Op: l.Name(), Column: col, Err: err}
			}
			out[i] = mapped
		}
		cols[col] = out
	}
	return model.NewChunk(names, cols)
}
