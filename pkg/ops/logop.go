// pkg/ops/logop.go
package ops

import (
	"fmt"
	"math"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func init() {
	Register("log", func(cfg map[string]interface{}) (Operator, error) {
		return NewLogOp(), nil
	})
}

// LogOp applies log(1 + x) element-wise. It is stateless. NULLs propagate
// unchanged; values at or below -1 are a transform error because log1p is
// undefined there.
type LogOp struct{}

// NewLogOp creates a LogOp operator.
func NewLogOp() *LogOp {
	return &LogOp{}
}

// Name returns the registry name of the operator.
func (l *LogOp) Name() string { return "log" }

// OutputColumns declares the output columns; LogOp keeps input names.
func (l *LogOp) OutputColumns(in model.ColumnSet) (model.ColumnSet, error) {
	return in, nil
}

// ConfigMap serializes the operator configuration for the saved workflow.
func (l *LogOp) ConfigMap() (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

// Transform applies log1p to every non-null cell.
func (l *LogOp) Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error) {
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
			x, err := model.ToFloat(v)
			if err != nil {
				return nil, &TransformError{Op: l.Name(), Column: col, Err: err}
			}
			if x <= -1 {
				return nil, &TransformError{
					Op:     l.Name(),
					Column: col,
					Err:    fmt.Errorf("log1p undefined for value %v", x),
				}
			}
			out[i] = math.Log1p(x)
		}
		cols[col] = out
	}
	return model.NewChunk(names, cols)
}
