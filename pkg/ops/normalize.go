// pkg/ops/normalize.go
package ops

import (
	"encoding/json"
	"fmt"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func init() {
	Register("normalize", func(cfg map[string]interface{}) (Operator, error) {
		return NewNormalize(), nil
	})
}

// Normalize standardizes continuous columns to (x - mean) / std using
// per-column moments fitted over the full dataset. NULLs propagate
// unchanged; a column with zero variance transforms to 0.
type Normalize struct{}

// NewNormalize creates a Normalize operator.
func NewNormalize() *Normalize {
	return &Normalize{}
}

// Name returns the registry name of the operator.
func (n *Normalize) Name() string { return "normalize" }

// OutputColumns declares the output columns; Normalize keeps input names.
func (n *Normalize) OutputColumns(in model.ColumnSet) (model.ColumnSet, error) {
	return in, nil
}

// ConfigMap serializes the operator configuration for the saved workflow.
func (n *Normalize) ConfigMap() (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

// NormalizeState holds the fitted per-column mean and standard deviation.
type NormalizeState struct {
	Means map[string]float64 `json:"means"`
	Stds  map[string]float64 `json:"stds"`
}

// NewAccumulator returns a fresh moments accumulator for the input columns.
func (n *Normalize) NewAccumulator(in model.ColumnSet) (Accumulator, error) {
	if in.Len() == 0 {
		return nil, &ConfigurationError{Op: n.Name(), Reason: "no input columns"}
	}
	moments := make(map[string]*Moments, in.Len())
	for _, col := range in.Names() {
		moments[col] = &Moments{}
	}
	return &normalizeAccumulator{op: n, columns: in.Names(), moments: moments}, nil
}

type normalizeAccumulator struct {
	op       *Normalize
	columns  []string
	moments  map[string]*Moments
	rowsSeen int64
}

func (a *normalizeAccumulator) Update(chunk *model.Chunk) error {
	a.rowsSeen += int64(chunk.Rows())
	for _, col := range a.columns {
		values, ok := chunk.Column(col)
		if !ok {
			return &FitError{Op: a.op.Name(), Column: col, Reason: "column absent from data source"}
		}
		m := a.moments[col]
		for _, v := range values {
			if model.IsNull(v) {
				continue
			}
			x, err := model.ToFloat(v)
			if err != nil {
				return &FitError{Op: a.op.Name(), Column: col, Reason: fmt.Sprintf("non-numeric value: %v", err)}
			}
			m.Add(x)
		}
	}
	return nil
}

func (a *normalizeAccumulator) Merge(other Accumulator) error {
	o, ok := other.(*normalizeAccumulator)
	if !ok {
		return fmt.Errorf("cannot merge %T into normalize accumulator", other)
	}
	a.rowsSeen += o.rowsSeen
	for col, m := range o.moments {
		a.moments[col].Merge(*m)
	}
	return nil
}

func (a *normalizeAccumulator) Finalize() (FittedState, error) {
	if a.rowsSeen == 0 {
		return nil, &FitError{Op: a.op.Name(), Reason: "data source is empty"}
	}
	state := &NormalizeState{
		Means: make(map[string]float64, len(a.columns)),
		Stds:  make(map[string]float64, len(a.columns)),
	}
	for _, col := range a.columns {
		m := a.moments[col]
		if m.N == 0 {
			return nil, &FitError{Op: a.op.Name(), Column: col, Reason: "no non-null values to fit"}
		}
		state.Means[col] = m.Mean
		state.Stds[col] = m.Std()
	}
	return state, nil
}

// Transform standardizes each value with the fitted mean and std.
func (n *Normalize) Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error) {
	fitted, ok := state.(*NormalizeState)
	if !ok || fitted == nil {
		return nil, &ConfigurationError{Op: n.Name(), Reason: "operator has not been fitted"}
	}

	names := in.Names()
	cols := make(map[string][]interface{}, len(names))
	for _, col := range names {
		values, ok := chunk.Column(col)
		if !ok {
			return nil, &TransformError{Op: n.Name(), Column: col, Err: fmt.Errorf("column absent from chunk")}
		}
		mean, fittedCol := fitted.Means[col]
		if !fittedCol {
			return nil, &TransformError{Op: n.Name(), Column: col, Err: fmt.Errorf("no fitted moments for column")}
		}
		std := fitted.Stds[col]

		out := make([]interface{}, len(values))
		for i, v := range values {
			if model.IsNull(v) {
				out[i] = nil
				continue
			}
			x, err := model.ToFloat(v)
			if err != nil {
				return nil, &TransformError{Op: n.Name(), Column: col, Err: err}
			}
			if std == 0 {
				out[i] = float64(0)
			} else {
				out[i] = (x - mean) / std
			}
		}
		cols[col] = out
	}
	return model.NewChunk(names, cols)
}

// EncodeState serializes the fitted moments as JSON.
func (n *Normalize) EncodeState(state FittedState) ([]byte, error) {
	fitted, ok := state.(*NormalizeState)
	if !ok {
		return nil, fmt.Errorf("unexpected state type %T for normalize", state)
	}
	return json.Marshal(fitted)
}

// DecodeState restores fitted moments from JSON.
func (n *Normalize) DecodeState(data []byte) (FittedState, error) {
	state := &NormalizeState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to decode normalize state: %w", err)
	}
	return state, nil
}
