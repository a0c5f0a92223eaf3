// pkg/ops/fillmissing.go
package ops

import (
	"encoding/json"
	"fmt"

	"github.com/shashank3959/NVTabular/pkg/model"
)

// FillStrategy selects how FillMissing chooses replacement values.
type FillStrategy string

const (
	// FillConstant replaces NULLs with a configured constant.
	FillConstant FillStrategy = "constant"
	// FillMean replaces NULLs with the column mean computed during fit.
	FillMean FillStrategy = "mean"
)

func init() {
	Register("fill_missing", func(cfg map[string]interface{}) (Operator, error) {
		op := NewFillMissing()
		if strategy, ok := cfgString(cfg, "strategy"); ok {
			op.strategy = FillStrategy(strategy)
		}
		if def, ok := cfg["default"]; ok {
			op.defaultValue = def
			op.hasDefault = true
		}
		if values, ok := cfg["values"].(map[string]interface{}); ok {
			for col, v := range values {
				op.values[col] = v
			}
		}
		return op, nil
	})
}

// FillMissing replaces NULL cells deterministically, either with configured
// constants or with per-column means computed during fit. A constant fill
// with no value configured is a ConfigurationError at fit time, not a
// silent transform-time failure.
type FillMissing struct {
	strategy     FillStrategy
	values       map[string]interface{}
	defaultValue interface{}
	hasDefault   bool
}

// NewFillMissing creates a constant-fill operator with no values configured.
func NewFillMissing() *FillMissing {
	return &FillMissing{strategy: FillConstant, values: make(map[string]interface{})}
}

// WithValue sets the fill value for a single column.
func (f *FillMissing) WithValue(col string, v interface{}) *FillMissing {
	f.values[col] = v
	return f
}

// WithDefault sets the fill value used for columns without a per-column
// value.
func (f *FillMissing) WithDefault(v interface{}) *FillMissing {
	f.defaultValue = v
	f.hasDefault = true
	return f
}

// WithMeanFill switches the operator to mean-fill, computing per-column
// means during fit. Configured constants are ignored.
func (f *FillMissing) WithMeanFill() *FillMissing {
	f.strategy = FillMean
	return f
}

// Name returns the registry name of the operator.
func (f *FillMissing) Name() string { return "fill_missing" }

// OutputColumns declares the output columns; FillMissing keeps input names.
func (f *FillMissing) OutputColumns(in model.ColumnSet) (model.ColumnSet, error) {
	return in, nil
}

// Validate checks that every input column has a fill source.
func (f *FillMissing) Validate(in model.ColumnSet) error {
	switch f.strategy {
	case FillConstant:
		for _, col := range in.Names() {
			if _, ok := f.values[col]; !ok && !f.hasDefault {
				return &ConfigurationError{
					Op:     f.Name(),
					Column: col,
					Reason: "no fill value configured",
				}
			}
		}
	case FillMean:
		// Means are computed during fit; nothing to configure.
	default:
		return &ConfigurationError{Op: f.Name(), Reason: fmt.Sprintf("unknown fill strategy %q", f.strategy)}
	}
	return nil
}

// ConfigMap serializes the operator configuration for the saved workflow.
func (f *FillMissing) ConfigMap() (map[string]interface{}, error) {
	cfg := map[string]interface{}{"strategy": string(f.strategy)}
	if f.hasDefault {
		cfg["default"] = f.defaultValue
	}
	if len(f.values) > 0 {
		values := make(map[string]interface{}, len(f.values))
		for col, v := range f.values {
			values[col] = v
		}
		cfg["values"] = values
	}
	return cfg, nil
}

// FillState holds the resolved per-column fill values.
type FillState struct {
	Fill map[string]interface{} `json:"fill"`
}

// NewAccumulator validates the configuration and returns an accumulator.
// For constant fill the accumulator only resolves configured values; for
// mean fill it accumulates per-column moments.
func (f *FillMissing) NewAccumulator(in model.ColumnSet) (Accumulator, error) {
	if err := f.Validate(in); err != nil {
		return nil, err
	}
	acc := &fillAccumulator{op: f, columns: in.Names()}
	if f.strategy == FillMean {
		acc.moments = make(map[string]*Moments, in.Len())
		for _, col := range in.Names() {
			acc.moments[col] = &Moments{}
		}
	}
	return acc, nil
}

type fillAccumulator struct {
	op       *FillMissing
	columns  []string
	moments  map[string]*Moments
	rowsSeen int64
}

func (a *fillAccumulator) Update(chunk *model.Chunk) error {
	a.rowsSeen += int64(chunk.Rows())
	if a.op.strategy != FillMean {
		// Constant fill needs no statistics, but the columns must exist.
		for _, col := range a.columns {
			if _, ok := chunk.Column(col); !ok {
				return &FitError{Op: a.op.Name(), Column: col, Reason: "column absent from data source"}
			}
		}
		return nil
	}
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

func (a *fillAccumulator) Merge(other Accumulator) error {
	o, ok := other.(*fillAccumulator)
	if !ok {
		return fmt.Errorf("cannot merge %T into fill_missing accumulator", other)
	}
	a.rowsSeen += o.rowsSeen
	for col, m := range o.moments {
		a.moments[col].Merge(*m)
	}
	return nil
}

func (a *fillAccumulator) Finalize() (FittedState, error) {
	if a.rowsSeen == 0 {
		return nil, &FitError{Op: a.op.Name(), Reason: "data source is empty"}
	}

	fill := make(map[string]interface{}, len(a.columns))
	for _, col := range a.columns {
		switch a.op.strategy {
		case FillMean:
			m := a.moments[col]
			if m.N == 0 {
				return nil, &FitError{Op: a.op.Name(), Column: col, Reason: "no non-null values to compute mean"}
			}
			fill[col] = m.Mean
		default:
			if v, ok := a.op.values[col]; ok {
				fill[col] = v
			} else {
				fill[col] = a.op.defaultValue
			}
		}
	}
	return &FillState{Fill: fill}, nil
}

// Transform replaces NULL cells with the fitted fill values.
func (f *FillMissing) Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error) {
	fitted, ok := state.(*FillState)
	if !ok || fitted == nil {
		return nil, &ConfigurationError{Op: f.Name(), Reason: "operator has not been fitted"}
	}

	names := in.Names()
	cols := make(map[string][]interface{}, len(names))
	for _, col := range names {
		values, ok := chunk.Column(col)
		if !ok {
			return nil, &TransformError{Op: f.Name(), Column: col, Err: fmt.Errorf("column absent from chunk")}
		}
		fill, ok := fitted.Fill[col]
		if !ok {
			return nil, &TransformError{Op: f.Name(), Column: col, Err: fmt.Errorf("no fitted fill value for column")}
		}
		out := make([]interface{}, len(values))
		for i, v := range values {
			if model.IsNull(v) {
				out[i] = fill
			} else {
				out[i] = v
			}
		}
		cols[col] = out
	}
	return model.NewChunk(names, cols)
}

// EncodeState serializes the fitted fill values as JSON. Numeric fill
// values round-trip as float64.
func (f *FillMissing) EncodeState(state FittedState) ([]byte, error) {
	fitted, ok := state.(*FillState)
	if !ok {
		return nil, fmt.Errorf("unexpected state type %T for fill_missing", state)
	}
	return json.Marshal(fitted)
}

// DecodeState restores fitted fill values from JSON.
func (f *FillMissing) DecodeState(data []byte) (FittedState, error) {
	state := &FillState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to decode fill_missing state: %w", err)
	}
	return state, nil
}
