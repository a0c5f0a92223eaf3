// pkg/ops/categorify.go
package ops

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shashank3959/NVTabular/pkg/model"
)

// UnknownCode is the reserved integer code for categorical values that were
// not present in the fit data, and for NULLs.
const UnknownCode int64 = 0

func init() {
	Register("categorify", func(cfg map[string]interface{}) (Operator, error) {
		op := NewCategorify()
		if threshold, ok := cfgInt(cfg, "freq_threshold"); ok {
			op = op.WithFreqThreshold(threshold)
		}
		return op, nil
	})
}

// Categorify maps categorical values to dense integer codes via a fitted
// per-column dictionary. Code 0 is reserved for unknown/missing values;
// fitted categories are numbered from 1 in descending frequency order, with
// ties broken by ascending value. That ordering depends only on the final
// merged counts, so any chunk partitioning of the fit data produces the
// same dictionary.
type Categorify struct {
	freqThreshold int64
	metrics       *Metrics
}

// NewCategorify creates a Categorify operator with no frequency threshold.
func NewCategorify() *Categorify {
	return &Categorify{}
}

// WithFreqThreshold drops categories seen fewer than n times during fit;
// they map to the unknown code at transform time.
func (c *Categorify) WithFreqThreshold(n int64) *Categorify {
	c.freqThreshold = n
	return c
}

// WithMetrics attaches a metrics tracker that counts unknown-category
// events during transform.
func (c *Categorify) WithMetrics(m *Metrics) *Categorify {
	c.metrics = m
	return c
}

// Name returns the registry name of the operator.
func (c *Categorify) Name() string { return "categorify" }

// OutputColumns declares the output columns; Categorify keeps input names.
func (c *Categorify) OutputColumns(in model.ColumnSet) (model.ColumnSet, error) {
	return in, nil
}

// Validate checks the operator configuration.
func (c *Categorify) Validate(in model.ColumnSet) error {
	if c.freqThreshold < 0 {
		return &ConfigurationError{Op: c.Name(), Reason: "frequency threshold cannot be negative"}
	}
	if in.Len() == 0 {
		return &ConfigurationError{Op: c.Name(), Reason: "no input columns"}
	}
	return nil
}

// ConfigMap serializes the operator configuration for the saved workflow.
func (c *Categorify) ConfigMap() (map[string]interface{}, error) {
	cfg := map[string]interface{}{}
	if c.freqThreshold > 0 {
		cfg["freq_threshold"] = c.freqThreshold
	}
	return cfg, nil
}

// CategorifyState holds the fitted per-column dictionaries. Vocab lists
// categories in code order: Vocab[col][i] has code i+1.
type CategorifyState struct {
	Vocab map[string][]string `json:"vocab"`

	codes map[string]map[string]int64
}

func (s *CategorifyState) buildCodes() {
	s.codes = make(map[string]map[string]int64, len(s.Vocab))
	for col, vocab := range s.Vocab {
		codes := make(map[string]int64, len(vocab))
		for i, value := range vocab {
			codes[value] = int64(i + 1)
		}
		s.codes[col] = codes
	}
}

// Cardinality returns the number of distinct codes for a column, including
// the reserved unknown code.
func (s *CategorifyState) Cardinality(col string) int {
	return len(s.Vocab[col]) + 1
}

// Columns returns the fitted column names in sorted order.
func (s *CategorifyState) Columns() []string {
	cols := make([]string, 0, len(s.Vocab))
	for col := range s.Vocab {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// NewAccumulator returns a fresh category-count accumulator.
func (c *Categorify) NewAccumulator(in model.ColumnSet) (Accumulator, error) {
	if err := c.Validate(in); err != nil {
		return nil, err
	}
	counts := make(map[string]map[string]int64, in.Len())
	for _, col := range in.Names() {
		counts[col] = make(map[string]int64)
	}
	return &categorifyAccumulator{op: c, columns: in.Names(), counts: counts}, nil
}

type categorifyAccumulator struct {
	op       *Categorify
	columns  []string
	counts   map[string]map[string]int64
	rowsSeen int64
}

func (a *categorifyAccumulator) Update(chunk *model.Chunk) error {
	a.rowsSeen += int64(chunk.Rows())
	for _, col := range a.columns {
		values, ok := chunk.Column(col)
		if !ok {
			return &FitError{Op: a.op.Name(), Column: col, Reason: "column absent from data source"}
		}
		counts := a.counts[col]
		for _, v := range values {
			if model.IsNull(v) {
				continue
			}
			counts[model.ToString(v)]++
		}
	}
	return nil
}

func (a *categorifyAccumulator) Merge(other Accumulator) error {
	o, ok := other.(*categorifyAccumulator)
	if !ok {
		return fmt.Errorf("cannot merge %T into categorify accumulator", other)
	}
	a.rowsSeen += o.rowsSeen
	for col, counts := range o.counts {
		into := a.counts[col]
		for value, count := range counts {
			into[value] += count
		}
	}
	return nil
}

func (a *categorifyAccumulator) Finalize() (FittedState, error) {
	if a.rowsSeen == 0 {
		return nil, &FitError{Op: a.op.Name(), Reason: "data source is empty"}
	}

	state := &CategorifyState{Vocab: make(map[string][]string, len(a.columns))}
	for _, col := range a.columns {
		counts := a.counts[col]
		vocab := make([]string, 0, len(counts))
		for value, count := range counts {
			if a.op.freqThreshold > 0 && count < a.op.freqThreshold {
				continue
			}
			vocab = append(vocab, value)
		}
		sort.Slice(vocab, func(i, j int) bool {
			ci, cj := counts[vocab[i]], counts[vocab[j]]
			if ci != cj {
				return ci > cj
			}
			return vocab[i] < vocab[j]
		})
		state.Vocab[col] = vocab
	}
	state.buildCodes()
	return state, nil
}

// Transform maps each value to its fitted code. Values absent from the
// dictionary and NULLs map to the reserved unknown code.
func (c *Categorify) Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error) {
	fitted, ok := state.(*CategorifyState)
	if !ok || fitted == nil {
		return nil, &ConfigurationError{Op: c.Name(), Reason: "operator has not been fitted"}
	}

	names := in.Names()
	cols := make(map[string][]interface{}, len(names))
	for _, col := range names {
		values, ok := chunk.Column(col)
		if !ok {
			return nil, &TransformError{Op: c.Name(), Column: col, Err: fmt.Errorf("column absent from chunk")}
		}
		codes, fittedCol := fitted.codes[col]
		if !fittedCol {
			return nil, &TransformError{Op: c.Name(), Column: col, Err: fmt.Errorf("no fitted dictionary for column")}
		}

		out := make([]interface{}, len(values))
		var unknown int64
		for i, v := range values {
			if model.IsNull(v) {
				out[i] = UnknownCode
				continue
			}
			code, seen := codes[model.ToString(v)]
			if !seen {
				out[i] = UnknownCode
				unknown++
				continue
			}
			out[i] = code
		}
		if c.metrics != nil {
			c.metrics.AddUnknownCategories(col, unknown)
		}
		cols[col] = out
	}
	return model.NewChunk(names, cols)
}

// EncodeState serializes the fitted dictionaries as JSON.
func (c *Categorify) EncodeState(state FittedState) ([]byte, error) {
	fitted, ok := state.(*CategorifyState)
	if !ok {
		return nil, fmt.Errorf("unexpected state type %T for categorify", state)
	}
	return json.Marshal(fitted)
}

// DecodeState restores fitted dictionaries from JSON.
func (c *Categorify) DecodeState(data []byte) (FittedState, error) {
	state := &CategorifyState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to decode categorify state: %w", err)
	}
	state.buildCodes()
	return state, nil
}
