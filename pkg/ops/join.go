// pkg/ops/join.go
package ops

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func init() {
	Register("join_external", func(cfg map[string]interface{}) (Operator, error) {
		on, ok := cfgString(cfg, "on")
		if !ok {
			return nil, &ConfigurationError{Op: "join_external", Reason: "missing join key in config"}
		}
		source, ok := cfgString(cfg, "source")
		if !ok {
			return nil, &ConfigurationError{Op: "join_external", Reason: "missing external table source in config"}
		}
		columns, ok := cfgStrings(cfg, "columns")
		if !ok {
			return nil, &ConfigurationError{Op: "join_external", Reason: "missing joined columns in config"}
		}
		return NewJoinExternalCSV(source, on, columns...)
	})
}

// JoinExternal performs a stateless left join against a fixed external
// table on a single key column, adding the configured columns to the
// output. Rows whose key is absent from the external table receive NULLs
// for the added columns. When the key occurs more than once in the external
// table the first occurrence wins.
type JoinExternal struct {
	on         string
	addColumns []string
	sourcePath string

	ext   *model.Chunk
	index map[string]int
}

// NewJoinExternal builds a join against an in-memory external table.
// An operator built this way cannot be persisted; use NewJoinExternalCSV
// when the workflow will be saved.
func NewJoinExternal(on string, ext *model.Chunk, addColumns ...string) (*JoinExternal, error) {
	keys, ok := ext.Column(on)
	if !ok {
		return nil, &ConfigurationError{Op: "join_external", Column: on, Reason: "key column absent from external table"}
	}
	for _, col := range addColumns {
		if _, ok := ext.Column(col); !ok {
			return nil, &ConfigurationError{Op: "join_external", Column: col, Reason: "joined column absent from external table"}
		}
	}
	if len(addColumns) == 0 {
		return nil, &ConfigurationError{Op: "join_external", Reason: "no columns to join"}
	}

	index := make(map[string]int, len(keys))
	for i, key := range keys {
		if model.IsNull(key) {
			continue
		}
		k := model.ToString(key)
		if _, exists := index[k]; !exists {
			index[k] = i
		}
	}

	return &JoinExternal{
		on:         on,
		addColumns: append([]string(nil), addColumns...),
		ext:        ext,
		index:      index,
	}, nil
}

// NewJoinExternalCSV loads the external table from a CSV file. The file
// path is recorded so the operator can be rebuilt when a saved workflow is
// loaded.
func NewJoinExternalCSV(path, on string, addColumns ...string) (*JoinExternal, error) {
	ext, err := readCSVTable(path)
	if err != nil {
		return nil, &ConfigurationError{Op: "join_external", Reason: fmt.Sprintf("failed to load external table: %v", err)}
	}
	op, err := NewJoinExternal(on, ext, addColumns...)
	if err != nil {
		return nil, err
	}
	op.sourcePath = path
	return op, nil
}

// readCSVTable materializes a small CSV file as a single chunk of strings,
// with empty cells as NULL. External join tables are expected to fit in
// memory; the chunked dataset readers are for the main data.
func readCSVTable(path string) (*model.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string][]interface{}, len(header))
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		for i, name := range header {
			if record[i] == "" {
				cols[name] = append(cols[name], nil)
			} else {
				cols[name] = append(cols[name], record[i])
			}
		}
	}
	if len(cols) == 0 {
		for _, name := range header {
			cols[name] = nil
		}
	}
	return model.NewChunk(header, cols)
}

// Name returns the registry name of the operator.
func (j *JoinExternal) Name() string { return "join_external" }

// OutputColumns declares the input columns plus the joined columns.
// A collision between input and joined names is a DuplicateColumnError.
func (j *JoinExternal) OutputColumns(in model.ColumnSet) (model.ColumnSet, error) {
	if !in.Contains(j.on) {
		return model.ColumnSet{}, &ConfigurationError{Op: j.Name(), Column: j.on, Reason: "join key absent from input columns"}
	}
	added, err := model.NewColumnSet(j.addColumns...)
	if err != nil {
		return model.ColumnSet{}, err
	}
	return in.Union(added)
}

// Validate checks the operator configuration.
func (j *JoinExternal) Validate(in model.ColumnSet) error {
	_, err := j.OutputColumns(in)
	return err
}

// ConfigMap serializes the operator configuration for the saved workflow.
func (j *JoinExternal) ConfigMap() (map[string]interface{}, error) {
	if j.sourcePath == "" {
		return nil, &ConfigurationError{
			Op:     j.Name(),
			Reason: "external table was built in memory and has no source path to persist",
		}
	}
	columns := make([]interface{}, len(j.addColumns))
	for i, col := range j.addColumns {
		columns[i] = col
	}
	return map[string]interface{}{
		"on":      j.on,
		"source":  j.sourcePath,
		"columns": columns,
	}, nil
}

// Transform left-joins the chunk against the external table.
func (j *JoinExternal) Transform(in model.ColumnSet, state FittedState, chunk *model.Chunk) (*model.Chunk, error) {
	keys, ok := chunk.Column(j.on)
	if !ok {
		return nil, &TransformError{Op: j.Name(), Column: j.on, Err: fmt.Errorf("join key absent from chunk")}
	}

	joined := make(map[string][]interface{}, len(j.addColumns))
	for _, col := range j.addColumns {
		joined[col] = make([]interface{}, len(keys))
	}
	for i, key := range keys {
		if model.IsNull(key) {
			continue
		}
		row, found := j.index[model.ToString(key)]
		if !found {
			continue
		}
		for _, col := range j.addColumns {
			values, _ := j.ext.Column(col)
			joined[col][i] = values[row]
		}
	}

	right, err := model.NewChunk(j.addColumns, joined)
	if err != nil {
		return nil, &TransformError{Op: j.Name(), Err: err}
	}
	out, err := model.ConcatColumns(chunk, right)
	if err != nil {
		return nil, &TransformError{Op: j.Name(), Err: err}
	}
	return out, nil
}
