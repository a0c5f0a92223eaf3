// pkg/model/chunk.go
package model

import (
	"fmt"
)

// Chunk is a bounded, column-major block of rows. Cell values are held as
// interface{} with nil meaning NULL. All columns in a chunk have the same
// length; chunks are processed independently so operators never carry state
// across chunk boundaries.
type Chunk struct {
	names []string
	cols  map[string][]interface{}
	rows  int
}

// NewChunk builds a chunk from ordered column names and their values.
// Every named column must be present in cols and all columns must have
// equal length.
func NewChunk(names []string, cols map[string][]interface{}) (*Chunk, error) {
	rows := -1
	owned := make(map[string][]interface{}, len(names))
	for _, name := range names {
		values, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("chunk is missing values for column %q", name)
		}
		if rows == -1 {
			rows = len(values)
		} else if len(values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", name, len(values), rows)
		}
		owned[name] = values
	}
	if rows == -1 {
		rows = 0
	}
	namesCopy := make([]string, len(names))
	copy(namesCopy, names)
	return &Chunk{names: namesCopy, cols: owned, rows: rows}, nil
}

// Rows returns the number of rows in the chunk.
func (c *Chunk) Rows() int {
	return c.rows
}

// Names returns a copy of the column names in order.
func (c *Chunk) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Column returns the values for the named column.
func (c *Chunk) Column(name string) ([]interface{}, bool) {
	values, ok := c.cols[name]
	return values, ok
}

// Select returns a new chunk containing only the columns in cs, in cs
// order. The value slices are shared, not copied; callers must treat a
// selected chunk as read-only.
func (c *Chunk) Select(cs ColumnSet) (*Chunk, error) {
	names := cs.Names()
	cols := make(map[string][]interface{}, len(names))
	for _, name := range names {
		values, ok := c.cols[name]
		if !ok {
			return nil, fmt.Errorf("column %q not present in chunk", name)
		}
		cols[name] = values
	}
	return NewChunk(names, cols)
}

// ConcatColumns places the columns of two chunks side by side. The chunks
// must have the same row count; a shared column name is a
// DuplicateColumnError.
func ConcatColumns(a, b *Chunk) (*Chunk, error) {
	if a.rows != b.rows {
		return nil, fmt.Errorf("cannot concatenate chunks with %d and %d rows", a.rows, b.rows)
	}
	names := make([]string, 0, len(a.names)+len(b.names))
	cols := make(map[string][]interface{}, len(a.names)+len(b.names))
	for _, name := range a.names {
		names = append(names, name)
		cols[name] = a.cols[name]
	}
	for _, name := range b.names {
		if _, ok := cols[name]; ok {
			return nil, &DuplicateColumnError{Column: name}
		}
		names = append(names, name)
		cols[name] = b.cols[name]
	}
	return NewChunk(names, cols)
}

// AppendRows stacks src below dst. Both chunks must have identical column
// names in identical order. A nil dst is treated as empty.
func AppendRows(dst, src *Chunk) (*Chunk, error) {
	if dst == nil {
		return src, nil
	}
	if len(dst.names) != len(src.names) {
		return nil, fmt.Errorf("cannot append chunk with %d columns to chunk with %d columns",
			len(src.names), len(dst.names))
	}
	for i, name := range dst.names {
		if src.names[i] != name {
			return nil, fmt.Errorf("column mismatch at position %d: %q vs %q", i, name, src.names[i])
		}
	}
	cols := make(map[string][]interface{}, len(dst.names))
	for _, name := range dst.names {
		merged := make([]interface{}, 0, dst.rows+src.rows)
		merged = append(merged, dst.cols[name]...)
		merged = append(merged, src.cols[name]...)
		cols[name] = merged
	}
	return NewChunk(dst.names, cols)
}

// SliceRows returns the half-open row range [from, to) of the chunk.
// The value slices are shared with the parent chunk.
func (c *Chunk) SliceRows(from, to int) (*Chunk, error) {
	if from < 0 || to > c.rows || from > to {
		return nil, fmt.Errorf("row range [%d, %d) out of bounds for %d rows", from, to, c.rows)
	}
	cols := make(map[string][]interface{}, len(c.names))
	for _, name := range c.names {
		cols[name] = c.cols[name][from:to]
	}
	return NewChunk(c.names, cols)
}

// Row materializes a single row as a slice ordered by column position.
func (c *Chunk) Row(i int) []interface{} {
	row := make([]interface{}, len(c.names))
	for j, name := range c.names {
		row[j] = c.cols[name][i]
	}
	return row
}
