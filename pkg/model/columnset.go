// pkg/model/columnset.go
package model

import (
	"fmt"
	"strings"
)

// DuplicateColumnError reports a column name collision, either within a
// single ColumnSet or when two sets are combined.
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("duplicate column %q", e.Column)
}

// ColumnSet is an immutable, ordered collection of distinct column names.
// Order is preserved for display and output layout; it carries no other
// semantics.
type ColumnSet struct {
	names []string
}

// NewColumnSet creates a ColumnSet from the given names.
// Returns a DuplicateColumnError if any name appears more than once.
func NewColumnSet(names ...string) (ColumnSet, error) {
	seen := make(map[string]struct{}, len(names))
	owned := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			return ColumnSet{}, fmt.Errorf("column name cannot be empty")
		}
		if _, ok := seen[name]; ok {
			return ColumnSet{}, &DuplicateColumnError{Column: name}
		}
		seen[name] = struct{}{}
		owned = append(owned, name)
	}
	return ColumnSet{names: owned}, nil
}

// MustColumnSet is like NewColumnSet but panics on invalid input.
// Intended for literals in tests and examples.
func MustColumnSet(names ...string) ColumnSet {
	cs, err := NewColumnSet(names...)
	if err != nil {
		panic(err)
	}
	return cs
}

// Names returns a copy of the column names in order.
func (cs ColumnSet) Names() []string {
	out := make([]string, len(cs.names))
	copy(out, cs.names)
	return out
}

// Len returns the number of columns in the set.
func (cs ColumnSet) Len() int {
	return len(cs.names)
}

// Contains reports whether the set includes the given column name.
func (cs ColumnSet) Contains(name string) bool {
	for _, n := range cs.names {
		if n == name {
			return true
		}
	}
	return false
}

// Union concatenates two column sets, preserving order (receiver first).
// Returns a DuplicateColumnError if the sets share a column name.
func (cs ColumnSet) Union(other ColumnSet) (ColumnSet, error) {
	combined := make([]string, 0, len(cs.names)+len(other.names))
	combined = append(combined, cs.names...)
	combined = append(combined, other.names...)
	return NewColumnSet(combined...)
}

// Equal reports whether two column sets contain the same names in the
// same order.
func (cs ColumnSet) Equal(other ColumnSet) bool {
	if len(cs.names) != len(other.names) {
		return false
	}
	for i, n := range cs.names {
		if other.names[i] != n {
			return false
		}
	}
	return true
}

// String returns a bracketed, comma-separated rendering of the set.
func (cs ColumnSet) String() string {
	return "[" + strings.Join(cs.names, ", ") + "]"
}
