// pkg/workflow/errors.go
package workflow

import "fmt"

// AlignmentError reports a merge whose branches produced different row
// counts for the same input chunk. Merges are positional, so the branch
// outputs must stay row-aligned.
type AlignmentError struct {
	Node      string
	LeftRows  int
	RightRows int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf(
		"merge node %s received misaligned branches: %d rows vs %d rows",
		e.Node, e.LeftRows, e.RightRows,
	)
}
