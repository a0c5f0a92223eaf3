// pkg/ops/helpers_test.go
package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func mustChunk(t *testing.T, names []string, cols map[string][]interface{}) *model.Chunk {
	t.Helper()
	c, err := model.NewChunk(names, cols)
	require.NoError(t, err)
	return c
}

// fitOne runs the full accumulator lifecycle over a sequence of chunks.
func fitOne(t *testing.T, op StatefulOperator, in model.ColumnSet, chunks ...*model.Chunk) FittedState {
	t.Helper()
	acc, err := op.NewAccumulator(in)
	require.NoError(t, err)
	for _, chunk := range chunks {
		require.NoError(t, acc.Update(chunk))
	}
	state, err := acc.Finalize()
	require.NoError(t, err)
	return state
}
