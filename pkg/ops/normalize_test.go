// pkg/ops/normalize_test.go
package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func TestNormalizeFit(t *testing.T) {
	in := model.MustColumnSet("x")
	state := fitOne(t, NewNormalize(), in, mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {1.0, 2.0, 3.0, 4.0, 5.0},
	})).(*NormalizeState)

	assert.InDelta(t, 3.0, state.Means["x"], 1e-12)
	assert.InDelta(t, 1.4142135623730951, state.Stds["x"], 1e-12)
}

func TestNormalizeTransform(t *testing.T) {
	in := model.MustColumnSet("x")
	op := NewNormalize()
	state := fitOne(t, op, in, mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {1.0, 2.0, 3.0, 4.0, 5.0},
	}))

	out, err := op.Transform(in, state, mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {3.0, 5.0, nil},
	}))
	require.NoError(t, err)

	values, _ := out.Column("x")
	assert.InDelta(t, 0.0, values[0].(float64), 1e-12)
	assert.InDelta(t, 2.0/1.4142135623730951, values[1].(float64), 1e-12)
	assert.Nil(t, values[2], "NULLs propagate")
}

func TestNormalizeFitIgnoresChunkSize(t *testing.T) {
	in := model.MustColumnSet("x")
	values := []interface{}{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}

	whole := fitOne(t, NewNormalize(), in,
		mustChunk(t, []string{"x"}, map[string][]interface{}{"x": values}),
	).(*NormalizeState)
	split := fitOne(t, NewNormalize(), in,
		mustChunk(t, []string{"x"}, map[string][]interface{}{"x": values[:2]}),
		mustChunk(t, []string{"x"}, map[string][]interface{}{"x": values[2:5]}),
		mustChunk(t, []string{"x"}, map[string][]interface{}{"x": values[5:]}),
	).(*NormalizeState)

	assert.InDelta(t, whole.Means["x"], split.Means["x"], 1e-9)
	assert.InDelta(t, whole.Stds["x"], split.Stds["x"], 1e-9)
}

func TestNormalizeZeroVariance(t *testing.T) {
	in := model.MustColumnSet("x")
	op := NewNormalize()
	state := fitOne(t, op, in, mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {7.0, 7.0, 7.0},
	}))

	out, err := op.Transform(in, state, mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {7.0, 9.0},
	}))
	require.NoError(t, err)

	values, _ := out.Column("x")
	assert.Equal(t, 0.0, values[0])
	assert.Equal(t, 0.0, values[1])
}

func TestNormalizeNonNumericFit(t *testing.T) {
	acc, err := NewNormalize().NewAccumulator(model.MustColumnSet("x"))
	require.NoError(t, err)

	err = acc.Update(mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {"not a number"},
	}))
	var fitErr *FitError
	require.ErrorAs(t, err, &fitErr)
	assert.Equal(t, "x", fitErr.Column)
}

func TestNormalizeEmptyDataset(t *testing.T) {
	acc, err := NewNormalize().NewAccumulator(model.MustColumnSet("x"))
	require.NoError(t, err)

	_, err = acc.Finalize()
	var fitErr *FitError
	require.ErrorAs(t, err, &fitErr)
}

func TestNormalizeAllNullColumn(t *testing.T) {
	acc, err := NewNormalize().NewAccumulator(model.MustColumnSet("x"))
	require.NoError(t, err)
	require.NoError(t, acc.Update(mustChunk(t, []string{"x"}, map[string][]interface{}{
		"x": {nil, nil},
	})))

	_, err = acc.Finalize()
	var fitErr *FitError
	require.ErrorAs(t, err, &fitErr)
}
