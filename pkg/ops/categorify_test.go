// pkg/ops/categorify_test.go
package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func TestCategorifyFitOrdersByFrequencyThenValue(t *testing.T) {
	in := model.MustColumnSet("fruit")
	chunk := mustChunk(t, []string{"fruit"}, map[string][]interface{}{
		"fruit": {"apple", "apple", "cherry", "cherry", "apple", "banana", "apricot"},
	})

	state := fitOne(t, NewCategorify(), in, chunk).(*CategorifyState)

	// apple=3, cherry=2, then the count-1 ties in ascending value order.
	assert.Equal(t, []string{"apple", "cherry", "apricot", "banana"}, state.Vocab["fruit"])
	assert.Equal(t, 5, state.Cardinality("fruit"))
}

func TestCategorifyFitIgnoresChunkBoundaries(t *testing.T) {
	in := model.MustColumnSet("c")
	values := []interface{}{"x", "y", "x", "z", "y", "x", nil, "z"}

	whole := fitOne(t, NewCategorify(), in,
		mustChunk(t, []string{"c"}, map[string][]interface{}{"c": values}),
	).(*CategorifyState)

	// Same rows in two chunks, merged in reverse order.
	op := NewCategorify()
	accA, err := op.NewAccumulator(in)
	require.NoError(t, err)
	accB, err := op.NewAccumulator(in)
	require.NoError(t, err)
	require.NoError(t, accA.Update(mustChunk(t, []string{"c"}, map[string][]interface{}{"c": values[:3]})))
	require.NoError(t, accB.Update(mustChunk(t, []string{"c"}, map[string][]interface{}{"c": values[3:]})))
	require.NoError(t, accB.Merge(accA))
	merged, err := accB.Finalize()
	require.NoError(t, err)

	assert.Equal(t, whole.Vocab, merged.(*CategorifyState).Vocab)
}

func TestCategorifyTransform(t *testing.T) {
	in := model.MustColumnSet("c")
	op := NewCategorify()
	state := fitOne(t, op, in, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"a", "a", "b"},
	}))

	out, err := op.Transform(in, state, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"a", "b", "unseen", nil},
	}))
	require.NoError(t, err)

	values, _ := out.Column("c")
	assert.Equal(t, []interface{}{int64(1), int64(2), UnknownCode, UnknownCode}, values)
}

func TestCategorifyCountsUnknowns(t *testing.T) {
	in := model.MustColumnSet("c")
	metrics := NewMetrics(nil)
	op := NewCategorify().WithMetrics(metrics)
	state := fitOne(t, op, in, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"a"},
	}))

	_, err := op.Transform(in, state, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"a", "x", "y", nil},
	}))
	require.NoError(t, err)

	// NULLs map to the unknown code but are not unknown-category events.
	assert.Equal(t, int64(2), metrics.UnknownCategories())
	assert.Equal(t, int64(2), metrics.UnknownCategoriesByColumn()["c"])
}

func TestCategorifyFreqThreshold(t *testing.T) {
	in := model.MustColumnSet("c")
	op := NewCategorify().WithFreqThreshold(2)
	state := fitOne(t, op, in, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"common", "common", "rare", "common"},
	})).(*CategorifyState)

	assert.Equal(t, []string{"common"}, state.Vocab["c"])

	out, err := op.Transform(in, state, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"common", "rare"},
	}))
	require.NoError(t, err)
	values, _ := out.Column("c")
	assert.Equal(t, []interface{}{int64(1), UnknownCode}, values)
}

func TestCategorifyEmptyDataset(t *testing.T) {
	acc, err := NewCategorify().NewAccumulator(model.MustColumnSet("c"))
	require.NoError(t, err)

	_, err = acc.Finalize()
	var fitErr *FitError
	require.ErrorAs(t, err, &fitErr)
}

func TestCategorifyUnfittedTransform(t *testing.T) {
	op := NewCategorify()
	_, err := op.Transform(model.MustColumnSet("c"), nil, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"a"},
	}))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestCategorifyStateRoundTrip(t *testing.T) {
	in := model.MustColumnSet("c")
	op := NewCategorify()
	state := fitOne(t, op, in, mustChunk(t, []string{"c"}, map[string][]interface{}{
		"c": {"a", "b", "b"},
	}))

	data, err := op.EncodeState(state)
	require.NoError(t, err)
	restored, err := op.DecodeState(data)
	require.NoError(t, err)

	chunk := mustChunk(t, []string{"c"}, map[string][]interface{}{"c": {"a", "b", "zzz"}})
	want, err := op.Transform(in, state, chunk)
	require.NoError(t, err)
	got, err := op.Transform(in, restored, chunk)
	require.NoError(t, err)

	wantValues, _ := want.Column("c")
	gotValues, _ := got.Column("c")
	assert.Equal(t, wantValues, gotValues)
}

func TestCategorifyValidate(t *testing.T) {
	err := NewCategorify().WithFreqThreshold(-1).Validate(model.MustColumnSet("c"))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
