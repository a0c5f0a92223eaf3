// pkg/workflow/persist_test.go
package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/shashank3959/NVTabular/pkg/dataset"
	"github.com/shashank3959/NVTabular/pkg/model"
	"github.com/shashank3959/NVTabular/pkg/ops"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cats := mustApply(t, MustColumns("color"), ops.NewCategorify().WithFreqThreshold(2))
	conts := mustApply(t, mustApply(t, MustColumns("price"),
		ops.NewFillMissing().WithMeanFill()), ops.NewNormalize())
	g, err := New(mustMerge(t, cats, conts))
	require.NoError(t, err)

	data := mustChunk(t, []string{"color", "price"}, map[string][]interface{}{
		"color": {"red", "red", "blue", "green", "green"},
		"price": {1.0, nil, 3.0, 4.0, 5.0},
	})
	require.NoError(t, g.Fit(context.Background(), dataset.NewMemoryDataset(data, 2)))

	dir := t.TempDir()
	require.NoError(t, g.Save(dir))

	// The bundle holds a manifest plus one stats file per fitted stateful
	// node.
	_, err = os.Stat(filepath.Join(dir, "workflow.yaml"))
	require.NoError(t, err)
	stats, err := os.ReadDir(filepath.Join(dir, "stats"))
	require.NoError(t, err)
	assert.Len(t, stats, 3)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, loaded.IsFitted())
	assert.Equal(t, g.OutputColumns().Names(), loaded.OutputColumns().Names())

	test := mustChunk(t, []string{"color", "price"}, map[string][]interface{}{
		"color": {"red", "blue", "never_seen"},
		"price": {nil, 3.0, 5.0},
	})
	want := collect(t, g, dataset.NewMemoryDataset(test, 0))
	got := collect(t, loaded, dataset.NewMemoryDataset(test, 0))

	for _, col := range want.Names() {
		wantValues, _ := want.Column(col)
		gotValues, _ := got.Column(col)
		assert.Equal(t, wantValues, gotValues, "column %q", col)
	}

	// The frequency threshold survived: blue was seen once and fit below
	// the threshold of 2.
	color, _ := got.Column("color")
	assert.Equal(t, ops.UnknownCode, color[1])
}

func TestSaveManifestShape(t *testing.T) {
	g, err := New(mustApply(t, MustColumns("a", "b"), ops.NewLogOp()))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, g.Save(dir))

	raw, err := os.ReadFile(filepath.Join(dir, "workflow.yaml"))
	require.NoError(t, err)

	var m manifest
	require.NoError(t, yaml.Unmarshal(raw, &m))
	assert.Equal(t, 1, m.Version)
	assert.NotEmpty(t, m.ID)
	require.Len(t, m.Nodes, 3)
	assert.Equal(t, "input", m.Nodes[0].Kind)
	assert.Equal(t, []string{"a", "b"}, m.Nodes[0].Columns)
	assert.Equal(t, "log", m.Nodes[1].Op)
	assert.Equal(t, []string{"n0"}, m.Nodes[1].Parents)
	assert.Equal(t, "output", m.Nodes[2].Kind)
}

func TestSaveUnfittedBundle(t *testing.T) {
	g, err := New(mustApply(t, MustColumns("c"), ops.NewCategorify()))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, g.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, loaded.IsFitted())

	// The loaded graph can be fitted like a freshly composed one.
	data := mustChunk(t, []string{"c"}, map[string][]interface{}{"c": {"a", "b"}})
	require.NoError(t, loaded.Fit(context.Background(), dataset.NewMemoryDataset(data, 0)))
	assert.True(t, loaded.IsFitted())
}

func TestSaveRejectsUnserializableOperator(t *testing.T) {
	ext := mustChunk(t, []string{"id", "v"}, map[string][]interface{}{
		"id": {"a"},
		"v":  {"1"},
	})
	join, err := ops.NewJoinExternal("id", ext, "v")
	require.NoError(t, err)

	g, err := New(mustApply(t, MustColumns("id"), join))
	require.NoError(t, err)

	err = g.Save(t.TempDir())
	var cfgErr *ops.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestSaveRejectsCustomOperatorWithoutConfig(t *testing.T) {
	g, err := New(mustApply(t, MustColumns("a"), rowDropper{}))
	require.NoError(t, err)

	err = g.Save(t.TempDir())
	var cfgErr *ops.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadMissingBundle(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadLambdaRequiresRegistration(t *testing.T) {
	ops.RegisterLambda("double", func(v interface{}) (interface{}, error) {
		f, err := model.ToFloat(v)
		if err != nil {
			return nil, err
		}
		return f * 2, nil
	})
	double, err := ops.NewLambda("double")
	require.NoError(t, err)

	g, err := New(mustApply(t, MustColumns("x"), double))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, g.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)

	data := mustChunk(t, []string{"x"}, map[string][]interface{}{"x": {2.0}})
	out := collect(t, loaded, dataset.NewMemoryDataset(data, 0))
	values, _ := out.Column("x")
	assert.Equal(t, 4.0, values[0])
}
