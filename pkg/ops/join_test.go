// pkg/ops/join_test.go
package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func externalTable(t *testing.T) *model.Chunk {
	t.Helper()
	return mustChunk(t, []string{"id", "region", "tier"}, map[string][]interface{}{
		"id":     {"u1", "u2", "u2"},
		"region": {"us", "eu", "apac"},
		"tier":   {"gold", "silver", "bronze"},
	})
}

func TestJoinExternalTransform(t *testing.T) {
	op, err := NewJoinExternal("id", externalTable(t), "region", "tier")
	require.NoError(t, err)

	in := model.MustColumnSet("id", "amount")
	out, err := op.Transform(in, nil, mustChunk(t, []string{"id", "amount"}, map[string][]interface{}{
		"id":     {"u2", "u1", "u404", nil},
		"amount": {10, 20, 30, 40},
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "amount", "region", "tier"}, out.Names())

	region, _ := out.Column("region")
	// Duplicate external key: first occurrence wins.
	assert.Equal(t, []interface{}{"eu", "us", nil, nil}, region)
}

func TestJoinExternalOutputColumns(t *testing.T) {
	op, err := NewJoinExternal("id", externalTable(t), "region")
	require.NoError(t, err)

	out, err := op.OutputColumns(model.MustColumnSet("id", "amount"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount", "region"}, out.Names())
}

func TestJoinExternalColumnCollision(t *testing.T) {
	op, err := NewJoinExternal("id", externalTable(t), "region")
	require.NoError(t, err)

	_, err = op.OutputColumns(model.MustColumnSet("id", "region"))
	var dup *model.DuplicateColumnError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "region", dup.Column)
}

func TestJoinExternalMissingKeyColumn(t *testing.T) {
	op, err := NewJoinExternal("id", externalTable(t), "region")
	require.NoError(t, err)

	_, err = op.OutputColumns(model.MustColumnSet("amount"))
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestJoinExternalBadConfiguration(t *testing.T) {
	_, err := NewJoinExternal("missing_key", externalTable(t), "region")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewJoinExternal("id", externalTable(t), "missing_col")
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewJoinExternal("id", externalTable(t))
	require.ErrorAs(t, err, &cfgErr)
}

func TestJoinExternalInMemoryCannotPersist(t *testing.T) {
	op, err := NewJoinExternal("id", externalTable(t), "region")
	require.NoError(t, err)

	_, err = op.ConfigMap()
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestJoinExternalCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,region\nu1,us\nu2,eu\n"), 0o644))

	op, err := NewJoinExternalCSV(path, "id", "region")
	require.NoError(t, err)

	cfg, err := op.ConfigMap()
	require.NoError(t, err)

	rebuilt, err := NewFromConfig("join_external", cfg)
	require.NoError(t, err)

	in := model.MustColumnSet("id")
	out, err := rebuilt.Transform(in, nil, mustChunk(t, []string{"id"}, map[string][]interface{}{
		"id": {"u2"},
	}))
	require.NoError(t, err)

	region, _ := out.Column("region")
	assert.Equal(t, []interface{}{"eu"}, region)
}
