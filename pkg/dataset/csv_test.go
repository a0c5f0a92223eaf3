// pkg/dataset/csv_test.go
package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVDataset(t *testing.T) {
	path := writeCSV(t, "id,score,name\n1,0.5,alice\n2,,bob\n3,1.5,\n")
	ds, err := NewCSVDataset(path,
		WithChunkRows(2),
		WithKinds(map[string]Kind{"id": KindInt, "score": KindFloat}))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "score", "name"}, ds.Columns())

	out, err := Collect(context.Background(), ds.Chunks(context.Background()))
	require.NoError(t, err)
	require.Equal(t, 3, out.Rows())

	id, _ := out.Column("id")
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, id)

	score, _ := out.Column("score")
	assert.Equal(t, 0.5, score[0])
	assert.Nil(t, score[1], "empty cell is NULL")

	name, _ := out.Column("name")
	assert.Equal(t, "bob", name[1])
	assert.Nil(t, name[2])
}

func TestCSVDatasetChunkBoundaries(t *testing.T) {
	path := writeCSV(t, "x\n1\n2\n3\n4\n5\n")
	ds, err := NewCSVDataset(path, WithChunkRows(2))
	require.NoError(t, err)

	it := ds.Chunks(context.Background())
	defer it.Close()

	var sizes []int
	for {
		chunk, err := it.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, chunk.Rows())
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestCSVDatasetMultiplePasses(t *testing.T) {
	path := writeCSV(t, "x\n1\n2\n")
	ds, err := NewCSVDataset(path, WithChunkRows(10))
	require.NoError(t, err)

	for pass := 0; pass < 2; pass++ {
		out, err := Collect(context.Background(), ds.Chunks(context.Background()))
		require.NoError(t, err)
		assert.Equal(t, 2, out.Rows(), "pass %d", pass)
	}
}

func TestCSVDatasetBadValues(t *testing.T) {
	path := writeCSV(t, "x\nnot_a_number\n")
	ds, err := NewCSVDataset(path, WithKinds(map[string]Kind{"x": KindInt}))
	require.NoError(t, err)

	it := ds.Chunks(context.Background())
	defer it.Close()
	_, err = it.Next(context.Background())
	assert.Error(t, err)
}

func TestCSVDatasetMissingFile(t *testing.T) {
	_, err := NewCSVDataset(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for spelling, want := range map[string]Kind{
		"":       KindString,
		"string": KindString,
		"int":    KindInt,
		"float":  KindFloat,
		"bool":   KindBool,
	} {
		got, err := ParseKind(spelling)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("decimal")
	assert.Error(t, err)
}
