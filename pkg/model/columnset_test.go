// pkg/model/columnset_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnSet(t *testing.T) {
	cs, err := NewColumnSet("a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cs.Names())
	assert.Equal(t, 3, cs.Len())
	assert.True(t, cs.Contains("b"))
	assert.False(t, cs.Contains("d"))
}

func TestNewColumnSetRejectsDuplicates(t *testing.T) {
	_, err := NewColumnSet("a", "b", "a")
	require.Error(t, err)

	var dup *DuplicateColumnError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Column)
}

func TestNewColumnSetRejectsEmptyName(t *testing.T) {
	_, err := NewColumnSet("a", "")
	assert.Error(t, err)
}

func TestColumnSetUnion(t *testing.T) {
	a := MustColumnSet("a", "b")
	b := MustColumnSet("c")

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, u.Names())

	// Receiver order is preserved, inputs are untouched.
	assert.Equal(t, []string{"a", "b"}, a.Names())
}

func TestColumnSetUnionCollision(t *testing.T) {
	a := MustColumnSet("a", "b")
	b := MustColumnSet("b", "c")

	_, err := a.Union(b)
	var dup *DuplicateColumnError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "b", dup.Column)
}

func TestColumnSetEqual(t *testing.T) {
	assert.True(t, MustColumnSet("a", "b").Equal(MustColumnSet("a", "b")))
	assert.False(t, MustColumnSet("a", "b").Equal(MustColumnSet("b", "a")))
	assert.False(t, MustColumnSet("a").Equal(MustColumnSet("a", "b")))
}

func TestColumnSetNamesIsACopy(t *testing.T) {
	cs := MustColumnSet("a", "b")
	names := cs.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, cs.Names())
}

func TestColumnSetString(t *testing.T) {
	assert.Equal(t, "[a, b]", MustColumnSet("a", "b").String())
}
