// pkg/ops/embedding_test.go
package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingWidth(t *testing.T) {
	// 1.6 * c^0.56 clamped to [16, 512].
	assert.Equal(t, 16, embeddingWidth(2), "small cardinalities hit the floor")
	assert.Equal(t, 16, embeddingWidth(60))
	assert.Equal(t, 278, embeddingWidth(10000))
	assert.Equal(t, 512, embeddingWidth(10_000_000), "huge cardinalities hit the ceiling")
}

func TestEmbeddingSizes(t *testing.T) {
	state := &CategorifyState{Vocab: map[string][]string{
		"country": {"us", "de", "jp"},
		"user_id": make([]string, 9999),
	}}

	sizes := EmbeddingSizes(state)

	assert.Equal(t, EmbeddingSize{Cardinality: 4, Width: 16}, sizes["country"])
	assert.Equal(t, EmbeddingSize{Cardinality: 10000, Width: 278}, sizes["user_id"])
}
