// pkg/ops/embedding.go
package ops

import "math"

// EmbeddingSize pairs a categorical column's fitted cardinality (including
// the reserved unknown code) with a recommended embedding width.
type EmbeddingSize struct {
	Cardinality int
	Width       int
}

// embeddingWidth derives a width from a cardinality with the rule
// round(1.6 * cardinality^0.56), clamped to [16, 512]. The rule is fixed so
// that model-training code sees reproducible table shapes for a given
// fitted workflow.
func embeddingWidth(cardinality int) int {
	w := int(math.Round(1.6 * math.Pow(float64(cardinality), 0.56)))
	if w < 16 {
		w = 16
	}
	if w > 512 {
		w = 512
	}
	return w
}

// EmbeddingSizes maps each fitted categorical column to its cardinality and
// recommended embedding width. It is derived purely from the fitted
// dictionary sizes.
func EmbeddingSizes(state *CategorifyState) map[string]EmbeddingSize {
	out := make(map[string]EmbeddingSize, len(state.Vocab))
	for _, col := range state.Columns() {
		card := state.Cardinality(col)
		out[col] = EmbeddingSize{Cardinality: card, Width: embeddingWidth(card)}
	}
	return out
}
