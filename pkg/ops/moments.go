// pkg/ops/moments.go
package ops

import "math"

// Moments accumulates count, mean and the sum of squared deviations for one
// column using Welford's online update. Merge uses the parallel combination
// of Chan et al., which is associative and commutative, so partial moments
// from chunks processed in any order and at any granularity combine to the
// same result.
type Moments struct {
	N    int64   `json:"n"`
	Mean float64 `json:"mean"`
	M2   float64 `json:"m2"`
}

// Add folds one observation into the moments.
func (m *Moments) Add(x float64) {
	m.N++
	delta := x - m.Mean
	m.Mean += delta / float64(m.N)
	m.M2 += delta * (x - m.Mean)
}

// Merge combines another partial moments value into m.
func (m *Moments) Merge(o Moments) {
	if o.N == 0 {
		return
	}
	if m.N == 0 {
		*m = o
		return
	}
	nA, nB := float64(m.N), float64(o.N)
	n := nA + nB
	delta := o.Mean - m.Mean
	m.M2 += o.M2 + delta*delta*nA*nB/n
	m.Mean = (m.Mean*nA + o.Mean*nB) / n
	m.N += o.N
}

// Variance returns the population variance.
func (m Moments) Variance() float64 {
	if m.N == 0 {
		return 0
	}
	return m.M2 / float64(m.N)
}

// Std returns the population standard deviation.
func (m Moments) Std() float64 {
	return math.Sqrt(m.Variance())
}
