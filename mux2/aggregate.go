package mux2

import "github.com/arloliu/tidemux/section"

// Combine folds one source's sample into an accumulated sample.
//
// A missing accumulation or a missing incoming sample yields Missing, so a
// merged sample is real only if every source so far reported a real value.
// Otherwise the result is acc + weight*in.
func Combine(acc, in section.Sample, weight float64) section.Sample {
	if !acc.Valid || !in.Valid {
		return section.Missing
	}

	return section.Present(acc.Value + weight*in.Value)
}

// Accumulate applies Combine element-wise, folding in into acc.
//
// Only the common prefix of the two series is touched.
func Accumulate(acc, in []section.Sample, weight float64) {
	n := min(len(acc), len(in))
	for k := range n {
		acc[k] = Combine(acc[k], in[k], weight)
	}
}

// newAccumulator returns a series of n zero samples, the state before any
// source is folded in.
func newAccumulator(n int) []section.Sample {
	acc := make([]section.Sample, n)
	fill(acc, section.Present(0))

	return acc
}
