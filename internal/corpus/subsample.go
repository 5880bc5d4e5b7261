// Package corpus prepares id-encoded token streams for training: frequency
// accounting, subsampling of frequent tokens, and windowed pair batching.
package corpus

import (
	"fmt"
	"math"
	"math/rand"
)

// Frequencies holds per-id occurrence counts for a token stream. Lookups are
// keyed by token id, never by token string.
type Frequencies struct {
	counts map[int32]int64
	total  int64
}

// CountFrequencies tallies occurrences per token id.
func CountFrequencies(seq []int32) *Frequencies {
	f := &Frequencies{counts: make(map[int32]int64), total: int64(len(seq))}
	for _, id := range seq {
		f.counts[id]++
	}
	return f
}

// Relative returns the relative corpus frequency of an id.
func (f *Frequencies) Relative(id int32) (float64, bool) {
	c, ok := f.counts[id]
	if !ok || f.total == 0 {
		return 0, false
	}
	return float64(c) / float64(f.total), true
}

// DropProbability is the word2vec subsampling probability p = 1 - sqrt(t/f)
// for a token with relative frequency f under threshold t. Rare tokens
// (f <= t) are never dropped.
func DropProbability(freq, threshold float64) float64 {
	p := 1 - math.Sqrt(threshold/freq)
	if p < 0 {
		return 0
	}
	return p
}

// Subsample stochastically removes frequent tokens from seq, preserving
// order. Frequencies are computed from seq itself, so every id is covered.
func Subsample(seq []int32, threshold float64, rng *rand.Rand) ([]int32, error) {
	return SubsampleWith(seq, CountFrequencies(seq), threshold, rng)
}

// SubsampleWith subsamples seq against a caller-provided frequency table.
// An id absent from the table (zero frequency) is an error: the closed-form
// probability is undefined there.
func SubsampleWith(seq []int32, freqs *Frequencies, threshold float64, rng *rand.Rand) ([]int32, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("corpus: subsample threshold must be positive, got %g", threshold)
	}

	kept := make([]int32, 0, len(seq))
	for _, id := range seq {
		f, ok := freqs.Relative(id)
		if !ok {
			return nil, fmt.Errorf("corpus: zero frequency for token id %d", id)
		}
		if rng.Float64() < DropProbability(f, threshold) {
			continue
		}
		kept = append(kept, id)
	}
	return kept, nil
}
