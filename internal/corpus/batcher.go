package corpus

import (
	"fmt"
	"math/rand"
)

// Batch is a flat list of aligned training pairs: Centers[i] predicts
// Contexts[i]. A center id is repeated once per context id in its window.
type Batch struct {
	Centers  []int32
	Contexts []int32
}

// Len returns the number of pairs in the batch.
func (b Batch) Len() int { return len(b.Centers) }

// Batcher lazily produces training batches from an id-encoded sequence.
// Each batch covers a group of consecutive center positions; for every
// center a window radius is drawn uniformly from [1, window] and the
// distinct token values inside the clipped window (excluding the center
// position itself) become its contexts. Trailing positions beyond the last
// full group are dropped.
//
// The iterator is restartable via Reset. Radius draws come from the injected
// rand source, so two passes over the same Batcher are independent samples.
type Batcher struct {
	seq       []int32
	batchSize int
	window    int
	rng       *rand.Rand

	limit int // len(seq) truncated to a multiple of batchSize
	pos   int
}

// NewBatcher validates the parameters and returns a Batcher positioned at the
// start of the sequence.
func NewBatcher(seq []int32, batchSize, window int, rng *rand.Rand) (*Batcher, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("corpus: batch size must be at least 1, got %d", batchSize)
	}
	if window < 1 {
		return nil, fmt.Errorf("corpus: window must be at least 1, got %d", window)
	}
	if rng == nil {
		return nil, fmt.Errorf("corpus: nil rand source")
	}

	limit := (len(seq) / batchSize) * batchSize
	return &Batcher{
		seq:       seq,
		batchSize: batchSize,
		window:    window,
		rng:       rng,
		limit:     limit,
	}, nil
}

// Reset rewinds the iterator to the start of the sequence.
func (b *Batcher) Reset() { b.pos = 0 }

// Batches reports how many batches a full pass produces.
func (b *Batcher) Batches() int { return b.limit / b.batchSize }

// Next returns the next batch. The second return value is false once the
// sequence is exhausted.
func (b *Batcher) Next() (Batch, bool) {
	if b.pos >= b.limit {
		return Batch{}, false
	}

	end := b.pos + b.batchSize
	batch := Batch{
		Centers:  make([]int32, 0, b.batchSize*b.window),
		Contexts: make([]int32, 0, b.batchSize*b.window),
	}
	for idx := b.pos; idx < end; idx++ {
		radius := b.rng.Intn(b.window) + 1
		for _, ctx := range b.contexts(idx, radius) {
			batch.Centers = append(batch.Centers, b.seq[idx])
			batch.Contexts = append(batch.Contexts, ctx)
		}
	}
	b.pos = end
	return batch, true
}

// contexts returns the distinct token values within radius positions of idx,
// clipped at the sequence boundaries and excluding position idx itself. An
// isolated position yields an empty set.
func (b *Batcher) contexts(idx, radius int) []int32 {
	lo := idx - radius
	if lo < 0 {
		lo = 0
	}
	hi := idx + radius
	if hi > len(b.seq)-1 {
		hi = len(b.seq) - 1
	}

	seen := make(map[int32]struct{}, hi-lo)
	out := make([]int32, 0, hi-lo)
	for i := lo; i <= hi; i++ {
		if i == idx {
			continue
		}
		tok := b.seq[i]
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
