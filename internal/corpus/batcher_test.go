package corpus

import (
	"math/rand"
	"testing"
)

func TestBatcherContextBounds(t *testing.T) {
	// Distinct token values so a context can be traced back to its position.
	const n = 50
	const window = 4
	seq := make([]int32, n)
	pos := make(map[int32]int, n)
	for i := range seq {
		seq[i] = int32(i * 10)
		pos[seq[i]] = i
	}

	b, err := NewBatcher(seq, 5, window, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}

	center := 0
	for {
		batch, ok := b.Next()
		if !ok {
			break
		}
		for i := range batch.Centers {
			cIdx := pos[batch.Centers[i]]
			xIdx := pos[batch.Contexts[i]]
			if cIdx == xIdx {
				t.Fatalf("pair %d: center position equals context position %d", i, cIdx)
			}
			if xIdx < cIdx-window || xIdx > cIdx+window {
				t.Fatalf("context position %d outside [%d, %d]", xIdx, cIdx-window, cIdx+window)
			}
		}
		center += 5
	}
	if center != n {
		t.Fatalf("consumed %d centers, want %d", center, n)
	}
}

func TestBatcherLowDiversityDedup(t *testing.T) {
	// Uniform sequence with window 1: after dedup every center contributes
	// exactly one (5,5) pair, including at the truncated boundaries.
	seq := []int32{5, 5, 5, 5, 5}
	b, err := NewBatcher(seq, 5, 1, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}

	batch, ok := b.Next()
	if !ok {
		t.Fatal("expected a batch")
	}
	if batch.Len() != len(seq) {
		t.Fatalf("got %d pairs, want %d", batch.Len(), len(seq))
	}
	for i := range batch.Centers {
		if batch.Centers[i] != 5 || batch.Contexts[i] != 5 {
			t.Fatalf("pair %d = (%d, %d), want (5, 5)", i, batch.Centers[i], batch.Contexts[i])
		}
	}
}

func TestBatcherDropsTrailingRemainder(t *testing.T) {
	seq := []int32{0, 1, 2, 3, 4}
	b, err := NewBatcher(seq, 2, 1, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}
	if got := b.Batches(); got != 2 {
		t.Fatalf("Batches() = %d, want 2", got)
	}

	n := 0
	for {
		if _, ok := b.Next(); !ok {
			break
		}
		n++
	}
	if n != 2 {
		t.Fatalf("produced %d batches, want 2", n)
	}
}

func TestBatcherIsolatedTokenYieldsNoPairs(t *testing.T) {
	b, err := NewBatcher([]int32{7}, 1, 3, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}
	batch, ok := b.Next()
	if !ok {
		t.Fatal("expected a batch")
	}
	if batch.Len() != 0 {
		t.Fatalf("isolated token produced %d pairs, want 0", batch.Len())
	}
	if _, ok := b.Next(); ok {
		t.Fatal("expected exhaustion after one batch")
	}
}

func TestBatcherReset(t *testing.T) {
	seq := make([]int32, 20)
	for i := range seq {
		seq[i] = int32(i)
	}
	b, err := NewBatcher(seq, 4, 2, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("NewBatcher: %v", err)
	}

	first := 0
	for {
		if _, ok := b.Next(); !ok {
			break
		}
		first++
	}

	b.Reset()
	second := 0
	for {
		if _, ok := b.Next(); !ok {
			break
		}
		second++
	}

	if first != 5 || second != 5 {
		t.Fatalf("passes produced %d and %d batches, want 5 each", first, second)
	}
}

func TestBatcherInvalidParams(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewBatcher([]int32{1}, 0, 1, rng); err == nil {
		t.Fatal("expected error for batch size 0")
	}
	if _, err := NewBatcher([]int32{1}, 1, 0, rng); err == nil {
		t.Fatal("expected error for window 0")
	}
	if _, err := NewBatcher([]int32{1}, 1, 1, nil); err == nil {
		t.Fatal("expected error for nil rand source")
	}
}
