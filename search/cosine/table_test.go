package cosine

import (
	"math"
	"testing"
)

func TestNearestExcludesQueryAndRanks(t *testing.T) {
	// Row 1 points the same way as row 0; row 2 is orthogonal; row 3 is
	// opposite.
	table, err := NewTable([][]float32{
		{1, 0},
		{2, 0},
		{0, 3},
		{-1, 0},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	results, err := table.Nearest([]int{0}, 3)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	got := results[0]
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	for _, r := range got {
		if r.ID == 0 {
			t.Fatal("query id returned as its own neighbor")
		}
		if r.Score < -1.0001 || r.Score > 1.0001 {
			t.Fatalf("score %g outside [-1, 1]", r.Score)
		}
	}
	if got[0].ID != 1 {
		t.Fatalf("top neighbor = %d, want 1", got[0].ID)
	}
	if math.Abs(float64(got[0].Score)-1) > 1e-6 {
		t.Fatalf("top score = %g, want 1", got[0].Score)
	}
	if got[1].ID != 2 || got[2].ID != 3 {
		t.Fatalf("ranking = [%d %d %d], want [1 2 3]", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestNearestTieBreakLowerID(t *testing.T) {
	// Ids 1, 2, 3 are identical: exact ties must come back lowest id first.
	table, err := NewTable([][]float32{
		{1, 0},
		{0, 1},
		{0, 1},
		{0, 1},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	results, err := table.Nearest([]int{1}, 3)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	got := results[0]
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("tied neighbors = [%d %d], want [2 3]", got[0].ID, got[1].ID)
	}
}

func TestNearestCapsTopK(t *testing.T) {
	table, err := NewTable([][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	results, err := table.Nearest([]int{0}, 10)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(results[0]) != 1 {
		t.Fatalf("got %d results, want 1 (table has a single other row)", len(results[0]))
	}
}

func TestNearestOutOfRange(t *testing.T) {
	table, err := NewTable([][]float32{{1}, {2}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if _, err := table.Nearest([]int{2}, 1); err == nil {
		t.Fatal("expected error for out-of-range query id")
	}
	if _, err := table.Nearest([]int{-1}, 1); err == nil {
		t.Fatal("expected error for negative query id")
	}
	if _, err := table.Nearest([]int{0}, 0); err == nil {
		t.Fatal("expected error for topK < 1")
	}
}

func TestNewTableValidation(t *testing.T) {
	if _, err := NewTable(nil); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := NewTable([][]float32{{1, 2}, {3}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestZeroRowStaysZero(t *testing.T) {
	table, err := NewTable([][]float32{{0, 0}, {1, 0}, {1, 1}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	results, err := table.Nearest([]int{1}, 2)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	// The zero row has similarity 0 against everything, so it ranks below
	// any positively correlated neighbor.
	got := results[0]
	if got[0].ID != 2 {
		t.Fatalf("top neighbor = %d, want 2", got[0].ID)
	}
	if got[1].ID != 0 || got[1].Score != 0 {
		t.Fatalf("zero row = (%d, %g), want (0, 0)", got[1].ID, got[1].Score)
	}
}
