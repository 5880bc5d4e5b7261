package vocab

import (
	"testing"
)

func TestBuildFrequencyOrdering(t *testing.T) {
	v, err := Build([]string{"a", "b", "a", "c", "a", "b"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]int32{"a": 0, "b": 1, "c": 2}
	for tok, wantID := range want {
		id, ok := v.ID(tok)
		if !ok {
			t.Fatalf("missing token %q", tok)
		}
		if id != wantID {
			t.Fatalf("ID(%q) = %d, want %d", tok, id, wantID)
		}
	}
	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}
	if v.Total() != 6 {
		t.Fatalf("Total() = %d, want 6", v.Total())
	}
}

func TestBuildDenseIDsAndRoundTrip(t *testing.T) {
	tokens := []string{"x", "y", "z", "y", "w", "x", "x", "v"}
	v, err := Build(tokens)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[int32]bool)
	for _, tok := range tokens {
		id, ok := v.ID(tok)
		if !ok {
			t.Fatalf("missing token %q", tok)
		}
		if id < 0 || int(id) >= v.Len() {
			t.Fatalf("id %d out of range [0, %d)", id, v.Len())
		}
		seen[id] = true

		back, ok := v.Token(id)
		if !ok || back != tok {
			t.Fatalf("Token(ID(%q)) = %q", tok, back)
		}
	}
	// No gaps: every id in {0, ..., len-1} is assigned.
	if len(seen) != v.Len() {
		t.Fatalf("%d distinct ids for %d tokens", len(seen), v.Len())
	}
}

func TestBuildTieBreakFirstSeen(t *testing.T) {
	v, err := Build([]string{"b", "a", "b", "a"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if id, _ := v.ID("b"); id != 0 {
		t.Fatalf("ID(b) = %d, want 0 (first seen on tie)", id)
	}
	if id, _ := v.ID("a"); id != 1 {
		t.Fatalf("ID(a) = %d, want 1", id)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	if _, err := Build(nil); err == nil {
		t.Fatal("expected error for empty token sequence")
	}
}

func TestEncodeSkipsUnknown(t *testing.T) {
	v, err := Build([]string{"a", "b"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := v.Encode([]string{"a", "oov", "b"})
	if len(ids) != 2 {
		t.Fatalf("Encode kept %d ids, want 2", len(ids))
	}
}

func TestFromCountsRoundTrip(t *testing.T) {
	v, err := Build([]string{"a", "b", "a", "c", "a", "b"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	restored, err := FromCounts(v.Tokens(), v.Counts())
	if err != nil {
		t.Fatalf("FromCounts: %v", err)
	}
	if restored.Len() != v.Len() || restored.Total() != v.Total() {
		t.Fatalf("restored %d/%d, want %d/%d", restored.Len(), restored.Total(), v.Len(), v.Total())
	}
	for _, tok := range v.Tokens() {
		a, _ := v.ID(tok)
		b, ok := restored.ID(tok)
		if !ok || a != b {
			t.Fatalf("restored ID(%q) = %d, want %d", tok, b, a)
		}
	}
}

func TestFromCountsRejectsDuplicates(t *testing.T) {
	if _, err := FromCounts([]string{"a", "a"}, []int64{2, 1}); err == nil {
		t.Fatal("expected error for duplicate token")
	}
}
