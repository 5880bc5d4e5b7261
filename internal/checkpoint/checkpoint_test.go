package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	rows := [][]float32{
		{1, 2, 3},
		{4, 5, 6},
		{-1.5, 0, 2.25},
	}
	path := filepath.Join(t.TempDir(), "embedding.sgck")
	if err := Save(path, rows); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ck, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ck.Rows() != 3 || ck.Dim() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", ck.Rows(), ck.Dim())
	}
	for i, row := range rows {
		got := ck.Row(i)
		for j := range row {
			if got[j] != row[j] {
				t.Fatalf("row %d col %d = %g, want %g", i, j, got[j], row[j])
			}
		}
	}
}

func TestValidateRowMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embedding.sgck")
	if err := Save(path, [][]float32{{1}, {2}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ck, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := ck.Validate(2); err != nil {
		t.Fatalf("Validate(2): %v", err)
	}
	err = ck.Validate(3)
	if !errors.Is(err, ErrRowMismatch) {
		t.Fatalf("Validate(3) = %v, want ErrRowMismatch", err)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sgck")
	if err := os.WriteFile(path, []byte("XXXX000000000000"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestLoadRejectsSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embedding.sgck")
	if err := Save(path, [][]float32{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-4], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for truncated checkpoint")
	}
}

func TestSaveRejectsRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embedding.sgck")
	if err := Save(path, [][]float32{{1, 2}, {3}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
	if err := Save(path, nil); err == nil {
		t.Fatal("expected error for empty table")
	}
}
