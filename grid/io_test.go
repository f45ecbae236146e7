package grid

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g, err := New(2, 2)
	if err != nil {
		t.Fatalf("New(2, 2) error = %v", err)
	}
	randomFill(t, g, rand.New(rand.NewSource(17)))

	path := filepath.Join(t.TempDir(), "state.cells")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rows, cols := g.Dim()
	if lr, lc := loaded.Dim(); lr != rows || lc != cols {
		t.Fatalf("loaded Dim() = (%d, %d), want (%d, %d)", lr, lc, rows, cols)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if mustCellState(t, loaded, row, col) != mustCellState(t, g, row, col) {
				t.Fatalf("cell (%d, %d) differs after round trip", row, col)
			}
		}
	}
}

func TestSaveFormat(t *testing.T) {
	g, err := New(1, 1)
	if err != nil {
		t.Fatalf("New(1, 1) error = %v", err)
	}
	if err := g.SetAlive(3, 4); err != nil {
		t.Fatalf("SetAlive error = %v", err)
	}
	if err := g.SetAlive(0, 31); err != nil {
		t.Fatalf("SetAlive error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "state.cells")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}

	// Cells are emitted in row-major order and the file carries no
	// trailing newline.
	want := "1 1\n0 31\n3 4"
	if string(data) != want {
		t.Errorf("save file = %q, want %q", data, want)
	}
}

func TestLoadToleratesTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cells")
	if err := os.WriteFile(path, []byte("1 1\n2 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state := mustCellState(t, g, 2, 3); state != CellAlive {
		t.Errorf("cell (2, 3) = %v, want alive", state)
	}
}

func TestLoadSeparatorIsAnySingleNonDigit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cells")
	if err := os.WriteFile(path, []byte("1,1\n5\t6"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state := mustCellState(t, g, 5, 6); state != CellAlive {
		t.Errorf("cell (5, 6) = %v, want alive", state)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing second dim", "3"},
		{"garbage header", "abc def"},
		{"zero dims", "0 3"},
		{"malformed cell line", "1 1\n4 x"},
		{"row out of bounds", "1 1\n32 0"},
		{"col out of bounds", "1 1\n0 32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.cells")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatalf("WriteFile error = %v", err)
			}

			if _, err := Load(path); err == nil {
				t.Errorf("Load(%q) should fail", tt.data)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.cells")); err == nil {
		t.Error("Load should fail on a missing file")
	}
}
