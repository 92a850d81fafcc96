package hdf5

import (
	"path/filepath"
	"testing"
)

// create1DChunkedTestFile creates a chunked 1D float64 dataset of the given
// size and chunk size, with data[i] == float64(i).
func create1DChunkedTestFile(t *testing.T, size, chunkSize uint64) string {
	t.Helper()

	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "chunked_1d.h5")

	fw, err := CreateForWrite(filename, CreateTruncate)
	if err != nil {
		t.Fatalf("CreateForWrite failed: %v", err)
	}

	dw, err := fw.CreateDataset("/chunked_1d", Float64, []uint64{size},
		WithChunkDims([]uint64{chunkSize}),
	)
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}

	data := make([]float64, size)
	for i := range data {
		data[i] = float64(i)
	}
	if err := dw.Write(data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := fw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	return filename
}

// TestReadSlice1D tests reading a 1D slice from a chunked dataset.
func TestReadSlice1D(t *testing.T) {
	testFile := create1DChunkedTestFile(t, 100, 10)

	file, err := Open(testFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	ds := findFirstDataset(file)
	if ds == nil {
		t.Fatal("No dataset found in file")
	}

	result, err := ds.ReadSlice([]uint64{23}, []uint64{12})
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}

	values, ok := result.([]float64)
	if !ok {
		t.Fatalf("expected []float64, got %T", result)
	}
	if len(values) != 12 {
		t.Fatalf("expected 12 values, got %d", len(values))
	}
	for i, v := range values {
		want := float64(23 + i)
		if v != want {
			t.Errorf("value %d: got %v, want %v", i, v, want)
		}
	}
}

// TestReadSlice2D tests reading a 2D slice from a chunked dataset.
func TestReadSlice2D(t *testing.T) {
	testFile := createChunkedTestFile(t) // 100x100, 10x10 chunks

	file, err := Open(testFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	ds := findFirstDataset(file)
	if ds == nil {
		t.Fatal("No dataset found in file")
	}

	result, err := ds.ReadSlice([]uint64{14, 23}, []uint64{5, 6})
	if err != nil {
		t.Fatalf("ReadSlice failed: %v", err)
	}

	values, ok := result.([]float64)
	if !ok {
		t.Fatalf("expected []float64, got %T", result)
	}
	if len(values) != 30 {
		t.Fatalf("expected 30 values, got %d", len(values))
	}

	idx := 0
	for r := 0; r < 5; r++ {
		for c := 0; c < 6; c++ {
			want := float64((14+r)*100 + (23 + c))
			if values[idx] != want {
				t.Errorf("value at (%d,%d): got %v, want %v", r, c, values[idx], want)
			}
			idx++
		}
	}
}

// TestReadHyperslabWithStride tests reading with a stride parameter,
// spanning chunk boundaries.
func TestReadHyperslabWithStride(t *testing.T) {
	testFile := create1DChunkedTestFile(t, 100, 10)

	file, err := Open(testFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	ds := findFirstDataset(file)
	if ds == nil {
		t.Fatal("No dataset found in file")
	}

	sel := &HyperslabSelection{
		Start:  []uint64{5},
		Count:  []uint64{10},
		Stride: []uint64{9},
		Block:  []uint64{1},
	}

	result, err := ds.ReadHyperslab(sel)
	if err != nil {
		t.Fatalf("ReadHyperslab failed: %v", err)
	}

	values, ok := result.([]float64)
	if !ok {
		t.Fatalf("expected []float64, got %T", result)
	}
	if len(values) != 10 {
		t.Fatalf("expected 10 values, got %d", len(values))
	}
	for i, v := range values {
		want := float64(5 + i*9)
		if v != want {
			t.Errorf("value %d: got %v, want %v", i, v, want)
		}
	}
}

// TestReadHyperslabOutOfBounds tests error handling for out-of-bounds selection.
func TestReadHyperslabOutOfBounds(t *testing.T) {
	testFile := create1DChunkedTestFile(t, 100, 10)

	file, err := Open(testFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()

	ds := findFirstDataset(file)
	if ds == nil {
		t.Fatal("No dataset found in file")
	}

	sel := &HyperslabSelection{
		Start: []uint64{90},
		Count: []uint64{20},
	}

	if _, err := ds.ReadHyperslab(sel); err == nil {
		t.Error("expected error for out-of-bounds selection, got nil")
	}
}

// TestValidateHyperslabSelection tests selection validation logic.
func TestValidateHyperslabSelection(t *testing.T) {
	tests := []struct {
		name    string
		sel     *HyperslabSelection
		dims    []uint64
		wantErr bool
	}{
		{
			name: "valid simple selection",
			sel: &HyperslabSelection{
				Start: []uint64{0, 0},
				Count: []uint64{10, 10},
			},
			dims:    []uint64{100, 100},
			wantErr: false,
		},
		{
			name: "valid with stride and block",
			sel: &HyperslabSelection{
				Start:  []uint64{0, 0},
				Count:  []uint64{10, 10},
				Stride: []uint64{2, 2},
				Block:  []uint64{1, 1},
			},
			dims:    []uint64{100, 100},
			wantErr: false,
		},
		{
			name: "dimension mismatch - start",
			sel: &HyperslabSelection{
				Start: []uint64{0},
				Count: []uint64{10, 10},
			},
			dims:    []uint64{100, 100},
			wantErr: true,
		},
		{
			name: "dimension mismatch - count",
			sel: &HyperslabSelection{
				Start: []uint64{0, 0},
				Count: []uint64{10},
			},
			dims:    []uint64{100, 100},
			wantErr: true,
		},
		{
			name: "out of bounds",
			sel: &HyperslabSelection{
				Start: []uint64{90, 90},
				Count: []uint64{20, 20},
			},
			dims:    []uint64{100, 100},
			wantErr: true,
		},
		{
			name: "zero count",
			sel: &HyperslabSelection{
				Start: []uint64{0, 0},
				Count: []uint64{0, 10},
			},
			dims:    []uint64{100, 100},
			wantErr: true,
		},
		{
			name: "zero stride",
			sel: &HyperslabSelection{
				Start:  []uint64{0, 0},
				Count:  []uint64{10, 10},
				Stride: []uint64{0, 1},
			},
			dims:    []uint64{100, 100},
			wantErr: true,
		},
		{
			name: "zero block",
			sel: &HyperslabSelection{
				Start: []uint64{0, 0},
				Count: []uint64{10, 10},
				Block: []uint64{0, 1},
			},
			dims:    []uint64{100, 100},
			wantErr: true,
		},
		{
			name: "1D selection valid",
			sel: &HyperslabSelection{
				Start: []uint64{10},
				Count: []uint64{50},
			},
			dims:    []uint64{100},
			wantErr: false,
		},
		{
			name: "3D selection valid",
			sel: &HyperslabSelection{
				Start: []uint64{0, 0, 0},
				Count: []uint64{10, 10, 10},
			},
			dims:    []uint64{100, 100, 100},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHyperslabSelection(tt.sel, tt.dims)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHyperslabSelection() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestCalculateHyperslabOutputSize tests output size calculation.
func TestCalculateHyperslabOutputSize(t *testing.T) {
	tests := []struct {
		name string
		sel  *HyperslabSelection
		want uint64
	}{
		{
			name: "simple 1D",
			sel: &HyperslabSelection{
				Count: []uint64{50},
				Block: []uint64{1},
			},
			want: 50,
		},
		{
			name: "simple 2D",
			sel: &HyperslabSelection{
				Count: []uint64{10, 20},
				Block: []uint64{1, 1},
			},
			want: 200,
		},
		{
			name: "with block size",
			sel: &HyperslabSelection{
				Count: []uint64{10, 10},
				Block: []uint64{2, 2},
			},
			want: 400, // 10*2 * 10*2 = 20*20 = 400
		},
		{
			name: "3D",
			sel: &HyperslabSelection{
				Count: []uint64{5, 10, 20},
				Block: []uint64{1, 1, 1},
			},
			want: 1000,
		},
		{
			name: "empty selection",
			sel: &HyperslabSelection{
				Count: []uint64{},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateHyperslabOutputSize(tt.sel)
			if got != tt.want {
				t.Errorf("calculateHyperslabOutputSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCalculateLinearOffset tests N-dimensional coordinate to linear offset conversion.
func TestCalculateLinearOffset(t *testing.T) {
	tests := []struct {
		name   string
		coords []uint64
		dims   []uint64
		want   uint64
	}{
		{
			name:   "1D origin",
			coords: []uint64{0},
			dims:   []uint64{100},
			want:   0,
		},
		{
			name:   "1D middle",
			coords: []uint64{50},
			dims:   []uint64{100},
			want:   50,
		},
		{
			name:   "2D origin",
			coords: []uint64{0, 0},
			dims:   []uint64{10, 20},
			want:   0,
		},
		{
			name:   "2D first row",
			coords: []uint64{0, 5},
			dims:   []uint64{10, 20},
			want:   5,
		},
		{
			name:   "2D second row start",
			coords: []uint64{1, 0},
			dims:   []uint64{10, 20},
			want:   20, // Row 1 starts at offset 20 (row-major)
		},
		{
			name:   "2D middle",
			coords: []uint64{2, 3},
			dims:   []uint64{10, 20},
			want:   43, // 2*20 + 3 = 43
		},
		{
			name:   "3D origin",
			coords: []uint64{0, 0, 0},
			dims:   []uint64{5, 10, 20},
			want:   0,
		},
		{
			name:   "3D middle",
			coords: []uint64{1, 2, 3},
			dims:   []uint64{5, 10, 20},
			want:   243, // 1*10*20 + 2*20 + 3 = 200 + 40 + 3 = 243
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateLinearOffset(tt.coords, tt.dims)
			if got != tt.want {
				t.Errorf("calculateLinearOffset() = %v, want %v", got, tt.want)
			}
		})
	}
}
