package calc

import "testing"

func TestTrimmedMean(t *testing.T) {
	tests := []struct {
		name        string
		values      []uint64
		trimPercent float64
		want        uint64
	}{
		{
			name:        "empty slice",
			values:      nil,
			trimPercent: 0.1,
			want:        0,
		},
		{
			name:        "no trimming",
			values:      []uint64{1, 2, 3, 4},
			trimPercent: 0,
			want:        2, // (1+2+3+4)/4 = 2
		},
		{
			name:        "simple trimming",
			values:      []uint64{1, 2, 3, 100},
			trimPercent: 0.25,
			want:        2, // trim 1 from each side -> {2,3}
		},
		{
			name:        "trim percent too large",
			values:      []uint64{10, 20, 30},
			trimPercent: 0.5,
			want:        20,
		},
		{
			name:        "negative trim percent treated as zero",
			values:      []uint64{5, 5, 5},
			trimPercent: -1,
			want:        5,
		},
		{
			name:        "unsorted input",
			values:      []uint64{1000, 12, 10, 11},
			trimPercent: 0.25,
			want:        11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]uint64(nil), tt.values...)
			got := TrimmedMean(tt.values, tt.trimPercent)
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
			for i := range original {
				if tt.values[i] != original[i] {
					t.Fatalf("input slice was modified")
				}
			}
		})
	}
}

func TestTrimmedMean_Float(t *testing.T) {
	got := TrimmedMean([]float64{1.5, 2.5, 3.5, 90}, 0.25)
	if got != 3.0 {
		t.Fatalf("expected 3.0, got %f", got)
	}
}

func TestWindow(t *testing.T) {
	window := NewWindow(4)

	mean, count := window.Drain(0)
	if mean != 0 || count != 0 {
		t.Fatalf("expected empty window, got mean %d count %d", mean, count)
	}

	for _, v := range []uint64{100, 1, 2, 3, 4, 5} {
		window.Add(v)
	}
	// 100 and 1 were overwritten
	mean, count = window.Drain(0)
	if count != 4 {
		t.Fatalf("expected 4 samples, got %d", count)
	}
	if mean != 3 {
		t.Fatalf("expected mean 3, got %d", mean)
	}

	_, count = window.Drain(0)
	if count != 0 {
		t.Fatalf("expected window emptied by drain, got %d samples", count)
	}
}
