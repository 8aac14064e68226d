package utils

import "testing"

func TestChunk(t *testing.T) {
	cases := []struct {
		name     string
		items    []int
		size     int
		wantLens []int
	}{
		{"empty", nil, 100, nil},
		{"under limit", []int{1, 2, 3}, 100, []int{3}},
		{"exact multiple", []int{1, 2, 3, 4}, 2, []int{2, 2}},
		{"with remainder", []int{1, 2, 3, 4, 5}, 2, []int{2, 2, 1}},
		{"size one", []int{1, 2, 3}, 1, []int{1, 1, 1}},
		{"non-positive size", []int{1, 2, 3}, 0, []int{3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := Chunk(tc.items, tc.size)
			if len(chunks) != len(tc.wantLens) {
				t.Fatalf("expected %d chunks, got %d", len(tc.wantLens), len(chunks))
			}

			var flattened []int
			for i, chunk := range chunks {
				if len(chunk) != tc.wantLens[i] {
					t.Errorf("chunk %d: expected len %d, got %d", i, tc.wantLens[i], len(chunk))
				}
				flattened = append(flattened, chunk...)
			}

			// Order must be preserved across the split
			for i, v := range flattened {
				if v != tc.items[i] {
					t.Errorf("element %d: expected %d, got %d", i, tc.items[i], v)
				}
			}
		})
	}
}
