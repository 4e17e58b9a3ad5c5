// ABOUTME: Tests for channel downmix
// ABOUTME: Verifies the L + R/2 stereo weighting and mono passthrough
package capture

import "testing"

func TestDownmix(t *testing.T) {
	tests := []struct {
		name     string
		src      []float32
		channels int
		expected []float32
	}{
		{"mono passthrough", []float32{0.1, -0.2, 0.3}, 1, []float32{0.1, -0.2, 0.3}},
		{"stereo L plus half R", []float32{1.0, 2.0, 0.0, 0.0}, 2, []float32{2.0, 0.0}},
		{"stereo is not an average", []float32{1.0, 1.0}, 2, []float32{1.5}},
		{"stereo negative", []float32{-0.5, 0.5}, 2, []float32{-0.25}},
		{"stereo odd trailing sample", []float32{1, 1, 9}, 2, []float32{1.5}},
		{"empty", nil, 2, []float32{}},
		{"unsupported channels", []float32{1, 2, 3, 4, 5, 6}, 3, []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Downmix(nil, tt.src, tt.channels)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("frame %d: expected %f, got %f", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestDownmixReusesDst(t *testing.T) {
	dst := make([]float32, 0, 8)

	out := Downmix(dst, []float32{1, 2, 3, 4}, 2)
	if &out[0] != &dst[:1][0] {
		t.Error("expected stereo downmix to reuse dst")
	}

	out = Downmix(dst, []float32{1, 2, 3}, 1)
	if &out[0] != &dst[:1][0] {
		t.Error("expected mono copy to reuse dst")
	}
}
