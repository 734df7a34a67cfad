package scoring

import "testing"

func TestComputeVolumeFactor(t *testing.T) {
	cases := []struct {
		name        string
		total       int
		maxExpected int
		want        float64
	}{
		{"zero tips", 0, 500, 0},
		{"below ceiling", 50, 500, 10},
		{"half ceiling", 250, 500, 50},
		{"at ceiling", 500, 500, 100},
		{"above ceiling saturates", 900, 500, 100},
		{"degenerate ceiling", 10, 0, 0},
	}

	for _, tc := range cases {
		if got := computeVolumeFactor(tc.total, tc.maxExpected); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestComputeVolumeFactor_Monotonic(t *testing.T) {
	prev := -1.0
	for n := 0; n <= 600; n += 25 {
		got := computeVolumeFactor(n, 500)
		if got < prev {
			t.Fatalf("volume factor decreased at n=%d: %v < %v", n, got, prev)
		}
		prev = got
	}
}
