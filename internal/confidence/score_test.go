package confidence

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.3, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHeaderScore(t *testing.T) {
	tests := []struct {
		name         string
		base         float64
		value        string
		proximity    float64
		completeness float64
		want         float64
	}{
		{"full multipliers", 0.8, "INV-001", 1.0, 1.0, 0.8},
		{"proximity decay", 0.8, "INV-001", 0.85, 1.0, 0.68},
		{"short value halved", 0.8, "7", 1.0, 1.0, 0.4},
		{"clamped to one", 2.0, "INV-001", 1.0, 1.0, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeaderScore(tt.base, tt.value, tt.proximity, tt.completeness)
			if !almostEqual(got, tt.want) {
				t.Errorf("HeaderScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTableScore(t *testing.T) {
	got := TableScore([]float64{0.9, 0.7}, 1.0, 1.0)
	if !almostEqual(got, 0.8) {
		t.Errorf("TableScore() = %v, want 0.8", got)
	}

	got = TableScore([]float64{0.9, 0.7}, 0.5, 0.9)
	if !almostEqual(got, 0.8*0.5*0.9) {
		t.Errorf("TableScore() = %v, want %v", got, 0.8*0.5*0.9)
	}

	if got := TableScore(nil, 1.0, 1.0); got != 0 {
		t.Errorf("TableScore(nil) = %v, want 0", got)
	}
}

func TestMeanAndRange(t *testing.T) {
	vals := []float64{0.2, 0.8, 0.5}
	if got := Mean(vals); !almostEqual(got, 0.5) {
		t.Errorf("Mean() = %v, want 0.5", got)
	}
	if got := Range(vals); !almostEqual(got, 0.6) {
		t.Errorf("Range() = %v, want 0.6", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Range(nil); got != 0 {
		t.Errorf("Range(nil) = %v, want 0", got)
	}
}
