package ocr

import (
	"math"
	"testing"
)

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestHeuristicConfidence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty text gets base only", "", 0.2},
		{"date bumps score", "Invoice dated 15/02/2024", 0.4},
		{
			"date, currency and amount all bump",
			"Invoice 15/02/2024 Total 1,070.00 THB",
			0.7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeuristicConfidence(tt.text); !closeTo(got, tt.want) {
				t.Errorf("HeuristicConfidence(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDocumentConfidence(t *testing.T) {
	withEngine := &Document{Lines: []Line{
		{Text: "a", Confidence: 0.8},
		{Text: "b", Confidence: 0.6},
		{Text: "c"}, // unreported lines are skipped
	}}
	if got := DocumentConfidence(withEngine); !closeTo(got, 0.7) {
		t.Errorf("DocumentConfidence() = %v, want 0.7", got)
	}

	withoutEngine := &Document{Lines: []Line{
		{Text: "Total 1,070.00 ฿ on 15/02/2567"},
	}}
	if got := DocumentConfidence(withoutEngine); !closeTo(got, 0.7) {
		t.Errorf("DocumentConfidence() fallback = %v, want 0.7", got)
	}
}
