// Package header implements the multi-stage invoice header extraction
// pipeline: template matching, regex anchors, an optional ML model, and an
// optional LLM fallback. Stages run in strict order and a field accepted at
// an earlier stage is never revisited by a later one.
package header

import (
	"context"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/geometry"
)

// ExtractionResult is one candidate value for one header field.
type ExtractionResult struct {
	Field      constants.FieldType   `json:"field_type"`
	Value      string                `json:"value"`
	Confidence float64               `json:"confidence"`
	Source     constants.Source      `json:"source"`
	Stage      constants.Stage       `json:"stage"`
	Bounds     *geometry.BoundingBox `json:"bbox,omitempty"`
	RawText    string                `json:"raw_text,omitempty"`
	Evidence   map[string]any        `json:"evidence,omitempty"`
}

// Output is the complete extraction result for an invoice header.
type Output struct {
	Fields            map[constants.FieldType]ExtractionResult `json:"fields"`
	OverallConfidence float64                                  `json:"overall_confidence"`
	FinalStage        constants.Stage                          `json:"extracted_at_stage"`
	ProcessingTimeMS  float64                                  `json:"processing_time_ms"`
	AllResults        []ExtractionResult                       `json:"all_results,omitempty"`
}

// Field returns the accepted result for a field, if any.
func (o *Output) Field(ft constants.FieldType) (ExtractionResult, bool) {
	r, ok := o.Fields[ft]
	return r, ok
}

// HighConfidenceFields returns the accepted fields at or above threshold.
func (o *Output) HighConfidenceFields(threshold float64) map[constants.FieldType]ExtractionResult {
	out := make(map[constants.FieldType]ExtractionResult)
	for ft, r := range o.Fields {
		if r.Confidence >= threshold && r.Value != "" {
			out[ft] = r
		}
	}
	return out
}

// FieldExtractor is one pipeline stage. Extract returns candidates for the
// requested fields only; the engine decides acceptance.
type FieldExtractor interface {
	Extract(ctx context.Context, lines []string, fields []constants.FieldType) []ExtractionResult
	Supports(field constants.FieldType) bool
	Stage() constants.Stage
}
