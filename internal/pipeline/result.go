// Package pipeline composes the four engines into a document processor:
// header extraction, table extraction, validation, and confidence routing.
package pipeline

import (
	"github.com/joseph-ayodele/invoice-pipeline/internal/header"
	"github.com/joseph-ayodele/invoice-pipeline/internal/routing"
	"github.com/joseph-ayodele/invoice-pipeline/internal/table"
	"github.com/joseph-ayodele/invoice-pipeline/internal/validate"
)

// Result is the complete pipeline output for one document. A failed item in
// a batch still yields a Result, with Failed set and zero confidence.
type Result struct {
	DocumentID       string                    `json:"document_id"`
	OCRConfidence    float64                   `json:"ocr_confidence"`
	Header           *header.Output            `json:"header,omitempty"`
	Validation       *validate.DocumentResult  `json:"validation,omitempty"`
	Tables           []*table.Output           `json:"tables,omitempty"`
	Decision         *routing.DocumentDecision `json:"decision,omitempty"`
	Confidence       float64                   `json:"confidence"`
	ProcessingTimeMS float64                   `json:"processing_time_ms"`
	Failed           bool                      `json:"failed,omitempty"`
	Error            string                    `json:"error,omitempty"`
}
