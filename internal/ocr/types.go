// Package ocr defines the input contract of the pipeline: the decoded output
// of an upstream OCR engine, plus a text-quality heuristic used as a
// confidence prior when the engine reports none.
package ocr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/internal/geometry"
)

// Box is a single positioned OCR fragment, the unit of table detection.
type Box struct {
	Text       string               `json:"text"`
	Bounds     geometry.BoundingBox `json:"bounds"`
	Confidence float64              `json:"confidence,omitempty"`
}

// Line is one text line of the document. Bounds are optional; header
// extraction works on plain text when the engine gives no geometry.
type Line struct {
	Text       string                `json:"text"`
	Bounds     *geometry.BoundingBox `json:"bounds,omitempty"`
	Confidence float64               `json:"confidence,omitempty"`
}

// Document is the decoded OCR result for one invoice.
type Document struct {
	ID     string `json:"id"`
	Locale string `json:"locale,omitempty"`
	Lines  []Line `json:"lines"`
	Boxes  []Box  `json:"boxes,omitempty"`
}

// Texts returns the line texts in document order.
func (d *Document) Texts() []string {
	out := make([]string, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.Text
	}
	return out
}

// FullText joins all lines for consumers that want a single blob.
func (d *Document) FullText() string {
	return strings.Join(d.Texts(), "\n")
}

// LoadDocument reads a Document from a JSON file.
func LoadDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ocr document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode ocr document %s: %w", path, err)
	}
	if doc.ID == "" {
		doc.ID = strings.TrimSuffix(strings.TrimSuffix(path, ".json"), "/")
	}
	return &doc, nil
}
