// Package table implements table detection and row/column alignment over
// positioned OCR output: bbox clustering finds candidate regions, a header
// row is detected and mapped to the standard column schema, and data rows
// are rebuilt from vertical alignment.
package table

import (
	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/geometry"
)

// Cell is a single extracted table cell.
type Cell struct {
	RowIdx     int
	ColIdx     int
	Value      string
	Confidence float64
	Bounds     *geometry.BoundingBox
	Method     constants.CellMethod
}

// Column is the metadata of one detected column.
type Column struct {
	Index      int
	Standard   constants.StandardColumn
	Detected   string
	Type       constants.ColumnType
	XMin       float64
	XMax       float64
	Confidence float64
}

// RowValidation summarizes type validation over a row's cells.
type RowValidation struct {
	ValidFields   int      `json:"valid_fields"`
	InvalidFields int      `json:"invalid_fields"`
	Errors        []string `json:"errors,omitempty"`
}

// Row is a complete data row keyed by standard column name.
type Row struct {
	Index      int
	Cells      map[constants.StandardColumn]Cell
	Confidence float64
	Bounds     *geometry.BoundingBox
	Validation RowValidation
}

// Metadata carries counts and the per-stage errors accumulated while
// extracting a table.
type Metadata struct {
	NumRows    int
	NumColumns int
	NumCells   int
	Errors     []string
}

// Output is the complete extraction result for one candidate table region.
type Output struct {
	TableFound        bool
	Region            *geometry.BoundingBox
	Columns           []Column
	Rows              []Row
	OverallConfidence float64
	TableConfidence   float64
	HeaderConfidence  float64
	RowConfidences    []float64
	ProcessingTimeMS  float64
	Metadata          Metadata
}
