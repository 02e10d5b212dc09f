package table

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
	"github.com/joseph-ayodele/invoice-pipeline/internal/geometry"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
)

// Engine orchestrates table extraction: clustering, header detection, row
// alignment, numeric validation, confidence scoring. A failed stage records
// an error in the output metadata and reports table_found=false; it never
// fails the document.
type Engine struct {
	clusterer *Clusterer
	headers   *HeaderDetector
	rows      *RowExtractor
	validator NumericValidator
	cfg       common.TableConfig
	logger    *slog.Logger
}

func NewEngine(cfg common.TableConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RowBucketHeight <= 0 {
		cfg.RowBucketHeight = 20.0
	}
	if cfg.MinTableCells <= 0 {
		cfg.MinTableCells = 4
	}
	return &Engine{
		clusterer: NewClusterer(cfg.DistanceThreshold, cfg.MinTableCells),
		headers:   NewHeaderDetector(),
		rows:      NewRowExtractor(cfg.VerticalAlignment),
		cfg:       cfg,
		logger:    logger,
	}
}

// ExtractTables finds and extracts every table in the positioned OCR output.
func (e *Engine) ExtractTables(boxes []ocr.Box) []*Output {
	start := time.Now()

	clusters := e.clusterer.Cluster(boxes)
	var tables []*Output
	for _, cluster := range clusters {
		out := e.extractSingleTable(cluster)
		if out.TableFound {
			tables = append(tables, out)
		}
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	for _, t := range tables {
		t.ProcessingTimeMS = elapsed
	}

	e.logger.Info("table.extracted",
		"boxes", len(boxes),
		"clusters", len(clusters),
		"tables", len(tables),
	)
	return tables
}

func (e *Engine) bucket(b geometry.BoundingBox) int {
	return int(b.CenterY() / e.cfg.RowBucketHeight)
}

func (e *Engine) extractSingleTable(cluster []ocr.Box) *Output {
	out := &Output{}

	region, ok := e.clusterer.DetectRegion(cluster)
	if !ok {
		return out
	}
	out.Region = &region

	filtered := make([]ocr.Box, 0, len(cluster))
	for _, b := range cluster {
		if region.Contains(b.Bounds) {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) < e.cfg.MinTableCells {
		out.Metadata.Errors = append(out.Metadata.Errors, "cluster filtered to too few cells")
		return out
	}

	// Header detection on row buckets.
	bucketCells := make([]bucketCell, len(filtered))
	bucketSet := make(map[int]struct{})
	for i, b := range filtered {
		bk := e.bucket(b.Bounds)
		bucketCells[i] = bucketCell{text: b.Text, bucket: bk}
		bucketSet[bk] = struct{}{}
	}
	numRows := len(bucketSet)

	headerBucket, headerConf := e.headers.DetectHeaderRow(bucketCells, numRows)

	var headerBoxes []ocr.Box
	for _, b := range filtered {
		if e.bucket(b.Bounds) == headerBucket {
			headerBoxes = append(headerBoxes, b)
		}
	}
	sort.Slice(headerBoxes, func(i, j int) bool {
		return headerBoxes[i].Bounds.CenterX() < headerBoxes[j].Bounds.CenterX()
	})
	if len(headerBoxes) == 0 {
		out.Metadata.Errors = append(out.Metadata.Errors, "no header texts detected")
		return out
	}
	headerTexts := make([]string, len(headerBoxes))
	for i, b := range headerBoxes {
		headerTexts[i] = b.Text
	}

	mappings := e.headers.MapColumnNames(headerTexts)

	// Column spans: each header cell's x_min starts a column; the last column
	// runs to the region edge.
	xRanges := make([]xRange, len(headerBoxes))
	for i := range headerBoxes {
		xRanges[i].min = headerBoxes[i].Bounds.XMin
		if i+1 < len(headerBoxes) {
			xRanges[i].max = headerBoxes[i+1].Bounds.XMin
		} else {
			xRanges[i].max = region.XMax
		}
	}

	columns := make([]Column, 0, len(mappings))
	schema := constants.StandardSchema()
	for i, m := range mappings {
		if i >= len(xRanges) {
			break
		}
		colType, ok := schema[m.Standard]
		if !ok {
			colType = constants.ColTypeText
		}
		columns = append(columns, Column{
			Index:      i,
			Standard:   m.Standard,
			Detected:   m.Detected,
			Type:       colType,
			XMin:       xRanges[i].min,
			XMax:       xRanges[i].max,
			Confidence: m.Confidence,
		})
	}

	rowsDict := e.rows.ExtractRows(filtered, xRanges)

	// Order the row groups top to bottom, drop the header row, and renumber
	// data rows from zero.
	type groupInfo struct {
		idx  int
		avgY float64
	}
	groups := make([]groupInfo, 0, len(rowsDict))
	for idx, cells := range rowsDict {
		var sum float64
		var n int
		for _, b := range cells {
			sum += b.Bounds.CenterY()
			n++
		}
		if n == 0 {
			continue
		}
		groups = append(groups, groupInfo{idx: idx, avgY: sum / float64(n)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].avgY < groups[j].avgY })

	var rows []Row
	var rowConfidences []float64
	for _, g := range groups {
		if int(g.avgY/e.cfg.RowBucketHeight) == headerBucket {
			continue
		}

		cellsByCol := rowsDict[g.idx]
		rowCells := make(map[constants.StandardColumn]Cell)
		var cellConfs []float64
		var cellBounds []geometry.BoundingBox

		rowIdx := len(rows)
		for colIdx, col := range columns {
			box, ok := cellsByCol[colIdx]
			if !ok {
				continue
			}
			_, _, conf := e.validator.IsNumeric(box.Text, col.Standard)
			bounds := box.Bounds
			rowCells[col.Standard] = Cell{
				RowIdx:     rowIdx,
				ColIdx:     colIdx,
				Value:      box.Text,
				Confidence: conf,
				Bounds:     &bounds,
				Method:     constants.MethodAlignment,
			}
			cellConfs = append(cellConfs, conf)
			cellBounds = append(cellBounds, bounds)
		}
		if len(rowCells) == 0 {
			continue
		}

		values := make(map[constants.StandardColumn]string, len(rowCells))
		for col, cell := range rowCells {
			values[col] = cell.Value
		}
		_, validation := e.validator.ValidateRow(values)

		var rowBounds *geometry.BoundingBox
		if env, ok := geometry.Envelope(cellBounds); ok {
			rowBounds = &env
		}

		rowConf := confidence.TableScore(cellConfs, 1.0, 1.0)
		rows = append(rows, Row{
			Index:      rowIdx,
			Cells:      rowCells,
			Confidence: rowConf,
			Bounds:     rowBounds,
			Validation: validation,
		})
		rowConfidences = append(rowConfidences, rowConf)
	}

	out.TableFound = true
	out.Columns = columns
	out.Rows = rows
	out.OverallConfidence = confidence.Mean(rowConfidences)
	out.TableConfidence = tableConfidence(len(rows))
	out.HeaderConfidence = headerConf
	out.RowConfidences = rowConfidences
	out.Metadata.NumRows = len(rows)
	out.Metadata.NumColumns = len(columns)
	out.Metadata.NumCells = len(rows) * len(columns)
	return out
}

// tableConfidence grows with row count and saturates at ten rows.
func tableConfidence(numRows int) float64 {
	c := float64(numRows) / 10.0
	if c > 1.0 {
		return 1.0
	}
	return c
}

// String renders a compact description for logs.
func (o *Output) String() string {
	return fmt.Sprintf("table(found=%t rows=%d cols=%d conf=%.2f)",
		o.TableFound, len(o.Rows), len(o.Columns), o.OverallConfidence)
}
