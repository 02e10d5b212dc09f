package table

import (
	"math"

	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
)

// RowExtractor groups positioned cells into rows by vertical alignment and
// assigns each cell to a column by horizontal position.
type RowExtractor struct {
	verticalThreshold float64
}

func NewRowExtractor(verticalThreshold float64) *RowExtractor {
	if verticalThreshold <= 0 {
		verticalThreshold = 10.0
	}
	return &RowExtractor{verticalThreshold: verticalThreshold}
}

// xRange is one column's horizontal span.
type xRange struct {
	min, max float64
}

// ExtractRows buckets boxes into rows by y-center and into columns by
// x-center. When two boxes land in the same cell the longer text wins, since
// OCR fragments are usually truncations.
func (e *RowExtractor) ExtractRows(boxes []ocr.Box, columns []xRange) map[int]map[int]ocr.Box {
	if len(boxes) == 0 {
		return nil
	}

	type rowGroup struct {
		cells map[int][]ocr.Box
		ySum  float64
		n     int
	}
	var groups []*rowGroup

	findRow := func(yCenter float64) *rowGroup {
		for _, g := range groups {
			if math.Abs(yCenter-g.ySum/float64(g.n)) < e.verticalThreshold {
				return g
			}
		}
		g := &rowGroup{cells: make(map[int][]ocr.Box)}
		groups = append(groups, g)
		return g
	}

	for _, box := range boxes {
		g := findRow(box.Bounds.CenterY())
		col := e.findColumn(box.Bounds.CenterX(), columns)
		g.cells[col] = append(g.cells[col], box)
		g.ySum += box.Bounds.CenterY()
		g.n++
	}

	consolidated := make(map[int]map[int]ocr.Box, len(groups))
	for rowIdx, g := range groups {
		row := make(map[int]ocr.Box, len(g.cells))
		for colIdx, cells := range g.cells {
			best := cells[0]
			for _, c := range cells[1:] {
				if len(c.Text) > len(best.Text) {
					best = c
				}
			}
			row[colIdx] = best
		}
		consolidated[rowIdx] = row
	}
	return consolidated
}

// findColumn places an x-center inside a column span, or snaps to the
// closest column when it falls in a gap.
func (e *RowExtractor) findColumn(xCenter float64, columns []xRange) int {
	for i, col := range columns {
		if xCenter >= col.min && xCenter <= col.max {
			return i
		}
	}

	closest := 0
	minDist := math.Inf(1)
	for i, col := range columns {
		center := (col.min + col.max) / 2
		if d := math.Abs(xCenter - center); d < minDist {
			minDist = d
			closest = i
		}
	}
	return closest
}
