package table

import (
	"sort"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// ColumnMapping is the result of mapping one header text to the schema.
type ColumnMapping struct {
	Detected   string
	Standard   constants.StandardColumn
	Confidence float64
}

// HeaderDetector finds the header row of a table and maps its texts onto the
// standard column schema. Indicator lists cover English and Thai headers.
type HeaderDetector struct {
	indicators []string
}

func NewHeaderDetector() *HeaderDetector {
	return &HeaderDetector{
		indicators: []string{
			"item", "description", "qty", "quantity", "price", "unit",
			"amount", "total", "name", "product", "code", "sku",
			"รายการ", "จำนวน", "ราคา", "หน่วย", "รวม",
		},
	}
}

// bucketCell is a cell annotated with its row bucket.
type bucketCell struct {
	text   string
	bucket int
}

// DetectHeaderRow scores the top rows of the table as header candidates and
// returns the winning row bucket with a confidence. Headers score on keyword
// density, vertical position and text length.
func (d *HeaderDetector) DetectHeaderRow(cells []bucketCell, numRows int) (int, float64) {
	if len(cells) == 0 || numRows < 2 {
		return 0, 0.5
	}

	rowGroups := make(map[int][]string)
	for _, c := range cells {
		rowGroups[c.bucket] = append(rowGroups[c.bucket], strings.ToLower(c.text))
	}

	buckets := make([]int, 0, len(rowGroups))
	for b := range rowGroups {
		buckets = append(buckets, b)
	}
	sort.Ints(buckets)
	if len(buckets) > 3 {
		buckets = buckets[:3] // headers live near the top
	}

	bestRow := 0
	bestScore := 0.0
	for _, bucket := range buckets {
		texts := rowGroups[bucket]

		indicatorCount := 0
		for _, t := range texts {
			for _, ind := range d.indicators {
				if strings.Contains(t, ind) {
					indicatorCount++
					break
				}
			}
		}

		positionScore := 1.0 - float64(bucket)/float64(numRows+1)

		var lengthScore float64
		if len(texts) > 0 {
			total := 0
			for _, t := range texts {
				total += len(t)
			}
			avg := float64(total) / float64(len(texts))
			if avg >= 5 && avg <= 30 {
				lengthScore = 1.0
			} else {
				lengthScore = 0.6
			}
		} else {
			lengthScore = 0.5
		}

		score := float64(indicatorCount)/float64(len(texts))*0.5 +
			positionScore*0.3 +
			lengthScore*0.2

		if score > bestScore {
			bestScore = score
			bestRow = bucket
		}
	}

	conf := bestScore * 1.2
	if conf > 1.0 {
		conf = 1.0
	}
	return bestRow, conf
}

// MapColumnNames maps detected header texts to standard columns. Unknown
// headers fall back to description at reduced confidence.
func (d *HeaderDetector) MapColumnNames(headerTexts []string) []ColumnMapping {
	mappings := make([]ColumnMapping, 0, len(headerTexts))
	for _, text := range headerTexts {
		lower := strings.ToLower(strings.TrimSpace(text))

		standard := constants.ColDescription
		conf := 0.6
		switch {
		case containsAny(lower, "item", "name", "product", "รายการ", "สินค้า"):
			standard, conf = constants.ColItemName, 0.95
		case containsAny(lower, "quantity", "qty", "จำนวน"):
			standard, conf = constants.ColQuantity, 0.95
		case containsAny(lower, "price", "unit price", "unit cost", "ราคา", "หน่วยละ"):
			standard, conf = constants.ColUnitPrice, 0.95
		case containsAny(lower, "amount", "total", "sum", "รวม", "เป็นเงิน"):
			standard, conf = constants.ColAmount, 0.95
		case containsAny(lower, "description", "desc", "notes", "หมายเหตุ"):
			standard, conf = constants.ColDescription, 0.90
		}

		mappings = append(mappings, ColumnMapping{
			Detected:   text,
			Standard:   standard,
			Confidence: conf,
		})
	}
	return mappings
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
