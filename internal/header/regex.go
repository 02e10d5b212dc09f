package header

import (
	"context"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
)

// anchorConfig describes how to find a field's value near anchor keywords.
type anchorConfig struct {
	anchors      []string
	valuePattern *regexp.Regexp
}

// RegexAnchorExtractor is stage 2: finds values near anchor keywords. More
// flexible than templates, handles variation in layout at the cost of a
// lower base confidence.
type RegexAnchorExtractor struct {
	proximityWindow int
	anchors         map[constants.FieldType]anchorConfig
}

// NewRegexAnchorExtractor builds the stage. proximityWindow is how many lines
// below an anchor are searched when the anchor line itself has no value.
func NewRegexAnchorExtractor(proximityWindow int) *RegexAnchorExtractor {
	if proximityWindow <= 0 {
		proximityWindow = 3
	}
	return &RegexAnchorExtractor{
		proximityWindow: proximityWindow,
		anchors: map[constants.FieldType]anchorConfig{
			constants.InvoiceNumber: {
				anchors:      []string{"invoice", "inv", "number", "no:", "no.", "#"},
				valuePattern: regexp.MustCompile(`([A-Z0-9\-/]+)`),
			},
			constants.InvoiceDate: {
				anchors:      []string{"date:", "dated:", "issued:", "date"},
				valuePattern: regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			},
			constants.VendorName: {
				anchors:      []string{"from:", "vendor:", "supplier:", "company:"},
				valuePattern: regexp.MustCompile(`([A-Za-z0-9\s&.,'-]+)`),
			},
			constants.TaxID: {
				anchors:      []string{"tax id", "vat no", "tin", "ein"},
				valuePattern: regexp.MustCompile(`([A-Z0-9\-/.]+)`),
			},
			constants.Subtotal: {
				anchors:      []string{"subtotal", "sub-total", "net"},
				valuePattern: regexp.MustCompile(`([0-9,.\s]+)`),
			},
			constants.VAT: {
				anchors:      []string{"vat", "tax", "gst"},
				valuePattern: regexp.MustCompile(`([0-9,.\s]+)`),
			},
			constants.TotalAmount: {
				anchors:      []string{"total", "grand total", "amount due"},
				valuePattern: regexp.MustCompile(`([0-9,.\s]+)`),
			},
		},
	}
}

// Stage identifies this extractor in the pipeline.
func (e *RegexAnchorExtractor) Stage() constants.Stage { return constants.StageRegex }

// Supports reports whether anchors exist for the field.
func (e *RegexAnchorExtractor) Supports(field constants.FieldType) bool {
	_, ok := e.anchors[field]
	return ok
}

// Extract scans every line for each field's anchors and keeps the best
// scoring candidate per field.
func (e *RegexAnchorExtractor) Extract(_ context.Context, lines []string, fields []constants.FieldType) []ExtractionResult {
	var results []ExtractionResult

	for _, ft := range fields {
		cfg, ok := e.anchors[ft]
		if !ok {
			continue
		}

		var best *ExtractionResult
		for lineIdx, line := range lines {
			lower := strings.ToLower(line)
			for _, anchor := range cfg.anchors {
				if !strings.Contains(lower, anchor) {
					continue
				}
				if r := e.extractAtAnchor(lines, lineIdx, anchor, cfg, ft); r != nil {
					if best == nil || r.Confidence > best.Confidence {
						best = r
					}
				}
			}
		}
		if best != nil {
			results = append(results, *best)
		}
	}
	return results
}

// extractAtAnchor pulls a value from the anchor line (after the anchor) or,
// failing that, from the lines below it with a distance-decayed base score.
func (e *RegexAnchorExtractor) extractAtAnchor(
	lines []string, anchorIdx int, anchor string, cfg anchorConfig, ft constants.FieldType,
) *ExtractionResult {
	var value string
	var matchIdx int
	var base float64

	anchorLine := lines[anchorIdx]
	pos := strings.Index(strings.ToLower(anchorLine), anchor)
	if pos >= 0 {
		after := anchorLine[pos+len(anchor):]
		if m := cfg.valuePattern.FindStringSubmatch(after); m != nil {
			value = strings.TrimSpace(m[1])
			base = 0.8
			matchIdx = anchorIdx
		}
	}

	if value == "" {
		for offset := 1; offset <= e.proximityWindow; offset++ {
			if anchorIdx+offset >= len(lines) {
				break
			}
			if m := cfg.valuePattern.FindStringSubmatch(lines[anchorIdx+offset]); m != nil {
				value = strings.TrimSpace(m[1])
				base = 0.7 - float64(offset)*0.1 // decay with distance
				matchIdx = anchorIdx + offset
				break
			}
		}
	}

	if value == "" {
		return nil
	}

	proximity := proximityScore(matchIdx, anchorIdx)
	quality := textQuality(value, ft)
	score := confidence.HeaderScore(base, value, proximity, quality)

	return &ExtractionResult{
		Field:      ft,
		Value:      value,
		Confidence: score,
		Source:     constants.SourceRegex,
		Stage:      constants.StageRegex,
		RawText:    lines[matchIdx],
		Evidence: map[string]any{
			"anchor":          anchor,
			"regex_score":     base,
			"proximity_score": proximity,
			"text_quality":    quality,
			"value_pattern":   cfg.valuePattern.String(),
		},
	}
}

// proximityScore rewards values on or near the anchor line.
func proximityScore(matchIdx, anchorIdx int) float64 {
	distance := matchIdx - anchorIdx
	if distance < 0 {
		distance = -distance
	}
	if distance == 0 {
		return 1.0
	}
	return max(0.1, 1.0-float64(distance)*0.15)
}

var dateShape = regexp.MustCompile(`\d+[/-]\d+[/-]\d+`)

// textQuality scores how well a value matches the shape its field expects.
func textQuality(value string, ft constants.FieldType) float64 {
	if value == "" {
		return 0.1
	}
	switch {
	case ft.IsNumeric():
		if strings.ContainsAny(value, "0123456789") {
			return 0.9
		}
		return 0.3
	case ft == constants.VendorName:
		if len(value) >= 3 {
			return 0.85
		}
		return 0.4
	case ft == constants.InvoiceDate:
		if dateShape.MatchString(value) {
			return 0.9
		}
		return 0.3
	}
	return 0.7
}
