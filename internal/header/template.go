package header

import (
	"context"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/confidence"
)

// templatePattern is one label+value layout a structured invoice may use.
type templatePattern struct {
	re         *regexp.Regexp
	normalized bool
}

// TemplateExtractor is stage 1: predefined label patterns matched against the
// joined document text. Fastest and most reliable for structured layouts.
type TemplateExtractor struct {
	baseConfidence float64
	templates      map[constants.FieldType][]templatePattern
}

// NewTemplateExtractor builds the stage with the standard invoice templates.
func NewTemplateExtractor() *TemplateExtractor {
	return &TemplateExtractor{
		baseConfidence: 0.95,
		templates: map[constants.FieldType][]templatePattern{
			constants.InvoiceNumber: {
				{re: regexp.MustCompile(`(?im)invoice\s+(?:number|no\.?|#|number:)\s*[:\s]*([A-Z0-9\-/]+)`), normalized: true},
			},
			constants.InvoiceDate: {
				{re: regexp.MustCompile(`(?im)(?:invoice\s+date|date|dated|issued)\s*[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
			},
			constants.VendorName: {
				{re: regexp.MustCompile(`(?im)(?:from|vendor|supplier|company|by)\s*[:\s]*([A-Za-z0-9\s&.,'-]+?)(?:\n|$)`)},
			},
			constants.TaxID: {
				{re: regexp.MustCompile(`(?im)(?:tax\s+id|tax\s+no|vat\s+no|ein|itin|tin)\s*[:\s]*([A-Z0-9\-/]+)`), normalized: true},
			},
			constants.Subtotal: {
				{re: regexp.MustCompile(`(?im)(?:\bsubtotal\b|\bsub[\s-]?total\b|\bnet(?:\s+amount)?\b)\s*[:\s]*([0-9,.\s]+)`), normalized: true},
			},
			constants.VAT: {
				{re: regexp.MustCompile(`(?im)(?:\bvat\b|\btax\b|\bsales\s+tax\b|\bgst\b|\btva\b)\s*(?:\(.*?\)|[0-9]*%?)?\s*[:\s]*([0-9,.\s]+)`), normalized: true},
			},
			constants.TotalAmount: {
				// \b keeps "Subtotal" from satisfying the total label.
				{re: regexp.MustCompile(`(?im)(?:grand\s+total|total\s+amount|amount\s+due|\btotal\b)\s*[:\s]*([0-9,.\s]+)`), normalized: true},
			},
		},
	}
}

// Stage identifies this extractor in the pipeline.
func (e *TemplateExtractor) Stage() constants.Stage { return constants.StageTemplate }

// Supports reports whether a template exists for the field.
func (e *TemplateExtractor) Supports(field constants.FieldType) bool {
	_, ok := e.templates[field]
	return ok
}

// Extract matches each requested field's templates against the joined text
// and returns the best candidate per field.
func (e *TemplateExtractor) Extract(_ context.Context, lines []string, fields []constants.FieldType) []ExtractionResult {
	combined := strings.Join(lines, "\n")
	var results []ExtractionResult

	for _, ft := range fields {
		patterns, ok := e.templates[ft]
		if !ok {
			continue
		}

		var best *ExtractionResult
		for _, tpl := range patterns {
			m := tpl.re.FindStringSubmatchIndex(combined)
			if m == nil {
				continue
			}
			value := strings.TrimSpace(combined[m[2]:m[3]])
			if tpl.normalized {
				value = normalizeTemplateValue(value, ft)
			}
			score := confidence.HeaderScore(e.baseConfidence, value, 1.0, 1.0)
			if best == nil || score > best.Confidence {
				best = &ExtractionResult{
					Field:      ft,
					Value:      value,
					Confidence: score,
					Source:     constants.SourceTemplate,
					Stage:      constants.StageTemplate,
					RawText:    combined[m[0]:m[1]],
					Evidence: map[string]any{
						"pattern":             tpl.re.String(),
						"match_position":      m[0],
						"template_confidence": e.baseConfidence,
					},
				}
			}
		}
		if best != nil {
			results = append(results, *best)
		}
	}
	return results
}

// normalizeTemplateValue cleans a raw match without reinterpreting it; locale
// normalization happens later in the validation engine.
func normalizeTemplateValue(value string, ft constants.FieldType) string {
	value = strings.TrimSpace(value)
	switch {
	case ft.IsAmount():
		value = strings.TrimSpace(amountCleanup.ReplaceAllString(value, ""))
	case ft == constants.InvoiceNumber:
		value = strings.ToUpper(value)
	}
	return value
}

// amountCleanup strips currency symbols and whitespace, keeping digit
// grouping intact for the validation engine to disambiguate.
var amountCleanup = regexp.MustCompile(`[^\d.,]`)
