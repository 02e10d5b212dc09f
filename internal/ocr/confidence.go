package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b(20\d{2}|25\d{2})\b|\d{1,2}/\d{1,2}/\d{2,4}`)
	reCurr   = regexp.MustCompile(`\b(thb|usd|eur|baht)\b|[฿$€]|บาท`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
)

func hasDatePattern(s string) bool     { return reDate.MatchString(s) }
func hasCurrencyPattern(s string) bool { return reCurr.MatchString(s) }
func hasAmountPattern(s string) bool   { return reAmount.MatchString(s) }

// HeuristicConfidence estimates OCR quality from decoded text characteristics.
// Used as the document prior when the engine reports no per-line confidence.
// Invoice artifacts (date-ish, currency-ish, amount-ish) each add a bump.
func HeuristicConfidence(txt string) float64 {
	txtL := strings.ToLower(txt)
	score := 0.2 // base
	if hasDatePattern(txtL) {
		score += 0.2
	}
	if hasCurrencyPattern(txtL) {
		score += 0.15
	}
	if hasAmountPattern(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// DocumentConfidence averages per-line engine confidences when present and
// falls back to the text heuristic otherwise.
func DocumentConfidence(doc *Document) float64 {
	var sum float64
	var n int
	for _, l := range doc.Lines {
		if l.Confidence > 0 {
			sum += l.Confidence
			n++
		}
	}
	if n > 0 {
		return sum / float64(n)
	}
	return HeuristicConfidence(doc.FullText())
}
