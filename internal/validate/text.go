package validate

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC normalization and collapses runs of whitespace.
// OCR output mixes full-width and half-width forms; NFKC folds them so that
// downstream matching sees one spelling.
func NormalizeText(value string) string {
	value = norm.NFKC.String(value)
	return strings.Join(strings.Fields(value), " ")
}
