package llm

import (
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// BuildSystemPrompt composes the system message with locale handling rules and
// strict-but-practical formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	defCur := strings.TrimSpace(req.DefaultCurrency)
	if defCur == "" {
		defCur = "THB"
	}

	parts := []string{
		"You are an invoice parser. Return ONLY JSON that matches the provided JSON Schema.",
		"Extract these fields when visible: " + strings.Join(FieldNames(req.Fields), ", ") + ".",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"Amounts are plain decimals without currency symbols or thousands separators; assume " + defCur + " if no currency is shown.",
		"tax_id is a 13-digit Thai tax identification number; strip spaces and dashes.",
		"Never output null. If a field is not present, omit it.",
	}

	if strings.EqualFold(req.Locale, "th") || req.Locale == "" {
		parts = append(parts,
			"Dates may use the Buddhist calendar (BE = CE + 543); convert the year to the Gregorian calendar.",
			"Thai digits (๐-๙) must be converted to Arabic digits.",
		)
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the OCR text for the model.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if req.DocumentID != "" {
		b.WriteString("Document: ")
		b.WriteString(req.DocumentID)
		b.WriteString("\n")
	}
	b.WriteString("OCR text:\n")
	b.WriteString(req.OCRText)
	return b.String()
}

// FieldNames flattens a field slice for logging.
func FieldNames(fields []constants.FieldType) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, string(f))
	}
	return out
}
