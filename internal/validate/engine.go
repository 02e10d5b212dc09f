package validate

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
)

// FieldValue is an extracted field with its current confidence.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Result is the validation outcome for one field.
type Result struct {
	Field                constants.FieldType        `json:"field_name"`
	OriginalValue        string                     `json:"original_value"`
	NormalizedValue      string                     `json:"normalized_value,omitempty"`
	Status               constants.ValidationStatus `json:"status"`
	IsValid              bool                       `json:"is_valid"`
	ConfidenceAdjustment float64                    `json:"confidence_adjustment"`
	NeedsReview          bool                       `json:"needs_review"`
	ErrorMessage         string                     `json:"error_message,omitempty"`
	Evidence             map[string]any             `json:"evidence,omitempty"`
}

// Report aggregates the validations run over one document.
type Report struct {
	DocumentID                  string    `json:"document_id"`
	OverallValid                bool      `json:"overall_valid"`
	ValidationCount             int       `json:"validation_count"`
	ValidCount                  int       `json:"valid_count"`
	InvalidCount                int       `json:"invalid_count"`
	NeedsReviewCount            int       `json:"needs_review_count"`
	Results                     []Result  `json:"results"`
	OverallConfidenceAdjustment float64   `json:"overall_confidence_adjustment"`
	FieldsNeedingReview         []string  `json:"fields_needing_review"`
	Timestamp                   time.Time `json:"timestamp"`
}

// Suggestion is a proposed repair attached to the document.
type Suggestion struct {
	Reason    string     `json:"reason"`
	BestGuess Resolution `json:"best_guess"`
}

// DocumentResult is the validated document: the report, the updated fields
// (normalized values, adjusted confidences), repair suggestions, and any
// schema violations.
type DocumentResult struct {
	Report       *Report
	Fields       map[constants.FieldType]FieldValue
	Suggestions  []Suggestion
	SchemaErrors []string
}

// Engine orchestrates per-field validation and cross-field consistency.
type Engine struct {
	tolerance float64
	now       func() time.Time
	logger    *slog.Logger
}

func NewEngine(cfg common.ValidationConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	tol := cfg.AmountTolerance
	if tol <= 0 {
		tol = 0.05
	}
	return &Engine{tolerance: tol, now: time.Now, logger: logger}
}

// ValidateAndNormalizeField validates one field by its kind. The returned
// adjustment is the amount to subtract from the field's confidence.
func (e *Engine) ValidateAndNormalizeField(field constants.FieldType, value string) Result {
	result := Result{
		Field:         field,
		OriginalValue: value,
		IsValid:       true,
		Status:        constants.ValidationValid,
		Evidence:      map[string]any{},
	}

	if value == "" {
		result.IsValid = false
		result.Status = constants.ValidationInvalid
		result.ErrorMessage = "field is empty"
		result.ConfidenceAdjustment = 0.3
		result.NeedsReview = true
		return result
	}

	switch constants.ValidationKindFor(field) {
	case constants.KindDate:
		return e.validateDate(result, value)
	case constants.KindCurrency:
		return e.validateCurrency(result, value)
	case constants.KindTaxID:
		return e.validateTaxID(result, value)
	case constants.KindInteger:
		return e.validateInteger(result, value)
	default:
		result.NormalizedValue = NormalizeText(value)
		return result
	}
}

func (e *Engine) validateDate(result Result, value string) Result {
	normalized, parsed, parseConf, format, ok := NormalizeDate(value)
	result.Evidence["format_detected"] = format
	result.Evidence["parse_confidence"] = parseConf

	if !ok {
		result.NormalizedValue = value
		result.IsValid = false
		result.Status = constants.ValidationInvalid
		result.ErrorMessage = "could not parse date"
		result.ConfidenceAdjustment = 0.4
		result.NeedsReview = true
		return result
	}

	valid, valConf, errMsg := ValidateDate(parsed, e.now())
	result.Evidence["validation_confidence"] = valConf
	result.NormalizedValue = normalized
	result.IsValid = valid

	if valid {
		result.Status = constants.ValidationValid
		result.ConfidenceAdjustment = max(0, 1.0-parseConf)
	} else {
		result.Status = constants.ValidationInvalid
		result.ErrorMessage = errMsg
		result.ConfidenceAdjustment = 0.2
		result.NeedsReview = true
	}
	return result
}

func (e *Engine) validateCurrency(result Result, value string) Result {
	parsed, parseConf, ok := NormalizeCurrency(value)
	result.Evidence["parse_confidence"] = parseConf

	if !ok {
		result.NormalizedValue = value
		result.IsValid = false
		result.Status = constants.ValidationInvalid
		result.ErrorMessage = "could not parse currency"
		result.ConfidenceAdjustment = 0.3
		result.NeedsReview = true
		return result
	}

	result.NormalizedValue = strconv.FormatFloat(parsed, 'f', 2, 64)
	result.ConfidenceAdjustment = max(0, 1.0-parseConf)
	return result
}

func (e *Engine) validateTaxID(result Result, value string) Result {
	valid, valConf, errMsg := ValidateTaxID(value)
	result.Evidence["validation_confidence"] = valConf

	normalized := NormalizeTaxID(value)
	if len(normalized) == 13 {
		result.NormalizedValue = normalized
	} else {
		result.NormalizedValue = value
	}

	result.IsValid = valid
	if valid {
		result.Status = constants.ValidationValid
	} else {
		result.Status = constants.ValidationInvalid
		result.ErrorMessage = errMsg
		result.ConfidenceAdjustment = 0.3
		result.NeedsReview = true
	}
	return result
}

func (e *Engine) validateInteger(result Result, value string) Result {
	normalized := nonDigits.ReplaceAllString(value, "")
	parsed, err := strconv.Atoi(normalized)
	if err != nil {
		result.NormalizedValue = value
		result.IsValid = false
		result.Status = constants.ValidationInvalid
		result.ErrorMessage = "could not parse as integer"
		result.ConfidenceAdjustment = 0.2
		result.NeedsReview = true
		return result
	}
	result.NormalizedValue = strconv.Itoa(parsed)
	return result
}

// ValidateDocumentFields validates and normalizes every present field, checks
// the amount relationship, and optionally validates the normalized values
// against a JSON Schema.
func (e *Engine) ValidateDocumentFields(
	docID string,
	fields map[constants.FieldType]FieldValue,
	schema map[string]any,
) *DocumentResult {
	report := &Report{
		DocumentID:          docID,
		OverallValid:        true,
		FieldsNeedingReview: []string{},
		Timestamp:           e.now(),
	}
	updated := make(map[constants.FieldType]FieldValue, len(fields))

	for _, ft := range constants.AllFieldTypes() {
		fv, present := fields[ft]
		if !present {
			continue
		}

		result := e.ValidateAndNormalizeField(ft, fv.Value)
		report.Results = append(report.Results, result)
		report.ValidationCount++
		if result.IsValid {
			report.ValidCount++
		} else {
			report.InvalidCount++
		}
		if result.NeedsReview {
			report.NeedsReviewCount++
			report.FieldsNeedingReview = append(report.FieldsNeedingReview, string(ft))
		}

		newValue := fv.Value
		if result.NormalizedValue != "" {
			newValue = result.NormalizedValue
		}
		newConf := fv.Confidence
		if result.ConfidenceAdjustment > 0 {
			newConf = max(0, fv.Confidence-result.ConfidenceAdjustment)
		}
		updated[ft] = FieldValue{Value: newValue, Confidence: newConf}
	}

	out := &DocumentResult{Report: report, Fields: updated}

	// Cross-field amount relationship.
	subtotal := amountOf(updated, constants.Subtotal)
	vat := amountOf(updated, constants.VAT)
	total := amountOf(updated, constants.TotalAmount)

	if subtotal != nil && total != nil {
		valid, _, amountErrs := ValidateAmounts(subtotal, vat, total, e.tolerance)
		if !valid {
			report.InvalidCount++
			report.NeedsReviewCount++
			report.FieldsNeedingReview = append(report.FieldsNeedingReview, "amount_relationship")
			report.OverallConfidenceAdjustment += 0.1

			confidences := make(map[constants.FieldType]float64, len(updated))
			for ft, fv := range updated {
				confidences[ft] = fv.Confidence
			}
			v := 0.0
			if vat != nil {
				v = *vat
			}
			out.Suggestions = append(out.Suggestions, Suggestion{
				Reason:    "amount_mismatch",
				BestGuess: ResolveAmountMismatch(*subtotal, v, *total, confidences),
			})
			e.logger.Warn("validate.amount_mismatch",
				"document_id", docID, "errors", amountErrs)
		}
	}

	// Schema check over the normalized values.
	if schema != nil {
		values := make(map[string]any, len(updated))
		for ft, fv := range updated {
			values[string(ft)] = fv.Value
		}
		out.SchemaErrors = CheckSchema(values, schema)
		for range out.SchemaErrors {
			report.InvalidCount++
			report.NeedsReviewCount++
		}
	}

	report.OverallValid = report.InvalidCount == 0
	var adjSum float64
	for _, r := range report.Results {
		adjSum += r.ConfidenceAdjustment
	}
	if len(report.Results) > 0 {
		report.OverallConfidenceAdjustment += adjSum / float64(len(report.Results))
	}

	e.logger.Info("validate.document_done",
		"document_id", docID,
		"validated", report.ValidationCount,
		"invalid", report.InvalidCount,
		"needs_review", report.NeedsReviewCount,
	)
	return out
}

func amountOf(fields map[constants.FieldType]FieldValue, ft constants.FieldType) *float64 {
	fv, ok := fields[ft]
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(fv.Value, 64)
	if err != nil {
		return nil
	}
	return &v
}
