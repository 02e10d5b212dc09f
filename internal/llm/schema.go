package llm

import "github.com/joseph-ayodele/invoice-pipeline/constants"

// BuildHeaderFieldsSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// We pass this to the provider as a structured output constraint and also use it locally to validate.
// Only the requested fields appear in the schema; none are required since the
// model is allowed to omit fields it cannot find.
func BuildHeaderFieldsSchema(fields []constants.FieldType) map[string]any {
	props := map[string]any{}
	for _, f := range fields {
		switch f {
		case constants.InvoiceDate:
			props[string(f)] = map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
		case constants.TaxID:
			props[string(f)] = map[string]any{"type": "string", "pattern": `^\d{13}$`}
		case constants.Subtotal, constants.VAT, constants.TotalAmount:
			props[string(f)] = decimalProp()
		default:
			props[string(f)] = map[string]any{"type": "string", "minLength": 1}
		}
	}
	props["confidence"] = map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{},
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d{1,2})?$`,
	}
}
